package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/config"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/leaderboard"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/server"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/session"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
	tokenTTL    = 30 * time.Minute
)

func main() {
	settings := config.FromEnv()
	logger := settings.NewLogger("web")
	if err := run(settings, logger); err != nil {
		logger.Fatal("web server failed", "err", err)
	}
}

func run(settings config.Settings, logger *log.Logger) error {
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	words, err := settings.Vocabulary()
	if err != nil {
		return fmt.Errorf("load vocabulary: %w", err)
	}
	tuning, err := settings.Tuning()
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	board, err := leaderboard.Open(settings.LeaderboardFile)
	if err != nil {
		return err
	}
	secret, err := settings.Secret()
	if err != nil {
		return err
	}

	registry := server.NewRegistry()
	h := web.New(web.Options{
		Vocabulary:      words,
		Tuning:          tuning,
		Leaderboard:     board,
		Signer:          session.NewSigner(secret, engine.SystemTime, tokenTTL),
		Registry:        registry,
		Logger:          logger,
		SSHHost:         sshHost,
		InsecureOrigins: config.GetEnvBool("WEB_INSECURE_ORIGINS", false),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting web server", "url", "http://"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server", "players", registry.Len())
		registry.Shutdown(5 * time.Second)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
