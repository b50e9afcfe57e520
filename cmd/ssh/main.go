package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/config"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/draw"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/leaderboard"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/client"
	loopconfig "github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/config"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/server"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/session"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// arcade holds what every SSH session shares: the word list, the
// leaderboard and the token signer. Each session runs its own engine.
type arcade struct {
	settings config.Settings
	words    *vocab.Store
	tuning   engine.Tuning
	mode     engine.Mode
	board    *leaderboard.Store
	signer   *session.Signer
	registry *server.Registry
	logger   *log.Logger
}

func main() {
	settings := config.FromEnv()
	logger := settings.NewLogger("ssh")
	if err := run(settings, logger); err != nil {
		logger.Fatal("ssh server failed", "err", err)
	}
}

func run(settings config.Settings, logger *log.Logger) error {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config", "host", host, "port", port, "host_key", hostKeyPath, "working_dir", workingDir)

	a, err := newArcade(settings, logger)
	if err != nil {
		return err
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting ssh server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server", "players", a.registry.Len())

		// Show the shutdown screen and wait for players to leave.
		a.registry.Shutdown(time.Duration(loopconfig.ShutdownDisplaySeconds+5) * time.Second)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newArcade(settings config.Settings, logger *log.Logger) (*arcade, error) {
	words, err := settings.Vocabulary()
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	tuning, err := settings.Tuning()
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}
	mode, err := engine.ParseMode(settings.Mode)
	if err != nil {
		return nil, err
	}
	if _, err := vocab.NewLanguage(settings.Language); err != nil {
		return nil, err
	}
	board, err := leaderboard.Open(settings.LeaderboardFile)
	if err != nil {
		return nil, err
	}
	secret, err := settings.Secret()
	if err != nil {
		return nil, err
	}
	logger.Info("arcade ready", "words", words.Len(), "records", board.Len())
	return &arcade{
		settings: settings,
		words:    words,
		tuning:   tuning,
		mode:     mode,
		board:    board,
		signer:   session.NewSigner(secret, engine.SystemTime, time.Hour),
		registry: server.NewRegistry(),
		logger:   logger,
	}, nil
}

// gameMiddleware handles SSH sessions and runs the game client.
func (a *arcade) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := a.logger.With("user", sess.User())
		logger.Info("new game session", "terminal", pty.Term, "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		id, shutdown := a.registry.Register()
		defer a.registry.Unregister(id)

		// Sessions cycle languages independently.
		lang, _ := vocab.NewLanguage(a.settings.Language)

		c := client.NewClient(bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Vocabulary:   a.words,
			Language:     lang,
			Tuning:       a.tuning,
			Difficulty:   a.settings.Difficulty,
			Mode:         a.mode,
			Leaderboard:  a.board,
			Signer:       a.signer,
			Shutdown:     shutdown,
			Logger:       logger,
		})
		if err := c.Run(sess.Context()); err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
