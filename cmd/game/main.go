package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/audio"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/config"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/leaderboard"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/client"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/session"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

func main() {
	settings := config.FromEnv()
	name := flag.String("name", os.Getenv("USER"), "player name shown on the leaderboard")
	flag.StringVar(&settings.Language, "lang", settings.Language, "language code (ko, en, jp)")
	flag.StringVar(&settings.Mode, "mode", settings.Mode, "game mode (word, meaning, sentence)")
	flag.IntVar(&settings.Difficulty, "difficulty", settings.Difficulty, "starting difficulty 1..5")
	flag.BoolVar(&settings.Audio, "audio", settings.Audio, "play sound effects")
	flag.Parse()

	if err := run(settings, *name); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(settings config.Settings, name string) error {
	logger := settings.NewLogger("game")

	words, err := settings.Vocabulary()
	if err != nil {
		return fmt.Errorf("load vocabulary: %w", err)
	}
	tuning, err := settings.Tuning()
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	mode, err := engine.ParseMode(settings.Mode)
	if err != nil {
		return err
	}
	lang, err := vocab.NewLanguage(settings.Language)
	if err != nil {
		return err
	}
	board, err := leaderboard.Open(settings.LeaderboardFile)
	if err != nil {
		return err
	}
	secret, err := settings.Secret()
	if err != nil {
		return err
	}

	var sound *audio.SoundManager
	if settings.Audio {
		sound = audio.NewSoundManager()
		if err := sound.Initialize(); err != nil {
			logger.Warn("audio unavailable, playing silently", "err", err)
		}
		defer sound.Cleanup()
	}

	// Log lines would tear the raw-mode screen.
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.Discard)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.NewClient(bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username:    name,
		Vocabulary:  words,
		Language:    lang,
		Tuning:      tuning,
		Difficulty:  settings.Difficulty,
		Mode:        mode,
		Leaderboard: board,
		Signer:      session.NewSigner(secret, engine.SystemTime, time.Hour),
		Sound:       sound,
		Logger:      logger,
	})
	return c.Run(ctx)
}
