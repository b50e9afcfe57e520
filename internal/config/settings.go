package config

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

// Settings are the process-wide options read from the environment.
type Settings struct {
	WordsCSV        string // Empty selects the embedded word list
	Language        string
	Mode            string
	Difficulty      int
	TuningFile      string // Optional YAML overrides
	LeaderboardFile string // Empty keeps rankings in memory
	SessionSecret   string // HMAC key for session tokens
	LogLevel        string
	Audio           bool
}

// FromEnv reads Settings from the environment.
func FromEnv() Settings {
	return Settings{
		WordsCSV:        GetEnv("WORDS_CSV", ""),
		Language:        GetEnv("LANGUAGE", "en"),
		Mode:            GetEnv("MODE", engine.ModeWord.String()),
		Difficulty:      GetEnvInt("DIFFICULTY", 1),
		TuningFile:      GetEnv("TUNING_FILE", ""),
		LeaderboardFile: GetEnv("LEADERBOARD_FILE", "rankings.json"),
		SessionSecret:   GetEnv("SESSION_SECRET", ""),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		Audio:           GetEnvBool("AUDIO", true),
	}
}

// Vocabulary loads the configured word list.
func (s Settings) Vocabulary() (*vocab.Store, error) {
	if s.WordsCSV == "" {
		return vocab.Default()
	}
	return vocab.LoadFile(s.WordsCSV)
}

// Tuning loads the configured tuning, or the defaults when no file is set.
func (s Settings) Tuning() (engine.Tuning, error) {
	if s.TuningFile == "" {
		return engine.DefaultTuning(), nil
	}
	return LoadTuning(s.TuningFile)
}

// NewLogger builds the process logger at the configured level.
func (s Settings) NewLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", s.LogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// Secret returns the session signing key, generating an ephemeral one
// when none is configured.
func (s Settings) Secret() ([]byte, error) {
	if s.SessionSecret != "" {
		return []byte(s.SessionSecret), nil
	}
	key, err := randomKey()
	if err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	return key, nil
}

func randomKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
