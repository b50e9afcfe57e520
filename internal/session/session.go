// Package session records the scored actions of one run and checks that
// they are plausible before a score is accepted for the leaderboard.
package session

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
)

var (
	ErrNotEnded      = errors.New("session: not ended")
	ErrOutOfOrder    = errors.New("session: actions out of order")
	ErrTooFast       = errors.New("session: answers too close together")
	ErrScoreTooHigh  = errors.New("session: score exceeds the per-second bound")
	ErrScoreMismatch = errors.New("session: reported score does not match actions")
)

// Limits bound what a human player can plausibly do.
type Limits struct {
	MinAnswerGap      time.Duration
	MaxScorePerSecond int
	Tolerance         int
}

// DefaultLimits are the standard plausibility bounds.
var DefaultLimits = Limits{
	MinAnswerGap:      100 * time.Millisecond,
	MaxScorePerSecond: 100,
	Tolerance:         1,
}

// Session is the action log of one run. It is safe for concurrent use:
// the engine goroutine records while request handlers read.
type Session struct {
	ID         string
	Mode       engine.Mode
	Difficulty int

	mu      sync.Mutex
	tp      engine.TimeProvider
	start   time.Time
	end     time.Time
	actions []engine.Action
	score   int
}

// New opens a session starting now.
func New(mode engine.Mode, difficulty int, tp engine.TimeProvider) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Mode:       mode,
		Difficulty: difficulty,
		tp:         tp,
		start:      tp.Now(),
	}
}

// Listener returns an engine listener that records answer and typo actions.
func (s *Session) Listener() engine.Listener {
	return func(ev engine.Event) {
		if ev.Type == engine.EventAnswer && ev.Action != nil {
			s.Record(*ev.Action)
		}
	}
}

// Record appends an action and updates the running total.
func (s *Session) Record(a engine.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, a)
	s.score += a.Score - a.Penalty
}

// End closes the session. Ending twice keeps the first end time.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.end.IsZero() {
		s.end = s.tp.Now()
	}
}

// Score returns the total implied by the recorded actions.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Actions returns a copy of the action log.
func (s *Session) Actions() []engine.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.actions)
}

// Duration returns the time between start and end, or until now if still open.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durationLocked()
}

func (s *Session) durationLocked() time.Duration {
	end := s.end
	if end.IsZero() {
		end = s.tp.Now()
	}
	return end.Sub(s.start)
}

// Validate checks the log against DefaultLimits.
func (s *Session) Validate(reported int) error {
	return s.ValidateWith(reported, DefaultLimits)
}

// ValidateWith checks ordering, answer spacing, the per-second score
// bound and that reported matches the logged total.
func (s *Session) ValidateWith(reported int, lim Limits) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.end.IsZero() {
		return ErrNotEnded
	}
	seconds := s.durationLocked().Seconds()
	if float64(reported) > seconds*float64(lim.MaxScorePerSecond) {
		return fmt.Errorf("%w: %d points in %.1fs", ErrScoreTooHigh, reported, seconds)
	}

	last := s.start.UnixMilli()
	total := 0
	for i, a := range s.actions {
		if a.TimestampMs < last {
			return fmt.Errorf("%w: action %d", ErrOutOfOrder, i)
		}
		if a.Type == engine.ActionAnswer && a.TimestampMs-last < lim.MinAnswerGap.Milliseconds() {
			return fmt.Errorf("%w: action %d after %dms", ErrTooFast, i, a.TimestampMs-last)
		}
		total += a.Score - a.Penalty
		last = a.TimestampMs
	}

	if diff := total - reported; diff > lim.Tolerance || diff < -lim.Tolerance {
		return fmt.Errorf("%w: actions sum to %d, reported %d", ErrScoreMismatch, total, reported)
	}
	return nil
}
