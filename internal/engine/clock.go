package engine

import (
	"sync"
	"time"
)

// TimeProvider supplies wall-clock time.
type TimeProvider interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }

// SystemTime reads the real clock.
var SystemTime TimeProvider = systemTime{}

// ManualTime is a TimeProvider moved by hand, for tests and replays.
type ManualTime struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualTime starts a manual clock at t.
func NewManualTime(t time.Time) *ManualTime {
	return &ManualTime{now: t}
}

// Now returns the current manual time.
func (m *ManualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set jumps to t.
func (m *ManualTime) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *ManualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// GameClock measures session time with paused spans excluded.
// Reaction bonuses and fever expiry read game time; anti-fraud
// timestamps read wall time.
type GameClock struct {
	tp          TimeProvider
	start       time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
	paused      bool
}

// NewGameClock creates a clock over tp, started now.
func NewGameClock(tp TimeProvider) *GameClock {
	c := &GameClock{tp: tp}
	c.Reset()
	return c
}

// Reset restarts game time at zero, unpaused.
func (c *GameClock) Reset() {
	c.start = c.tp.Now()
	c.pausedTotal = 0
	c.paused = false
}

// Elapsed returns game time since the last Reset.
func (c *GameClock) Elapsed() time.Duration {
	now := c.tp.Now()
	if c.paused {
		now = c.pausedAt
	}
	return now.Sub(c.start) - c.pausedTotal
}

// Wall returns the current wall-clock time.
func (c *GameClock) Wall() time.Time {
	return c.tp.Now()
}

// Pause freezes game time. Pausing twice is a no-op.
func (c *GameClock) Pause() {
	if c.paused {
		return
	}
	c.paused = true
	c.pausedAt = c.tp.Now()
}

// Resume unfreezes game time.
func (c *GameClock) Resume() {
	if !c.paused {
		return
	}
	c.pausedTotal += c.tp.Now().Sub(c.pausedAt)
	c.paused = false
}

// IsPaused reports whether game time is frozen.
func (c *GameClock) IsPaused() bool {
	return c.paused
}
