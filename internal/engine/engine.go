// Package engine is the deterministic core of the falling-words game:
// the word pool, spawner, input resolver, scoring ledger and escalation.
//
// An Engine is not safe for concurrent use. Hosts drive it from a single
// goroutine (see loop/server) and hand out Snapshots to other goroutines.
package engine

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/object"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

var (
	// ErrNotRunning is returned when input arrives outside a running game.
	ErrNotRunning = errors.New("engine: game is not running")
	// ErrEmptyInput is returned for blank input. It carries no penalty.
	ErrEmptyInput = errors.New("engine: empty input")
	// ErrInvalidTransition is returned for a state change the machine forbids.
	ErrInvalidTransition = errors.New("engine: invalid state transition")
)

// State is the game loop phase.
type State int

const (
	StateIdle    State = iota // Not started or reset
	StateRunning              // Words fall and input is accepted
	StatePaused               // Frozen, resumable
	StateOver                 // Terminal until Reset or Start
)

var stateNames = [...]string{"idle", "running", "paused", "over"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Vocabulary is the read-only word source.
type Vocabulary interface {
	All() []vocab.Entry
	ByDifficultyRange(lo, hi int) []vocab.Entry
}

// Columns picks the language-specific text of an entry.
type Columns interface {
	Word(e vocab.Entry) string
	Meaning(e vocab.Entry) string
	Sentence(e vocab.Entry) string
}

// Engine runs one game session.
type Engine struct {
	vocab   Vocabulary
	columns Columns
	mode    Mode
	tuning  Tuning
	level   int
	profile Profile
	rng     Rand
	clock   *GameClock
	screen  object.Screen
	logger  *log.Logger

	state     State
	session   SessionState
	pool      pool
	used      map[string]struct{}
	lastMs    int64
	endedAt   time.Duration
	listeners []Listener
}

// Option configures an Engine.
type Option func(*Engine)

// WithTuning replaces the default tuning. Callers validate it first.
func WithTuning(t Tuning) Option {
	return func(e *Engine) { e.tuning = t }
}

// WithDifficulty sets the session difficulty, clamped to 1..5.
func WithDifficulty(level int) Option {
	return func(e *Engine) { e.level = ClampDifficulty(level) }
}

// WithMode selects what the falling words display.
func WithMode(m Mode) Option {
	return func(e *Engine) { e.mode = m }
}

// WithRand injects the random source.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithTimeProvider injects the wall clock.
func WithTimeProvider(tp TimeProvider) Option {
	return func(e *Engine) { e.clock = NewGameClock(tp) }
}

// WithScreen overrides the logical playfield.
func WithScreen(s object.Screen) Option {
	return func(e *Engine) { e.screen = s }
}

// WithLogger sets the logger used for listener failures and diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an idle engine.
func New(v Vocabulary, c Columns, opts ...Option) *Engine {
	e := &Engine{
		vocab:   v,
		columns: c,
		mode:    ModeWord,
		tuning:  DefaultTuning(),
		level:   MinDifficulty,
		screen:  object.DefaultScreen,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRand(uint64(time.Now().UnixNano()))
	}
	if e.clock == nil {
		e.clock = NewGameClock(SystemTime)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.profile = e.tuning.Profiles.For(e.level)
	e.resetSession()
	return e
}

// Subscribe registers a listener. Listeners run synchronously, in
// registration order, and a panicking listener does not affect the engine.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

// State returns the current phase.
func (e *Engine) State() State { return e.state }

// Difficulty returns the session difficulty.
func (e *Engine) Difficulty() int { return e.level }

// Mode returns the display mode.
func (e *Engine) Mode() Mode { return e.mode }

// Profile returns the profile of the session difficulty.
func (e *Engine) Profile() Profile { return e.profile }

// Rules returns the session rules.
func (e *Engine) Rules() Rules { return e.tuning.Rules }

// Screen returns the logical playfield.
func (e *Engine) Screen() object.Screen { return e.screen }

// Start begins a fresh session from Idle or Over.
func (e *Engine) Start() error {
	if e.state != StateIdle && e.state != StateOver {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, e.state)
	}
	e.resetSession()
	e.state = StateRunning
	e.logger.Debug("session started", "difficulty", e.level, "mode", e.mode)
	return nil
}

// Pause freezes a running session.
func (e *Engine) Pause() error {
	if e.state != StateRunning {
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, e.state)
	}
	e.clock.Pause()
	e.state = StatePaused
	return nil
}

// Resume continues a paused session.
func (e *Engine) Resume() error {
	if e.state != StatePaused {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, e.state)
	}
	e.clock.Resume()
	e.state = StateRunning
	return nil
}

// Quit ends a running or paused session without a game-over event.
// The session is frozen and Result stays available.
func (e *Engine) Quit() error {
	if e.state != StateRunning && e.state != StatePaused {
		return fmt.Errorf("%w: quit from %s", ErrInvalidTransition, e.state)
	}
	e.freeze()
	return nil
}

// Reset discards the session and returns to Idle.
// Calling it repeatedly leaves the same state as calling it once.
func (e *Engine) Reset() {
	e.resetSession()
	e.state = StateIdle
}

func (e *Engine) resetSession() {
	e.session = newSessionState(e.tuning.Rules)
	e.pool.reset()
	e.used = make(map[string]struct{})
	e.lastMs = 0
	e.clock.Reset()
	e.endedAt = 0
}

func (e *Engine) freeze() {
	e.endedAt = e.clock.Elapsed()
	e.clock.Pause()
	e.state = StateOver
}

func (e *Engine) gameOver() {
	e.freeze()
	e.logger.Debug("game over", "score", e.session.Score, "correct", e.session.Correct)
	res := e.Result()
	e.emit(Event{Type: EventGameOver, Score: res.Score, Result: &res})
}

// Tick advances the simulation by delta. It is a no-op unless running.
// Words see a stable snapshot of the pool; removals apply at tick end.
func (e *Engine) Tick(delta time.Duration) {
	if e.state != StateRunning {
		return
	}
	e.expireFever()

	ctx := object.UpdateContext{Delta: delta, Screen: e.screen}
	for _, w := range e.pool.stable() {
		if w.IsDestroyed() {
			continue
		}
		if w.Update(ctx) {
			w.MarkDestroyed()
			e.miss(w)
			if e.state != StateRunning {
				break
			}
		}
	}
	e.pool.purge()
}

// Live returns the number of words on the playfield.
func (e *Engine) Live() int {
	return e.pool.live()
}

// CanSpawn reports whether the live-word cap leaves room for another word.
func (e *Engine) CanSpawn() bool {
	return e.state == StateRunning && e.pool.live() < e.profile.MaxWords
}

// Snapshot is an immutable view of the engine.
type Snapshot struct {
	State      State         `json:"state"`
	Difficulty int           `json:"difficulty"`
	Mode       Mode          `json:"mode"`
	Session    SessionState  `json:"session"`
	Words      []object.Word `json:"words"`
	FeverLeft  time.Duration `json:"fever_left"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		State:      e.state,
		Difficulty: e.level,
		Mode:       e.mode,
		Session:    e.session.clone(),
		Words:      e.pool.copies(),
		Elapsed:    e.elapsed(),
	}
	if e.session.FeverActive {
		s.FeverLeft = max(e.session.FeverEndsAt-e.clock.Elapsed(), 0)
	}
	return s
}

func (e *Engine) elapsed() time.Duration {
	if e.state == StateOver {
		return e.endedAt
	}
	if e.state == StateIdle {
		return 0
	}
	return e.clock.Elapsed()
}

// emit delivers ev to every listener, isolating panics.
func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		e.invoke(l, ev)
	}
}

func (e *Engine) invoke(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("listener failed", "event", ev.Type, "panic", r)
		}
	}()
	l(ev)
}
