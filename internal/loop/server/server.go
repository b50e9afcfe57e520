package server

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/config"
)

// ErrStopped is returned by calls made after the server stopped.
var ErrStopped = errors.New("server: stopped")

// GameServer is the interface clients use to drive one game.
// Decouples the terminal and websocket front ends from the concrete Server.
type GameServer interface {
	Start() error
	Pause() error
	Resume() error
	Quit() error
	Reset() error
	Submit(text string) (engine.Resolution, error)
	Result() (engine.Result, error)
	Snapshot() *engine.Snapshot
	Events() <-chan engine.Event
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// Server hosts one engine. All engine calls run on the Run goroutine;
// the tick and spawn tasks only post work to it.
type Server struct {
	eng        *engine.Engine
	logger     *log.Logger
	tickTime   time.Duration
	spawnEvery time.Duration

	snapshot atomic.Pointer[engine.Snapshot]
	paused   atomic.Bool
	dropped  atomic.Int64

	tickCh  chan time.Duration
	spawnCh chan struct{}
	execCh  chan func()
	events  chan engine.Event

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTickTime overrides the frame cadence.
func WithTickTime(d time.Duration) Option {
	return func(s *Server) { s.tickTime = d }
}

// WithEventBuffer sets the event channel capacity.
func WithEventBuffer(n int) Option {
	return func(s *Server) { s.events = make(chan engine.Event, n) }
}

// New wraps eng. The engine must not be used directly afterwards, and
// calls other than Snapshot block until Run is running.
func New(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		eng:      eng,
		tickTime: config.ServerTickTime,
		tickCh:   make(chan time.Duration, 1),
		spawnCh:  make(chan struct{}, 1),
		execCh:   make(chan func()),
		events:   make(chan engine.Event, config.EventBuffer),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.spawnEvery = eng.Profile().SpawnInterval
	eng.Subscribe(s.forward)
	s.publish()
	return s
}

// Run drives the engine until ctx is cancelled or Stop is called.
func (s *Server) Run(ctx context.Context) error {
	defer close(s.done)
	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error {
		select {
		case <-s.stop:
		case <-ctx.Done():
		}
		cancel()
		return nil
	})
	g.Go(func() error { return s.tickTask(ctx) })
	g.Go(func() error { return s.spawnTask(ctx) })
	g.Go(func() error { return s.loop(ctx) })

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// Stop ends Run. Safe to call more than once and before Run.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed once Run has returned.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// tickTask posts the wall time since the previous tick. While paused it keeps
// ticking but posts nothing, so resuming does not replay the pause as one frame.
func (s *Server) tickTask(ctx context.Context) error {
	ticker := time.NewTicker(s.tickTime)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			if s.paused.Load() {
				continue
			}
			select {
			case s.tickCh <- delta:
			default:
				// Loop still busy with the previous frame; fold into the next one.
				last = last.Add(-delta)
			}
		}
	}
}

// spawnTask posts a spawn request once per profile interval.
func (s *Server) spawnTask(ctx context.Context) error {
	ticker := time.NewTicker(s.spawnEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.paused.Load() {
				continue
			}
			select {
			case s.spawnCh <- struct{}{}:
			default:
			}
		}
	}
}

func (s *Server) loop(ctx context.Context) error {
	defer close(s.events)
	for {
		select {
		case <-ctx.Done():
			return nil
		case delta := <-s.tickCh:
			s.eng.Tick(delta)
			s.publish()
		case <-s.spawnCh:
			if s.eng.CanSpawn() {
				s.eng.Spawn()
				s.publish()
			}
		case fn := <-s.execCh:
			fn()
			s.paused.Store(s.eng.State() != engine.StateRunning)
			s.publish()
		}
	}
}

// do runs fn on the Run goroutine and waits for it.
func (s *Server) do(fn func()) error {
	ran := make(chan struct{})
	select {
	case s.execCh <- func() { fn(); close(ran) }:
	case <-s.stop:
		return ErrStopped
	case <-s.done:
		return ErrStopped
	}
	<-ran
	return nil
}

func (s *Server) call(fn func() error) error {
	var err error
	if stopErr := s.do(func() { err = fn() }); stopErr != nil {
		return stopErr
	}
	return err
}

func (s *Server) Start() error  { return s.call(s.eng.Start) }
func (s *Server) Pause() error  { return s.call(s.eng.Pause) }
func (s *Server) Resume() error { return s.call(s.eng.Resume) }
func (s *Server) Quit() error   { return s.call(s.eng.Quit) }

// Reset returns the engine to Idle.
func (s *Server) Reset() error {
	return s.do(s.eng.Reset)
}

// TogglePause pauses a running game or resumes a paused one.
func (s *Server) TogglePause() error {
	return s.call(func() error {
		if s.eng.State() == engine.StatePaused {
			return s.eng.Resume()
		}
		return s.eng.Pause()
	})
}

// Submit resolves one line of player input.
func (s *Server) Submit(text string) (engine.Resolution, error) {
	var res engine.Resolution
	err := s.call(func() error {
		var err error
		res, err = s.eng.Submit(text)
		return err
	})
	return res, err
}

// Result summarizes the current or most recent game.
func (s *Server) Result() (engine.Result, error) {
	var res engine.Result
	err := s.do(func() { res = s.eng.Result() })
	return res, err
}

// Snapshot returns the most recently published engine state.
func (s *Server) Snapshot() *engine.Snapshot {
	return s.snapshot.Load()
}

// Events delivers engine events. It is closed when Run returns.
func (s *Server) Events() <-chan engine.Event {
	return s.events
}

// Dropped counts events discarded because the consumer fell behind.
func (s *Server) Dropped() int64 {
	return s.dropped.Load()
}

func (s *Server) publish() {
	snap := s.eng.Snapshot()
	s.snapshot.Store(&snap)
}

// forward never blocks the engine; a slow consumer loses events instead.
func (s *Server) forward(ev engine.Event) {
	select {
	case s.events <- ev:
	default:
		if s.dropped.Add(1) == 1 {
			s.logger.Warn("event consumer falling behind", "event", ev.Type)
		}
	}
}
