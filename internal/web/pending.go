package web

import (
	"sync"
	"time"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
)

// pendingTTL matches the session token lifetime issued by cmd/web.
const pendingTTL = 30 * time.Minute

type pendingRun struct {
	result engine.Result
	at     time.Time
}

// pendingRuns holds finished websocket runs until the player saves them.
// A run can be taken once.
type pendingRuns struct {
	mu   sync.Mutex
	tp   engine.TimeProvider
	ttl  time.Duration
	runs map[string]pendingRun
}

func newPendingRuns(tp engine.TimeProvider, ttl time.Duration) *pendingRuns {
	return &pendingRuns{tp: tp, ttl: ttl, runs: make(map[string]pendingRun)}
}

func (p *pendingRuns) put(id string, res engine.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pruneLocked()
	p.runs[id] = pendingRun{result: res, at: p.tp.Now()}
}

func (p *pendingRuns) take(id string) (engine.Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pruneLocked()
	run, ok := p.runs[id]
	if ok {
		delete(p.runs, id)
	}
	return run.result, ok
}

func (p *pendingRuns) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.runs)
}

func (p *pendingRuns) pruneLocked() {
	cutoff := p.tp.Now().Add(-p.ttl)
	for id, run := range p.runs {
		if run.at.Before(cutoff) {
			delete(p.runs, id)
		}
	}
}
