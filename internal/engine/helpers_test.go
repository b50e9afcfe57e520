package engine

import (
	"fmt"
	"time"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/object"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

var testEpoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// makeEntries builds n entries at one difficulty with answers word1..wordN.
func makeEntries(n, difficulty int) []vocab.Entry {
	out := make([]vocab.Entry, n)
	for i := range out {
		out[i] = vocab.Entry{
			ID:         fmt.Sprintf("e%d", i+1),
			Difficulty: difficulty,
			Fields: map[string]string{
				"word_en":    fmt.Sprintf("word%d", i+1),
				"meaning_en": fmt.Sprintf("meaning%d", i+1),
			},
		}
	}
	return out
}

// quietTuning disables item rolls and reaction bonuses and fixes the base score.
func quietTuning(base int) Tuning {
	t := DefaultTuning()
	for i := range t.Profiles {
		t.Profiles[i].Items = ItemWeights{}
		t.Profiles[i].ScoreMin = base
		t.Profiles[i].ScoreMax = base
	}
	t.Rules.ReactionTiers = nil
	return t
}

func withItems(t Tuning, w ItemWeights) Tuning {
	for i := range t.Profiles {
		t.Profiles[i].Items = w
	}
	return t
}

func newTestEngine(entries []vocab.Entry, opts ...Option) (*Engine, *ManualTime) {
	lang, err := vocab.NewLanguage("en")
	if err != nil {
		panic(err)
	}
	mt := NewManualTime(testEpoch)
	base := []Option{
		WithRand(NewRand(7)),
		WithTimeProvider(mt),
		WithDifficulty(3),
		WithTuning(quietTuning(10)),
	}
	return New(vocab.NewStore(entries), lang, append(base, opts...)...), mt
}

// eventLog records every event it receives.
type eventLog struct {
	events []Event
}

func (l *eventLog) listen(ev Event) {
	l.events = append(l.events, ev)
}

func (l *eventLog) count(t EventType) int {
	n := 0
	for _, ev := range l.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (l *eventLog) of(t EventType) []Event {
	var out []Event
	for _, ev := range l.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// spawnAll spawns until the vocabulary is exhausted.
func spawnAll(e *Engine) []object.Word {
	var out []object.Word
	for {
		w, ok := e.Spawn()
		if !ok {
			return out
		}
		out = append(out, w)
	}
}

// mustSubmit submits text and panics on unexpected errors.
func mustSubmit(e *Engine, text string) Resolution {
	r, err := e.Submit(text)
	if err != nil {
		panic(err)
	}
	return r
}
