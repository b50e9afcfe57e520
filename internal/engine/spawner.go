package engine

import (
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/object"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

// Spawn places a new word on the playfield.
// It returns false when the game is not running or every entry has been
// used; exhaustion is not an error and the round simply continues.
func (e *Engine) Spawn() (object.Word, bool) {
	if e.state != StateRunning {
		return object.Word{}, false
	}
	entry, ok := e.pickEntry()
	if !ok {
		e.logger.Debug("vocabulary exhausted", "used", len(e.used))
		return object.Word{}, false
	}
	e.used[entry.ID] = struct{}{}
	e.session.TotalSpawned++

	display, answer, meaning := e.mode.texts(e.columns, entry)
	rules := e.tuning.Rules
	speed := (e.profile.BaseFallSpeed + float64(entry.Difficulty)*rules.EntrySpeedPerLevel) *
		(1 + float64(e.session.SpeedLevel-1)*rules.SpeedRampFactor)

	width := object.TextWidth(display)
	span := float64(e.screen.Width) - width - 2*object.SideMargin
	x := object.SideMargin + e.rng.Float64()*max(span, 0)

	w := e.pool.add(&object.Word{
		EntryID:    entry.ID,
		Display:    display,
		Answer:     answer,
		Meaning:    meaning,
		Key:        Normalize(answer),
		Difficulty: entry.Difficulty,
		X:          e.screen.ClampX(x, width),
		Y:          object.SpawnY,
		Speed:      speed,
		Kind:       e.profile.RollItem(e.rng),
		SpawnedAt:  e.clock.Elapsed(),
	})

	spawned := *w
	e.emit(Event{Type: EventSpawned, Word: &spawned})
	return spawned, true
}

// pickEntry draws an unused entry near the session difficulty,
// falling back to any unused entry.
func (e *Engine) pickEntry() (vocab.Entry, bool) {
	lo := max(MinDifficulty, e.level-1)
	hi := min(MaxDifficulty, e.level+1)
	if c := e.unused(e.vocab.ByDifficultyRange(lo, hi)); len(c) > 0 {
		return c[e.rng.IntN(len(c))], true
	}
	if c := e.unused(e.vocab.All()); len(c) > 0 {
		return c[e.rng.IntN(len(c))], true
	}
	return vocab.Entry{}, false
}

// unused filters out spent entries and entries with no answer in the
// current language.
func (e *Engine) unused(entries []vocab.Entry) []vocab.Entry {
	out := entries[:0:0]
	for _, en := range entries {
		if _, spent := e.used[en.ID]; spent {
			continue
		}
		if e.columns.Word(en) == "" {
			continue
		}
		out = append(out, en)
	}
	return out
}
