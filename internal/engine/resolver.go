package engine

import (
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/object"
)

// Resolution is the outcome of one submitted input.
type Resolution struct {
	Matched bool
	Word    object.Word // Zero unless Matched
	Delta   int         // Score change actually applied
}

// Submit resolves typed text against the live words.
//
// Blank input returns ErrEmptyInput and input outside a running game
// returns ErrNotRunning; neither changes any state. Input that matches
// nothing is a typo and is penalized according to Rules.Typo. When
// several live words share the answer, the one closest to the floor wins.
func (e *Engine) Submit(text string) (Resolution, error) {
	key := Normalize(text)
	if key == "" {
		return Resolution{}, ErrEmptyInput
	}
	if e.state != StateRunning {
		return Resolution{}, ErrNotRunning
	}
	e.expireFever()

	w := e.pool.match(key)
	if w == nil {
		delta := e.typo(text)
		return Resolution{Delta: delta}, nil
	}

	w.MarkDestroyed()
	delta := e.award(w)
	return Resolution{Matched: true, Word: *w, Delta: delta}, nil
}

// typo applies the mistyped-input penalty and returns the score change.
func (e *Engine) typo(text string) int {
	s := &e.session
	rules := e.tuning.Rules
	s.Wrong++
	s.breakCombo()

	applied := 0
	switch rules.Typo {
	case TypoDeductScore:
		applied = s.addScore(-rules.TypoPenalty)
		if applied != 0 {
			e.record(ActionTypo, applied)
		}
	default:
		s.Life--
	}

	e.emit(Event{Type: EventTypo, Input: text, Score: s.Score})
	if rules.Typo == TypoLoseLife {
		e.emit(Event{Type: EventLifeChanged, Life: s.Life})
	}
	e.emit(Event{Type: EventScoreUpdate, Score: s.Score, Combo: s.Combo})
	if s.Life <= 0 {
		e.gameOver()
	}
	return applied
}

// miss handles a word that fell through the floor.
func (e *Engine) miss(w *object.Word) {
	s := &e.session
	s.Missed++
	s.breakCombo()
	s.Life--

	rec := CompletionRecord{
		Answer:  w.Answer,
		Meaning: w.Meaning,
		Display: w.Display,
		Kind:    w.Kind,
		Golden:  w.IsGolden(),
		Missed:  true,
	}
	s.Completed = append(s.Completed, rec)

	e.emit(Event{Type: EventWordCompleted, Record: &rec})
	e.emit(Event{Type: EventLifeChanged, Life: s.Life})
	e.emit(Event{Type: EventScoreUpdate, Score: s.Score, Combo: s.Combo})
	if s.Life <= 0 {
		e.gameOver()
	}
}

// record appends an action with a strictly increasing wall-clock stamp.
func (e *Engine) record(kind string, applied int) Action {
	ms := e.clock.Wall().UnixMilli()
	if ms <= e.lastMs {
		ms = e.lastMs + 1
	}
	e.lastMs = ms

	a := Action{Type: kind, TimestampMs: ms}
	if applied >= 0 {
		a.Score = applied
	} else {
		a.Penalty = -applied
	}
	e.emit(Event{Type: EventAnswer, Action: &a})
	return a
}
