package engine

import (
	"math"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/object"
)

// award scores a matched word and runs escalation. Returns the applied delta.
func (e *Engine) award(w *object.Word) int {
	s := &e.session
	rules := e.tuning.Rules

	s.Correct++
	s.Combo++
	s.MaxCombo = max(s.MaxCombo, s.Combo)

	if s.Combo%rules.ComboStep == 0 {
		s.Multiplier = math.Pow(rules.ComboMultiplierBase, float64(s.Combo/rules.ComboStep))
	}
	if m, ok := milestoneFor(s.Combo, rules.ComboStep, s.Multiplier); ok {
		e.emit(Event{Type: EventComboMilestone, Combo: s.Combo, Milestone: &m})
	}
	if !s.FeverActive && s.Combo >= rules.FeverThreshold && s.Combo%rules.FeverThreshold == 0 {
		e.startFever()
	}

	reaction := e.clock.Elapsed() - w.SpawnedAt
	var delta int
	switch {
	case w.Kind == object.ItemBomb:
		delta = -rules.BombPenalty
	case s.FeverActive:
		delta = rules.FeverBonus
	default:
		base := e.tuning.Profiles.For(w.Difficulty).DrawScore(e.rng)
		if w.IsGolden() {
			base *= 2
		}
		delta = int(math.Round(float64(base)*s.Multiplier)) + rules.reactionBonus(reaction)
	}
	if s.Correct%rules.CorrectMilestone == 0 {
		delta += rules.CorrectMilestoneBonus
	}
	applied := s.addScore(delta)

	if w.Kind == object.ItemLife && s.Life < rules.MaxLife {
		s.Life++
		e.emit(Event{Type: EventLifeChanged, Life: s.Life})
	}

	s.WordsUntilSpeedUp--
	if s.WordsUntilSpeedUp <= 0 {
		s.SpeedLevel++
		s.WordsUntilSpeedUp = rules.WordsPerSpeedUp
		e.pool.accelerate(1 + rules.SpeedRampFactor)
		e.emit(Event{Type: EventSpeedUp, Level: s.SpeedLevel})
	}

	rec := CompletionRecord{
		Answer:     w.Answer,
		Meaning:    w.Meaning,
		Display:    w.Display,
		Kind:       w.Kind,
		Golden:     w.IsGolden(),
		ScoreDelta: applied,
		Reaction:   reaction,
	}
	s.Completed = append(s.Completed, rec)

	e.record(ActionAnswer, applied)
	e.emit(Event{Type: EventWordCompleted, Record: &rec})
	e.emit(Event{Type: EventScoreUpdate, Score: s.Score, Combo: s.Combo})
	return applied
}

func (e *Engine) startFever() {
	s := &e.session
	s.FeverActive = true
	s.FeverEndsAt = e.clock.Elapsed() + e.tuning.Rules.FeverDuration
	e.emit(Event{Type: EventFeverStart, Combo: s.Combo})
}

// expireFever closes the fever window once its duration has passed.
func (e *Engine) expireFever() {
	s := &e.session
	if s.FeverActive && e.clock.Elapsed() >= s.FeverEndsAt {
		s.FeverActive = false
		e.emit(Event{Type: EventFeverEnd, Combo: s.Combo})
	}
}
