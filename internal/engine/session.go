package engine

import (
	"slices"
	"time"
)

// SessionState is the scoring and escalation state of one run.
type SessionState struct {
	Score             int                `json:"score"`
	Combo             int                `json:"combo"`
	MaxCombo          int                `json:"max_combo"`
	Multiplier        float64            `json:"multiplier"`
	Life              int                `json:"life"`
	SpeedLevel        int                `json:"speed_level"`
	WordsUntilSpeedUp int                `json:"words_until_speed_up"`
	FeverActive       bool               `json:"fever_active"`
	FeverEndsAt       time.Duration      `json:"-"`
	TotalSpawned      int                `json:"total_spawned"`
	Correct           int                `json:"correct"`
	Wrong             int                `json:"wrong"`
	Missed            int                `json:"missed"`
	Completed         []CompletionRecord `json:"completed,omitempty"`
}

func newSessionState(r Rules) SessionState {
	return SessionState{
		Multiplier:        1.0,
		Life:              r.InitialLife,
		SpeedLevel:        1,
		WordsUntilSpeedUp: r.WordsPerSpeedUp,
	}
}

// clone returns a copy that shares nothing with s.
func (s SessionState) clone() SessionState {
	s.Completed = slices.Clone(s.Completed)
	return s
}

// addScore applies delta, flooring the total at zero.
// Returns the change actually applied.
func (s *SessionState) addScore(delta int) int {
	before := s.Score
	s.Score = max(s.Score+delta, 0)
	return s.Score - before
}

// breakCombo resets the combo chain and its multiplier.
func (s *SessionState) breakCombo() {
	s.Combo = 0
	s.Multiplier = 1.0
}
