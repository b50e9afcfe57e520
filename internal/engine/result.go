package engine

import (
	"math"
	"time"
)

// Result is the end-of-run summary handed to the UI and score store.
type Result struct {
	Score        int                `json:"score"`
	MaxCombo     int                `json:"max_combo"`
	TotalSpawned int                `json:"total_spawned"`
	Correct      int                `json:"correct"`
	Wrong        int                `json:"wrong"`
	Missed       int                `json:"missed"`
	Accuracy     int                `json:"accuracy"`
	SpeedLevel   int                `json:"speed_level"`
	Completed    []CompletionRecord `json:"completed"`
	Mode         Mode               `json:"mode"`
	Difficulty   int                `json:"difficulty"`
	Duration     time.Duration      `json:"duration"`
}

// Result summarizes the current or most recent session.
func (e *Engine) Result() Result {
	s := e.session.clone()
	return Result{
		Score:        s.Score,
		MaxCombo:     s.MaxCombo,
		TotalSpawned: s.TotalSpawned,
		Correct:      s.Correct,
		Wrong:        s.Wrong,
		Missed:       s.Missed,
		Accuracy:     Accuracy(s.Correct, s.TotalSpawned),
		SpeedLevel:   s.SpeedLevel,
		Completed:    s.Completed,
		Mode:         e.mode,
		Difficulty:   e.level,
		Duration:     e.elapsed(),
	}
}

// Accuracy returns correct/spawned as a rounded percentage, 0 when nothing spawned.
func Accuracy(correct, spawned int) int {
	if spawned <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(spawned) * 100))
}
