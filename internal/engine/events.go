package engine

import (
	"fmt"
	"time"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/object"
)

// EventType identifies the kind of engine event.
type EventType int

const (
	EventScoreUpdate    EventType = iota // Score or combo changed
	EventComboMilestone                  // Combo hit a milestone
	EventLifeChanged                     // Life gained or lost
	EventWordCompleted                   // A word was matched or missed
	EventSpeedUp                         // Speed level increased
	EventGameOver                        // Life reached zero
	EventFeverStart                      // Fever window opened
	EventFeverEnd                        // Fever window closed
	EventTypo                            // Input matched nothing
	EventSpawned                         // A word entered the playfield
	EventAnswer                          // Scored action for the session recorder
)

var eventTypeNames = [...]string{
	"score", "combo", "life", "completed", "speed_up",
	"game_over", "fever_start", "fever_end", "typo", "spawned", "answer",
}

// String returns a short lowercase name.
func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventTypeNames) {
		return fmt.Sprintf("EventType(%d)", int(t))
	}
	return eventTypeNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is a tagged notification. Only the fields relevant to Type are set.
type Event struct {
	Type      EventType         `json:"type"`
	Score     int               `json:"score"`
	Combo     int               `json:"combo"`
	Life      int               `json:"life,omitempty"`
	Level     int               `json:"level,omitempty"`
	Milestone *Milestone        `json:"milestone,omitempty"`
	Record    *CompletionRecord `json:"record,omitempty"`
	Word      *object.Word      `json:"word,omitempty"`
	Action    *Action           `json:"action,omitempty"`
	Result    *Result           `json:"result,omitempty"`
	Input     string            `json:"input,omitempty"`
}

// Listener receives engine events synchronously.
type Listener func(Event)

// Milestone describes a combo milestone effect.
type Milestone struct {
	Combo      int     `json:"combo"`
	Label      string  `json:"label"`
	Color      string  `json:"color"`
	Multiplier float64 `json:"multiplier"`
}

type milestoneTier struct {
	combo int
	label string
	color string
}

// Ascending by combo.
var milestoneTiers = []milestoneTier{
	{5, "NICE", "#4CAF50"},
	{10, "GREAT", "#2196F3"},
	{20, "AMAZING", "#9C27B0"},
	{30, "INSANE", "#FF5722"},
	{50, "LEGENDARY", "#FFD700"},
}

// milestoneFor returns the effect for combo and whether combo is a milestone at all.
// Every step and every named tier fires, labelled with the highest tier reached.
func milestoneFor(combo, step int, multiplier float64) (Milestone, bool) {
	named := false
	for _, t := range milestoneTiers {
		if combo == t.combo {
			named = true
		}
	}
	if !named && combo%step != 0 {
		return Milestone{}, false
	}
	m := Milestone{Combo: combo, Multiplier: multiplier}
	for _, t := range milestoneTiers {
		if combo >= t.combo {
			m.Label = t.label
			m.Color = t.color
		}
	}
	if m.Label == "" {
		m.Label = "COMBO"
		m.Color = "#FFFFFF"
	}
	return m, true
}

// Action is one entry of the anti-fraud action log.
// TimestampMs is strictly increasing within a session.
type Action struct {
	Type        string `json:"type"`
	TimestampMs int64  `json:"timestamp"`
	Score       int    `json:"score"`
	Penalty     int    `json:"penalty,omitempty"`
}

// Action types.
const (
	ActionAnswer = "answer"
	ActionTypo   = "typo"
)

// CompletionRecord is the history entry for one resolved word.
type CompletionRecord struct {
	Answer     string          `json:"answer"`
	Meaning    string          `json:"meaning"`
	Display    string          `json:"display"`
	Kind       object.ItemKind `json:"kind"`
	Golden     bool            `json:"golden"`
	ScoreDelta int             `json:"score_delta"`
	Missed     bool            `json:"missed,omitempty"`
	Reaction   time.Duration   `json:"reaction_ns,omitempty"`
}
