package object

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// ItemKind classifies a falling word beyond plain scoring.
type ItemKind int

const (
	ItemNormal ItemKind = iota // Regular word
	ItemGolden                 // Doubles the base score
	ItemLife                   // Restores one life on top of its score
	ItemBomb                   // Costs points when typed
)

var itemKindNames = [...]string{"normal", "golden", "life", "bomb"}

// String returns the lowercase name of the item kind.
func (k ItemKind) String() string {
	if k < 0 || int(k) >= len(itemKindNames) {
		return "unknown"
	}
	return itemKindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k ItemKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ItemKind) UnmarshalText(text []byte) error {
	kind, ok := ParseItemKind(string(text))
	if !ok {
		return fmt.Errorf("unknown item kind %q", text)
	}
	*k = kind
	return nil
}

// ParseItemKind maps a name produced by String back to its kind.
func ParseItemKind(s string) (ItemKind, bool) {
	for i, name := range itemKindNames {
		if name == s {
			return ItemKind(i), true
		}
	}
	return ItemNormal, false
}

// Word is a single falling entity. Only what the player may see is
// serialized; the answer stays server side.
type Word struct {
	ID         int           `json:"id"`         // Unique per engine session
	EntryID    string        `json:"-"`          // Vocabulary entry this word was drawn from
	Display    string        `json:"display"`    // Text shown to the player
	Answer     string        `json:"-"`          // Text the player must type
	Meaning    string        `json:"-"`          // Translation shown in history
	Key        string        `json:"-"`          // Normalized answer used for matching
	Difficulty int           `json:"difficulty"` // Difficulty of the source entry, 1..5
	X          float64       `json:"x"`          // Left edge in logical units
	Y          float64       `json:"y"`          // Top edge in logical units
	Speed      float64       `json:"speed"`      // Logical units per FrameUnit
	Kind       ItemKind      `json:"kind"`       // Item classification
	SpawnedAt  time.Duration `json:"spawned_at"` // Game clock reading at spawn
	Destroyed  bool          `json:"destroyed"`  // Marked for removal
}

// TextWidth returns the logical width of the display text.
func TextWidth(s string) float64 {
	return float64(runewidth.StringWidth(s)) * CellWidth
}

// IsGolden reports whether the word doubles its base score.
func (w *Word) IsGolden() bool {
	return w.Kind == ItemGolden
}

// Update advances the word by its speed scaled to the elapsed time.
// Returns true once the word has crossed the floor.
func (w *Word) Update(ctx UpdateContext) (missed bool) {
	if w.Destroyed {
		return false
	}
	frames := float64(ctx.Delta) / float64(FrameUnit)
	w.Y += w.Speed * frames
	return w.Y > ctx.Screen.Floor()
}

// MarkDestroyed marks the word for removal.
func (w *Word) MarkDestroyed() {
	w.Destroyed = true
}

// IsDestroyed returns true if the word is marked for removal.
func (w *Word) IsDestroyed() bool {
	return w.Destroyed
}

var _ Destructible = (*Word)(nil)
