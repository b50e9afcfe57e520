package engine

import (
	"fmt"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

// Mode selects what a falling word shows. The answer is always the word.
type Mode int

const (
	ModeWord     Mode = iota // Show the word itself
	ModeMeaning              // Show the translation
	ModeSentence             // Show the example sentence with the word blanked
)

var modeNames = [...]string{"word", "meaning", "sentence"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode maps a mode name to its value.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return ModeWord, fmt.Errorf("unknown mode %q", s)
}

// Modes lists every mode in menu order.
func Modes() []Mode {
	return []Mode{ModeWord, ModeMeaning, ModeSentence}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// texts returns display, answer and meaning for an entry.
func (m Mode) texts(c Columns, e vocab.Entry) (display, answer, meaning string) {
	answer = c.Word(e)
	meaning = c.Meaning(e)
	switch m {
	case ModeMeaning:
		display = meaning
	case ModeSentence:
		display = vocab.Blank(c.Sentence(e), answer)
		if display == "" {
			display = meaning
		}
	default:
		display = answer
	}
	if display == "" {
		display = answer
	}
	return display, answer, meaning
}
