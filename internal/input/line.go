package input

import "github.com/mattn/go-runewidth"

// Line is a single-line text editor for the answer prompt.
type Line struct {
	runes []rune
	max   int
}

// NewLine creates an editor that accepts up to limit runes (unlimited when limit <= 0).
func NewLine(limit int) *Line {
	return &Line{max: limit}
}

// Apply edits the line with k and reports whether k was consumed.
func (l *Line) Apply(k Key) bool {
	switch k.Type {
	case KeyRune:
		if l.max > 0 && len(l.runes) >= l.max {
			return true
		}
		l.runes = append(l.runes, k.Rune)
	case KeyBackspace:
		if len(l.runes) > 0 {
			l.runes = l.runes[:len(l.runes)-1]
		}
	case KeyCtrlU:
		l.Clear()
	default:
		return false
	}
	return true
}

// Take returns the current text and clears the line.
func (l *Line) Take() string {
	s := string(l.runes)
	l.Clear()
	return s
}

func (l *Line) Clear()         { l.runes = l.runes[:0] }
func (l *Line) String() string { return string(l.runes) }
func (l *Line) Len() int       { return len(l.runes) }

// Width is the display width in terminal cells.
func (l *Line) Width() int {
	return runewidth.StringWidth(string(l.runes))
}
