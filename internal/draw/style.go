package draw

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/object"
)

// Word colours by difficulty, easiest first.
var difficultyColors = [engine.MaxDifficulty]lipgloss.Color{
	"#22c55e", "#84cc16", "#f59e0b", "#f97316", "#ef4444",
}

const (
	colorGolden = lipgloss.Color("#fbbf24")
	colorLife   = lipgloss.Color("#ec4899")
	colorBomb   = lipgloss.Color("#9ca3af")
	colorFever  = lipgloss.Color("#f97316")
	colorAccent = lipgloss.Color("#06b6d4")
	colorSubtle = lipgloss.Color("8")
	colorError  = lipgloss.Color("9")
	colorOK     = lipgloss.Color("10")
)

// Styles holds every style the terminal client renders with.
// Build one per output so colour detection follows that terminal.
type Styles struct {
	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Accent   lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	OK       lipgloss.Style
	Fever    lipgloss.Style
	Life     lipgloss.Style
	Input    lipgloss.Style
	Box      lipgloss.Style

	golden     lipgloss.Style
	lifeItem   lipgloss.Style
	bomb       lipgloss.Style
	difficulty [engine.MaxDifficulty]lipgloss.Style
	renderer   *lipgloss.Renderer
}

// NewStyles builds styles for w. SSH sessions do not expose a TTY to colour
// detection, so the profile is pinned to 256 colours.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)

	s := Styles{
		Title:    r.NewStyle().Bold(true).Foreground(colorAccent),
		Subtle:   r.NewStyle().Foreground(colorSubtle),
		Accent:   r.NewStyle().Foreground(colorAccent),
		Selected: r.NewStyle().Bold(true).Reverse(true),
		Error:    r.NewStyle().Bold(true).Foreground(colorError),
		OK:       r.NewStyle().Bold(true).Foreground(colorOK),
		Fever:    r.NewStyle().Bold(true).Foreground(colorFever),
		Life:     r.NewStyle().Foreground(colorLife),
		Input:    r.NewStyle().Bold(true),
		Box:      r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 2),
		golden:   r.NewStyle().Bold(true).Foreground(colorGolden),
		lifeItem: r.NewStyle().Bold(true).Foreground(colorLife),
		bomb:     r.NewStyle().Bold(true).Foreground(colorBomb).Underline(true),
		renderer: r,
	}
	for i, c := range difficultyColors {
		s.difficulty[i] = r.NewStyle().Foreground(c)
	}
	return s
}

// Difficulty returns the word colour for a level, clamped to the known range.
func (s Styles) Difficulty(level int) lipgloss.Style {
	return s.difficulty[engine.ClampDifficulty(level)-1]
}

// Word picks the style for a falling word: item kind first, then difficulty.
func (s Styles) Word(w object.Word) lipgloss.Style {
	switch w.Kind {
	case object.ItemGolden:
		return s.golden
	case object.ItemLife:
		return s.lifeItem
	case object.ItemBomb:
		return s.bomb
	}
	return s.Difficulty(w.Difficulty)
}

// Milestone styles a combo banner in the milestone's own colour.
func (s Styles) Milestone(m engine.Milestone) lipgloss.Style {
	return s.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(m.Color))
}

// Marker is the glyph drawn before a falling word of the given kind.
func Marker(k object.ItemKind) string {
	switch k {
	case object.ItemGolden:
		return "★"
	case object.ItemLife:
		return "♥"
	case object.ItemBomb:
		return "✖"
	}
	return ""
}
