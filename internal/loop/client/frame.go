package client

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/draw"
)

// clearEOL erases from the cursor to the end of the terminal line.
const clearEOL = "\033[K"

// frame is one screen of styled lines. Only lines that differ from the
// previous frame are written, so the client never clears between frames.
type frame struct {
	width int
	lines []string
	prev  []string
}

func newFrame(width, height int) *frame {
	return &frame{width: width, lines: make([]string, height)}
}

// resize changes the frame geometry and forces a full redraw.
func (f *frame) resize(width, height int) {
	f.width = width
	f.lines = make([]string, height)
	f.prev = nil
}

// invalidate forces every line to be rewritten on the next flush.
func (f *frame) invalidate() {
	f.prev = nil
}

func (f *frame) reset() {
	for i := range f.lines {
		f.lines[i] = ""
	}
}

func (f *frame) height() int { return len(f.lines) }

// set replaces a 1-based row.
func (f *frame) set(row int, s string) {
	if row < 1 || row > len(f.lines) {
		return
	}
	f.lines[row-1] = s
}

// center places s in the middle of a row.
func (f *frame) center(row int, s string) {
	pad := (f.width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	f.set(row, strings.Repeat(" ", pad)+s)
}

// flush writes changed lines to cw.
func (f *frame) flush(cw *draw.ChunkWriter) {
	for i, line := range f.lines {
		if f.prev != nil && i < len(f.prev) && f.prev[i] == line {
			continue
		}
		cw.WriteAt(1, i+1, line+clearEOL)
	}
	f.prev = append(f.prev[:0], f.lines...)
}

// segment is a styled run placed at a 1-based column.
type segment struct {
	col   int
	text  string
	style lipgloss.Style
}

// composeRow lays segments out left to right within width cells. A segment
// that would overlap its left neighbour is pushed right; anything past the
// edge is truncated.
func composeRow(width int, segs []segment) string {
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].col < segs[j].col })

	var b strings.Builder
	cursor := 1
	for _, s := range segs {
		col := max(s.col, cursor)
		room := width - col + 1
		if room <= 0 {
			break
		}
		b.WriteString(strings.Repeat(" ", col-cursor))
		text := draw.Fit(s.text, room)
		b.WriteString(s.style.Render(text))
		cursor = col + lipgloss.Width(text)
		if cursor <= width {
			b.WriteByte(' ')
			cursor++
		}
	}
	return b.String()
}
