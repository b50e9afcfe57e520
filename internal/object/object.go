// Package object holds the entities that live on the playfield.
package object

import (
	"time"
)

// FrameUnit is the reference frame length fall speeds are expressed in.
// A word with Speed 1.0 moves one logical unit per FrameUnit of elapsed time.
const FrameUnit = 16670 * time.Microsecond

// Playfield geometry, in logical units.
const (
	FieldWidth  = 800
	FieldHeight = 600
	BottomInset = 80  // Words below Height-BottomInset have been missed
	SideMargin  = 20  // Horizontal padding kept free on both sides
	SpawnY      = -30 // Words enter just above the visible area
	CellWidth   = 10  // Logical width of one terminal cell of text
)

// UpdateContext provides all the information an entity needs during update.
type UpdateContext struct {
	Delta  time.Duration
	Screen Screen
}

// Screen represents the playfield dimensions.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen builds a Screen with its center precomputed.
func NewScreen(width, height int) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// DefaultScreen is the logical playfield every engine simulates on.
var DefaultScreen = NewScreen(FieldWidth, FieldHeight)

// Floor returns the y coordinate a word must cross to count as missed.
func (s Screen) Floor() float64 {
	return float64(s.Height - BottomInset)
}

// ClampX keeps a span of the given width inside the horizontal margins.
func (s Screen) ClampX(x, width float64) float64 {
	maxX := float64(s.Width) - width - SideMargin
	if x > maxX {
		x = maxX
	}
	if x < SideMargin {
		x = SideMargin
	}
	return x
}

// Destructible is implemented by entities that can be marked for removal.
type Destructible interface {
	// MarkDestroyed marks the entity for removal at the end of the current tick.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for removal.
	IsDestroyed() bool
}
