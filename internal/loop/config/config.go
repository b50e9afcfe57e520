// Package config centralizes the loop, rendering and session timing parameters.
package config

import "time"

// Terminal layout. The playfield is scaled into whatever fits, up to these bounds.
const (
	MaxTermWidth  = 100
	MaxTermHeight = 36
	MinTermWidth  = 40
	MinTermHeight = 16
	HUDRows       = 2 // Score/life line and fever/milestone line
	InputRows     = 2 // Separator and input line
)

// Player
const (
	MaxUsernameLength = 20
	MaxInputLength    = 40 // Runes accepted on the input line
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Effects
const (
	MilestoneDisplay = 1500 * time.Millisecond // How long a combo banner stays up
	FlashDisplay     = 600 * time.Millisecond  // Typo / miss flash on the input line
	HistoryRows      = 8                       // Completed words shown on the result screen
	RankingRows      = 10
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
	EventBuffer    = 256
)
