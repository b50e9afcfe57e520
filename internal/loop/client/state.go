package client

import (
	"time"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/input"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/leaderboard"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/config"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateMenu     GameState = iota // Mode, language and difficulty selection
	GameStatePlaying                   // Active gameplay
	GameStatePaused                    // Game frozen, overlay shown
	GameStateResult                    // Run finished, name entry and save
	GameStateRanking                   // Leaderboard browser
	GameStateShutdown                  // Server is shutting down
)

// Menu rows, top to bottom.
const (
	menuMode = iota
	menuLanguage
	menuDifficulty
	menuStart
	menuRanking
	menuQuit
	menuRows
)

// ClientState holds per-connection UI state.
// Each client has its own instance, managed by the Client.
type ClientState struct {
	GameState     GameState
	prevGameState GameState
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time (client-side)
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	wasInactive   bool

	// Menu selections
	cursor     int
	mode       engine.Mode
	difficulty int

	// Playing
	line        *input.Line
	banner      *engine.Milestone
	bannerUntil time.Time
	flash       string
	flashUntil  time.Time

	// Result
	result    *engine.Result
	token     string
	verifyErr error
	saved     bool
	saveErr   error
	rank      int

	// Ranking
	rankingMode  int // 0 = all, then engine.Modes() in order
	rankingRange leaderboard.TimeRange
}

// NewClientState creates a new initialized client state.
func NewClientState(mode engine.Mode, difficulty int) *ClientState {
	return &ClientState{
		GameState:     GameStateMenu,
		prevGameState: GameStateMenu,
		Running:       true,
		cursor:        menuStart,
		mode:          mode,
		difficulty:    engine.ClampDifficulty(difficulty),
		line:          input.NewLine(config.MaxInputLength),
	}
}

// showFlash puts a short message on the input line.
func (s *ClientState) showFlash(msg string, now time.Time) {
	s.flash = msg
	s.flashUntil = now.Add(config.FlashDisplay)
}

// showBanner displays a combo milestone.
func (s *ClientState) showBanner(m engine.Milestone, now time.Time) {
	s.banner = &m
	s.bannerUntil = now.Add(config.MilestoneDisplay)
}

// expire drops effects whose display time has passed.
func (s *ClientState) expire(now time.Time) {
	if s.banner != nil && now.After(s.bannerUntil) {
		s.banner = nil
	}
	if s.flash != "" && now.After(s.flashUntil) {
		s.flash = ""
	}
}

// clearResult forgets the previous run.
func (s *ClientState) clearResult() {
	s.result = nil
	s.token = ""
	s.verifyErr = nil
	s.saved = false
	s.saveErr = nil
	s.rank = 0
	s.banner = nil
	s.flash = ""
	s.line.Clear()
}

// rankingModeName is the leaderboard filter for the current ranking tab.
func (s *ClientState) rankingModeName() string {
	if s.rankingMode == 0 {
		return "all"
	}
	return engine.Modes()[s.rankingMode-1].String()
}
