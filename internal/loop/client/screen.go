package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/draw"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/leaderboard"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/config"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/object"
)

var titleArt = []string{
	` __      _____  ___ ___  ___ _   _    _    `,
	` \ \    / / _ \| _ \   \| __/_\ | |  | |   `,
	`  \ \/\/ / (_) |   / |) | _/ _ \| |__| |__ `,
	`   \_/\_/ \___/|_|_\___/|_/_/ \_\____|____|`,
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, rewrite every line so UI
	// elements from the previous screen don't persist.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.frame.invalidate()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.frame.reset()
	switch {
	case c.state.GameState == GameStateShutdown:
		c.drawShutdownScreen()
	case c.state.isInactive:
		c.drawInactivityScreen()
	default:
		switch c.state.GameState {
		case GameStateMenu:
			c.drawMenuScreen()
		case GameStatePlaying:
			c.drawPlayingScreen(false)
		case GameStatePaused:
			c.drawPlayingScreen(true)
		case GameStateResult:
			c.drawResultScreen()
		case GameStateRanking:
			c.drawRankingScreen()
		}
	}
	c.frame.flush(c.chunkWriter)
	return c.chunkWriter.Flush()
}

// blink reports the on phase of a 1.2 s blink cycle.
func (c *Client) blink() bool {
	return c.opts.Now().UnixMilli()/600%2 == 0
}

func (c *Client) drawArt(top int, art []string) int {
	for i, line := range art {
		c.frame.center(top+i, c.styles.Title.Render(line))
	}
	return top + len(art)
}

func (c *Client) drawMenuScreen() {
	f, st, s := c.frame, c.styles, c.state
	row := c.drawArt(max(f.height()/2-9, 1), titleArt)
	f.center(row+1, st.Subtle.Render("~ Type the falling words before they land ~"))

	stars := strings.Repeat("★", s.difficulty) + strings.Repeat("☆", engine.MaxDifficulty-s.difficulty)
	items := [menuRows]string{
		menuMode:       fmt.Sprintf("Mode        ‹ %-8s ›", s.mode),
		menuLanguage:   fmt.Sprintf("Language    ‹ %-8s ›", c.opts.Language.Code()),
		menuDifficulty: fmt.Sprintf("Difficulty  ‹ %s %d ›", stars, s.difficulty),
		menuStart:      "Start",
		menuRanking:    "Rankings",
		menuQuit:       "Quit",
	}
	top := row + 3
	for i, item := range items {
		text := draw.Pad(item, 28)
		switch {
		case i == s.cursor:
			text = st.Selected.Render(text)
		case i == menuDifficulty:
			text = st.Difficulty(s.difficulty).Render(text)
		}
		f.center(top+i, text)
	}

	if c.opts.Leaderboard != nil && c.opts.Username != "" {
		if best, ok := c.opts.Leaderboard.PersonalBest(c.opts.Username); ok {
			f.center(top+menuRows+1, st.Accent.Render(fmt.Sprintf("Personal best: %d", best.Score)))
		}
	}
	f.center(top+menuRows+3, st.Subtle.Render("↑↓ select   ←→ change   Enter confirm   Esc quit"))
}

// fieldRows returns the first and last terminal rows of the playfield.
func (c *Client) fieldRows() (top, bottom int) {
	return config.HUDRows + 1, c.frame.height() - config.InputRows
}

// project maps a playfield position to a terminal cell.
func (c *Client) project(w object.Word, screen object.Screen) (col, row int, visible bool) {
	top, bottom := c.fieldRows()
	if w.Y < 0 {
		return 0, 0, false
	}
	span := float64(bottom - top + 1)
	row = top + int(w.Y/screen.Floor()*span)
	if row > bottom {
		row = bottom
	}
	col = 1 + int(w.X/float64(screen.Width)*float64(c.frame.width))
	return col, row, true
}

func (c *Client) drawPlayingScreen(paused bool) {
	f, st, s := c.frame, c.styles, c.state
	var snap *engine.Snapshot
	if c.game != nil {
		snap = c.game.Snapshot()
	}
	if snap == nil {
		return
	}
	ses := snap.Session

	// HUD
	lives := st.Life.Render(strings.Repeat("♥", ses.Life))
	left := fmt.Sprintf("Score %-7d Combo %-4d x%.2f ", ses.Score, ses.Combo, ses.Multiplier)
	right := fmt.Sprintf(" Lv %d  %s  %s", ses.SpeedLevel, snap.Mode, c.opts.Language.Code())
	f.set(1, left+lives+right)

	switch {
	case s.banner != nil:
		f.center(2, st.Milestone(*s.banner).Render(fmt.Sprintf("%s! %d COMBO", s.banner.Label, s.banner.Combo)))
	case ses.FeverActive:
		f.center(2, st.Fever.Render(fmt.Sprintf("FEVER +%d  %.1fs", c.opts.Tuning.Rules.FeverBonus, snap.FeverLeft.Seconds())))
	}

	// Playfield
	top, bottom := c.fieldRows()
	rows := make(map[int][]segment)
	for _, w := range snap.Words {
		if w.Destroyed {
			continue
		}
		col, row, ok := c.project(w, object.DefaultScreen)
		if !ok {
			continue
		}
		label := w.Display
		if m := draw.Marker(w.Kind); m != "" {
			label = m + " " + label
		}
		rows[row] = append(rows[row], segment{col: col, text: label, style: st.Word(w)})
	}
	for row := top; row <= bottom; row++ {
		if segs := rows[row]; len(segs) > 0 {
			f.set(row, composeRow(f.width, segs))
		}
	}

	// Input line
	f.set(bottom+1, st.Subtle.Render(strings.Repeat("─", f.width)))
	prompt := "> " + s.line.String()
	if !paused && c.blink() {
		prompt += "_"
	}
	if s.flash != "" {
		prompt = draw.Pad(prompt, f.width/2) + st.Error.Render(draw.Fit(s.flash, f.width/2))
	}
	f.set(bottom+2, st.Input.Render(prompt))

	if paused {
		mid := (top + bottom) / 2
		f.center(mid-1, st.Box.Render("PAUSED"))
		f.center(mid+2, "Enter / Esc  resume")
		f.center(mid+3, "Q  end game")
	}
}

func (c *Client) drawResultScreen() {
	f, st, s := c.frame, c.styles, c.state
	res := s.result
	if res == nil {
		return
	}
	row := c.drawArt(2, gameOverArt) + 1

	f.center(row, st.Accent.Render(fmt.Sprintf("Score %d", res.Score)))
	f.center(row+1, fmt.Sprintf("Max combo %d   Accuracy %d%%   Speed Lv %d", res.MaxCombo, res.Accuracy, res.SpeedLevel))
	f.center(row+2, st.Subtle.Render(fmt.Sprintf("Correct %d   Wrong %d   Missed %d   Time %s",
		res.Correct, res.Wrong, res.Missed, res.Duration.Round(time.Second))))

	// Most recent words first.
	row += 4
	shown := 0
	for i := len(res.Completed) - 1; i >= 0 && shown < config.HistoryRows; i-- {
		rec := res.Completed[i]
		mark, style := "✓", st.OK
		if rec.Missed {
			mark, style = "✗", st.Error
		}
		line := fmt.Sprintf("%s %s  %s  %+d", mark, draw.Pad(rec.Answer, 16), draw.Pad(rec.Meaning, 20), rec.ScoreDelta)
		f.center(row+shown, style.Render(line))
		shown++
	}
	row += config.HistoryRows + 1

	switch {
	case s.saved:
		f.center(row, st.OK.Render(fmt.Sprintf("Saved! Rank #%d", s.rank)))
		f.center(row+2, st.Subtle.Render("Enter menu   Tab rankings"))
	case s.saveErr != nil:
		f.center(row, st.Error.Render("Score not saved: "+s.saveErr.Error()))
		f.center(row+2, st.Subtle.Render("Enter menu   Tab rankings"))
	default:
		if c.opts.Leaderboard != nil {
			f.center(row, st.Subtle.Render(fmt.Sprintf("Would rank #%d", c.opts.Leaderboard.Rank(res.Score))))
		}
		name := "Name: " + s.line.String()
		if c.blink() {
			name += "_"
		}
		f.center(row+1, st.Input.Render(draw.Pad(name, 30)))
		f.center(row+3, st.Subtle.Render("Enter save   Tab rankings   Esc menu"))
	}
}

func (c *Client) drawRankingScreen() {
	f, st, s := c.frame, c.styles, c.state
	f.center(2, st.Title.Render("RANKINGS"))
	f.center(3, st.Accent.Render(fmt.Sprintf("‹ %s ›   %s", s.rankingModeName(), s.rankingRange)))

	header := fmt.Sprintf("%-4s %s %8s %6s %5s %-9s %s", "#", draw.Pad("Name", 20), "Score", "Combo", "Acc", "Mode", "Date")
	f.center(5, st.Subtle.Render(header))

	var records []leaderboard.Record
	if c.opts.Leaderboard != nil {
		records = c.opts.Leaderboard.Query(leaderboard.Query{
			Mode:  s.rankingModeName(),
			Range: s.rankingRange,
			Limit: config.RankingRows,
		})
	}
	if len(records) == 0 {
		f.center(7, st.Subtle.Render("No scores yet"))
	}
	for i, r := range records {
		line := fmt.Sprintf("%-4d %s %8d %6d %4d%% %-9s %s",
			i+1, draw.Pad(r.PlayerName, 20), r.Score, r.MaxCombo, r.Accuracy, r.Mode, r.Date.Format("01-02"))
		if i == 0 {
			line = st.Fever.Render(line)
		} else if r.PlayerName == c.opts.Username {
			line = st.Accent.Render(line)
		}
		f.center(6+i, line)
	}
	f.center(f.height()-1, st.Subtle.Render("←→ mode   Tab period   Esc back"))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen() {
	f := c.frame
	mid := f.height() / 2
	f.center(mid-2, c.styles.Error.Render("INACTIVITY WARNING"))
	left := int(config.InactivityDisconnectUser - c.opts.Now().Sub(c.lastInput).Seconds())
	f.center(mid, fmt.Sprintf("You will be disconnected in %d seconds.", max(left, 0)))
	f.center(mid+2, c.styles.Subtle.Render("Press any key to continue"))
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen() {
	f := c.frame
	mid := f.height() / 2
	f.center(mid-3, c.styles.Error.Render("SERVER SHUTTING DOWN"))
	f.center(mid-1, "The server is restarting for maintenance.")
	f.center(mid, "Please reconnect in a moment.")
	f.center(mid+2, fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer)+1))
	f.center(mid+4, c.styles.Subtle.Render("Press Q to disconnect now"))
}
