package client

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/audio"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/draw"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/input"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/leaderboard"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/config"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/server"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/session"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

// Client handles rendering and input for a single terminal connection.
// It owns at most one running game at a time.
type Client struct {
	opts        ClientOptions
	state       *ClientState
	styles      draw.Styles
	frame       *frame
	chunkWriter *draw.ChunkWriter
	writer      io.Writer
	inputStream *input.Stream
	lastInput   time.Time

	// Current game, nil outside a run
	game       *server.Server
	gameCancel context.CancelFunc
	session    *session.Session
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Vocabulary   *vocab.Store
	Language     *vocab.Language
	Tuning       engine.Tuning
	Difficulty   int
	Mode         engine.Mode
	Leaderboard  *leaderboard.Store
	Signer       *session.Signer     // Optional; runs are unsigned without it
	Sound        *audio.SoundManager // Optional
	Shutdown     <-chan struct{}     // Closed when the host is going down
	Logger       *log.Logger
	Now          func() time.Time // Defaults to time.Now
	ServerOpts   []server.Option
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r io.Reader, w io.Writer, opts ClientOptions) *Client {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Tuning.Rules.InitialLife == 0 {
		opts.Tuning = engine.DefaultTuning()
	}

	width, height, offsetCol, offsetRow := clampTermSize(draw.TerminalSizeRawWith(opts.TermSizeFunc))
	return &Client{
		opts:        opts,
		state:       NewClientState(opts.Mode, opts.Difficulty),
		styles:      draw.NewStyles(w),
		frame:       newFrame(width, height),
		chunkWriter: draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:      w,
		inputStream: input.StartStream(r),
		lastInput:   opts.Now(),
	}
}

// Run starts the client loop. Blocks until the player quits, the input
// ends, or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.endGame()

	for c.state.Running {
		frameStart := c.opts.Now()

		select {
		case <-ctx.Done():
			c.state.Running = false
			continue
		default:
		}

		c.processShutdown()
		c.processInput()
		c.processGameEvents()
		c.updateScreen()
		c.update()

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
		c.state.delta = c.opts.Now().Sub(frameStart)
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processShutdown switches to the shutdown screen once the host starts going down.
func (c *Client) processShutdown() {
	if c.opts.Shutdown == nil || c.state.GameState == GameStateShutdown {
		return
	}
	select {
	case <-c.opts.Shutdown:
		c.finishGame(false)
		c.state.GameState = GameStateShutdown
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
	default:
	}
}

// processInput reads keys and dispatches them to the current screen.
func (c *Client) processInput() {
	keys := input.ReadKeys(c.inputStream)
	now := c.opts.Now()

	if len(keys) > 0 {
		c.lastInput = now
		c.state.isInactive = false
	} else if c.state.GameState != GameStatePlaying {
		idle := now.Sub(c.lastInput).Seconds()
		if idle > config.InactivityDisconnectUser {
			c.state.Running = false
		} else if idle > config.InactivityWarnUser {
			c.state.isInactive = true
		}
	}
	if c.inputStream.Closed() {
		c.state.Running = false
	}

	for _, k := range keys {
		if k.Type == input.KeyCtrlC {
			c.state.Running = false
			return
		}
		c.handleKey(k)
	}
}

func (c *Client) handleKey(k input.Key) {
	switch c.state.GameState {
	case GameStateMenu:
		c.handleMenuKey(k)
	case GameStatePlaying:
		c.handlePlayingKey(k)
	case GameStatePaused:
		c.handlePausedKey(k)
	case GameStateResult:
		c.handleResultKey(k)
	case GameStateRanking:
		c.handleRankingKey(k)
	case GameStateShutdown:
		if k.Type == input.KeyEscape || (k.Type == input.KeyRune && (k.Rune == 'q' || k.Rune == 'Q')) {
			c.state.Running = false
		}
	}
}

func (c *Client) handleMenuKey(k input.Key) {
	s := c.state
	switch k.Type {
	case input.KeyUp:
		s.cursor = (s.cursor + menuRows - 1) % menuRows
		c.click()
	case input.KeyDown, input.KeyTab:
		s.cursor = (s.cursor + 1) % menuRows
		c.click()
	case input.KeyLeft:
		c.changeMenuValue(-1)
	case input.KeyRight:
		c.changeMenuValue(1)
	case input.KeyEnter:
		switch s.cursor {
		case menuStart:
			c.startGame()
		case menuRanking:
			s.GameState = GameStateRanking
			c.click()
		case menuQuit:
			s.Running = false
		default:
			c.changeMenuValue(1)
		}
	case input.KeyEscape:
		s.Running = false
	}
}

func (c *Client) changeMenuValue(dir int) {
	s := c.state
	switch s.cursor {
	case menuMode:
		modes := engine.Modes()
		s.mode = modes[(int(s.mode)+dir+len(modes))%len(modes)]
	case menuLanguage:
		if dir > 0 {
			c.opts.Language.Next()
		} else {
			// Cycling backwards is len-1 steps forward.
			for range len(c.opts.Language.Supported()) - 1 {
				c.opts.Language.Next()
			}
		}
	case menuDifficulty:
		s.difficulty = engine.ClampDifficulty(s.difficulty + dir)
	default:
		return
	}
	c.click()
}

func (c *Client) handlePlayingKey(k input.Key) {
	if c.state.line.Apply(k) {
		return
	}
	switch k.Type {
	case input.KeyEnter:
		c.submit(c.state.line.Take())
	case input.KeyEscape:
		if err := c.game.Pause(); err == nil {
			c.state.GameState = GameStatePaused
		}
	}
}

func (c *Client) handlePausedKey(k input.Key) {
	switch {
	case k.Type == input.KeyEscape || k.Type == input.KeyEnter:
		if err := c.game.Resume(); err == nil {
			c.state.GameState = GameStatePlaying
		}
	case k.Type == input.KeyRune && (k.Rune == 'q' || k.Rune == 'Q'):
		if err := c.game.Quit(); err != nil {
			c.opts.Logger.Warn("quit failed", "err", err)
		}
		c.finishGame(true)
	}
}

func (c *Client) handleResultKey(k input.Key) {
	s := c.state
	if !s.saved && s.line.Apply(k) {
		return
	}
	switch k.Type {
	case input.KeyEnter:
		if s.saved || s.saveErr != nil {
			c.toMenu()
			return
		}
		c.saveResult(s.line.Take())
	case input.KeyTab:
		s.GameState = GameStateRanking
	case input.KeyEscape:
		c.toMenu()
	}
}

func (c *Client) handleRankingKey(k input.Key) {
	s := c.state
	n := len(engine.Modes()) + 1
	switch k.Type {
	case input.KeyLeft:
		s.rankingMode = (s.rankingMode + n - 1) % n
	case input.KeyRight:
		s.rankingMode = (s.rankingMode + 1) % n
	case input.KeyTab:
		s.rankingRange = (s.rankingRange + 1) % 3
	case input.KeyEscape, input.KeyEnter:
		if s.result != nil && !s.saved {
			s.GameState = GameStateResult
			return
		}
		c.toMenu()
	}
}

func (c *Client) toMenu() {
	c.state.clearResult()
	c.state.GameState = GameStateMenu
	c.click()
}

// submit sends one answer to the running game.
func (c *Client) submit(text string) {
	if c.game == nil {
		return
	}
	_, err := c.game.Submit(text)
	switch {
	case err == nil, errors.Is(err, engine.ErrEmptyInput):
	case errors.Is(err, engine.ErrNotRunning):
		// Game ended between frames; the GameOver event will follow.
	default:
		c.opts.Logger.Error("submit failed", "err", err)
	}
}

// processGameEvents drains the running game's events into UI effects.
func (c *Client) processGameEvents() {
	if c.game == nil {
		return
	}
	now := c.opts.Now()
drain:
	for {
		select {
		case ev, ok := <-c.game.Events():
			if !ok {
				break drain
			}
			switch ev.Type {
			case engine.EventComboMilestone:
				if ev.Milestone != nil {
					c.state.showBanner(*ev.Milestone, now)
				}
			case engine.EventTypo:
				c.state.showFlash("✗ "+ev.Input, now)
			case engine.EventWordCompleted:
				if ev.Record != nil && ev.Record.Missed {
					c.state.showFlash("MISS "+ev.Record.Answer, now)
				}
			case engine.EventGameOver:
				c.finishGame(true)
				return
			}
		default:
			break drain
		}
	}

	// Events may be dropped under load; the snapshot still shows the end.
	if snap := c.game.Snapshot(); snap != nil && snap.State == engine.StateOver {
		c.finishGame(true)
	}
}

// startGame builds a fresh engine, session and server for the selected options.
func (c *Client) startGame() {
	c.endGame()
	s := c.state
	s.clearResult()

	eng := engine.New(c.opts.Vocabulary, c.opts.Language,
		engine.WithTuning(c.opts.Tuning),
		engine.WithDifficulty(s.difficulty),
		engine.WithMode(s.mode),
		engine.WithLogger(c.opts.Logger),
	)
	c.session = session.New(s.mode, s.difficulty, engine.SystemTime)
	eng.Subscribe(c.session.Listener())
	if c.opts.Sound != nil {
		eng.Subscribe(c.opts.Sound.Listener())
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.game = server.New(eng, append([]server.Option{server.WithLogger(c.opts.Logger)}, c.opts.ServerOpts...)...)
	c.gameCancel = cancel
	go func(g *server.Server) {
		if err := g.Run(ctx); err != nil {
			c.opts.Logger.Error("game loop stopped", "err", err)
		}
	}(c.game)

	if err := c.game.Start(); err != nil {
		c.opts.Logger.Error("start failed", "err", err)
		c.endGame()
		return
	}
	if c.opts.Sound != nil {
		c.opts.Sound.PlayStart()
	}
	c.opts.Logger.Info("game started", "user", c.opts.Username, "mode", s.mode,
		"difficulty", s.difficulty, "language", c.opts.Language.Code())
	s.GameState = GameStatePlaying
}

// finishGame collects the result, signs the session and shows the result
// screen when showResult is set. The game loop is stopped either way.
func (c *Client) finishGame(showResult bool) {
	if c.game == nil {
		return
	}
	res, err := c.game.Result()
	if err != nil {
		c.opts.Logger.Warn("result unavailable", "err", err)
	}
	c.session.End()
	c.endGame()

	s := c.state
	s.result = &res
	if c.opts.Signer != nil {
		s.token, s.verifyErr = c.opts.Signer.Issue(c.session, res.Score)
	} else {
		s.verifyErr = c.session.Validate(res.Score)
	}
	if s.verifyErr != nil {
		c.opts.Logger.Warn("session rejected", "user", c.opts.Username, "score", res.Score, "err", s.verifyErr)
	}
	c.opts.Logger.Info("game over", "user", c.opts.Username, "score", res.Score,
		"accuracy", res.Accuracy, "max_combo", res.MaxCombo)

	if showResult {
		s.line.Clear()
		for _, r := range c.opts.Username {
			s.line.Apply(input.Key{Type: input.KeyRune, Rune: r})
		}
		s.GameState = GameStateResult
	}
}

// endGame stops the running game loop, if any.
func (c *Client) endGame() {
	if c.game == nil {
		return
	}
	c.game.Stop()
	c.gameCancel()
	<-c.game.Done()
	c.game = nil
	c.gameCancel = nil
}

// saveResult stores the finished run on the leaderboard.
func (c *Client) saveResult(name string) {
	s := c.state
	if s.result == nil || c.opts.Leaderboard == nil {
		return
	}
	if s.verifyErr != nil {
		s.saveErr = s.verifyErr
		return
	}
	rec := leaderboard.NewRecord(leaderboard.CleanName(name), *s.result)
	rec.SessionID = c.session.ID
	rank, err := c.opts.Leaderboard.Save(rec)
	if err != nil {
		s.saveErr = err
		c.opts.Logger.Error("save score failed", "err", err)
		return
	}
	s.saved = true
	s.rank = rank
	c.click()
}

func (c *Client) click() {
	if c.opts.Sound != nil {
		c.opts.Sound.PlayClick()
	}
}

// update advances per-frame timers.
func (c *Client) update() {
	c.state.expire(c.opts.Now())
	if c.state.GameState == GameStateShutdown {
		c.state.shutdownTimer -= c.state.delta.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.opts.TermSizeFunc)
	if err != nil {
		return
	}
	width, height, offsetCol, offsetRow := clampTermSize(termWidth, termHeight, nil)
	if width != c.frame.width || height != c.frame.height() {
		draw.ClearScreen(c.writer)
		c.frame.resize(width, height)
	}
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area. A size error yields the minimum area.
func clampTermSize(termWidth, termHeight int, err error) (width, height, offsetCol, offsetRow int) {
	if err != nil {
		termWidth, termHeight = config.MinTermWidth, config.MinTermHeight
	}
	width = min(max(termWidth, config.MinTermWidth), config.MaxTermWidth)
	height = min(max(termHeight, config.MinTermHeight), config.MaxTermHeight)
	offsetCol = max((termWidth-width)/2, 0)
	offsetRow = max((termHeight-height)/2, 0)
	return
}
