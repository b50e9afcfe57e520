package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/config"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/server"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/session"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

// Message types on the play socket.
const (
	MsgInput    = "input"
	MsgPause    = "pause"
	MsgResume   = "resume"
	MsgQuit     = "quit"
	MsgEvent    = "event"
	MsgSnapshot = "snapshot"
	MsgResult   = "result"
	MsgShutdown = "shutdown"
)

var (
	errGameOver = errors.New("game over")
	errShutdown = errors.New("server shutting down")
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ServerMessage is sent to the browser. Only the fields relevant to Type are set.
type ServerMessage struct {
	Type     string           `json:"type"`
	Event    *engine.Event    `json:"event,omitempty"`
	Snapshot *engine.Snapshot `json:"snapshot,omitempty"`
	Result   *engine.Result   `json:"result,omitempty"`
	Token    string           `json:"token,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type playParams struct {
	difficulty int
	mode       engine.Mode
	language   *vocab.Language
}

func parsePlayParams(q url.Values) (playParams, error) {
	p := playParams{difficulty: engine.MinDifficulty, mode: engine.ModeWord}
	if s := q.Get("difficulty"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < engine.MinDifficulty || n > engine.MaxDifficulty {
			return p, fmt.Errorf("difficulty must be %d..%d", engine.MinDifficulty, engine.MaxDifficulty)
		}
		p.difficulty = n
	}
	if s := q.Get("mode"); s != "" {
		m, err := engine.ParseMode(s)
		if err != nil {
			return p, err
		}
		p.mode = m
	}
	lang := q.Get("lang")
	if lang == "" {
		lang = "en"
	}
	l, err := vocab.NewLanguage(lang)
	if err != nil {
		return p, err
	}
	p.language = l
	return p, nil
}

// game is one websocket connection playing one run.
type game struct {
	h        *Handler
	conn     *websocket.Conn
	srv      *server.Server
	ses      *session.Session
	logger   *log.Logger
	shutdown <-chan struct{}
}

func (h *Handler) play(w http.ResponseWriter, r *http.Request) {
	params, err := parsePlayParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: h.opts.InsecureOrigins,
	})
	if err != nil {
		h.opts.Logger.Error("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()

	g := h.newGame(conn, params, middleware.GetReqID(r.Context()))
	if h.opts.Registry != nil {
		id, notify := h.opts.Registry.Register()
		defer h.opts.Registry.Unregister(id)
		g.shutdown = notify
	}

	g.logger.Info("game connected", "difficulty", params.difficulty, "mode", params.mode, "language", params.language.Code())
	err = g.run(r.Context())
	switch {
	case err == nil, errors.Is(err, errGameOver), errors.Is(err, errShutdown), errors.Is(err, context.Canceled):
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure, websocket.CloseStatus(err) == websocket.StatusGoingAway:
	default:
		g.logger.Warn("game connection ended", "err", err)
	}
	g.logger.Info("game disconnected")
}

func (h *Handler) newGame(conn *websocket.Conn, p playParams, reqID string) *game {
	ses := session.New(p.mode, p.difficulty, h.opts.TimeProvider)
	logger := h.opts.Logger.With("session", ses.ID)
	if reqID != "" {
		logger = logger.With("request_id", reqID)
	}

	eng := engine.New(h.opts.Vocabulary, p.language,
		engine.WithTuning(h.opts.Tuning),
		engine.WithDifficulty(p.difficulty),
		engine.WithMode(p.mode),
		engine.WithTimeProvider(h.opts.TimeProvider),
		engine.WithLogger(logger),
	)
	eng.Subscribe(ses.Listener())

	opts := append([]server.Option{server.WithLogger(logger)}, h.opts.ServerOpts...)
	return &game{
		h:      h,
		conn:   conn,
		srv:    server.New(eng, opts...),
		ses:    ses,
		logger: logger,
	}
}

func (g *game) run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return g.srv.Run(ctx) })
	eg.Go(func() error { return g.readLoop(ctx) })
	eg.Go(func() error { return g.writeLoop(ctx) })

	if err := g.srv.Start(); err != nil {
		g.logger.Error("start failed", "err", err)
		g.srv.Stop()
	}
	err := eg.Wait()
	g.srv.Stop()
	return err
}

func (g *game) readLoop(ctx context.Context) error {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, g.conn, &msg); err != nil {
			return err
		}
		if err := g.handle(msg); err != nil {
			if errors.Is(err, server.ErrStopped) {
				return nil
			}
			g.logger.Debug("message rejected", "type", msg.Type, "err", err)
		}
	}
}

func (g *game) handle(msg ClientMessage) error {
	switch msg.Type {
	case MsgInput:
		if utf8.RuneCountInString(msg.Text) > config.MaxInputLength {
			return fmt.Errorf("input longer than %d runes", config.MaxInputLength)
		}
		_, err := g.srv.Submit(msg.Text)
		return err
	case MsgPause:
		return g.srv.Pause()
	case MsgResume:
		return g.srv.Resume()
	case MsgQuit:
		return g.srv.Quit()
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// writeLoop streams events and changed snapshots until the run is over.
func (g *game) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	var last *engine.Snapshot
	events := g.srv.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-g.shutdown:
			_ = g.write(ctx, ServerMessage{Type: MsgShutdown})
			_ = g.conn.Close(websocket.StatusGoingAway, "server shutting down")
			return errShutdown
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := g.write(ctx, ServerMessage{Type: MsgEvent, Event: &ev}); err != nil {
				return err
			}
			if ev.Type == engine.EventGameOver {
				return g.finish(ctx)
			}
		case <-ticker.C:
			snap := g.srv.Snapshot()
			if snap == nil || snap == last {
				continue
			}
			last = snap
			if err := g.write(ctx, ServerMessage{Type: MsgSnapshot, Snapshot: snap}); err != nil {
				return err
			}
			// Quit and a dropped game-over event both surface here.
			if snap.State == engine.StateOver {
				return g.finish(ctx)
			}
		}
	}
}

// finish sends the result frame, with a signed token when the session
// validates, and closes the socket.
func (g *game) finish(ctx context.Context) error {
	res, err := g.srv.Result()
	if err != nil {
		return err
	}
	g.srv.Stop()
	g.ses.End()

	msg := ServerMessage{Type: MsgResult, Result: &res}
	token, err := g.h.opts.Signer.Issue(g.ses, res.Score)
	if err != nil {
		g.logger.Warn("session rejected", "score", res.Score, "err", err)
		msg.Error = err.Error()
	} else {
		msg.Token = token
		g.h.pending.put(g.ses.ID, res)
	}
	g.logger.Info("game over", "score", res.Score, "accuracy", res.Accuracy, "max_combo", res.MaxCombo)

	if err := g.write(ctx, msg); err != nil {
		return err
	}
	if err := g.conn.Close(websocket.StatusNormalClosure, "game over"); err != nil {
		return err
	}
	return errGameOver
}

func (g *game) write(ctx context.Context, msg ServerMessage) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, g.conn, msg)
}
