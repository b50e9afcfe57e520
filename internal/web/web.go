// Package web serves the browser front end: a landing page, the rankings
// API and websocket play backed by the same engine as the terminal client.
package web

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/leaderboard"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/server"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/session"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

//go:embed static/*
var embeddedStatic embed.FS

const (
	apiTimeout       = 15 * time.Second
	writeTimeout     = 5 * time.Second
	snapshotInterval = 50 * time.Millisecond
	maxBodyBytes     = 4 << 10
)

// Options configures the handler.
type Options struct {
	Vocabulary      *vocab.Store
	Tuning          engine.Tuning
	Leaderboard     *leaderboard.Store
	Signer          *session.Signer
	Registry        *server.Registry // Optional; lets a shutdown reach open games
	Logger          *log.Logger
	TimeProvider    engine.TimeProvider
	SSHHost         string // Shown on the landing page
	InsecureOrigins bool   // Skip the websocket origin check
	ServerOpts      []server.Option
}

// Handler owns the routes and the runs waiting to be saved.
type Handler struct {
	opts    Options
	pending *pendingRuns
	page    string
}

// New creates a handler. Vocabulary, Leaderboard and Signer are required.
func New(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = engine.SystemTime
	}
	if opts.Tuning.Rules.InitialLife == 0 {
		opts.Tuning = engine.DefaultTuning()
	}
	if opts.SSHHost == "" {
		opts.SSHHost = "localhost"
	}
	page, _ := fs.ReadFile(embeddedStatic, "static/index.html")
	return &Handler{
		opts:    opts,
		pending: newPendingRuns(opts.TimeProvider, pendingTTL),
		page:    strings.ReplaceAll(string(page), "{{.SSHHost}}", opts.SSHHost),
	}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.home)
	r.Get("/ws", h.play)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(apiTimeout))
		r.Get("/rankings", h.listRankings)
		r.Post("/rankings", h.saveRanking)
	})
	return r
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, h.page)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
