package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/leaderboard"
)

const defaultRankingLimit = 10

type rankingsResponse struct {
	Mode    string               `json:"mode"`
	Range   string               `json:"range"`
	Records []leaderboard.Record `json:"records"`
}

func (h *Handler) listRankings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode := q.Get("mode")
	if mode != "" && mode != "all" {
		if _, err := engine.ParseMode(mode); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	rng, err := leaderboard.ParseTimeRange(q.Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := defaultRankingLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, leaderboard.MaxRecords)
	}

	records := h.opts.Leaderboard.Query(leaderboard.Query{Mode: mode, Range: rng, Limit: limit})
	if records == nil {
		records = []leaderboard.Record{}
	}
	if mode == "" {
		mode = "all"
	}
	writeJSON(w, http.StatusOK, rankingsResponse{Mode: mode, Range: rng.String(), Records: records})
}

type saveRequest struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

type saveResponse struct {
	Rank   int                `json:"rank"`
	Record leaderboard.Record `json:"record"`
}

// saveRanking stores a finished websocket run. The score comes from the
// verified token and must match the run kept for its session id.
func (h *Handler) saveRanking(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token required")
		return
	}

	claims, err := h.opts.Signer.Verify(req.Token)
	if err != nil {
		h.opts.Logger.Warn("rejected session token", "err", err, "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "invalid session token")
		return
	}
	res, ok := h.pending.take(claims.SessionID())
	if !ok {
		writeError(w, http.StatusConflict, "run already saved or expired")
		return
	}
	if res.Score != claims.Score {
		writeError(w, http.StatusUnprocessableEntity, "score does not match the run")
		return
	}

	rec := leaderboard.NewRecord(leaderboard.CleanName(req.Name), res)
	rec.SessionID = claims.SessionID()
	rank, err := h.opts.Leaderboard.Save(rec)
	if err != nil {
		h.opts.Logger.Error("save score failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not save score")
		return
	}
	h.opts.Logger.Info("score saved", "name", rec.PlayerName, "score", rec.Score, "rank", rank)

	saved := h.savedRecord(rec)
	writeJSON(w, http.StatusCreated, saveResponse{Rank: rank, Record: saved})
}

// savedRecord returns the stored copy of rec, which carries its id and date.
func (h *Handler) savedRecord(rec leaderboard.Record) leaderboard.Record {
	for _, r := range h.opts.Leaderboard.Top(leaderboard.MaxRecords) {
		if r.SessionID == rec.SessionID {
			return r
		}
	}
	return rec
}
