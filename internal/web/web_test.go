package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/leaderboard"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/loop/server"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/session"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	entries := make([]vocab.Entry, 10)
	for i := range entries {
		entries[i] = vocab.Entry{
			ID:         fmt.Sprintf("e%d", i),
			Difficulty: 1,
			Fields: map[string]string{
				"word_en":    fmt.Sprintf("word%d", i),
				"meaning_en": fmt.Sprintf("meaning%d", i),
			},
		}
	}
	board, err := leaderboard.Open("")
	if err != nil {
		t.Fatal(err)
	}
	tuning := engine.DefaultTuning()
	for i := range tuning.Profiles {
		tuning.Profiles[i].SpawnInterval = 5 * time.Millisecond
		tuning.Profiles[i].Items = engine.ItemWeights{}
		tuning.Profiles[i].ScoreMin = 10
		tuning.Profiles[i].ScoreMax = 10
	}
	tuning.Rules.ReactionTiers = nil

	return Options{
		Vocabulary:  vocab.NewStore(entries),
		Tuning:      tuning,
		Leaderboard: board,
		Signer:      session.NewSigner([]byte("secret"), engine.SystemTime, time.Hour),
		SSHHost:     "arcade.example",
		ServerOpts:  []server.Option{server.WithTickTime(5 * time.Millisecond)},
	}
}

// testMessage mirrors ServerMessage with the enum fields left as strings.
type testMessage struct {
	Type     string `json:"type"`
	Snapshot *struct {
		State string `json:"state"`
		Words []struct {
			Display string `json:"display"`
		} `json:"words"`
	} `json:"snapshot"`
	Event *struct {
		Type string `json:"type"`
	} `json:"event"`
	Result *struct {
		Score   int `json:"score"`
		Correct int `json:"correct"`
	} `json:"result"`
	Token string `json:"token"`
	Error string `json:"error"`
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

// readUntil reads messages until one has the wanted type.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, want string, ok func(testMessage) bool) testMessage {
	t.Helper()
	for {
		var msg testMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}
		if msg.Type == want && (ok == nil || ok(msg)) {
			return msg
		}
	}
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestHomeShowsSSHHost(t *testing.T) {
	ts := httptest.NewServer(New(testOptions(t)).Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "ssh -p 2222 arcade.example") {
		t.Error("landing page does not show the ssh command")
	}
	if strings.Contains(string(body), "{{.SSHHost}}") {
		t.Error("placeholder left in page")
	}
}

func TestListRankings(t *testing.T) {
	opts := testOptions(t)
	for i, mode := range []string{"word", "meaning", "word"} {
		rec := leaderboard.Record{PlayerName: fmt.Sprintf("p%d", i), Score: (i + 1) * 100, Mode: mode}
		if _, err := opts.Leaderboard.Save(rec); err != nil {
			t.Fatal(err)
		}
	}
	ts := httptest.NewServer(New(opts).Routes())
	defer ts.Close()

	tests := []struct {
		query  string
		status int
		names  []string
	}{
		{"", http.StatusOK, []string{"p2", "p1", "p0"}},
		{"?mode=word", http.StatusOK, []string{"p2", "p0"}},
		{"?mode=all&limit=1", http.StatusOK, []string{"p2"}},
		{"?range=today", http.StatusOK, []string{"p2", "p1", "p0"}},
		{"?mode=chess", http.StatusBadRequest, nil},
		{"?range=year", http.StatusBadRequest, nil},
		{"?limit=0", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/rankings" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			var got rankingsResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			var names []string
			for _, r := range got.Records {
				names = append(names, r.PlayerName)
			}
			if fmt.Sprint(names) != fmt.Sprint(tt.names) {
				t.Errorf("names = %v, want %v", names, tt.names)
			}
		})
	}
}

func TestSaveRankingRejectsBadRequests(t *testing.T) {
	ts := httptest.NewServer(New(testOptions(t)).Routes())
	defer ts.Close()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{`, http.StatusBadRequest},
		{"no token", `{"name":"a"}`, http.StatusBadRequest},
		{"forged token", `{"name":"a","token":"abc.def.ghi"}`, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := postJSON(t, ts, "/api/rankings", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestPlayRejectsBadParams(t *testing.T) {
	ts := httptest.NewServer(New(testOptions(t)).Routes())
	defer ts.Close()

	for _, q := range []string{"difficulty=9", "difficulty=x", "mode=chess", "lang=fr"} {
		resp, err := http.Get(ts.URL + "/ws?" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestPlayQuitAndSave(t *testing.T) {
	opts := testOptions(t)
	h := New(opts)
	ts := httptest.NewServer(h.Routes())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	started := time.Now()
	conn := dial(t, ctx, ts, "/ws?difficulty=1&mode=word&lang=en")

	snap := readUntil(t, ctx, conn, MsgSnapshot, func(m testMessage) bool {
		return m.Snapshot != nil && len(m.Snapshot.Words) > 0
	})
	// Word mode shows the answer itself.
	answer := snap.Snapshot.Words[0].Display

	// Stay clear of the minimum answer gap.
	time.Sleep(200*time.Millisecond - time.Since(started))
	if err := wsjson.Write(ctx, conn, ClientMessage{Type: MsgInput, Text: answer}); err != nil {
		t.Fatal(err)
	}
	if err := wsjson.Write(ctx, conn, ClientMessage{Type: MsgQuit}); err != nil {
		t.Fatal(err)
	}

	res := readUntil(t, ctx, conn, MsgResult, nil)
	if res.Result == nil || res.Result.Score != 10 || res.Result.Correct != 1 {
		t.Fatalf("result = %+v, want score 10 with one correct", res.Result)
	}
	if res.Token == "" {
		t.Fatalf("no token, error %q", res.Error)
	}
	if _, _, err := conn.Read(ctx); websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Errorf("close = %v, want normal closure", err)
	}

	body := fmt.Sprintf(`{"name":"  alice  ","token":%q}`, res.Token)
	resp, data := postJSON(t, ts, "/api/rankings", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save status = %d: %s", resp.StatusCode, data)
	}
	var saved saveResponse
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatal(err)
	}
	if saved.Rank != 1 || saved.Record.PlayerName != "alice" || saved.Record.Score != 10 {
		t.Errorf("saved = %+v", saved)
	}
	if saved.Record.ID == "" || saved.Record.SessionID == "" {
		t.Error("stored record is missing its ids")
	}

	resp, _ = postJSON(t, ts, "/api/rankings", body)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("replayed token status = %d, want 409", resp.StatusCode)
	}
	if n := opts.Leaderboard.Len(); n != 1 {
		t.Errorf("leaderboard has %d records, want 1", n)
	}
}

func TestPlayFramesHideAnswers(t *testing.T) {
	ts := httptest.NewServer(New(testOptions(t)).Routes())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	conn := dial(t, ctx, ts, "/ws?mode=meaning")

	answer := regexp.MustCompile(`"word\d+"`)
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if loc := answer.Find(data); loc != nil {
			t.Fatalf("frame leaks answer %s: %s", loc, data)
		}
		var msg testMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type == MsgSnapshot && len(msg.Snapshot.Words) > 0 {
			if d := msg.Snapshot.Words[0].Display; !strings.HasPrefix(d, "meaning") {
				t.Errorf("display = %q, want a meaning", d)
			}
			return
		}
	}
}

func TestPlayShutdownNotifiesClient(t *testing.T) {
	opts := testOptions(t)
	opts.Registry = server.NewRegistry()
	ts := httptest.NewServer(New(opts).Routes())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	conn := dial(t, ctx, ts, "/ws")
	readUntil(t, ctx, conn, MsgSnapshot, nil)

	done := make(chan struct{})
	go func() {
		opts.Registry.Shutdown(3 * time.Second)
		close(done)
	}()

	readUntil(t, ctx, conn, MsgShutdown, nil)
	if _, _, err := conn.Read(ctx); websocket.CloseStatus(err) != websocket.StatusGoingAway {
		t.Errorf("close = %v, want going away", err)
	}
	<-done
	if n := opts.Registry.Len(); n != 0 {
		t.Errorf("registry still holds %d clients", n)
	}
}

func TestGameStampsActionsWithInjectedClock(t *testing.T) {
	opts := testOptions(t)
	clock := engine.NewManualTime(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	opts.TimeProvider = clock
	h := New(opts)

	params, err := parsePlayParams(url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	g := h.newGame(nil, params, "")
	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error, 1)
	go func() { errCh <- g.srv.Run(ctx) }()
	defer func() {
		cancel()
		<-errCh
	}()

	if err := g.srv.Start(); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(g.srv.Snapshot().Words) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no word spawned")
		}
		time.Sleep(5 * time.Millisecond)
	}

	clock.Advance(time.Second)
	if _, err := g.srv.Submit(g.srv.Snapshot().Words[0].Display); err != nil {
		t.Fatal(err)
	}
	actions := g.ses.Actions()
	if len(actions) != 1 {
		t.Fatalf("recorded %d actions, want 1", len(actions))
	}
	if want := clock.Now().UnixMilli(); actions[0].TimestampMs != want {
		t.Errorf("action stamped %d, want %d from the injected clock", actions[0].TimestampMs, want)
	}
}

func TestPendingRunsExpire(t *testing.T) {
	clock := engine.NewManualTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	p := newPendingRuns(clock, time.Minute)

	p.put("a", engine.Result{Score: 1})
	p.put("b", engine.Result{Score: 2})
	if res, ok := p.take("a"); !ok || res.Score != 1 {
		t.Fatalf("take(a) = %+v, %v", res, ok)
	}
	if _, ok := p.take("a"); ok {
		t.Error("a run was taken twice")
	}

	clock.Advance(2 * time.Minute)
	if _, ok := p.take("b"); ok {
		t.Error("expired run was returned")
	}
	if n := p.len(); n != 0 {
		t.Errorf("len = %d, want 0", n)
	}
}
