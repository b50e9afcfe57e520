package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/object"
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/vocab"
)

func TestStateTransitions(t *testing.T) {
	e, _ := newTestEngine(makeEntries(3, 3))

	steps := []struct {
		name string
		op   func() error
		want State
		err  bool
	}{
		{"pause idle", e.Pause, StateIdle, true},
		{"resume idle", e.Resume, StateIdle, true},
		{"quit idle", e.Quit, StateIdle, true},
		{"start", e.Start, StateRunning, false},
		{"start twice", e.Start, StateRunning, true},
		{"resume running", e.Resume, StateRunning, true},
		{"pause", e.Pause, StatePaused, false},
		{"pause twice", e.Pause, StatePaused, true},
		{"resume", e.Resume, StateRunning, false},
		{"quit", e.Quit, StateOver, false},
		{"pause over", e.Pause, StateOver, true},
		{"restart", e.Start, StateRunning, false},
	}
	for _, s := range steps {
		err := s.op()
		if s.err && !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s: err = %v, want ErrInvalidTransition", s.name, err)
		}
		if !s.err && err != nil {
			t.Errorf("%s: unexpected error %v", s.name, err)
		}
		if got := e.State(); got != s.want {
			t.Errorf("%s: state = %v, want %v", s.name, got, s.want)
		}
	}
}

func TestQuitDoesNotEmitGameOver(t *testing.T) {
	e, _ := newTestEngine(makeEntries(3, 3))
	var log eventLog
	e.Subscribe(log.listen)

	_ = e.Start()
	_ = e.Quit()

	if n := log.count(EventGameOver); n != 0 {
		t.Errorf("quit emitted %d game-over events", n)
	}
}

func TestSpawnIsUniqueUntilExhausted(t *testing.T) {
	e, _ := newTestEngine(makeEntries(5, 3))
	_ = e.Start()

	words := spawnAll(e)
	if len(words) != 5 {
		t.Fatalf("spawned %d words, want 5", len(words))
	}
	seen := map[string]bool{}
	for _, w := range words {
		if seen[w.EntryID] {
			t.Errorf("entry %s spawned twice", w.EntryID)
		}
		seen[w.EntryID] = true
	}
	if _, ok := e.Spawn(); ok {
		t.Error("spawn succeeded after exhaustion")
	}
	if got := e.Snapshot().Session.TotalSpawned; got != 5 {
		t.Errorf("TotalSpawned = %d, want 5", got)
	}
}

func TestSpawnPrefersDifficultyWindow(t *testing.T) {
	entries := append(makeEntries(3, 1), vocab.Entry{
		ID:         "hard",
		Difficulty: 5,
		Fields:     map[string]string{"word_en": "hard"},
	})
	e, _ := newTestEngine(entries, WithDifficulty(1))
	_ = e.Start()

	words := spawnAll(e)
	if len(words) != 4 {
		t.Fatalf("spawned %d words, want 4", len(words))
	}
	for _, w := range words[:3] {
		if w.Difficulty != 1 {
			t.Errorf("out-of-window entry %s spawned before the window was exhausted", w.EntryID)
		}
	}
	if words[3].EntryID != "hard" {
		t.Errorf("fallback spawned %s, want hard", words[3].EntryID)
	}
}

func TestSpawnGeometry(t *testing.T) {
	e, _ := newTestEngine(makeEntries(20, 3))
	_ = e.Start()

	p := e.Profile()
	wantSpeed := (p.BaseFallSpeed + 3*0.1) * 1.0
	for _, w := range spawnAll(e) {
		if w.Y != object.SpawnY {
			t.Errorf("word %s starts at y=%v", w.EntryID, w.Y)
		}
		maxX := float64(object.FieldWidth) - object.TextWidth(w.Display) - object.SideMargin
		if w.X < object.SideMargin || w.X > maxX {
			t.Errorf("word %s at x=%v outside [%d, %v]", w.EntryID, w.X, object.SideMargin, maxX)
		}
		if diff := w.Speed - wantSpeed; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("speed = %v, want %v", w.Speed, wantSpeed)
		}
	}
}

func TestSpawnRequiresRunning(t *testing.T) {
	e, _ := newTestEngine(makeEntries(2, 3))
	if _, ok := e.Spawn(); ok {
		t.Error("spawned while idle")
	}
	_ = e.Start()
	_ = e.Pause()
	if _, ok := e.Spawn(); ok {
		t.Error("spawned while paused")
	}
	if e.CanSpawn() {
		t.Error("CanSpawn true while paused")
	}
}

func TestCanSpawnHonorsCap(t *testing.T) {
	e, _ := newTestEngine(makeEntries(10, 3))
	_ = e.Start()
	for e.CanSpawn() {
		if _, ok := e.Spawn(); !ok {
			t.Fatal("spawn failed")
		}
	}
	if got, want := e.Live(), e.Profile().MaxWords; got != want {
		t.Errorf("live = %d, want cap %d", got, want)
	}
}

func TestSubmitTieBreaksTowardFloor(t *testing.T) {
	entries := []vocab.Entry{
		{ID: "a", Difficulty: 3, Fields: map[string]string{"word_en": "cat"}},
		{ID: "b", Difficulty: 3, Fields: map[string]string{"word_en": "Cat"}},
	}
	e, _ := newTestEngine(entries)
	_ = e.Start()

	first, _ := e.Spawn()
	e.Tick(object.FrameUnit * 20)
	second, _ := e.Spawn()

	res := mustSubmit(e, "  CAT ")
	if !res.Matched {
		t.Fatal("input did not match")
	}
	if res.Word.ID != first.ID {
		t.Errorf("matched word %d, want lower word %d (second was %d)", res.Word.ID, first.ID, second.ID)
	}
	if e.Live() != 1 {
		t.Errorf("live = %d after match, want 1", e.Live())
	}
}

func TestEmptyInputIsIgnored(t *testing.T) {
	e, _ := newTestEngine(makeEntries(2, 3))
	_ = e.Start()
	before := e.Snapshot().Session

	for _, in := range []string{"", "   ", "\t\n"} {
		if _, err := e.Submit(in); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Submit(%q) err = %v", in, err)
		}
	}
	if after := e.Snapshot().Session; !reflect.DeepEqual(before, after) {
		t.Errorf("blank input changed state: %+v -> %+v", before, after)
	}
}

func TestSubmitOutsideRunningIsRejected(t *testing.T) {
	e, _ := newTestEngine(makeEntries(1, 3))
	if _, err := e.Submit("word1"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("idle submit err = %v", err)
	}

	_ = e.Start()
	_, _ = e.Spawn()
	_ = e.Quit()
	frozen := e.Snapshot().Session

	if _, err := e.Submit("word1"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("submit after quit err = %v", err)
	}
	if got := e.Snapshot().Session; !reflect.DeepEqual(frozen, got) {
		t.Error("submit after game over mutated the session")
	}
}

func TestTypoLosesLifeByDefault(t *testing.T) {
	e, _ := newTestEngine(makeEntries(2, 3))
	var log eventLog
	e.Subscribe(log.listen)
	_ = e.Start()
	_, _ = e.Spawn()

	res := mustSubmit(e, "nope")
	if res.Matched {
		t.Fatal("typo matched")
	}
	s := e.Snapshot().Session
	if s.Wrong != 1 || s.Life != 2 || s.Combo != 0 {
		t.Errorf("after typo: wrong=%d life=%d combo=%d", s.Wrong, s.Life, s.Combo)
	}
	if log.count(EventTypo) != 1 || log.count(EventLifeChanged) != 1 {
		t.Errorf("events: typo=%d life=%d", log.count(EventTypo), log.count(EventLifeChanged))
	}
	if log.count(EventAnswer) != 0 {
		t.Error("typo under life policy produced an action")
	}
}

func TestTypoDeductScorePolicy(t *testing.T) {
	tuning := quietTuning(40)
	tuning.Rules.Typo = TypoDeductScore
	tuning.Rules.TypoPenalty = 25
	e, _ := newTestEngine(makeEntries(3, 3), WithTuning(tuning))
	var log eventLog
	e.Subscribe(log.listen)
	_ = e.Start()
	spawnAll(e)

	mustSubmit(e, "word1")
	res := mustSubmit(e, "zzz")
	if res.Delta != -25 {
		t.Errorf("typo delta = %d, want -25", res.Delta)
	}
	s := e.Snapshot().Session
	if s.Score != 15 || s.Life != 3 || s.Wrong != 1 {
		t.Errorf("score=%d life=%d wrong=%d", s.Score, s.Life, s.Wrong)
	}

	res = mustSubmit(e, "zzz")
	if res.Delta != -15 || e.Snapshot().Session.Score != 0 {
		t.Errorf("second typo delta = %d, score = %d", res.Delta, e.Snapshot().Session.Score)
	}
	actions := log.of(EventAnswer)
	if len(actions) != 3 {
		t.Fatalf("actions = %d, want 3", len(actions))
	}
	if a := actions[1].Action; a.Type != ActionTypo || a.Penalty != 25 || a.Score != 0 {
		t.Errorf("typo action = %+v", *a)
	}
}

func TestThreeCorrectAnswersScenario(t *testing.T) {
	tuning := withItems(DefaultTuning(), ItemWeights{})
	e, mt := newTestEngine(makeEntries(3, 3), WithTuning(tuning))
	_ = e.Start()

	for range 3 {
		w, ok := e.Spawn()
		if !ok {
			t.Fatal("spawn failed")
		}
		mt.Advance(1500 * time.Millisecond)
		if res := mustSubmit(e, w.Answer); !res.Matched {
			t.Fatalf("%s did not match", w.Answer)
		}
	}

	r := e.Result()
	if r.Correct != 3 || r.Wrong != 0 || r.Accuracy != 100 {
		t.Errorf("result = correct %d wrong %d accuracy %d", r.Correct, r.Wrong, r.Accuracy)
	}
	for _, rec := range r.Completed {
		if rec.ScoreDelta < 30+50 {
			t.Errorf("%s scored %d, want at least base 30 plus reaction bonus 50", rec.Answer, rec.ScoreDelta)
		}
	}
}

func TestThreeFallsEndTheGameOnce(t *testing.T) {
	e, _ := newTestEngine(makeEntries(3, 3))
	var log eventLog
	e.Subscribe(log.listen)
	_ = e.Start()
	spawnAll(e)

	e.Tick(20 * time.Second)
	e.Tick(20 * time.Second)

	if e.State() != StateOver {
		t.Fatalf("state = %v, want over", e.State())
	}
	s := e.Snapshot().Session
	if s.Life != 0 || s.Missed != 3 || s.Correct != 0 {
		t.Errorf("life=%d missed=%d correct=%d", s.Life, s.Missed, s.Correct)
	}
	overs := log.of(EventGameOver)
	if len(overs) != 1 {
		t.Fatalf("game over fired %d times", len(overs))
	}
	if overs[0].Result.Correct != 0 || len(overs[0].Result.Completed) != 3 {
		t.Errorf("game over result = %+v", *overs[0].Result)
	}
	if len(e.Snapshot().Words) != 0 {
		t.Error("missed words were not purged")
	}
}

func TestMissResetsCombo(t *testing.T) {
	tuning := quietTuning(10)
	tuning.Rules.ComboStep = 1
	e, _ := newTestEngine(makeEntries(3, 3), WithTuning(tuning))
	_ = e.Start()
	spawnAll(e)

	mustSubmit(e, "word1")
	mustSubmit(e, "word2")
	if m := e.Snapshot().Session.Multiplier; m <= 1 {
		t.Fatalf("multiplier = %v before miss", m)
	}
	e.Tick(20 * time.Second)

	s := e.Snapshot().Session
	if s.Combo != 0 || s.Multiplier != 1.0 || s.MaxCombo != 2 || s.Life != 2 {
		t.Errorf("after miss: %+v", s)
	}
	if rec := s.Completed[len(s.Completed)-1]; !rec.Missed || rec.ScoreDelta != 0 {
		t.Errorf("miss record = %+v", rec)
	}
}

func TestGoldenDoublesBaseScore(t *testing.T) {
	tuning := withItems(quietTuning(50), ItemWeights{Golden: 100})
	e, _ := newTestEngine(makeEntries(1, 3), WithTuning(tuning))
	_ = e.Start()

	w, _ := e.Spawn()
	if w.Kind != object.ItemGolden {
		t.Fatalf("kind = %v, want golden", w.Kind)
	}
	res := mustSubmit(e, w.Answer)
	if res.Delta != 50*2 {
		t.Errorf("golden delta = %d, want 100", res.Delta)
	}
	if rec := e.Result().Completed[0]; !rec.Golden || rec.ScoreDelta != 100 {
		t.Errorf("record = %+v", rec)
	}
}

func TestBombPenaltyFloorsScore(t *testing.T) {
	tuning := withItems(quietTuning(50), ItemWeights{Bomb: 100})
	e, _ := newTestEngine(makeEntries(2, 3), WithTuning(tuning))
	var log eventLog
	e.Subscribe(log.listen)
	_ = e.Start()
	spawnAll(e)

	res := mustSubmit(e, "word1")
	if res.Delta != 0 || e.Snapshot().Session.Score != 0 {
		t.Errorf("bomb on zero score: delta=%d score=%d", res.Delta, e.Snapshot().Session.Score)
	}
	if a := log.of(EventAnswer)[0].Action; a.Score != 0 || a.Penalty != 0 {
		t.Errorf("action = %+v", *a)
	}
	if c := e.Snapshot().Session.Combo; c != 1 {
		t.Errorf("bomb match combo = %d, want 1", c)
	}
}

// A typed bomb is still a match: it keeps the combo, counts toward
// accuracy and the speed-up counter, and only its score is negative.
func TestBombMatchCountsAsCorrect(t *testing.T) {
	tuning := withItems(quietTuning(50), ItemWeights{Bomb: 100})
	e, _ := newTestEngine(makeEntries(2, 3), WithTuning(tuning))
	_ = e.Start()
	spawnAll(e)

	mustSubmit(e, "word1")
	s := e.Snapshot().Session
	if s.Correct != 1 || s.Wrong != 0 || s.MaxCombo != 1 {
		t.Errorf("correct=%d wrong=%d maxCombo=%d, want 1/0/1", s.Correct, s.Wrong, s.MaxCombo)
	}
	if want := tuning.Rules.WordsPerSpeedUp - 1; s.WordsUntilSpeedUp != want {
		t.Errorf("wordsUntilSpeedUp = %d, want %d", s.WordsUntilSpeedUp, want)
	}
	if rec := e.Result().Completed[0]; rec.Kind != object.ItemBomb || rec.Missed {
		t.Errorf("record = %+v", rec)
	}
}

func TestLifeItemCapsAtMax(t *testing.T) {
	tuning := withItems(quietTuning(10), ItemWeights{Life: 100})
	e, _ := newTestEngine(makeEntries(4, 3), WithTuning(tuning))
	_ = e.Start()
	spawnAll(e)

	for i, want := range []int{4, 5, 5} {
		res := mustSubmit(e, e.Snapshot().Words[0].Answer)
		if res.Delta != 10 {
			t.Errorf("life item %d scored %d, want 10", i, res.Delta)
		}
		if got := e.Snapshot().Session.Life; got != want {
			t.Errorf("after life item %d: life = %d, want %d", i, got, want)
		}
	}
}

func TestSpeedUpAcceleratesLiveWords(t *testing.T) {
	e, _ := newTestEngine(makeEntries(6, 3))
	var log eventLog
	e.Subscribe(log.listen)
	_ = e.Start()
	words := spawnAll(e)
	last := words[len(words)-1]

	for _, w := range words[:5] {
		mustSubmit(e, w.Answer)
	}

	s := e.Snapshot()
	if s.Session.SpeedLevel != 2 || s.Session.WordsUntilSpeedUp != 5 {
		t.Errorf("level=%d until=%d", s.Session.SpeedLevel, s.Session.WordsUntilSpeedUp)
	}
	if len(s.Words) != 1 {
		t.Fatalf("live words = %d, want 1", len(s.Words))
	}
	if want := last.Speed * 1.3; s.Words[0].Speed < want-1e-9 || s.Words[0].Speed > want+1e-9 {
		t.Errorf("speed = %v, want %v", s.Words[0].Speed, want)
	}
	if ev := log.of(EventSpeedUp); len(ev) != 1 || ev[0].Level != 2 {
		t.Errorf("speed-up events = %+v", ev)
	}
}

func TestComboMultiplierAndMilestones(t *testing.T) {
	tuning := quietTuning(10)
	tuning.Rules.ComboStep = 2
	tuning.Rules.ComboMultiplierBase = 1.5
	e, _ := newTestEngine(makeEntries(5, 3), WithTuning(tuning))
	var log eventLog
	e.Subscribe(log.listen)
	_ = e.Start()
	spawnAll(e)

	deltas := make([]int, 0, 4)
	for _, w := range []string{"word1", "word2", "word3", "word4"} {
		deltas = append(deltas, mustSubmit(e, w).Delta)
	}
	want := []int{10, 15, 15, 23}
	if !reflect.DeepEqual(deltas, want) {
		t.Errorf("deltas = %v, want %v", deltas, want)
	}
	ms := log.of(EventComboMilestone)
	if len(ms) != 2 || ms[0].Milestone.Combo != 2 || ms[1].Milestone.Multiplier != 2.25 {
		t.Errorf("milestones = %+v", ms)
	}
}

func TestNamedMilestoneLabels(t *testing.T) {
	tests := []struct {
		combo int
		label string
		fires bool
	}{
		{3, "", false},
		{5, "NICE", true},
		{10, "GREAT", true},
		{20, "AMAZING", true},
		{40, "INSANE", true},
		{50, "LEGENDARY", true},
		{70, "LEGENDARY", true},
		{71, "", false},
	}
	for _, tt := range tests {
		m, ok := milestoneFor(tt.combo, 10, 1)
		if ok != tt.fires || m.Label != tt.label {
			t.Errorf("milestoneFor(%d) = %q, %v; want %q, %v", tt.combo, m.Label, ok, tt.label, tt.fires)
		}
	}
}

func TestCorrectMilestoneBonus(t *testing.T) {
	tuning := quietTuning(10)
	tuning.Rules.CorrectMilestone = 2
	tuning.Rules.CorrectMilestoneBonus = 100
	e, _ := newTestEngine(makeEntries(2, 3), WithTuning(tuning))
	_ = e.Start()
	spawnAll(e)

	if d := mustSubmit(e, "word1").Delta; d != 10 {
		t.Errorf("first delta = %d", d)
	}
	if d := mustSubmit(e, "word2").Delta; d != 110 {
		t.Errorf("second delta = %d, want 110", d)
	}
}

func TestFeverWindow(t *testing.T) {
	tuning := quietTuning(10)
	tuning.Rules.FeverThreshold = 2
	tuning.Rules.FeverDuration = time.Second
	tuning.Rules.FeverBonus = 200
	e, mt := newTestEngine(makeEntries(4, 3), WithTuning(tuning))
	var log eventLog
	e.Subscribe(log.listen)
	_ = e.Start()
	spawnAll(e)

	mustSubmit(e, "word1")
	if d := mustSubmit(e, "word2").Delta; d != 200 {
		t.Errorf("fever-triggering match scored %d, want 200", d)
	}
	if !e.Snapshot().Session.FeverActive {
		t.Fatal("fever not active")
	}
	if left := e.Snapshot().FeverLeft; left != time.Second {
		t.Errorf("fever left = %v", left)
	}

	mt.Advance(2 * time.Second)
	e.Tick(time.Millisecond)
	if e.Snapshot().Session.FeverActive {
		t.Error("fever did not expire")
	}
	if log.count(EventFeverStart) != 1 || log.count(EventFeverEnd) != 1 {
		t.Errorf("fever events start=%d end=%d", log.count(EventFeverStart), log.count(EventFeverEnd))
	}
	if d := mustSubmit(e, "word3").Delta; d != 10 {
		t.Errorf("post-fever delta = %d, want 10", d)
	}
}

func TestPausedTimeDoesNotCount(t *testing.T) {
	tuning := quietTuning(10)
	tuning.Rules.ReactionTiers = []ReactionTier{{Within: 2 * time.Second, Bonus: 50}}
	e, mt := newTestEngine(makeEntries(1, 3), WithTuning(tuning))
	_ = e.Start()
	w, _ := e.Spawn()

	_ = e.Pause()
	mt.Advance(time.Minute)
	e.Tick(time.Minute)
	if _, err := e.Submit(w.Answer); !errors.Is(err, ErrNotRunning) {
		t.Errorf("paused submit err = %v", err)
	}
	_ = e.Resume()

	if got := e.Snapshot().Words[0].Y; got != object.SpawnY {
		t.Errorf("word moved while paused: y=%v", got)
	}
	mt.Advance(time.Second)
	if d := mustSubmit(e, w.Answer).Delta; d != 60 {
		t.Errorf("delta = %d, want 60 with reaction bonus", d)
	}
}

func TestActionTimestampsStrictlyIncrease(t *testing.T) {
	e, _ := newTestEngine(makeEntries(4, 3))
	var log eventLog
	e.Subscribe(log.listen)
	_ = e.Start()
	spawnAll(e)

	for _, w := range []string{"word1", "word2", "word3", "word4"} {
		mustSubmit(e, w)
	}
	var last int64
	for i, ev := range log.of(EventAnswer) {
		if ev.Action.TimestampMs <= last {
			t.Errorf("action %d timestamp %d not after %d", i, ev.Action.TimestampMs, last)
		}
		if ev.Action.Score < 0 {
			t.Errorf("action %d has negative score", i)
		}
		last = ev.Action.TimestampMs
	}
}

func TestPanickingListenerIsIsolated(t *testing.T) {
	e, _ := newTestEngine(makeEntries(2, 3))
	var log eventLog
	e.Subscribe(func(Event) { panic("boom") })
	e.Subscribe(log.listen)
	_ = e.Start()
	spawnAll(e)

	res := mustSubmit(e, "word1")
	if !res.Matched || e.Snapshot().Session.Correct != 1 {
		t.Error("panicking listener disturbed scoring")
	}
	if log.count(EventWordCompleted) != 1 {
		t.Error("later listener missed events")
	}
}

func TestResetIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(makeEntries(3, 3))
	_ = e.Start()
	spawnAll(e)
	mustSubmit(e, "word1")

	e.Reset()
	once := e.Snapshot()
	e.Reset()
	twice := e.Snapshot()

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("reset twice differs:\n%+v\n%+v", once, twice)
	}
	if once.State != StateIdle || once.Session.Score != 0 || len(once.Words) != 0 {
		t.Errorf("reset left %+v", once)
	}

	_ = e.Start()
	if n := len(spawnAll(e)); n != 3 {
		t.Errorf("used ids survived reset: spawned %d, want 3", n)
	}
}

func TestResultAccuracy(t *testing.T) {
	tests := []struct {
		correct, spawned, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
	}
	for _, tt := range tests {
		if got := Accuracy(tt.correct, tt.spawned); got != tt.want {
			t.Errorf("Accuracy(%d, %d) = %d, want %d", tt.correct, tt.spawned, got, tt.want)
		}
	}
}

func TestModesChooseDisplay(t *testing.T) {
	entry := vocab.Entry{ID: "x", Difficulty: 3, Fields: map[string]string{
		"word_en":     "apple",
		"meaning_en":  "사과",
		"sentence_en": "An apple a day.",
	}}
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeWord, "apple"},
		{ModeMeaning, "사과"},
		{ModeSentence, "An ____ a day."},
	}
	for _, tt := range tests {
		e, _ := newTestEngine([]vocab.Entry{entry}, WithMode(tt.mode))
		_ = e.Start()
		w, _ := e.Spawn()
		if w.Display != tt.want || w.Answer != "apple" {
			t.Errorf("%v: display %q answer %q", tt.mode, w.Display, w.Answer)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Apple ", "apple"},
		{"STRASSE", "strasse"},
		{"E\u0301CLAIR", "\u00e9clair"},
		{"\u1100\u1161", "\uac00"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
