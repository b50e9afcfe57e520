// Package leaderboard persists the best runs to a JSON file.
package leaderboard

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
)

// Store limits.
const (
	MaxRecords    = 100
	MaxNameLength = 20
	DefaultName   = "Anonymous"
)

// Record is one leaderboard row.
type Record struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	MaxCombo   int       `json:"max_combo"`
	Accuracy   int       `json:"accuracy"`
	SpeedLevel int       `json:"speed_level"`
	Mode       string    `json:"mode"`
	Difficulty int       `json:"difficulty"`
	Date       time.Time `json:"date"`
	SessionID  string    `json:"session_id,omitempty"`
}

// NewRecord builds a record from a finished run.
func NewRecord(name string, r engine.Result) Record {
	return Record{
		PlayerName: name,
		Score:      r.Score,
		MaxCombo:   r.MaxCombo,
		Accuracy:   r.Accuracy,
		SpeedLevel: r.SpeedLevel,
		Mode:       r.Mode.String(),
		Difficulty: r.Difficulty,
	}
}

// CleanName trims a player name and caps it at MaxNameLength runes.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name
}

// Store keeps the top records sorted by score, highest first.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	path    string
	records []Record
	tp      engine.TimeProvider
}

// Option configures a Store.
type Option func(*Store)

// WithTimeProvider sets the clock used for record dates and time ranges.
func WithTimeProvider(tp engine.TimeProvider) Option {
	return func(s *Store) { s.tp = tp }
}

// Open loads the store at path. A missing file starts empty and an empty
// path keeps records in memory only.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, tp: engine.SystemTime}
	for _, opt := range opts {
		opt(s)
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, fmt.Errorf("decode leaderboard %s: %w", path, err)
		}
	}
	sortRecords(s.records)
	if len(s.records) > MaxRecords {
		s.records = s.records[:MaxRecords]
	}
	return s, nil
}

// Save inserts a record and returns its rank among all stored scores.
// The record gets an id and date when it has none.
func (s *Store) Save(r Record) (int, error) {
	r.PlayerName = CleanName(r.PlayerName)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Date.IsZero() {
		r.Date = s.tp.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rank := rankOf(s.records, r.Score)
	next := slices.Insert(slices.Clone(s.records), insertAt(s.records, r.Score), r)
	if len(next) > MaxRecords {
		next = next[:MaxRecords]
	}
	if err := s.persist(next); err != nil {
		return 0, err
	}
	s.records = next
	return rank, nil
}

// Rank returns where score would place: one plus the number of higher scores.
func (s *Store) Rank(score int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rankOf(s.records, score)
}

// Top returns the n best records. n <= 0 returns all.
func (s *Store) Top(n int) []Record {
	return s.Query(Query{Limit: n})
}

// PersonalBest returns the best record for a player name.
func (s *Store) PersonalBest(name string) (Record, bool) {
	name = CleanName(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.PlayerName == name {
			return r, true
		}
	}
	return Record{}, false
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes every record.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(nil); err != nil {
		return err
	}
	s.records = nil
	return nil
}

// persist writes records atomically. Caller holds the write lock.
func (s *Store) persist(records []Record) error {
	if s.path == "" {
		return nil
	}
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".rankings-*.json")
	if err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace leaderboard: %w", err)
	}
	return nil
}

func rankOf(sorted []Record, score int) int {
	n := 0
	for n < len(sorted) && sorted[n].Score > score {
		n++
	}
	return n + 1
}

// insertAt returns the index after every record scoring at least score,
// so earlier runs keep their place on ties.
func insertAt(sorted []Record, score int) int {
	n := 0
	for n < len(sorted) && sorted[n].Score >= score {
		n++
	}
	return n
}

func sortRecords(rs []Record) {
	slices.SortStableFunc(rs, func(a, b Record) int {
		return cmp.Compare(b.Score, a.Score)
	})
}
