// Package vocab loads the word list and answers queries the engine needs.
// A Store is immutable after loading and safe to share across sessions.
package vocab

import (
	"slices"
	"strings"
)

// Entry is one row of the vocabulary.
// Fields holds every language column keyed by its header, e.g. "word_en".
type Entry struct {
	ID         string
	Difficulty int
	Category   string
	Fields     map[string]string
}

// Field returns the value of the named column, or "" if absent.
func (e Entry) Field(name string) string {
	return e.Fields[name]
}

// Store is a read-only collection of entries.
type Store struct {
	entries []Entry
	byID    map[string]int
}

// Rand is the subset of math/rand/v2 used for sampling.
type Rand interface {
	IntN(n int) int
}

// NewStore builds a store from entries. Later duplicates of an id are dropped.
func NewStore(entries []Entry) *Store {
	s := &Store{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := s.byID[e.ID]; dup {
			continue
		}
		s.byID[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s
}

// All returns every entry in load order.
func (s *Store) All() []Entry {
	return slices.Clone(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Get looks up an entry by id.
func (s *Store) Get(id string) (Entry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// ByDifficulty returns entries of exactly the given level.
func (s *Store) ByDifficulty(level int) []Entry {
	return s.ByDifficultyRange(level, level)
}

// ByDifficultyRange returns entries whose difficulty lies in [lo, hi].
func (s *Store) ByDifficultyRange(lo, hi int) []Entry {
	return s.filter(func(e Entry) bool {
		return e.Difficulty >= lo && e.Difficulty <= hi
	})
}

// ByCategory returns entries in the given category.
func (s *Store) ByCategory(category string) []Entry {
	return s.filter(func(e Entry) bool {
		return e.Category == category
	})
}

// Categories returns the distinct categories in load order.
func (s *Store) Categories() []string {
	var out []string
	for _, e := range s.entries {
		if e.Category != "" && !slices.Contains(out, e.Category) {
			out = append(out, e.Category)
		}
	}
	return out
}

// Sample returns up to n distinct entries chosen uniformly at random.
func (s *Store) Sample(r Rand, n int) []Entry {
	pool := slices.Clone(s.entries)
	if n > len(pool) {
		n = len(pool)
	}
	// Partial Fisher-Yates
	for i := 0; i < n; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

func (s *Store) filter(keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range s.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Blank hides every occurrence of word inside sentence.
func Blank(sentence, word string) string {
	if word == "" {
		return sentence
	}
	return strings.ReplaceAll(sentence, word, strings.Repeat("_", 4))
}
