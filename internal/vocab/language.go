package vocab

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnsupportedLanguage is returned for codes not in the supported set.
var ErrUnsupportedLanguage = errors.New("vocab: unsupported language")

// DefaultLanguages are the language codes shipped with the default word list.
var DefaultLanguages = []string{"ko", "en", "jp"}

// Language selects which columns of an entry are read.
// It is safe for concurrent use.
type Language struct {
	mu        sync.RWMutex
	current   string
	supported []string
}

// NewLanguage creates a selection starting at code.
func NewLanguage(code string) (*Language, error) {
	l := &Language{supported: slices.Clone(DefaultLanguages)}
	if err := l.Set(code); err != nil {
		return nil, err
	}
	return l, nil
}

// Set switches the current language.
func (l *Language) Set(code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !slices.Contains(l.supported, code) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	l.current = code
	return nil
}

// Code returns the current language code.
func (l *Language) Code() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Supported returns the selectable language codes.
func (l *Language) Supported() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.supported)
}

// Add registers another language code. Adding a known code is a no-op.
func (l *Language) Add(code string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code != "" && !slices.Contains(l.supported, code) {
		l.supported = append(l.supported, code)
	}
}

// Next cycles to the following supported language and returns it.
func (l *Language) Next() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.Index(l.supported, l.current)
	l.current = l.supported[(i+1)%len(l.supported)]
	return l.current
}

func (l *Language) column(prefix string) string {
	return prefix + "_" + l.Code()
}

// Word returns the entry's word in the current language.
func (l *Language) Word(e Entry) string {
	return e.Field(l.column("word"))
}

// Meaning returns the entry's meaning in the current language.
func (l *Language) Meaning(e Entry) string {
	return e.Field(l.column("meaning"))
}

// Sentence returns the entry's example sentence in the current language.
func (l *Language) Sentence(e Entry) string {
	return e.Field(l.column("sentence"))
}
