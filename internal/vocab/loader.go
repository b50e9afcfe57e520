package vocab

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed words.csv
var defaultWords string

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("vocab: missing required column")
	// ErrEmpty is returned when a file holds no usable rows.
	ErrEmpty = errors.New("vocab: no entries")
)

var requiredColumns = []string{"id", "difficulty"}

// Default returns the word list compiled into the binary.
func Default() (*Store, error) {
	return Load(strings.NewReader(defaultWords))
}

// LoadFile reads a CSV word list from disk.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load parses a CSV word list with a header row.
// Rows without an id are skipped; difficulty is clamped to 1..5.
func Load(r io.Reader) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	for _, col := range requiredColumns {
		if !hasColumn(header, col) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var entries []Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e, ok := parseRow(header, rec)
		if !ok {
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	return NewStore(entries), nil
}

func parseRow(header, rec []string) (Entry, bool) {
	e := Entry{Fields: make(map[string]string, len(header))}
	for i, col := range header {
		if i >= len(rec) {
			break
		}
		v := strings.TrimSpace(rec[i])
		switch col {
		case "id":
			e.ID = v
		case "difficulty":
			d, err := strconv.Atoi(v)
			if err != nil {
				d = 1
			}
			e.Difficulty = min(max(d, 1), 5)
		case "category":
			e.Category = v
		default:
			e.Fields[col] = v
		}
	}
	return e, e.ID != ""
}

func hasColumn(header []string, name string) bool {
	for _, h := range header {
		if h == name {
			return true
		}
	}
	return false
}
