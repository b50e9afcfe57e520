package leaderboard

import (
	"fmt"
	"time"
)

// TimeRange restricts a query to recent records.
type TimeRange int

const (
	RangeAll   TimeRange = iota // Every record
	RangeToday                  // Since local midnight
	RangeWeek                   // The last seven days
)

var rangeNames = [...]string{"all", "today", "week"}

func (t TimeRange) String() string {
	if t < 0 || int(t) >= len(rangeNames) {
		return fmt.Sprintf("TimeRange(%d)", int(t))
	}
	return rangeNames[t]
}

// ParseTimeRange accepts "all", "today" or "week". Empty means all.
func ParseTimeRange(s string) (TimeRange, error) {
	if s == "" {
		return RangeAll, nil
	}
	for i, name := range rangeNames {
		if name == s {
			return TimeRange(i), nil
		}
	}
	return RangeAll, fmt.Errorf("unknown time range %q", s)
}

// since returns the earliest date included by the range.
func (t TimeRange) since(now time.Time) time.Time {
	switch t {
	case RangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case RangeWeek:
		return now.AddDate(0, 0, -7)
	default:
		return time.Time{}
	}
}

// Query filters stored records.
type Query struct {
	Mode  string // Empty or "all" matches every mode
	Range TimeRange
	Limit int // <= 0 means no limit
}

// Query returns matching records, best first.
func (s *Store) Query(q Query) []Record {
	since := q.Range.since(s.tp.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.records {
		if q.Mode != "" && q.Mode != "all" && r.Mode != q.Mode {
			continue
		}
		if r.Date.Before(since) {
			continue
		}
		out = append(out, r)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}
