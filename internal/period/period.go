// Package period derives bounded date ranges from free-text queries.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Range is an inclusive calendar date range. A single-day point has
// Start == End.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
}

// IsPoint reports whether the range is a single day.
func (r Range) IsPoint() bool { return r.Start.Equal(r.End) }

var (
	quarterRe = regexp.MustCompile(`(?i)\bQ([1-4])\s+(\d{4})\b`)
	yearRe    = regexp.MustCompile(`\b(\d{4})\b`)
)

// relativeOffsets maps phrases to day offsets. Calendar-day subtraction is
// used, so "one year ago" lands a day off the same calendar date across a
// leap year; that is accepted.
var relativeOffsets = []struct {
	phrase string
	days   int
}{
	{"one year ago", 365},
	{"six months ago", 180},
	{"three months ago", 90},
	{"last month", 30},
}

// Derive extracts the date range a query is asking about, relative to
// `now`. Relative phrases take precedence over quarter tokens, which take
// precedence over bare years. The second return is false when no period
// token was recognized — a distinct outcome from an upstream "no data for
// period" error.
func Derive(query string, now time.Time) (Range, bool) {
	folded := strings.ToLower(query)

	for _, rel := range relativeOffsets {
		if strings.Contains(folded, rel.phrase) {
			day := truncateDay(now).AddDate(0, 0, -rel.days)
			return Range{Start: day, End: day}, true
		}
	}

	if m := quarterRe.FindStringSubmatch(query); m != nil {
		q, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		return quarterBounds(q, year), true
	}

	if m := yearRe.FindStringSubmatch(query); m != nil {
		year, _ := strconv.Atoi(m[1])
		if year >= 1900 && year <= 2200 {
			return Range{
				Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
			}, true
		}
	}

	return Range{}, false
}

func quarterBounds(q, year int) Range {
	switch q {
	case 1:
		return Range{
			Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, time.March, 31, 0, 0, 0, 0, time.UTC),
		}
	case 2:
		return Range{
			Start: time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, time.June, 30, 0, 0, 0, 0, time.UTC),
		}
	case 3:
		return Range{
			Start: time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, time.September, 30, 0, 0, 0, 0, time.UTC),
		}
	default:
		return Range{
			Start: time.Date(year, time.October, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
