package models

import (
	"sort"
	"strconv"
	"strings"
)

// DatePrecision tags how much of a date string was specified. The comparator
// needs it: within a year, a year-only point leads the year's more precise
// points by editorial convention.
type DatePrecision int

const (
	PrecisionInvalid DatePrecision = iota
	PrecisionYear
	PrecisionMonth
	PrecisionDay
)

// ResolvedDate is a parsed mixed-precision date. Missing components default
// to the start of the period (month 1, day 1) so comparisons stay total.
type ResolvedDate struct {
	Year      int
	Month     int
	Day       int
	Precision DatePrecision
}

// Valid reports whether the date parsed at all.
func (d ResolvedDate) Valid() bool {
	return d.Precision != PrecisionInvalid
}

// ParseDate parses "YYYY", "YYYY-MM", or "YYYY-MM-DD". Anything else yields
// an invalid ResolvedDate; callers sort those last rather than erroring.
func ParseDate(s string) ResolvedDate {
	invalid := ResolvedDate{}
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) < 1 || len(parts) > 3 || parts[0] == "" {
		return invalid
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || year <= 0 {
		return invalid
	}
	resolved := ResolvedDate{Year: year, Month: 1, Day: 1, Precision: PrecisionYear}

	if len(parts) >= 2 {
		month, err := strconv.Atoi(parts[1])
		if err != nil || month < 1 || month > 12 {
			return invalid
		}
		resolved.Month = month
		resolved.Precision = PrecisionMonth
	}
	if len(parts) == 3 {
		day, err := strconv.Atoi(parts[2])
		if err != nil || day < 1 || day > 31 {
			return invalid
		}
		resolved.Day = day
		resolved.Precision = PrecisionDay
	}
	return resolved
}

// CompareDates orders two resolved dates most-recent-first. It returns a
// negative value when a sorts before b, positive when after, zero when
// equal-ranked.
//
// Rules, in order: invalid dates after all valid ones; year descending;
// within a year, a year-only entry leads more precise entries; month
// descending; within a month, coarser precision leads; day descending.
func CompareDates(a, b ResolvedDate) int {
	switch {
	case !a.Valid() && !b.Valid():
		return 0
	case !a.Valid():
		return 1
	case !b.Valid():
		return -1
	}

	if a.Year != b.Year {
		return b.Year - a.Year
	}

	aYearOnly := a.Precision == PrecisionYear
	bYearOnly := b.Precision == PrecisionYear
	if aYearOnly != bYearOnly {
		if aYearOnly {
			return -1
		}
		return 1
	}
	if aYearOnly {
		return 0
	}

	if a.Month != b.Month {
		return b.Month - a.Month
	}
	if a.Precision != b.Precision {
		return int(a.Precision) - int(b.Precision)
	}
	if a.Precision == PrecisionMonth {
		return 0
	}
	return b.Day - a.Day
}

// ComparePoints orders timeline points by their parsed dates, most recent
// first. Malformed dates rank equal among themselves so a stable sort keeps
// their original relative order.
func ComparePoints(a, b TimelinePoint) int {
	return CompareDates(ParseDate(a.Date), ParseDate(b.Date))
}

// SortPoints stable-sorts points most-recent-first in place.
func SortPoints(points []TimelinePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return ComparePoints(points[i], points[j]) < 0
	})
}

// Recency returns the event's rank key: its single most recent valid point's
// date. ok is false when the event has no valid point; such events rank last.
func (e Event) Recency() (ResolvedDate, bool) {
	var best ResolvedDate
	found := false
	for _, p := range e.Points {
		d := ParseDate(p.Date)
		if !d.Valid() {
			continue
		}
		if !found || CompareDates(d, best) < 0 {
			best = d
			found = true
		}
	}
	return best, found
}

// PrimaryDate returns the raw date string of the event's most recent valid
// point, or "" when none parses. Search treats it as the event's
// representative date.
func (e Event) PrimaryDate() string {
	best := ResolvedDate{}
	raw := ""
	for _, p := range e.Points {
		d := ParseDate(p.Date)
		if !d.Valid() {
			continue
		}
		if raw == "" || CompareDates(d, best) < 0 {
			best = d
			raw = p.Date
		}
	}
	return raw
}

// CompareEvents orders events by recency, most recent first; events with no
// valid points rank last and equal among themselves.
func CompareEvents(a, b Event) int {
	ra, okA := a.Recency()
	rb, okB := b.Recency()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return CompareDates(ra, rb)
}

// SortEvents stable-sorts events most-recent-first in place.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return CompareEvents(events[i], events[j]) < 0
	})
}
