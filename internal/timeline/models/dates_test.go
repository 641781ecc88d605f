package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("year only", func(t *testing.T) {
		d := ParseDate("2020")
		assert.Equal(t, ResolvedDate{Year: 2020, Month: 1, Day: 1, Precision: PrecisionYear}, d)
	})

	t.Run("year month", func(t *testing.T) {
		d := ParseDate("2020-05")
		assert.Equal(t, ResolvedDate{Year: 2020, Month: 5, Day: 1, Precision: PrecisionMonth}, d)
	})

	t.Run("full date", func(t *testing.T) {
		d := ParseDate("2020-05-03")
		assert.Equal(t, ResolvedDate{Year: 2020, Month: 5, Day: 3, Precision: PrecisionDay}, d)
	})

	t.Run("malformed inputs are invalid, not errors", func(t *testing.T) {
		for _, s := range []string{"", "soon", "2020-13", "2020-00-01", "2020-05-40", "2020-05-03-12", "-2020"} {
			assert.False(t, ParseDate(s).Valid(), "input %q", s)
		}
	})
}

func TestCompareDatesOrdering(t *testing.T) {
	t.Run("year descending", func(t *testing.T) {
		assert.Negative(t, CompareDates(ParseDate("2021"), ParseDate("2020")))
		assert.Positive(t, CompareDates(ParseDate("2019-12-31"), ParseDate("2020")))
	})

	t.Run("year-only leads within its year", func(t *testing.T) {
		assert.Negative(t, CompareDates(ParseDate("2020"), ParseDate("2020-12-31")))
		assert.Positive(t, CompareDates(ParseDate("2020-01"), ParseDate("2020")))
	})

	t.Run("month descending, coarser leads within a month", func(t *testing.T) {
		assert.Negative(t, CompareDates(ParseDate("2020-06"), ParseDate("2020-05-30")))
		assert.Negative(t, CompareDates(ParseDate("2020-05"), ParseDate("2020-05-30")))
		assert.Negative(t, CompareDates(ParseDate("2020-05-30"), ParseDate("2020-05-03")))
	})

	t.Run("invalid sorts after every valid date", func(t *testing.T) {
		assert.Positive(t, CompareDates(ParseDate("nope"), ParseDate("1901")))
		assert.Zero(t, CompareDates(ParseDate(""), ParseDate("???")))
	})
}

func TestSortPointsMixedPrecision(t *testing.T) {
	points := []TimelinePoint{
		{Date: "2020-05-03", Description: "day"},
		{Date: "2020", Description: "year"},
		{Date: "2020-05", Description: "month"},
	}
	SortPoints(points)

	require.Len(t, points, 3)
	assert.Equal(t, "2020", points[0].Date)
	assert.Equal(t, "2020-05", points[1].Date)
	assert.Equal(t, "2020-05-03", points[2].Date)
}

func TestSortPointsMalformedStableAndIdempotent(t *testing.T) {
	points := []TimelinePoint{
		{Date: "unknown", Description: "bad-a"},
		{Date: "2019-03-01", Description: "valid-old"},
		{Date: "", Description: "bad-b"},
		{Date: "2021", Description: "valid-new"},
	}
	SortPoints(points)

	descriptions := func() []string {
		out := make([]string, len(points))
		for i, p := range points {
			out[i] = p.Description
		}
		return out
	}

	first := descriptions()
	assert.Equal(t, []string{"valid-new", "valid-old", "bad-a", "bad-b"}, first)

	// Re-running the sort must not reorder anything.
	SortPoints(points)
	assert.Equal(t, first, descriptions())
}

func TestEventRecency(t *testing.T) {
	t.Run("rank key is the most recent valid point", func(t *testing.T) {
		ev := Event{Points: []TimelinePoint{
			{Date: "2018-01-01"},
			{Date: "garbage"},
			{Date: "2022-07"},
		}}
		got, ok := ev.Recency()
		require.True(t, ok)
		assert.Equal(t, 2022, got.Year)
		assert.Equal(t, 7, got.Month)
		assert.Equal(t, "2022-07", ev.PrimaryDate())
	})

	t.Run("no valid points ranks last", func(t *testing.T) {
		dated := Event{Title: "dated", Points: []TimelinePoint{{Date: "1999"}}}
		undated := Event{Title: "undated", Points: []TimelinePoint{{Date: "n/a"}}}
		_, ok := undated.Recency()
		assert.False(t, ok)
		assert.Empty(t, undated.PrimaryDate())

		events := []Event{undated, dated}
		SortEvents(events)
		assert.Equal(t, "dated", events[0].Title)
		assert.Equal(t, "undated", events[1].Title)
	})
}
