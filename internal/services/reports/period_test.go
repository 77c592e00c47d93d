package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Wednesday 2026-08-26 15:30 UTC.
var refNow = time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

func TestParsePeriodToday(t *testing.T) {
	w := ParsePeriod("today", refNow)

	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, 8, 26, 23, 59, 59, 999000000, time.UTC), w.End)
}

func TestParsePeriodWeekStartsSunday(t *testing.T) {
	w := ParsePeriod("week", refNow)

	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, refNow, w.End)
}

func TestParsePeriodWeekOnSunday(t *testing.T) {
	sunday := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	w := ParsePeriod("week", sunday)

	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), w.Start)
}

func TestParsePeriodMonthQuarterYear(t *testing.T) {
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), ParsePeriod("month", refNow).Start)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), ParsePeriod("quarter", refNow).Start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), ParsePeriod("year", refNow).Start)
}

func TestParsePeriodUnknownFallsBackToWeek(t *testing.T) {
	w := ParsePeriod("fortnight", refNow)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), w.Start)
}

func TestResolveWindowExplicitDatesOverridePeriod(t *testing.T) {
	w := ResolveWindow("month", "2026-08-01", "2026-08-10", refNow)

	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, 8, 10, 23, 59, 59, 999000000, time.UTC), w.End)
}

func TestResolveWindowIgnoresPartialDates(t *testing.T) {
	w := ResolveWindow("today", "2026-08-01", "", refNow)
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), w.Start)
}

func TestResolveWindowDefaultsToWeek(t *testing.T) {
	w := ResolveWindow("", "", "", refNow)
	assert.Equal(t, "week", w.Type)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), w.Start)
}

func TestComparisonWindowPrecedesEqualLength(t *testing.T) {
	w := Window{
		Type:  "week",
		Start: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
	}
	prev := ComparisonWindow(w)

	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), prev.Start)
	assert.Equal(t, w.Start, prev.End)
}
