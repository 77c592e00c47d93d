package reports

import "time"

// Window is a resolved reporting range. Type keeps the symbolic period name
// the caller asked for, even when explicit dates override it.
type Window struct {
	Type  string
	Start time.Time
	End   time.Time
}

// ParsePeriod resolves a symbolic period name against the reference clock.
// Weeks start on the most recent Sunday; unknown names fall back to week.
func ParsePeriod(period string, now time.Time) Window {
	var start, end time.Time

	switch period {
	case "today":
		start = startOfDay(now)
		end = start.Add(24*time.Hour - time.Millisecond)
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	case "quarter":
		quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
		start = time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, now.Location())
		end = now
	case "year":
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		end = now
	case "week":
		fallthrough
	default:
		start = startOfWeek(now)
		end = now
	}

	return Window{Type: period, Start: start, End: end}
}

// ResolveWindow applies the precedence rule: explicit start/end dates
// override symbolic period resolution entirely.
func ResolveWindow(period, startStr, endStr string, now time.Time) Window {
	if period == "" {
		period = "week"
	}

	if startStr != "" && endStr != "" {
		start, errStart := time.Parse("2006-01-02", startStr)
		end, errEnd := time.Parse("2006-01-02", endStr)
		if errStart == nil && errEnd == nil {
			return Window{Type: period, Start: start, End: end.Add(24*time.Hour - time.Millisecond)}
		}
	}

	return ParsePeriod(period, now)
}

// ComparisonWindow returns the immediately preceding window of equal length.
func ComparisonWindow(w Window) Window {
	duration := w.End.Sub(w.Start)
	return Window{
		Type:  w.Type,
		Start: w.Start.Add(-duration),
		End:   w.Start,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Sunday at midnight.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}
