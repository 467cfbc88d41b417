// Package period computes the half-open date windows progress is
// aggregated over. Every function takes the reference instant explicitly.
package period

import (
	"fmt"
	"strings"
	"time"
)

type Period string

const (
	Day      Period = "day"
	Week     Period = "week"
	Month    Period = "month"
	Year     Period = "year"
	Lifetime Period = "lifetime"
)

// All lists the periods from shortest to longest.
var All = []Period{Day, Week, Month, Year, Lifetime}

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Day, Week, Month, Year, Lifetime:
		return p, nil
	case "daily", "today":
		return Day, nil
	case "weekly":
		return Week, nil
	case "monthly":
		return Month, nil
	case "yearly":
		return Year, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Window is the half-open range [Start, End). The zero Window is unbounded.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Unbounded() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

func (w Window) Contains(t time.Time) bool {
	if w.Unbounded() {
		return true
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days returns the midnight of every calendar day in the window. It is
// empty for an unbounded window.
func (w Window) Days() []time.Time {
	if w.Unbounded() {
		return nil
	}
	var days []time.Time
	for d := midnight(w.Start); d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (w Window) String() string {
	if w.Unbounded() {
		return "[lifetime)"
	}
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Daily covers the calendar day of now.
func Daily(now time.Time) Window {
	start := midnight(now)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// Weekly covers the seven days starting on the most recent weekStartsOn at
// or before now.
func Weekly(now time.Time, weekStartsOn time.Weekday) Window {
	today := midnight(now)
	offset := (int(today.Weekday()) - int(weekStartsOn) + 7) % 7
	start := today.AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

func Monthly(now time.Time) Window {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

func Yearly(now time.Time) Window {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(1, 0, 0)}
}

func LifetimeWindow() Window {
	return Window{}
}

// For returns the window of p around now.
func For(p Period, now time.Time, weekStartsOn time.Weekday) (Window, error) {
	switch p {
	case Day:
		return Daily(now), nil
	case Week:
		return Weekly(now, weekStartsOn), nil
	case Month:
		return Monthly(now), nil
	case Year:
		return Yearly(now), nil
	case Lifetime:
		return LifetimeWindow(), nil
	}
	return Window{}, fmt.Errorf("unknown period %q", p)
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

// Dated is anything that falls on a calendar date.
type Dated interface {
	When() time.Time
}

// Filter keeps the items whose date falls inside w, preserving order.
func Filter[T Dated](items []T, w Window) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if w.Contains(it.When()) {
			out = append(out, it)
		}
	}
	return out
}
