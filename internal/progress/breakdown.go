package progress

import (
	"time"

	"github.com/templui/balancewheel/internal/period"
)

// DayBreakdown is one bar of the weekly chart.
type DayBreakdown struct {
	Date    time.Time `json:"date"`
	Weekday string    `json:"weekday"`
	Distribution
}

// CalendarDay is one cell of the monthly heatmap.
type CalendarDay struct {
	Date    time.Time `json:"date"`
	Percent int       `json:"percent"`
	Goals   int       `json:"goals"`
	Color   string    `json:"color"`
}

// MonthBreakdown is one stacked bar of the yearly chart.
type MonthBreakdown struct {
	Month int    `json:"month"`
	Label string `json:"label"`
	Distribution
}

// Weekly aggregates each day of w separately.
func Weekly(records []Record, w period.Window) []DayBreakdown {
	days := w.Days()
	out := make([]DayBreakdown, 0, len(days))
	for _, day := range days {
		out = append(out, DayBreakdown{
			Date:         day,
			Weekday:      day.Weekday().String()[:3],
			Distribution: Aggregate(period.Filter(records, period.Daily(day))),
		})
	}
	return out
}

// Calendar scores each day of w for the heatmap.
func Calendar(records []Record, w period.Window) []CalendarDay {
	days := w.Days()
	out := make([]CalendarDay, 0, len(days))
	for _, day := range days {
		d := Aggregate(period.Filter(records, period.Daily(day)))
		out = append(out, CalendarDay{
			Date:    day,
			Percent: d.OverallPercent,
			Goals:   d.Goals(),
			Color:   HeatColor(d.OverallPercent),
		})
	}
	return out
}

// Yearly aggregates each calendar month that starts inside w.
func Yearly(records []Record, w period.Window) []MonthBreakdown {
	if w.Unbounded() {
		return nil
	}
	var out []MonthBreakdown
	for m := period.Monthly(w.Start).Start; m.Before(w.End); m = m.AddDate(0, 1, 0) {
		out = append(out, MonthBreakdown{
			Month:        int(m.Month()),
			Label:        m.Month().String()[:3],
			Distribution: Aggregate(period.Filter(records, period.Monthly(m))),
		})
	}
	return out
}

// HeatColor buckets a percentage into the heatmap palette.
func HeatColor(percent int) string {
	switch {
	case percent >= 80:
		return "#4CAF50"
	case percent >= 60:
		return "#4A90E2"
	case percent >= 40:
		return "#FF9800"
	case percent >= 20:
		return "#FF5722"
	default:
		return "#666666"
	}
}
