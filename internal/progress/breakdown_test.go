package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/balancewheel/internal/model"
	"github.com/templui/balancewheel/internal/period"
)

func on(day time.Time, c model.Category, completed bool) Record {
	return Record{ID: day.Format(time.DateOnly) + string(c), Category: c, Completed: completed, Date: day}
}

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestWeekly(t *testing.T) {
	// Week of Sunday 2025-03-09.
	in := []Record{
		on(d(2025, time.March, 8), model.CategoryCareer, true), // previous week
		on(d(2025, time.March, 9), model.CategoryCareer, true),
		on(d(2025, time.March, 9), model.CategoryHealth, false),
		on(d(2025, time.March, 11), model.CategoryFinance, true),
		on(d(2025, time.March, 11), model.CategoryFamily, true),
		on(d(2025, time.March, 16), model.CategoryCareer, true), // next week
	}
	days := Weekly(in, period.Weekly(d(2025, time.March, 12), time.Sunday))
	require.Len(t, days, 7)

	assert.Equal(t, "Sun", days[0].Weekday)
	assert.Equal(t, "Sat", days[6].Weekday)
	assert.Equal(t, d(2025, time.March, 9), days[0].Date)

	assert.Equal(t, 13, days[0].OverallPercent)
	career, _ := days[0].Slice(model.CategoryCareer)
	assert.Equal(t, 0.125, career.Fraction)

	assert.Equal(t, 0, days[1].OverallPercent)
	assert.Equal(t, 1.0, days[1].Remaining)

	assert.Equal(t, 25, days[2].OverallPercent)
	for _, day := range days[3:] {
		assert.Zero(t, day.Goals())
	}
}

func TestCalendar(t *testing.T) {
	in := []Record{
		on(d(2025, time.February, 1), model.CategoryCareer, true),
		on(d(2025, time.February, 28), model.CategoryHealth, false),
		on(d(2025, time.March, 1), model.CategoryHealth, true),
	}
	cells := Calendar(in, period.Monthly(d(2025, time.February, 10)))
	require.Len(t, cells, 28)

	assert.Equal(t, 13, cells[0].Percent)
	assert.Equal(t, 1, cells[0].Goals)
	assert.Equal(t, "#666666", cells[0].Color)

	assert.Equal(t, 0, cells[27].Percent)
	assert.Equal(t, 1, cells[27].Goals)
	assert.Equal(t, 0, cells[10].Goals)
}

func TestYearly(t *testing.T) {
	in := []Record{
		on(d(2025, time.January, 5), model.CategoryCareer, true),
		on(d(2025, time.January, 6), model.CategoryCareer, false),
		on(d(2025, time.December, 31), model.CategorySpirituality, true),
		on(d(2026, time.January, 1), model.CategorySpirituality, true),
	}
	months := Yearly(in, period.Yearly(d(2025, time.June, 1)))
	require.Len(t, months, 12)

	assert.Equal(t, 1, months[0].Month)
	assert.Equal(t, "Jan", months[0].Label)
	assert.Equal(t, 6, months[0].OverallPercent)
	assert.Equal(t, 13, months[11].OverallPercent)
	assert.Equal(t, "Dec", months[11].Label)
	for _, m := range months[1:11] {
		assert.Zero(t, m.Goals())
	}

	assert.Nil(t, Yearly(in, period.LifetimeWindow()))
}

func TestHeatColor(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{100, "#4CAF50"},
		{80, "#4CAF50"},
		{79, "#4A90E2"},
		{60, "#4A90E2"},
		{40, "#FF9800"},
		{20, "#FF5722"},
		{19, "#666666"},
		{0, "#666666"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HeatColor(tt.percent), "percent %d", tt.percent)
	}
}
