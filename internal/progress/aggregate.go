// Package progress turns daily goal completion records into chart-ready
// distributions.
//
// Every category weighs 1/8 of the wheel no matter how many goals it holds.
// A category's slice is its completion ratio divided by eight, the overall
// score is the rounded sum of the slices as a percentage, and the
// "remaining" slice is what is left of the whole.
package progress

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/templui/balancewheel/internal/model"
)

// Record is a daily goal reduced to what aggregation needs.
type Record struct {
	ID        string
	Category  model.Category
	Completed bool
	Date      time.Time
}

func (r Record) When() time.Time {
	return r.Date
}

type Slice struct {
	Category model.Category `json:"category"`
	// Fraction is the slice's share of the whole wheel.
	Fraction float64 `json:"fraction"`
	// Ratio is completed/total within the category.
	Ratio     float64 `json:"ratio"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Color     string  `json:"color"`
	Label     string  `json:"label"`
}

type Distribution struct {
	OverallPercent int     `json:"overall_percent"`
	Remaining      float64 `json:"remaining"`
	// Slices holds one entry per category in display order followed by the
	// remaining slice.
	Slices []Slice `json:"slices"`
}

const (
	// divPlaces is the precision of every per-category quotient.
	divPlaces = 32
	// sumPlaces absorbs the quotient rounding error so that sums landing
	// exactly on a half percent round up.
	sumPlaces = 24
)

var (
	one       = decimal.NewFromInt(1)
	hundred   = decimal.NewFromInt(100)
	weightDiv = decimal.NewFromInt(int64(model.CategoryCount))
)

type tally struct {
	completed int
	total     int
}

// Aggregate computes the distribution of records. Records without a stored
// category are ignored; callers resolve categories through the hierarchy
// first. Empty input yields the zero state: score 0 and remaining 1.
func Aggregate(records []Record) Distribution {
	var counts [model.CategoryCount]tally
	for _, r := range records {
		i := r.Category.Index()
		if i < 0 {
			continue
		}
		counts[i].total++
		if r.Completed {
			counts[i].completed++
		}
	}

	slices := make([]Slice, 0, model.CategoryCount+1)
	sum := decimal.Zero
	for i, c := range model.Categories {
		n := counts[i]
		ratio := decimal.Zero
		contribution := decimal.Zero
		if n.total > 0 {
			completed := decimal.NewFromInt(int64(n.completed))
			total := decimal.NewFromInt(int64(n.total))
			ratio = completed.DivRound(total, divPlaces)
			contribution = completed.DivRound(total.Mul(weightDiv), divPlaces)
		}
		sum = sum.Add(contribution)

		slices = append(slices, Slice{
			Category:  c,
			Fraction:  contribution.InexactFloat64(),
			Ratio:     ratio.InexactFloat64(),
			Completed: n.completed,
			Total:     n.total,
			Color:     c.Color(),
			Label:     c.Label(),
		})
	}

	sum = sum.Round(sumPlaces)
	remaining := one.Sub(sum)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	slices = append(slices, Slice{
		Category: model.CategoryRemaining,
		Fraction: remaining.InexactFloat64(),
		Color:    model.CategoryRemaining.Color(),
		Label:    model.CategoryRemaining.Label(),
	})

	return Distribution{
		OverallPercent: int(sum.Mul(hundred).Round(0).IntPart()),
		Remaining:      remaining.InexactFloat64(),
		Slices:         slices,
	}
}

// Empty is the distribution of a period without goals.
func Empty() Distribution {
	return Aggregate(nil)
}

// Legend returns the category slices without the remaining slice.
func (d Distribution) Legend() []Slice {
	out := make([]Slice, 0, len(d.Slices))
	for _, s := range d.Slices {
		if s.Category != model.CategoryRemaining {
			out = append(out, s)
		}
	}
	return out
}

// Slice returns the slice of category c.
func (d Distribution) Slice(c model.Category) (Slice, bool) {
	for _, s := range d.Slices {
		if s.Category == c {
			return s, true
		}
	}
	return Slice{}, false
}

// Goals returns how many goals the distribution was computed over.
func (d Distribution) Goals() int {
	n := 0
	for _, s := range d.Slices {
		n += s.Total
	}
	return n
}
