// Package hierarchy resolves and validates the LifeGoal -> YearlyGoal ->
// MonthlyGoal -> DailyGoal chain.
//
// Violations are data-integrity bugs. They are reported, never repaired.
package hierarchy

import (
	"errors"
	"fmt"
	"time"

	"github.com/templui/balancewheel/internal/model"
)

var (
	ErrMissingAncestor       = errors.New("missing ancestor goal")
	ErrInconsistentHierarchy = errors.New("inconsistent goal hierarchy")
)

// Chain is a daily goal together with its resolved ancestors.
type Chain struct {
	Life    *model.LifeGoal
	Yearly  *model.YearlyGoal
	Monthly *model.MonthlyGoal
	Daily   *model.DailyGoal
}

func (c Chain) Category() model.Category {
	return c.Life.Category
}

// Date returns midnight of the calendar day the daily goal is for.
// Out-of-range days normalize the way time.Date does.
func (c Chain) Date(loc *time.Location) time.Time {
	return time.Date(c.Yearly.Year, time.Month(c.Monthly.Month), c.Daily.Day, 0, 0, 0, 0, loc)
}

// Index looks up ancestors by ID.
type Index struct {
	life    map[string]*model.LifeGoal
	yearly  map[string]*model.YearlyGoal
	monthly map[string]*model.MonthlyGoal
}

func NewIndex(life []*model.LifeGoal, yearly []*model.YearlyGoal, monthly []*model.MonthlyGoal) *Index {
	ix := &Index{
		life:    make(map[string]*model.LifeGoal, len(life)),
		yearly:  make(map[string]*model.YearlyGoal, len(yearly)),
		monthly: make(map[string]*model.MonthlyGoal, len(monthly)),
	}
	for _, g := range life {
		ix.life[g.ID] = g
	}
	for _, g := range yearly {
		ix.yearly[g.ID] = g
	}
	for _, g := range monthly {
		ix.monthly[g.ID] = g
	}
	return ix
}

// Resolve follows the daily goal's references and checks that they agree.
func (ix *Index) Resolve(d *model.DailyGoal) (Chain, error) {
	life, ok := ix.life[d.LifeGoalID]
	if !ok {
		return Chain{}, fmt.Errorf("daily goal %s: life goal %q: %w", d.ID, d.LifeGoalID, ErrMissingAncestor)
	}
	yearly, ok := ix.yearly[d.YearlyGoalID]
	if !ok {
		return Chain{}, fmt.Errorf("daily goal %s: yearly goal %q: %w", d.ID, d.YearlyGoalID, ErrMissingAncestor)
	}
	monthly, ok := ix.monthly[d.MonthlyGoalID]
	if !ok {
		return Chain{}, fmt.Errorf("daily goal %s: monthly goal %q: %w", d.ID, d.MonthlyGoalID, ErrMissingAncestor)
	}

	if monthly.YearlyGoalID != yearly.ID {
		return Chain{}, fmt.Errorf("daily goal %s: monthly goal %s belongs to yearly goal %s, not %s: %w",
			d.ID, monthly.ID, monthly.YearlyGoalID, yearly.ID, ErrInconsistentHierarchy)
	}
	if monthly.LifeGoalID != life.ID {
		return Chain{}, fmt.Errorf("daily goal %s: monthly goal %s belongs to life goal %s, not %s: %w",
			d.ID, monthly.ID, monthly.LifeGoalID, life.ID, ErrInconsistentHierarchy)
	}
	if yearly.LifeGoalID != life.ID {
		return Chain{}, fmt.Errorf("daily goal %s: yearly goal %s belongs to life goal %s, not %s: %w",
			d.ID, yearly.ID, yearly.LifeGoalID, life.ID, ErrInconsistentHierarchy)
	}
	if !life.Category.Valid() {
		return Chain{}, fmt.Errorf("daily goal %s: life goal %s has category %q: %w",
			d.ID, life.ID, life.Category, ErrInconsistentHierarchy)
	}

	return Chain{Life: life, Yearly: yearly, Monthly: monthly, Daily: d}, nil
}

// ValidateChain returns nil iff the daily goal's ancestors resolve to a
// consistent chain.
func (ix *Index) ValidateChain(d *model.DailyGoal) error {
	_, err := ix.Resolve(d)
	return err
}

func (ix *Index) Valid(d *model.DailyGoal) bool {
	return ix.ValidateChain(d) == nil
}

// CategoryOf returns the category of the daily goal's life goal.
func (ix *Index) CategoryOf(d *model.DailyGoal) (model.Category, error) {
	chain, err := ix.Resolve(d)
	if err != nil {
		return "", err
	}
	return chain.Category(), nil
}

// ValidateYearly checks a yearly goal against its parent before it is written.
func ValidateYearly(y *model.YearlyGoal, life *model.LifeGoal) error {
	if life == nil {
		return fmt.Errorf("yearly goal %s: %w", y.ID, ErrMissingAncestor)
	}
	if y.LifeGoalID != life.ID {
		return fmt.Errorf("yearly goal %s references life goal %s, parent is %s: %w",
			y.ID, y.LifeGoalID, life.ID, ErrInconsistentHierarchy)
	}
	return nil
}

// ValidateMonthly checks a monthly goal against its parent before it is written.
func ValidateMonthly(m *model.MonthlyGoal, yearly *model.YearlyGoal) error {
	if yearly == nil {
		return fmt.Errorf("monthly goal %s: %w", m.ID, ErrMissingAncestor)
	}
	if m.YearlyGoalID != yearly.ID || m.LifeGoalID != yearly.LifeGoalID {
		return fmt.Errorf("monthly goal %s references yearly %s / life %s, parent is yearly %s / life %s: %w",
			m.ID, m.YearlyGoalID, m.LifeGoalID, yearly.ID, yearly.LifeGoalID, ErrInconsistentHierarchy)
	}
	return nil
}

// ValidateDaily checks a daily goal against its parent before it is written.
func ValidateDaily(d *model.DailyGoal, monthly *model.MonthlyGoal) error {
	if monthly == nil {
		return fmt.Errorf("daily goal %s: %w", d.ID, ErrMissingAncestor)
	}
	if d.MonthlyGoalID != monthly.ID || d.YearlyGoalID != monthly.YearlyGoalID || d.LifeGoalID != monthly.LifeGoalID {
		return fmt.Errorf("daily goal %s references monthly %s / yearly %s / life %s, parent is monthly %s / yearly %s / life %s: %w",
			d.ID, d.MonthlyGoalID, d.YearlyGoalID, d.LifeGoalID,
			monthly.ID, monthly.YearlyGoalID, monthly.LifeGoalID, ErrInconsistentHierarchy)
	}
	return nil
}
