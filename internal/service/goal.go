package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/templui/balancewheel/internal/hierarchy"
	"github.com/templui/balancewheel/internal/metrics"
	"github.com/templui/balancewheel/internal/model"
	"github.com/templui/balancewheel/internal/period"
	"github.com/templui/balancewheel/internal/progress"
	"github.com/templui/balancewheel/internal/repository"
	"github.com/templui/balancewheel/internal/validation"
)

// DailyGoalView is a daily goal with its resolved category and date, as
// shown in the day list.
type DailyGoalView struct {
	*model.DailyGoal
	Category model.Category `json:"category"`
	Date     string         `json:"date"`
	Title    string         `json:"title"`
	Color    string         `json:"color"`
}

// SeedResult counts the placeholders SeedPlaceholders created.
type SeedResult struct {
	Life    int `json:"life_goals"`
	Yearly  int `json:"yearly_goals"`
	Monthly int `json:"monthly_goals"`
}

type GoalService struct {
	lifeGoalRepository    repository.LifeGoalRepository
	yearlyGoalRepository  repository.YearlyGoalRepository
	monthlyGoalRepository repository.MonthlyGoalRepository
	dailyGoalRepository   repository.DailyGoalRepository
	location              *time.Location
}

func NewGoalService(
	lifeGoalRepository repository.LifeGoalRepository,
	yearlyGoalRepository repository.YearlyGoalRepository,
	monthlyGoalRepository repository.MonthlyGoalRepository,
	dailyGoalRepository repository.DailyGoalRepository,
	location *time.Location,
) *GoalService {
	return &GoalService{
		lifeGoalRepository:    lifeGoalRepository,
		yearlyGoalRepository:  yearlyGoalRepository,
		monthlyGoalRepository: monthlyGoalRepository,
		dailyGoalRepository:   dailyGoalRepository,
		location:              location,
	}
}

func (s *GoalService) Location() *time.Location {
	return s.location
}

// Life goals

func (s *GoalService) CreateLifeGoal(ctx context.Context, userID string, category model.Category, title string) (*model.LifeGoal, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownCategory, category)
	}
	title, err := validation.ValidateTitle(title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	goal := &model.LifeGoal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Category:  category,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.lifeGoalRepository.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create life goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) LifeGoals(ctx context.Context, userID string) ([]*model.LifeGoal, error) {
	return s.lifeGoalRepository.LifeGoals(ctx, userID)
}

func (s *GoalService) UpdateLifeGoal(ctx context.Context, userID, goalID, title string) error {
	title, err := validation.ValidateTitle(title)
	if err != nil {
		return err
	}
	return s.lifeGoalRepository.UpdateTitle(ctx, userID, goalID, title)
}

func (s *GoalService) DeleteLifeGoal(ctx context.Context, userID, goalID string) error {
	return s.lifeGoalRepository.Delete(ctx, userID, goalID)
}

// Yearly goals

func (s *GoalService) CreateYearlyGoal(ctx context.Context, userID, lifeGoalID string, year int, title string) (*model.YearlyGoal, error) {
	title, err := validation.ValidateTitle(title)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateYear(year)
	if err != nil {
		return nil, err
	}

	life, err := s.lifeGoalRepository.ByID(ctx, userID, lifeGoalID)
	if err != nil && !errors.Is(err, repository.ErrLifeGoalNotFound) {
		return nil, fmt.Errorf("failed to load life goal: %w", err)
	}

	now := time.Now()
	goal := &model.YearlyGoal{
		ID:         uuid.New().String(),
		LifeGoalID: lifeGoalID,
		Year:       year,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = hierarchy.ValidateYearly(goal, life)
	if err != nil {
		return nil, err
	}

	err = s.yearlyGoalRepository.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create yearly goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) YearlyGoals(ctx context.Context, userID string) ([]*model.YearlyGoal, error) {
	return s.yearlyGoalRepository.YearlyGoals(ctx, userID)
}

func (s *GoalService) UpdateYearlyGoal(ctx context.Context, userID, goalID, title string) error {
	title, err := validation.ValidateTitle(title)
	if err != nil {
		return err
	}
	return s.yearlyGoalRepository.UpdateTitle(ctx, userID, goalID, title)
}

func (s *GoalService) DeleteYearlyGoal(ctx context.Context, userID, goalID string) error {
	return s.yearlyGoalRepository.Delete(ctx, userID, goalID)
}

// Monthly goals

func (s *GoalService) CreateMonthlyGoal(ctx context.Context, userID, yearlyGoalID string, month int, title string) (*model.MonthlyGoal, error) {
	title, err := validation.ValidateTitle(title)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateMonth(month)
	if err != nil {
		return nil, err
	}

	yearly, err := s.yearlyGoalRepository.ByID(ctx, userID, yearlyGoalID)
	if err != nil && !errors.Is(err, repository.ErrYearlyGoalNotFound) {
		return nil, fmt.Errorf("failed to load yearly goal: %w", err)
	}

	now := time.Now()
	goal := &model.MonthlyGoal{
		ID:           uuid.New().String(),
		YearlyGoalID: yearlyGoalID,
		Month:        month,
		Title:        title,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if yearly != nil {
		goal.LifeGoalID = yearly.LifeGoalID
	}

	err = hierarchy.ValidateMonthly(goal, yearly)
	if err != nil {
		return nil, err
	}

	err = s.monthlyGoalRepository.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create monthly goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) MonthlyGoals(ctx context.Context, userID string) ([]*model.MonthlyGoal, error) {
	return s.monthlyGoalRepository.MonthlyGoals(ctx, userID)
}

func (s *GoalService) UpdateMonthlyGoal(ctx context.Context, userID, goalID, title string) error {
	title, err := validation.ValidateTitle(title)
	if err != nil {
		return err
	}
	return s.monthlyGoalRepository.UpdateTitle(ctx, userID, goalID, title)
}

func (s *GoalService) DeleteMonthlyGoal(ctx context.Context, userID, goalID string) error {
	return s.monthlyGoalRepository.Delete(ctx, userID, goalID)
}

// Daily goals

// CreateDailyGoal adds an incomplete daily goal under the monthly goal. The
// ancestor IDs are copied from the parent so the chain is consistent.
func (s *GoalService) CreateDailyGoal(ctx context.Context, userID, monthlyGoalID string, day int) (*model.DailyGoal, error) {
	monthly, err := s.monthlyGoalRepository.ByID(ctx, userID, monthlyGoalID)
	if err != nil && !errors.Is(err, repository.ErrMonthlyGoalNotFound) {
		return nil, fmt.Errorf("failed to load monthly goal: %w", err)
	}

	now := time.Now()
	goal := &model.DailyGoal{
		ID:            uuid.New().String(),
		MonthlyGoalID: monthlyGoalID,
		Day:           day,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if monthly != nil {
		goal.YearlyGoalID = monthly.YearlyGoalID
		goal.LifeGoalID = monthly.LifeGoalID
	}

	err = hierarchy.ValidateDaily(goal, monthly)
	if err != nil {
		return nil, err
	}

	yearly, err := s.yearlyGoalRepository.ByID(ctx, userID, monthly.YearlyGoalID)
	if err != nil {
		if errors.Is(err, repository.ErrYearlyGoalNotFound) {
			return nil, fmt.Errorf("monthly goal %s: yearly goal %s: %w", monthly.ID, monthly.YearlyGoalID, hierarchy.ErrMissingAncestor)
		}
		return nil, fmt.Errorf("failed to load yearly goal: %w", err)
	}
	err = validation.ValidateDay(yearly.Year, monthly.Month, day)
	if err != nil {
		return nil, err
	}

	err = s.dailyGoalRepository.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create daily goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) DeleteDailyGoal(ctx context.Context, userID, goalID string) error {
	return s.dailyGoalRepository.Delete(ctx, userID, goalID)
}

// ToggleCompletion flips a daily goal and returns its new state.
func (s *GoalService) ToggleCompletion(ctx context.Context, userID, goalID string) (bool, error) {
	completed, err := s.dailyGoalRepository.Toggle(ctx, userID, goalID)
	if err != nil {
		return false, err
	}

	metrics.Toggled(completed)
	slog.Debug("daily goal toggled", "user_id", userID, "daily_goal_id", goalID, "completed", completed)
	return completed, nil
}

// SetCompletion is the idempotent form of ToggleCompletion.
func (s *GoalService) SetCompletion(ctx context.Context, userID, goalID string, completed bool) error {
	err := s.dailyGoalRepository.SetCompleted(ctx, userID, goalID, completed)
	if err != nil {
		return err
	}

	metrics.Toggled(completed)
	return nil
}

// Tree loads every goal the user owns.
func (s *GoalService) Tree(ctx context.Context, userID string) (*model.GoalTree, error) {
	life, err := s.lifeGoalRepository.LifeGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load life goals: %w", err)
	}
	yearly, err := s.yearlyGoalRepository.YearlyGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load yearly goals: %w", err)
	}
	monthly, err := s.monthlyGoalRepository.MonthlyGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly goals: %w", err)
	}
	daily, err := s.dailyGoalRepository.DailyGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily goals: %w", err)
	}

	return &model.GoalTree{
		UserID:  userID,
		Life:    life,
		Yearly:  yearly,
		Monthly: monthly,
		Daily:   daily,
	}, nil
}

// chains resolves every daily goal in the window. The first broken chain
// aborts the load: it is logged, counted and returned.
func (s *GoalService) chains(ctx context.Context, userID string, w period.Window) ([]hierarchy.Chain, error) {
	life, err := s.lifeGoalRepository.LifeGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load life goals: %w", err)
	}
	yearly, err := s.yearlyGoalRepository.YearlyGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load yearly goals: %w", err)
	}
	monthly, err := s.monthlyGoalRepository.MonthlyGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly goals: %w", err)
	}

	var daily []*model.DailyGoal
	if w.Unbounded() {
		daily, err = s.dailyGoalRepository.DailyGoals(ctx, userID)
	} else {
		from, to := w.Start.In(s.location).Year(), w.End.Add(-time.Nanosecond).In(s.location).Year()
		daily, err = s.dailyGoalRepository.InYears(ctx, userID, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load daily goals: %w", err)
	}

	ix := hierarchy.NewIndex(life, yearly, monthly)
	chains := make([]hierarchy.Chain, 0, len(daily))
	for _, d := range daily {
		chain, err := ix.Resolve(d)
		if err != nil {
			reportViolation(userID, d.ID, err)
			return nil, err
		}
		if w.Contains(chain.Date(s.location)) {
			chains = append(chains, chain)
		}
	}

	return chains, nil
}

// Records returns the completion records for daily goals dated inside w.
func (s *GoalService) Records(ctx context.Context, userID string, w period.Window) ([]progress.Record, error) {
	chains, err := s.chains(ctx, userID, w)
	if err != nil {
		return nil, err
	}

	records := make([]progress.Record, 0, len(chains))
	for _, c := range chains {
		records = append(records, progress.Record{
			ID:        c.Daily.ID,
			Category:  c.Category(),
			Completed: c.Daily.Completed,
			Date:      c.Date(s.location),
		})
	}

	return records, nil
}

// DailyGoals lists the daily goals dated inside w, in category display
// order and then by ID.
func (s *GoalService) DailyGoals(ctx context.Context, userID string, w period.Window) ([]DailyGoalView, error) {
	chains, err := s.chains(ctx, userID, w)
	if err != nil {
		return nil, err
	}

	views := make([]DailyGoalView, 0, len(chains))
	for _, c := range chains {
		views = append(views, DailyGoalView{
			DailyGoal: c.Daily,
			Category:  c.Category(),
			Date:      c.Date(s.location).Format(time.DateOnly),
			Title:     c.Monthly.Title,
			Color:     c.Category().Color(),
		})
	}

	sort.Slice(views, func(i, j int) bool {
		ci, cj := views[i].Category.Index(), views[j].Category.Index()
		if ci != cj {
			return ci < cj
		}
		return views[i].ID < views[j].ID
	})

	return views, nil
}

// SeedPlaceholders gives every category a life goal, a yearly goal for year
// and a monthly goal for month, creating placeholders only where missing.
// Running it twice creates nothing the second time.
func (s *GoalService) SeedPlaceholders(ctx context.Context, userID string, year, month int) (SeedResult, error) {
	var result SeedResult

	err := validation.ValidateYear(year)
	if err != nil {
		return result, err
	}
	err = validation.ValidateMonth(month)
	if err != nil {
		return result, err
	}

	for _, category := range model.Categories {
		life, created, err := s.seedLife(ctx, userID, category)
		if err != nil {
			return result, err
		}
		if created {
			result.Life++
		}

		yearly, created, err := s.seedYearly(ctx, life, year)
		if err != nil {
			return result, err
		}
		if created {
			result.Yearly++
		}

		created, err = s.seedMonthly(ctx, yearly, month)
		if err != nil {
			return result, err
		}
		if created {
			result.Monthly++
		}
	}

	slog.Info("placeholders seeded",
		"user_id", userID,
		"year", year,
		"month", month,
		"life_goals", result.Life,
		"yearly_goals", result.Yearly,
		"monthly_goals", result.Monthly,
	)
	return result, nil
}

func (s *GoalService) seedLife(ctx context.Context, userID string, category model.Category) (*model.LifeGoal, bool, error) {
	existing, err := s.lifeGoalRepository.ByCategory(ctx, userID, category)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s life goals: %w", category, err)
	}
	if len(existing) > 0 {
		return existing[0], false, nil
	}

	goal, err := s.CreateLifeGoal(ctx, userID, category, model.PlaceholderTitle)
	if err != nil {
		return nil, false, err
	}
	return goal, true, nil
}

func (s *GoalService) seedYearly(ctx context.Context, life *model.LifeGoal, year int) (*model.YearlyGoal, bool, error) {
	existing, err := s.yearlyGoalRepository.ByLifeGoalAndYear(ctx, life.ID, year)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load yearly goals: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], false, nil
	}

	goal, err := s.CreateYearlyGoal(ctx, life.UserID, life.ID, year, model.PlaceholderTitle)
	if err != nil {
		return nil, false, err
	}
	return goal, true, nil
}

func (s *GoalService) seedMonthly(ctx context.Context, yearly *model.YearlyGoal, month int) (bool, error) {
	existing, err := s.monthlyGoalRepository.ByYearlyGoalAndMonth(ctx, yearly.ID, month)
	if err != nil {
		return false, fmt.Errorf("failed to load monthly goals: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	now := time.Now()
	goal := &model.MonthlyGoal{
		ID:           uuid.New().String(),
		LifeGoalID:   yearly.LifeGoalID,
		YearlyGoalID: yearly.ID,
		Month:        month,
		Title:        model.PlaceholderTitle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.monthlyGoalRepository.Create(ctx, goal)
	if err != nil {
		return false, fmt.Errorf("failed to create monthly goal: %w", err)
	}
	return true, nil
}

func reportViolation(userID, dailyGoalID string, err error) {
	kind := "inconsistent"
	if errors.Is(err, hierarchy.ErrMissingAncestor) {
		kind = "missing"
	}
	metrics.HierarchyViolation(kind)
	slog.Error("goal hierarchy violation",
		"error", err,
		"kind", kind,
		"user_id", userID,
		"daily_goal_id", dailyGoalID,
	)
}
