package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/templui/balancewheel/internal/metrics"
	"github.com/templui/balancewheel/internal/period"
	"github.com/templui/balancewheel/internal/progress"
)

// Overview holds every period's distribution for one reference date.
type Overview struct {
	Date    string                                 `json:"date"`
	Periods map[period.Period]progress.Distribution `json:"periods"`
}

type ProgressService struct {
	goalService  *GoalService
	weekStartsOn time.Weekday
}

func NewProgressService(goalService *GoalService, weekStartsOn time.Weekday) *ProgressService {
	return &ProgressService{
		goalService:  goalService,
		weekStartsOn: weekStartsOn,
	}
}

func (s *ProgressService) window(p period.Period, now time.Time) (period.Window, error) {
	return period.For(p, now.In(s.goalService.Location()), s.weekStartsOn)
}

func (s *ProgressService) records(ctx context.Context, userID string, p period.Period, now time.Time) ([]progress.Record, period.Window, error) {
	w, err := s.window(p, now)
	if err != nil {
		return nil, w, err
	}
	records, err := s.goalService.Records(ctx, userID, w)
	return records, w, err
}

// Progress aggregates the daily goals of the period containing now. On a
// hierarchy error it returns the empty distribution with the error.
func (s *ProgressService) Progress(ctx context.Context, userID string, p period.Period, now time.Time) (progress.Distribution, error) {
	start := time.Now()
	defer func() { metrics.ObserveAggregation(string(p), time.Since(start)) }()

	records, _, err := s.records(ctx, userID, p, now)
	if err != nil {
		return progress.Empty(), err
	}
	return progress.Aggregate(records), nil
}

func (s *ProgressService) WeeklyBreakdown(ctx context.Context, userID string, now time.Time) ([]progress.DayBreakdown, error) {
	records, w, err := s.records(ctx, userID, period.Week, now)
	if err != nil {
		return nil, err
	}
	return progress.Weekly(records, w), nil
}

func (s *ProgressService) MonthlyCalendar(ctx context.Context, userID string, now time.Time) ([]progress.CalendarDay, error) {
	records, w, err := s.records(ctx, userID, period.Month, now)
	if err != nil {
		return nil, err
	}
	return progress.Calendar(records, w), nil
}

func (s *ProgressService) YearlyBreakdown(ctx context.Context, userID string, now time.Time) ([]progress.MonthBreakdown, error) {
	records, w, err := s.records(ctx, userID, period.Year, now)
	if err != nil {
		return nil, err
	}
	return progress.Yearly(records, w), nil
}

// Overview computes all periods concurrently, each from its own read.
func (s *ProgressService) Overview(ctx context.Context, userID string, now time.Time) (*Overview, error) {
	results := make([]progress.Distribution, len(period.All))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range period.All {
		g.Go(func() error {
			dist, err := s.Progress(ctx, userID, p, now)
			if err != nil {
				return err
			}
			results[i] = dist
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := &Overview{
		Date:    now.In(s.goalService.Location()).Format(time.DateOnly),
		Periods: make(map[period.Period]progress.Distribution, len(period.All)),
	}
	for i, p := range period.All {
		overview.Periods[p] = results[i]
	}
	return overview, nil
}

// ToggleAndRefresh flips a daily goal and reaggregates the period from the
// database, so the result reflects every write that landed before it.
func (s *ProgressService) ToggleAndRefresh(ctx context.Context, userID, goalID string, p period.Period, now time.Time) (bool, progress.Distribution, error) {
	completed, err := s.goalService.ToggleCompletion(ctx, userID, goalID)
	if err != nil {
		return false, progress.Empty(), err
	}

	dist, err := s.Progress(ctx, userID, p, now)
	return completed, dist, err
}
