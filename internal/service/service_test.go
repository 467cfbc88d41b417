package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/balancewheel/internal/db"
	"github.com/templui/balancewheel/internal/hierarchy"
	"github.com/templui/balancewheel/internal/model"
	"github.com/templui/balancewheel/internal/period"
	"github.com/templui/balancewheel/internal/repository"
	"github.com/templui/balancewheel/internal/validation"
)

// Wednesday; the Sunday-started week runs March 9 to 15.
var testNow = time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)

type testServices struct {
	auth      *AuthService
	users     *UserService
	goals     *GoalService
	progress  *ProgressService
	dailyRepo repository.DailyGoalRepository
	user      *model.User
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	conn, err := db.Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	userRepository := repository.NewUserRepository(conn)
	daily := repository.NewDailyGoalRepository(conn)
	goals := NewGoalService(
		repository.NewLifeGoalRepository(conn),
		repository.NewYearlyGoalRepository(conn),
		repository.NewMonthlyGoalRepository(conn),
		daily,
		time.UTC,
	)
	auth := NewAuthService(userRepository, "test-secret", time.Hour)

	user, err := auth.Signup(ctx, "wheel@example.com", "long enough passphrase")
	require.NoError(t, err)

	return &testServices{
		auth:      auth,
		users:     NewUserService(userRepository),
		goals:     goals,
		progress:  NewProgressService(goals, time.Sunday),
		dailyRepo: daily,
		user:      user,
	}
}

// monthly returns the seeded March 2025 monthly goal for category c.
func (s *testServices) monthly(t *testing.T, c model.Category) *model.MonthlyGoal {
	t.Helper()
	return s.monthlyIn(t, c, 2025, 3)
}

func (s *testServices) monthlyIn(t *testing.T, c model.Category, year, month int) *model.MonthlyGoal {
	t.Helper()
	ctx := context.Background()
	_, err := s.goals.SeedPlaceholders(ctx, s.user.ID, year, month)
	require.NoError(t, err)

	yearly, err := s.goals.YearlyGoals(ctx, s.user.ID)
	require.NoError(t, err)
	yearOf := make(map[string]int, len(yearly))
	for _, y := range yearly {
		yearOf[y.ID] = y.Year
	}

	life, err := s.goals.LifeGoals(ctx, s.user.ID)
	require.NoError(t, err)
	monthly, err := s.goals.MonthlyGoals(ctx, s.user.ID)
	require.NoError(t, err)
	for _, l := range life {
		if l.Category != c {
			continue
		}
		for _, m := range monthly {
			if m.LifeGoalID == l.ID && m.Month == month && yearOf[m.YearlyGoalID] == year {
				return m
			}
		}
	}
	t.Fatalf("no monthly goal for %s", c)
	return nil
}

func (s *testServices) daily(t *testing.T, m *model.MonthlyGoal, day int, completed bool) *model.DailyGoal {
	t.Helper()
	ctx := context.Background()
	d, err := s.goals.CreateDailyGoal(ctx, s.user.ID, m.ID, day)
	require.NoError(t, err)
	if completed {
		require.NoError(t, s.goals.SetCompletion(ctx, s.user.ID, d.ID, true))
	}
	return d
}

func TestSeedPlaceholdersIsIdempotent(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	result, err := s.goals.SeedPlaceholders(ctx, s.user.ID, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Life: 8, Yearly: 8, Monthly: 8}, result)

	result, err = s.goals.SeedPlaceholders(ctx, s.user.ID, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, result)

	result, err = s.goals.SeedPlaceholders(ctx, s.user.ID, 2025, 4)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Monthly: 8}, result)

	life, err := s.goals.LifeGoals(ctx, s.user.ID)
	require.NoError(t, err)
	require.Len(t, life, 8)
	assert.Equal(t, model.PlaceholderTitle, life[0].Title)
}

func TestCreateGoalsChecksParents(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.goals.CreateYearlyGoal(ctx, s.user.ID, "missing", 2025, "Save more")
	assert.ErrorIs(t, err, hierarchy.ErrMissingAncestor)

	_, err = s.goals.CreateMonthlyGoal(ctx, s.user.ID, "missing", 3, "Budget")
	assert.ErrorIs(t, err, hierarchy.ErrMissingAncestor)

	_, err = s.goals.CreateDailyGoal(ctx, s.user.ID, "missing", 1)
	assert.ErrorIs(t, err, hierarchy.ErrMissingAncestor)

	m := s.monthly(t, model.CategoryFinance)
	_, err = s.goals.CreateDailyGoal(ctx, s.user.ID, m.ID, 32)
	assert.ErrorIs(t, err, validation.ErrInvalidDay)

	d, err := s.goals.CreateDailyGoal(ctx, s.user.ID, m.ID, 31)
	require.NoError(t, err)
	assert.Equal(t, m.YearlyGoalID, d.YearlyGoalID)
	assert.Equal(t, m.LifeGoalID, d.LifeGoalID)
	assert.False(t, d.Completed)

	_, err = s.goals.CreateLifeGoal(ctx, s.user.ID, model.Category("hobbies"), "x")
	assert.ErrorIs(t, err, model.ErrUnknownCategory)
}

func TestDailyGoalsOrder(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	env := s.daily(t, s.monthly(t, model.CategoryEnvironment), 12, false)
	career := s.daily(t, s.monthly(t, model.CategoryCareer), 12, false)
	s.daily(t, s.monthly(t, model.CategoryCareer), 13, false)

	views, err := s.goals.DailyGoals(ctx, s.user.ID, period.Daily(testNow))
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, career.ID, views[0].ID)
	assert.Equal(t, model.CategoryCareer, views[0].Category)
	assert.Equal(t, "2025-03-12", views[0].Date)
	assert.Equal(t, env.ID, views[1].ID)
}

func TestProgressCareerScenario(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m := s.monthly(t, model.CategoryCareer)
	s.daily(t, m, 10, true)
	s.daily(t, m, 11, false)

	dist, err := s.progress.Progress(ctx, s.user.ID, period.Week, testNow)
	require.NoError(t, err)
	assert.Equal(t, 6, dist.OverallPercent)
	assert.InDelta(t, 0.9375, dist.Remaining, 1e-12)

	career, ok := dist.Slice(model.CategoryCareer)
	require.True(t, ok)
	assert.Equal(t, 0.5, career.Ratio)
	assert.Equal(t, 0.0625, career.Fraction)

	day, err := s.progress.Progress(ctx, s.user.ID, period.Day, testNow)
	require.NoError(t, err)
	assert.Zero(t, day.Goals())
	assert.Equal(t, 0, day.OverallPercent)
}

func TestToggleAndRefreshRoundTrip(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	d := s.daily(t, s.monthly(t, model.CategoryHealth), 12, false)
	s.daily(t, s.monthly(t, model.CategoryFamily), 12, true)

	before, err := s.progress.Progress(ctx, s.user.ID, period.Day, testNow)
	require.NoError(t, err)
	assert.Equal(t, 13, before.OverallPercent)

	completed, after, err := s.progress.ToggleAndRefresh(ctx, s.user.ID, d.ID, period.Day, testNow)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, 25, after.OverallPercent)

	completed, restored, err := s.progress.ToggleAndRefresh(ctx, s.user.ID, d.ID, period.Day, testNow)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, before, restored)
}

func TestProgressReportsBrokenHierarchy(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	career := s.monthly(t, model.CategoryCareer)
	health := s.monthly(t, model.CategoryHealth)

	// Career ancestors with a health monthly goal.
	now := time.Now()
	broken := &model.DailyGoal{
		ID:            "broken",
		LifeGoalID:    career.LifeGoalID,
		YearlyGoalID:  career.YearlyGoalID,
		MonthlyGoalID: health.ID,
		Day:           12,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, s.dailyRepo.Create(ctx, broken))

	dist, err := s.progress.Progress(ctx, s.user.ID, period.Day, testNow)
	assert.ErrorIs(t, err, hierarchy.ErrInconsistentHierarchy)
	assert.Equal(t, 0, dist.OverallPercent)
	assert.Equal(t, 1.0, dist.Remaining)

	_, err = s.progress.Overview(ctx, s.user.ID, testNow)
	assert.ErrorIs(t, err, hierarchy.ErrInconsistentHierarchy)
}

func TestOverviewAndBreakdowns(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	m := s.monthly(t, model.CategorySpirituality)
	s.daily(t, m, 9, true)
	s.daily(t, m, 1, true)

	overview, err := s.progress.Overview(ctx, s.user.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12", overview.Date)
	require.Len(t, overview.Periods, len(period.All))
	assert.Equal(t, 0, overview.Periods[period.Day].OverallPercent)
	assert.Equal(t, 13, overview.Periods[period.Week].OverallPercent)
	assert.Equal(t, 13, overview.Periods[period.Month].OverallPercent)
	assert.Equal(t, 2, overview.Periods[period.Lifetime].Goals())

	days, err := s.progress.WeeklyBreakdown(ctx, s.user.ID, testNow)
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, 13, days[0].OverallPercent)

	cells, err := s.progress.MonthlyCalendar(ctx, s.user.ID, testNow)
	require.NoError(t, err)
	require.Len(t, cells, 31)
	assert.Equal(t, 1, cells[0].Goals)

	months, err := s.progress.YearlyBreakdown(ctx, s.user.ID, testNow)
	require.NoError(t, err)
	require.Len(t, months, 12)
	assert.Equal(t, 2, months[2].Goals())
}

func TestProgressAcrossYearBoundary(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	s.daily(t, s.monthlyIn(t, model.CategoryCareer, 2025, 12), 30, true)
	s.daily(t, s.monthlyIn(t, model.CategoryCareer, 2026, 1), 2, false)

	// Thursday; the Sunday-started week runs 2025-12-28 to 2026-01-03.
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

	week, err := s.progress.Progress(ctx, s.user.ID, period.Week, now)
	require.NoError(t, err)
	assert.Equal(t, 2, week.Goals())
	assert.Equal(t, 6, week.OverallPercent)

	days, err := s.progress.WeeklyBreakdown(ctx, s.user.ID, now)
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, "2025-12-30", days[2].Date.Format(time.DateOnly))
	assert.Equal(t, 13, days[2].OverallPercent)
	assert.Equal(t, 1, days[2].Goals())
	assert.Equal(t, "2026-01-02", days[5].Date.Format(time.DateOnly))
	assert.Equal(t, 1, days[5].Goals())
	assert.Equal(t, 0, days[5].OverallPercent)

	year, err := s.progress.Progress(ctx, s.user.ID, period.Year, now)
	require.NoError(t, err)
	assert.Equal(t, 1, year.Goals())
	assert.Equal(t, 0, year.OverallPercent)

	prevYear, err := s.progress.Progress(ctx, s.user.ID, period.Year, now.AddDate(0, 0, -2))
	require.NoError(t, err)
	assert.Equal(t, 1, prevYear.Goals())
	assert.Equal(t, 13, prevYear.OverallPercent)
}

func TestAuth(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.auth.Signup(ctx, "WHEEL@example.com ", "another long passphrase")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = s.auth.Signup(ctx, "new@example.com", "short")
	assert.ErrorIs(t, err, validation.ErrPasswordTooShort)

	_, err = s.auth.Login(ctx, "wheel@example.com", "wrong passphrase!!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := s.auth.Login(ctx, " Wheel@Example.com", "long enough passphrase")
	require.NoError(t, err)

	token, err := s.auth.GenerateJWT(user)
	require.NoError(t, err)
	userID, err := s.auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	other := NewAuthService(nil, "other-secret", time.Hour)
	_, err = other.VerifyJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccountRemovesGoals(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	s.daily(t, s.monthly(t, model.CategoryRecreation), 5, true)

	require.NoError(t, s.users.DeleteAccount(ctx, s.user.ID))

	tree, err := s.goals.Tree(ctx, s.user.ID)
	require.NoError(t, err)
	assert.Empty(t, tree.Life)
	assert.Empty(t, tree.Daily)
}

type memoryStorage struct {
	objects map[string][]byte
}

func (m *memoryStorage) Put(_ context.Context, key string, body io.Reader, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key, nil
}

func TestExportSnapshot(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	s.daily(t, s.monthly(t, model.CategoryCareer), 3, false)

	_, err := NewExportService(s.goals, nil).Snapshot(ctx, s.user.ID, testNow)
	assert.ErrorIs(t, err, ErrStorageDisabled)

	store := &memoryStorage{objects: map[string][]byte{}}
	exports := NewExportService(s.goals, store)

	tree, err := exports.Export(ctx, s.user.ID, testNow)
	require.NoError(t, err)
	assert.Len(t, tree.Life, 8)
	assert.Len(t, tree.Daily, 1)
	assert.Equal(t, testNow, tree.ExportedAt)

	snap, err := exports.Snapshot(ctx, s.user.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, "exports/"+s.user.ID+"/20250312T150000Z.json", snap.Key)
	assert.Equal(t, "https://storage.test/"+snap.Key, snap.URL)
	assert.True(t, bytes.Contains(store.objects[snap.Key], []byte(`"daily_goals"`)))
}

func TestReport(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	s.daily(t, s.monthly(t, model.CategoryCareer), 12, true)

	reports := NewReportService(s.progress, NewEmailService("", "noreply@example.com", true), "Balance Wheel")
	report, err := reports.Send(ctx, s.user, testNow)
	require.NoError(t, err)

	assert.Equal(t, "Balance Wheel progress for 2025-03-12", report.Subject)
	assert.Contains(t, report.Markdown, "| day | 13% |")
	assert.Contains(t, report.HTML, "<table>")
	assert.Contains(t, report.HTML, "<td>Career</td>")
}
