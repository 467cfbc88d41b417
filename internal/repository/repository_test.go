package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/balancewheel/internal/db"
	"github.com/templui/balancewheel/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	conn, err := db.Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type fixture struct {
	users   UserRepository
	life    LifeGoalRepository
	yearly  YearlyGoalRepository
	monthly MonthlyGoalRepository
	daily   DailyGoalRepository
}

func newFixture(t *testing.T) *fixture {
	conn := newTestDB(t)
	return &fixture{
		users:   NewUserRepository(conn),
		life:    NewLifeGoalRepository(conn),
		yearly:  NewYearlyGoalRepository(conn),
		monthly: NewMonthlyGoalRepository(conn),
		daily:   NewDailyGoalRepository(conn),
	}
}

func (f *fixture) user(t *testing.T, email string) *model.User {
	t.Helper()
	u := &model.User{ID: uuid.NewString(), Email: email, PasswordHash: "hash", CreatedAt: time.Now()}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

// chain creates one goal at every level for the user and returns the leaf.
func (f *fixture) chain(t *testing.T, userID string, c model.Category, year, month, day int) *model.DailyGoal {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	l := &model.LifeGoal{ID: uuid.NewString(), UserID: userID, Category: c, Title: "life", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.life.Create(ctx, l))
	y := &model.YearlyGoal{ID: uuid.NewString(), LifeGoalID: l.ID, Year: year, Title: "year", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.yearly.Create(ctx, y))
	m := &model.MonthlyGoal{ID: uuid.NewString(), LifeGoalID: l.ID, YearlyGoalID: y.ID, Month: month, Title: "month", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.monthly.Create(ctx, m))
	d := &model.DailyGoal{ID: uuid.NewString(), LifeGoalID: l.ID, YearlyGoalID: y.ID, MonthlyGoalID: m.ID, Day: day, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.daily.Create(ctx, d))
	return d
}

func TestUserRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a@example.com")

	got, err := f.users.ByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	err = f.users.Create(ctx, &model.User{ID: uuid.NewString(), Email: "a@example.com", PasswordHash: "x", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = f.users.ByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDailyGoalToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "toggle@example.com")
	d := f.chain(t, u.ID, model.CategoryHealth, 2025, 3, 9)

	completed, err := f.daily.Toggle(ctx, u.ID, d.ID)
	require.NoError(t, err)
	assert.True(t, completed)

	completed, err = f.daily.Toggle(ctx, u.ID, d.ID)
	require.NoError(t, err)
	assert.False(t, completed)

	require.NoError(t, f.daily.SetCompleted(ctx, u.ID, d.ID, true))
	require.NoError(t, f.daily.SetCompleted(ctx, u.ID, d.ID, true))
	got, err := f.daily.ByID(ctx, u.ID, d.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, 9, got.Day)
}

func TestGoalsAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")
	d := f.chain(t, owner.ID, model.CategoryCareer, 2025, 1, 1)

	_, err := f.daily.Toggle(ctx, other.ID, d.ID)
	assert.ErrorIs(t, err, ErrDailyGoalNotFound)

	_, err = f.yearly.ByID(ctx, other.ID, d.YearlyGoalID)
	assert.ErrorIs(t, err, ErrYearlyGoalNotFound)

	err = f.monthly.UpdateTitle(ctx, other.ID, d.MonthlyGoalID, "stolen")
	assert.ErrorIs(t, err, ErrMonthlyGoalNotFound)

	goals, err := f.daily.DailyGoals(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestInYears(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "years@example.com")
	f.chain(t, u.ID, model.CategoryFamily, 2024, 12, 31)
	in := f.chain(t, u.ID, model.CategoryFamily, 2025, 1, 1)

	goals, err := f.daily.InYears(ctx, u.ID, 2025, 2025)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, in.ID, goals[0].ID)

	goals, err = f.daily.InYears(ctx, u.ID, 2024, 2025)
	require.NoError(t, err)
	assert.Len(t, goals, 2)
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "cascade@example.com")
	d := f.chain(t, u.ID, model.CategoryFinance, 2025, 6, 15)

	require.NoError(t, f.life.Delete(ctx, u.ID, d.LifeGoalID))

	_, err := f.daily.ByID(ctx, u.ID, d.ID)
	assert.ErrorIs(t, err, ErrDailyGoalNotFound)
	_, err = f.monthly.ByID(ctx, u.ID, d.MonthlyGoalID)
	assert.ErrorIs(t, err, ErrMonthlyGoalNotFound)

	err = f.life.Delete(ctx, u.ID, d.LifeGoalID)
	assert.ErrorIs(t, err, ErrLifeGoalNotFound)
}

func TestCreateWithMissingParent(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	y := &model.YearlyGoal{ID: uuid.NewString(), LifeGoalID: "nope", Year: 2025, Title: "x", CreatedAt: now, UpdatedAt: now}
	err := f.yearly.Create(context.Background(), y)
	assert.ErrorIs(t, err, ErrLifeGoalNotFound)
}
