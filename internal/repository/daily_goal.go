package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/templui/balancewheel/internal/model"
)

var ErrDailyGoalNotFound = errors.New("daily goal not found")

type DailyGoalRepository interface {
	Create(ctx context.Context, goal *model.DailyGoal) error
	ByID(ctx context.Context, userID, goalID string) (*model.DailyGoal, error)
	DailyGoals(ctx context.Context, userID string) ([]*model.DailyGoal, error)
	InYears(ctx context.Context, userID string, from, to int) ([]*model.DailyGoal, error)
	Toggle(ctx context.Context, userID, goalID string) (bool, error)
	SetCompleted(ctx context.Context, userID, goalID string, completed bool) error
	Delete(ctx context.Context, userID, goalID string) error
}

type dailyGoalRepository struct {
	db *sqlx.DB
}

func NewDailyGoalRepository(db *sqlx.DB) DailyGoalRepository {
	return &dailyGoalRepository{db: db}
}

func (r *dailyGoalRepository) Create(ctx context.Context, goal *model.DailyGoal) error {
	query := `INSERT INTO daily_goals (id, life_goal_id, yearly_goal_id, monthly_goal_id, day, completed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.LifeGoalID,
		goal.YearlyGoalID,
		goal.MonthlyGoalID,
		goal.Day,
		goal.Completed,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil && isForeignKeyViolation(err) {
		return ErrMonthlyGoalNotFound
	}

	return err
}

func (r *dailyGoalRepository) ByID(ctx context.Context, userID, goalID string) (*model.DailyGoal, error) {
	goal := &model.DailyGoal{}
	query := `SELECT * FROM daily_goals WHERE id = $1 AND ` + fmt.Sprintf(ownedLifeGoals, 2)

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDailyGoalNotFound
	}

	return goal, err
}

func (r *dailyGoalRepository) DailyGoals(ctx context.Context, userID string) ([]*model.DailyGoal, error) {
	var goals []*model.DailyGoal
	query := `SELECT * FROM daily_goals WHERE ` + fmt.Sprintf(ownedLifeGoals, 1) + ` ORDER BY id`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// InYears narrows the load to daily goals whose yearly goal falls in
// [from, to]. Callers still filter by exact date.
func (r *dailyGoalRepository) InYears(ctx context.Context, userID string, from, to int) ([]*model.DailyGoal, error) {
	var goals []*model.DailyGoal
	query := `SELECT d.* FROM daily_goals d
	          JOIN yearly_goals y ON y.id = d.yearly_goal_id
	          JOIN life_goals l ON l.id = d.life_goal_id
	          WHERE l.user_id = $1 AND y.year BETWEEN $2 AND $3
	          ORDER BY d.id`

	err := r.db.SelectContext(ctx, &goals, query, userID, from, to)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// Toggle flips the completion flag in one statement and returns the new
// value. Concurrent toggles of the same goal serialize in the database.
func (r *dailyGoalRepository) Toggle(ctx context.Context, userID, goalID string) (bool, error) {
	var completed bool
	query := `UPDATE daily_goals SET completed = NOT completed, updated_at = $1
	          WHERE id = $2 AND ` + fmt.Sprintf(ownedLifeGoals, 3) + `
	          RETURNING completed`

	err := r.db.GetContext(ctx, &completed, query, time.Now(), goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrDailyGoalNotFound
	}

	return completed, err
}

func (r *dailyGoalRepository) SetCompleted(ctx context.Context, userID, goalID string, completed bool) error {
	query := `UPDATE daily_goals SET completed = $1, updated_at = $2 WHERE id = $3 AND ` + fmt.Sprintf(ownedLifeGoals, 4)

	result, err := r.db.ExecContext(ctx, query, completed, time.Now(), goalID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrDailyGoalNotFound)
}

func (r *dailyGoalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM daily_goals WHERE id = $1 AND ` + fmt.Sprintf(ownedLifeGoals, 2)

	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrDailyGoalNotFound)
}
