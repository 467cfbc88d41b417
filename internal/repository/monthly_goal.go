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

var ErrMonthlyGoalNotFound = errors.New("monthly goal not found")

type MonthlyGoalRepository interface {
	Create(ctx context.Context, goal *model.MonthlyGoal) error
	ByID(ctx context.Context, userID, goalID string) (*model.MonthlyGoal, error)
	MonthlyGoals(ctx context.Context, userID string) ([]*model.MonthlyGoal, error)
	ByYearlyGoalAndMonth(ctx context.Context, yearlyGoalID string, month int) ([]*model.MonthlyGoal, error)
	UpdateTitle(ctx context.Context, userID, goalID, title string) error
	Delete(ctx context.Context, userID, goalID string) error
}

type monthlyGoalRepository struct {
	db *sqlx.DB
}

func NewMonthlyGoalRepository(db *sqlx.DB) MonthlyGoalRepository {
	return &monthlyGoalRepository{db: db}
}

func (r *monthlyGoalRepository) Create(ctx context.Context, goal *model.MonthlyGoal) error {
	query := `INSERT INTO monthly_goals (id, life_goal_id, yearly_goal_id, month, title, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.LifeGoalID,
		goal.YearlyGoalID,
		goal.Month,
		goal.Title,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil && isForeignKeyViolation(err) {
		return ErrYearlyGoalNotFound
	}

	return err
}

func (r *monthlyGoalRepository) ByID(ctx context.Context, userID, goalID string) (*model.MonthlyGoal, error) {
	goal := &model.MonthlyGoal{}
	query := `SELECT * FROM monthly_goals WHERE id = $1 AND ` + fmt.Sprintf(ownedLifeGoals, 2)

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMonthlyGoalNotFound
	}

	return goal, err
}

func (r *monthlyGoalRepository) MonthlyGoals(ctx context.Context, userID string) ([]*model.MonthlyGoal, error) {
	var goals []*model.MonthlyGoal
	query := `SELECT * FROM monthly_goals WHERE ` + fmt.Sprintf(ownedLifeGoals, 1) + ` ORDER BY month, created_at, id`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *monthlyGoalRepository) ByYearlyGoalAndMonth(ctx context.Context, yearlyGoalID string, month int) ([]*model.MonthlyGoal, error) {
	var goals []*model.MonthlyGoal
	query := `SELECT * FROM monthly_goals WHERE yearly_goal_id = $1 AND month = $2 ORDER BY created_at, id`

	err := r.db.SelectContext(ctx, &goals, query, yearlyGoalID, month)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *monthlyGoalRepository) UpdateTitle(ctx context.Context, userID, goalID, title string) error {
	query := `UPDATE monthly_goals SET title = $1, updated_at = $2 WHERE id = $3 AND ` + fmt.Sprintf(ownedLifeGoals, 4)

	result, err := r.db.ExecContext(ctx, query, title, time.Now(), goalID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrMonthlyGoalNotFound)
}

func (r *monthlyGoalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM monthly_goals WHERE id = $1 AND ` + fmt.Sprintf(ownedLifeGoals, 2)

	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrMonthlyGoalNotFound)
}
