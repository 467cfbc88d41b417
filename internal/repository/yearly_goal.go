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

var ErrYearlyGoalNotFound = errors.New("yearly goal not found")

type YearlyGoalRepository interface {
	Create(ctx context.Context, goal *model.YearlyGoal) error
	ByID(ctx context.Context, userID, goalID string) (*model.YearlyGoal, error)
	YearlyGoals(ctx context.Context, userID string) ([]*model.YearlyGoal, error)
	ByLifeGoalAndYear(ctx context.Context, lifeGoalID string, year int) ([]*model.YearlyGoal, error)
	UpdateTitle(ctx context.Context, userID, goalID, title string) error
	Delete(ctx context.Context, userID, goalID string) error
}

type yearlyGoalRepository struct {
	db *sqlx.DB
}

func NewYearlyGoalRepository(db *sqlx.DB) YearlyGoalRepository {
	return &yearlyGoalRepository{db: db}
}

func (r *yearlyGoalRepository) Create(ctx context.Context, goal *model.YearlyGoal) error {
	query := `INSERT INTO yearly_goals (id, life_goal_id, year, title, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.LifeGoalID,
		goal.Year,
		goal.Title,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil && isForeignKeyViolation(err) {
		return ErrLifeGoalNotFound
	}

	return err
}

func (r *yearlyGoalRepository) ByID(ctx context.Context, userID, goalID string) (*model.YearlyGoal, error) {
	goal := &model.YearlyGoal{}
	query := `SELECT * FROM yearly_goals WHERE id = $1 AND ` + fmt.Sprintf(ownedLifeGoals, 2)

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrYearlyGoalNotFound
	}

	return goal, err
}

func (r *yearlyGoalRepository) YearlyGoals(ctx context.Context, userID string) ([]*model.YearlyGoal, error) {
	var goals []*model.YearlyGoal
	query := `SELECT * FROM yearly_goals WHERE ` + fmt.Sprintf(ownedLifeGoals, 1) + ` ORDER BY year, created_at, id`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *yearlyGoalRepository) ByLifeGoalAndYear(ctx context.Context, lifeGoalID string, year int) ([]*model.YearlyGoal, error) {
	var goals []*model.YearlyGoal
	query := `SELECT * FROM yearly_goals WHERE life_goal_id = $1 AND year = $2 ORDER BY created_at, id`

	err := r.db.SelectContext(ctx, &goals, query, lifeGoalID, year)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *yearlyGoalRepository) UpdateTitle(ctx context.Context, userID, goalID, title string) error {
	query := `UPDATE yearly_goals SET title = $1, updated_at = $2 WHERE id = $3 AND ` + fmt.Sprintf(ownedLifeGoals, 4)

	result, err := r.db.ExecContext(ctx, query, title, time.Now(), goalID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrYearlyGoalNotFound)
}

func (r *yearlyGoalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM yearly_goals WHERE id = $1 AND ` + fmt.Sprintf(ownedLifeGoals, 2)

	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrYearlyGoalNotFound)
}
