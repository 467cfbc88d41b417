package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/templui/balancewheel/internal/model"
)

var ErrLifeGoalNotFound = errors.New("life goal not found")

type LifeGoalRepository interface {
	Create(ctx context.Context, goal *model.LifeGoal) error
	ByID(ctx context.Context, userID, goalID string) (*model.LifeGoal, error)
	LifeGoals(ctx context.Context, userID string) ([]*model.LifeGoal, error)
	ByCategory(ctx context.Context, userID string, category model.Category) ([]*model.LifeGoal, error)
	UpdateTitle(ctx context.Context, userID, goalID, title string) error
	Delete(ctx context.Context, userID, goalID string) error
}

type lifeGoalRepository struct {
	db *sqlx.DB
}

func NewLifeGoalRepository(db *sqlx.DB) LifeGoalRepository {
	return &lifeGoalRepository{db: db}
}

func (r *lifeGoalRepository) Create(ctx context.Context, goal *model.LifeGoal) error {
	query := `INSERT INTO life_goals (id, user_id, category, title, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Category,
		goal.Title,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil && isForeignKeyViolation(err) {
		return ErrUserNotFound
	}

	return err
}

func (r *lifeGoalRepository) ByID(ctx context.Context, userID, goalID string) (*model.LifeGoal, error) {
	goal := &model.LifeGoal{}
	query := `SELECT * FROM life_goals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLifeGoalNotFound
	}

	return goal, err
}

func (r *lifeGoalRepository) LifeGoals(ctx context.Context, userID string) ([]*model.LifeGoal, error) {
	var goals []*model.LifeGoal
	query := `SELECT * FROM life_goals WHERE user_id = $1 ORDER BY created_at, id`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *lifeGoalRepository) ByCategory(ctx context.Context, userID string, category model.Category) ([]*model.LifeGoal, error) {
	var goals []*model.LifeGoal
	query := `SELECT * FROM life_goals WHERE user_id = $1 AND category = $2 ORDER BY created_at, id`

	err := r.db.SelectContext(ctx, &goals, query, userID, category)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *lifeGoalRepository) UpdateTitle(ctx context.Context, userID, goalID, title string) error {
	query := `UPDATE life_goals SET title = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`

	result, err := r.db.ExecContext(ctx, query, title, time.Now(), goalID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrLifeGoalNotFound)
}

// Delete removes the life goal and its whole subtree.
func (r *lifeGoalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM life_goals WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrLifeGoalNotFound)
}
