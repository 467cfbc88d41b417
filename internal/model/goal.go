package model

import (
	"time"
)

const PlaceholderTitle = "Untitled"

// LifeGoal is the root of a category's goal chain.
type LifeGoal struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Category  Category  `db:"category" json:"category"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type YearlyGoal struct {
	ID         string    `db:"id" json:"id"`
	LifeGoalID string    `db:"life_goal_id" json:"life_goal_id"`
	Year       int       `db:"year" json:"year"`
	Title      string    `db:"title" json:"title"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type MonthlyGoal struct {
	ID           string    `db:"id" json:"id"`
	LifeGoalID   string    `db:"life_goal_id" json:"life_goal_id"`
	YearlyGoalID string    `db:"yearly_goal_id" json:"yearly_goal_id"`
	Month        int       `db:"month" json:"month"`
	Title        string    `db:"title" json:"title"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DailyGoal is the leaf of the hierarchy and the only goal with a
// completion state. The ancestor IDs are denormalized for querying and must
// agree with the monthly goal's own ancestry.
type DailyGoal struct {
	ID            string    `db:"id" json:"id"`
	LifeGoalID    string    `db:"life_goal_id" json:"life_goal_id"`
	YearlyGoalID  string    `db:"yearly_goal_id" json:"yearly_goal_id"`
	MonthlyGoalID string    `db:"monthly_goal_id" json:"monthly_goal_id"`
	Day           int       `db:"day" json:"day"`
	Completed     bool      `db:"completed" json:"completed"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// GoalTree is a user's complete set of goals, as exported.
type GoalTree struct {
	UserID     string         `json:"user_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Life       []*LifeGoal    `json:"life_goals"`
	Yearly     []*YearlyGoal  `json:"yearly_goals"`
	Monthly    []*MonthlyGoal `json:"monthly_goals"`
	Daily      []*DailyGoal   `json:"daily_goals"`
}
