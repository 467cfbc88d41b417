// Package repository holds the sqlx-backed stores. Queries use $N
// placeholders, which both SQLite and PostgreSQL accept.
package repository

import (
	"database/sql"
	"strings"
)

// ownedLifeGoals restricts a child table to rows under the user's life goals.
// The user ID is always the last query argument.
const ownedLifeGoals = `life_goal_id IN (SELECT id FROM life_goals WHERE user_id = $%d)`

// expectRows turns a zero-row write into notFound.
func expectRows(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// isUniqueViolation works for both SQLite and PostgreSQL error text.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// isForeignKeyViolation works for both SQLite and PostgreSQL error text.
func isForeignKeyViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "violates foreign key constraint")
}
