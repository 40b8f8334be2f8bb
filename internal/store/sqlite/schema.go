package sqlite

import (
	"context"
	"fmt"
)

// No foreign keys: grades may point at rows the API never sent and the
// snapshot keeps them as-is.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS account (
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS subjects (
		subject_id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		short TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		category_id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		weight INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		comment_id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		text TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS grades (
		grade_id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		grade TEXT NOT NULL,
		added_by INTEGER NOT NULL,
		category_id INTEGER NOT NULL,
		subject_id INTEGER NOT NULL,
		comment_id INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_grades_subject ON grades(subject_id, position)`,
}

// snapshotTables lists the tables SaveDataset replaces, in insert order.
var snapshotTables = []string{"account", "subjects", "users", "categories", "comments", "grades"}

func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
