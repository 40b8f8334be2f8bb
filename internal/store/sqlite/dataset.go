package sqlite

import (
	"context"
	"fmt"

	"github.com/naipofo/librucmd/internal/records"
	"github.com/naipofo/librucmd/internal/store/sqlite/sqlbatch"
)

// SaveDataset replaces the stored snapshot with ds in a single transaction.
// Rows keep their load position so queries can reproduce the API order.
func (s *Store) SaveDataset(ctx context.Context, ds *records.Dataset) error {
	batch := sqlbatch.New()

	for _, table := range snapshotTables {
		batch.Add("reset", "DELETE FROM "+table)
	}

	batch.Add("account", insertStmt("account",
		[]string{"first_name", "last_name", "email"},
		ds.Account.FirstName, ds.Account.LastName, ds.Account.Email))

	pos := 0
	for id, subject := range ds.Subjects.All() {
		batch.Add("subjects", insertStmt("subjects",
			[]string{"subject_id", "position", "name", "short"},
			id, pos, subject.Name, subject.Short))
		pos++
	}

	pos = 0
	for id, user := range ds.Users.All() {
		batch.Add("users", insertStmt("users",
			[]string{"user_id", "position", "first_name", "last_name"},
			id, pos, user.FirstName, user.LastName))
		pos++
	}

	pos = 0
	for id, category := range ds.Categories.All() {
		batch.Add("categories", insertStmt("categories",
			[]string{"category_id", "position", "name", "weight"},
			id, pos, category.Name, category.Weight))
		pos++
	}

	pos = 0
	for id, comment := range ds.Comments.All() {
		batch.Add("comments", insertStmt("comments",
			[]string{"comment_id", "position", "text"},
			id, pos, comment.Text))
		pos++
	}

	pos = 0
	for id, g := range ds.Grades.All() {
		batch.Add("grades", insertStmt("grades",
			[]string{"grade_id", "position", "grade", "added_by", "category_id", "subject_id", "comment_id"},
			id, pos, g.Grade, g.AddedBy, g.Category, g.Subject, g.Comment))
		pos++
	}

	if err := s.flushBatch(ctx, "dataset snapshot", batch); err != nil {
		return fmt.Errorf("failed to save dataset snapshot: %w", err)
	}
	s.log.Info().
		Int("grades", batch.Count("grades")).
		Int("subjects", batch.Count("subjects")).
		Msg("dataset snapshot saved")
	return nil
}

// CountRows returns the number of rows in one of the snapshot tables.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	known := false
	for _, t := range snapshotTables {
		if t == table {
			known = true
			break
		}
	}
	if !known {
		return 0, fmt.Errorf("unknown snapshot table %q", table)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
