package database

import (
	"context"
	"database/sql"
	"fmt"

	"echo-daily/internal/database/sqlc"
	"echo-daily/internal/diary"
)

// The entries_fts projection is written here and nowhere else. Every caller
// passes the transaction of the entry mutation, so the entry row and its
// projection commit or roll back together.

// projectEntry replaces the search projection of row.
func projectEntry(ctx context.Context, tx *sql.Tx, row *sqlc.Entry) error {
	if err := removeProjection(ctx, tx, row.ID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO entries_fts (entry_id, content, mood) VALUES (?, ?, ?)",
		row.ID, row.ContentJson, row.Mood.String)
	if err != nil {
		return storageErr("indexing entry", err)
	}
	return nil
}

// removeProjection deletes every projection of entryID.
func removeProjection(ctx context.Context, tx *sql.Tx, entryID string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM entries_fts WHERE entry_id = ?", entryID); err != nil {
		return storageErr("removing entry from index", err)
	}
	return nil
}

// RebuildIndex discards the search index and re-projects every entry in one
// transaction. Returns the number of projections written.
func (s *SQLiteDatabase) RebuildIndex() (int64, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("starting transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries_fts"); err != nil {
		return 0, storageErr("clearing index", err)
	}
	result, err := tx.ExecContext(ctx, `
		INSERT INTO entries_fts (entry_id, content, mood)
		SELECT id, content_json, COALESCE(mood, '') FROM entries`)
	if err != nil {
		return 0, storageErr("rebuilding index", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, storageErr("rebuilding index", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("committing transaction", err)
	}
	return n, nil
}

// CheckIndex compares entries_fts with entries.
func (s *SQLiteDatabase) CheckIndex() (*diary.IndexReport, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("starting transaction", err)
	}
	defer tx.Rollback()

	var r diary.IndexReport
	checks := []struct {
		name  string
		query string
		dest  *int64
	}{
		{"entries", `SELECT COUNT(*) FROM entries`, &r.Entries},
		{"projections", `SELECT COUNT(*) FROM entries_fts`, &r.Projections},
		{"missing", `
			SELECT COUNT(*) FROM entries e
			WHERE NOT EXISTS (SELECT 1 FROM entries_fts f WHERE f.entry_id = e.id)`, &r.Missing},
		{"orphaned", `
			SELECT COUNT(*) FROM entries_fts f
			WHERE NOT EXISTS (SELECT 1 FROM entries e WHERE e.id = f.entry_id)`, &r.Orphaned},
		{"stale", `
			SELECT COUNT(*) FROM entries_fts f
			JOIN entries e ON e.id = f.entry_id
			WHERE f.content IS NOT e.content_json OR f.mood IS NOT COALESCE(e.mood, '')`, &r.Stale},
		{"duplicated", `
			SELECT COALESCE(SUM(n - 1), 0) FROM (
				SELECT COUNT(*) AS n FROM entries_fts GROUP BY entry_id HAVING COUNT(*) > 1
			)`, &r.Duplicated},
	}
	for _, c := range checks {
		if err := tx.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, storageErr(fmt.Sprintf("counting %s projections", c.name), err)
		}
	}
	return &r, nil
}
