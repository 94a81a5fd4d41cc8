package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"echo-daily/internal/database/sqlc"
	"echo-daily/internal/diary"
)

// ExportAll reads every entry and AI operation from one snapshot.
func (s *SQLiteDatabase) ExportAll() (*diary.Bundle, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("starting transaction", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	entries, err := qtx.ListAllEntries(ctx)
	if err != nil {
		return nil, storageErr("exporting entries", err)
	}
	ops, err := qtx.ListAllAIOperations(ctx)
	if err != nil {
		return nil, storageErr("exporting ai operations", err)
	}

	return &diary.Bundle{
		Version:      diary.BundleVersion,
		ExportedAt:   s.clock.Now().UTC().Truncate(time.Millisecond),
		Entries:      toEntries(entries),
		AIOperations: toAIOperations(ops),
	}, nil
}

// Import reconciles a bundle with the store. Entries are matched by date,
// AI operations by id. Each record is applied in its own transaction; a
// record that fails is counted and the import continues.
//
// AI operations that reference a bundle entry which reconciled onto an
// existing local row are re-pointed at the local entry id.
func (s *SQLiteDatabase) Import(bundle *diary.Bundle, opts diary.ImportOptions) (*diary.ImportResult, error) {
	if bundle == nil {
		return nil, fmt.Errorf("%w: nil bundle", diary.ErrSerialization)
	}
	ctx := context.Background()
	result := &diary.ImportResult{}

	localIDs := make(map[string]string, len(bundle.Entries))
	for _, e := range bundle.Entries {
		localID, applied, err := s.importEntry(ctx, e, opts.Overwrite)
		if err != nil {
			result.Failed++
			continue
		}
		localIDs[e.ID] = localID
		if applied {
			result.EntriesImported++
		} else {
			result.EntriesSkipped++
		}
	}

	if !opts.IncludeAIOperations {
		return result, nil
	}

	for _, op := range bundle.AIOperations {
		applied, err := s.importAIOperation(ctx, op, localIDs)
		if err != nil {
			result.Failed++
			continue
		}
		if applied {
			result.AIOperationsImported++
		} else {
			result.AIOperationsSkipped++
		}
	}

	return result, nil
}

// importEntry applies one bundle entry. It returns the id of the local row
// the entry reconciled onto and whether anything was written.
func (s *SQLiteDatabase) importEntry(ctx context.Context, e *diary.Entry, overwrite bool) (string, bool, error) {
	if err := validateImportEntry(e); err != nil {
		return "", false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, storageErr("starting transaction", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	var row sqlc.Entry
	existing, err := qtx.GetEntryByDate(ctx, e.EntryDate)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		createdAt, updatedAt := s.importTimestamps(e)
		err = qtx.InsertEntry(ctx, sqlc.InsertEntryParams{
			ID:          e.ID,
			EntryDate:   e.EntryDate,
			ContentJson: e.ContentJSON,
			Mood:        nullString(e.Mood),
			MoodEmoji:   nullString(e.MoodEmoji),
			CreatedAt:   createdAt,
			UpdatedAt:   updatedAt,
		})
		if err != nil {
			return "", false, storageErr("inserting imported entry", err)
		}
		row = sqlc.Entry{ID: e.ID, ContentJson: e.ContentJSON, Mood: nullString(e.Mood)}
	case err != nil:
		return "", false, storageErr("finding entry by date", err)
	case !overwrite:
		return existing.ID, false, nil
	default:
		row, err = qtx.OverwriteEntry(ctx, sqlc.OverwriteEntryParams{
			ContentJson: e.ContentJSON,
			Mood:        nullString(e.Mood),
			MoodEmoji:   nullString(e.MoodEmoji),
			UpdatedAt:   e.UpdatedAt.UnixMilli(),
			ID:          existing.ID,
		})
		if err != nil {
			return "", false, storageErr("overwriting entry", err)
		}
	}

	if err := projectEntry(ctx, tx, &row); err != nil {
		return "", false, err
	}

	if err := tx.Commit(); err != nil {
		return "", false, storageErr("committing transaction", err)
	}
	return row.ID, true, nil
}

// importAIOperation inserts op unless a record with its id already exists.
func (s *SQLiteDatabase) importAIOperation(ctx context.Context, op *diary.AIOperation, localIDs map[string]string) (bool, error) {
	if op.ID == "" {
		return false, fmt.Errorf("%w: ai operation without id", diary.ErrSerialization)
	}

	record := *op
	if localID, ok := localIDs[op.EntryID]; ok {
		record.EntryID = localID
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.clock.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, storageErr("starting transaction", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	_, err = qtx.GetAIOperationByID(ctx, record.ID)
	if err == nil {
		// Audit records are immutable; an existing id is left untouched.
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, storageErr("finding ai operation", err)
	}

	if _, err := qtx.GetEntryByID(ctx, record.EntryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("%w: %s", diary.ErrEntryNotFound, record.EntryID)
		}
		return false, storageErr("finding entry by id", err)
	}

	if err := qtx.InsertAIOperation(ctx, fromAIOperation(&record)); err != nil {
		return false, storageErr("inserting ai operation", err)
	}

	if err := tx.Commit(); err != nil {
		return false, storageErr("committing transaction", err)
	}
	return true, nil
}

func validateImportEntry(e *diary.Entry) error {
	if e == nil {
		return fmt.Errorf("%w: nil entry", diary.ErrSerialization)
	}
	if e.ID == "" {
		return fmt.Errorf("%w: entry %s has no id", diary.ErrSerialization, e.EntryDate)
	}
	if err := diary.ValidateDate(e.EntryDate); err != nil {
		return err
	}
	if !json.Valid([]byte(e.ContentJSON)) {
		return fmt.Errorf("%w: entry %s content is not valid JSON", diary.ErrSerialization, e.EntryDate)
	}
	return nil
}

// importTimestamps fills in missing bundle timestamps and keeps
// updated_at >= created_at.
func (s *SQLiteDatabase) importTimestamps(e *diary.Entry) (int64, int64) {
	created, updated := e.CreatedAt, e.UpdatedAt
	switch {
	case created.IsZero() && updated.IsZero():
		created = s.clock.Now()
		updated = created
	case created.IsZero():
		created = updated
	case updated.IsZero():
		updated = created
	}
	if updated.Before(created) {
		updated = created
	}
	return created.UnixMilli(), updated.UnixMilli()
}
