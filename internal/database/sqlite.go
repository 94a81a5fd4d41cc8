package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"echo-daily/internal/database/migrations"
	"echo-daily/internal/database/sqlc"
	"echo-daily/internal/diary"

	_ "modernc.org/sqlite" // SQLite driver with FTS5
)

// SQLiteDatabase implements diary.Database using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
	clock   diary.Clock
	idgen   diary.IDGenerator
}

// NewSQLiteDatabase opens the database at path, applies any pending
// migrations and returns the ready store. path can be a file path or
// ":memory:". A nil clock or idgen selects the real implementation.
// A migration failure closes the connection and is returned as-is.
func NewSQLiteDatabase(path string, clock diary.Clock, idgen diary.IDGenerator) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	s := NewSQLiteDatabaseFromDB(db, clock, idgen)
	s.path = path

	if _, err := migrations.Migrate(db, s.clock.Now); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w: %w", diary.ErrStorage, err)
	}

	return s, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for configuring and migrating the connection.
func NewSQLiteDatabaseFromDB(db *sql.DB, clock diary.Clock, idgen diary.IDGenerator) *SQLiteDatabase {
	if clock == nil {
		clock = diary.RealClock{}
	}
	if idgen == nil {
		idgen = diary.UUIDGenerator{}
	}
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		clock:   clock,
		idgen:   idgen,
	}
}

// OpenConnection opens and configures a SQLite database connection.
// Pragmas are passed in the DSN so that every pooled connection gets them.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	pragmas := []string{"foreign_keys(1)", "busy_timeout(5000)"}
	memory := path == ":memory:"
	if !memory {
		pragmas = append(pragmas, "journal_mode(WAL)", "synchronous(NORMAL)")
	}

	// Transactions take the write lock at BEGIN.
	params := []string{"_txlock=immediate"}
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	dsn := path + "?" + strings.Join(params, "&")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w: %w", diary.ErrStorage, err)
	}

	// Every connection to :memory: is a separate database.
	if memory {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w: %w", path, diary.ErrStorage, err)
	}

	return db, nil
}

// storageErr tags a driver error as a storage fault.
func storageErr(action string, err error) error {
	return fmt.Errorf("%s: %w: %w", action, diary.ErrStorage, err)
}

// Entry operations

func (s *SQLiteDatabase) UpsertEntry(date, contentJSON string) (*diary.Entry, error) {
	ctx := context.Background()
	now := s.clock.Now().UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("starting transaction", err)
	}
	defer tx.Rollback()

	row, err := s.queries.WithTx(tx).UpsertEntryContent(ctx, sqlc.UpsertEntryContentParams{
		ID:          s.idgen.New(),
		EntryDate:   date,
		ContentJson: contentJSON,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, storageErr("upserting entry", err)
	}

	if err := projectEntry(ctx, tx, &row); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("committing transaction", err)
	}
	return toEntry(row), nil
}

func (s *SQLiteDatabase) UpsertEntryMood(date string, mood, moodEmoji *string) (*diary.Entry, error) {
	ctx := context.Background()
	now := s.clock.Now().UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("starting transaction", err)
	}
	defer tx.Rollback()

	row, err := s.queries.WithTx(tx).UpsertEntryMood(ctx, sqlc.UpsertEntryMoodParams{
		ID:        s.idgen.New(),
		EntryDate: date,
		Mood:      nullString(mood),
		MoodEmoji: nullString(moodEmoji),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, storageErr("upserting entry mood", err)
	}

	if err := projectEntry(ctx, tx, &row); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("committing transaction", err)
	}
	return toEntry(row), nil
}

func (s *SQLiteDatabase) GetEntry(date string) (*diary.Entry, error) {
	row, err := s.queries.GetEntryByDate(context.Background(), date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, storageErr("finding entry by date", err)
	}
	return toEntry(row), nil
}

func (s *SQLiteDatabase) ListEntries(month string) ([]*diary.Entry, error) {
	rows, err := s.queries.ListEntriesByMonth(context.Background(), month+"-%")
	if err != nil {
		return nil, storageErr("listing entries", err)
	}
	return toEntries(rows), nil
}

func (s *SQLiteDatabase) ListEntriesByMood(month, mood string) ([]*diary.Entry, error) {
	rows, err := s.queries.ListEntriesByMonthAndMood(context.Background(), sqlc.ListEntriesByMonthAndMoodParams{
		Pattern: month + "-%",
		Mood:    sql.NullString{String: mood, Valid: true},
	})
	if err != nil {
		return nil, storageErr("listing entries by mood", err)
	}
	return toEntries(rows), nil
}

func (s *SQLiteDatabase) DeleteEntry(date string) (bool, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, storageErr("starting transaction", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	row, err := qtx.GetEntryByDate(ctx, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, storageErr("finding entry by date", err)
	}

	// The foreign key cascades as well; deleting explicitly keeps the
	// behaviour independent of the foreign_keys pragma.
	if _, err := qtx.DeleteAIOperationsByEntry(ctx, row.ID); err != nil {
		return false, storageErr("deleting ai operations", err)
	}
	if err := removeProjection(ctx, tx, row.ID); err != nil {
		return false, err
	}
	if err := qtx.DeleteEntryByID(ctx, row.ID); err != nil {
		return false, storageErr("deleting entry", err)
	}

	if err := tx.Commit(); err != nil {
		return false, storageErr("committing transaction", err)
	}
	return true, nil
}

// AI operation audit

func (s *SQLiteDatabase) RecordAIOperation(op *diary.AIOperation) (*diary.AIOperation, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("starting transaction", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	if _, err := qtx.GetEntryByID(ctx, op.EntryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", diary.ErrEntryNotFound, op.EntryID)
		}
		return nil, storageErr("finding entry by id", err)
	}

	recorded := *op
	recorded.ID = s.idgen.New()
	recorded.CreatedAt = s.clock.Now().UTC().Truncate(time.Millisecond)

	if err := qtx.InsertAIOperation(ctx, fromAIOperation(&recorded)); err != nil {
		return nil, storageErr("inserting ai operation", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("committing transaction", err)
	}
	return &recorded, nil
}

func (s *SQLiteDatabase) ListAIOperations(entryID string) ([]*diary.AIOperation, error) {
	rows, err := s.queries.ListAIOperationsByEntry(context.Background(), entryID)
	if err != nil {
		return nil, storageErr("listing ai operations", err)
	}
	return toAIOperations(rows), nil
}

func (s *SQLiteDatabase) DeleteAIOperationsForEntry(entryID string) (int64, error) {
	n, err := s.queries.DeleteAIOperationsByEntry(context.Background(), entryID)
	if err != nil {
		return 0, storageErr("deleting ai operations", err)
	}
	return n, nil
}

// Settings

func (s *SQLiteDatabase) SaveSetting(key, value string) error {
	err := s.queries.UpsertSetting(context.Background(), sqlc.UpsertSettingParams{
		Key:       key,
		Value:     value,
		UpdatedAt: s.clock.Now().UnixMilli(),
	})
	if err != nil {
		return storageErr("saving setting", err)
	}
	return nil
}

func (s *SQLiteDatabase) GetSetting(key string) (string, bool, error) {
	setting, err := s.queries.GetSetting(context.Background(), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, storageErr("loading setting", err)
	}
	return setting.Value, true, nil
}

// Statistics

// WritingStats reads the entry count and dates from one snapshot and
// computes streaks against the UTC calendar date of the store clock.
func (s *SQLiteDatabase) WritingStats() (*diary.WritingStats, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("starting transaction", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	total, err := qtx.CountEntries(ctx)
	if err != nil {
		return nil, storageErr("counting entries", err)
	}
	dates, err := qtx.ListEntryDates(ctx)
	if err != nil {
		return nil, storageErr("listing entry dates", err)
	}

	return &diary.WritingStats{
		TotalEntries:  total,
		CurrentStreak: diary.CurrentStreak(dates, s.clock.Now()),
		LongestStreak: diary.LongestStreak(dates),
	}, nil
}

// Maintenance

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// SchemaVersions lists the applied migration steps, oldest first.
func (s *SQLiteDatabase) SchemaVersions() ([]diary.SchemaVersion, error) {
	applied, err := migrations.AppliedVersions(s.db)
	if err != nil {
		return nil, storageErr("reading schema versions", err)
	}
	versions := make([]diary.SchemaVersion, len(applied))
	for i, v := range applied {
		versions[i] = diary.SchemaVersion{Version: v.Version, AppliedAt: diary.FromMillis(v.AppliedAt)}
	}
	return versions, nil
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return storageErr("backing up database", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Row conversion

func toEntry(row sqlc.Entry) *diary.Entry {
	return &diary.Entry{
		ID:          row.ID,
		EntryDate:   row.EntryDate,
		ContentJSON: row.ContentJson,
		Mood:        stringPtr(row.Mood),
		MoodEmoji:   stringPtr(row.MoodEmoji),
		CreatedAt:   diary.FromMillis(row.CreatedAt),
		UpdatedAt:   diary.FromMillis(row.UpdatedAt),
	}
}

func toEntries(rows []sqlc.Entry) []*diary.Entry {
	entries := make([]*diary.Entry, len(rows))
	for i := range rows {
		entries[i] = toEntry(rows[i])
	}
	return entries
}

func toAIOperation(row sqlc.AiOperation) *diary.AIOperation {
	return &diary.AIOperation{
		ID:           row.ID,
		EntryID:      row.EntryID,
		OpType:       row.OpType,
		OriginalText: row.OriginalText,
		ResultText:   row.ResultText,
		Provider:     row.Provider,
		Model:        row.Model,
		CreatedAt:    diary.FromMillis(row.CreatedAt),
	}
}

func toAIOperations(rows []sqlc.AiOperation) []*diary.AIOperation {
	ops := make([]*diary.AIOperation, len(rows))
	for i := range rows {
		ops[i] = toAIOperation(rows[i])
	}
	return ops
}

func fromAIOperation(op *diary.AIOperation) sqlc.InsertAIOperationParams {
	return sqlc.InsertAIOperationParams{
		ID:           op.ID,
		EntryID:      op.EntryID,
		OpType:       op.OpType,
		OriginalText: op.OriginalText,
		ResultText:   op.ResultText,
		Provider:     op.Provider,
		Model:        op.Model,
		CreatedAt:    op.CreatedAt.UnixMilli(),
	}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Compile-time check that SQLiteDatabase implements diary.Database interface
var _ diary.Database = (*SQLiteDatabase)(nil)
