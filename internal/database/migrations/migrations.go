package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

// createVersionTable is idempotent and runs before the current version is read.
const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`

// AppliedVersion is one row of schema_migrations.
type AppliedVersion struct {
	Version   uint
	AppliedAt int64 // epoch milliseconds
}

// CheckDBMigrationStatus verifies that the database schema is up-to-date.
// Returns nil if the database is at the latest version.
// Returns an error describing any version mismatch.
func CheckDBMigrationStatus(db *sql.DB) error {
	version, err := currentVersion(context.Background(), db)
	if err != nil {
		return err
	}
	if version == 0 {
		return fmt.Errorf("database has no schema version (needs migration)")
	}

	latestVersion, err := LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to determine latest version: %w", err)
	}

	if version < latestVersion {
		return fmt.Errorf("database is at version %d but latest is %d (%d migrations behind)",
			version, latestVersion, latestVersion-version)
	}

	if version > latestVersion {
		return fmt.Errorf("database version %d is ahead of binary version %d (binary needs update)",
			version, latestVersion)
	}

	return nil
}

// MigrateUp runs all pending migrations to bring database to latest version.
func MigrateUp(db *sql.DB) error {
	_, err := Migrate(db, time.Now)
	return err
}

// Migrate applies every embedded step newer than the database's current
// version, in ascending order. Each step runs its statements and records
// (version, now) in one transaction; a failing step is rolled back and
// stops the run. Returns the versions applied by this call.
func Migrate(db *sql.DB, now func() time.Time) ([]uint, error) {
	ctx := context.Background()

	src, err := iofsSource()
	if err != nil {
		return nil, fmt.Errorf("failed to read migration files: %w", err)
	}
	defer src.Close()

	current, err := currentVersion(ctx, db)
	if err != nil {
		return nil, err
	}

	steps, err := listVersions(src)
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	var applied []uint
	for _, version := range steps {
		if version <= current {
			continue
		}
		if err := applyStep(ctx, db, src, version, now()); err != nil {
			return applied, err
		}
		applied = append(applied, version)
	}
	return applied, nil
}

// AppliedVersions lists the rows of schema_migrations in ascending order.
func AppliedVersions(db *sql.DB) ([]AppliedVersion, error) {
	rows, err := db.Query("SELECT version, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema versions: %w", err)
	}
	defer rows.Close()

	var versions []AppliedVersion
	for rows.Next() {
		var v AppliedVersion
		if err := rows.Scan(&v.Version, &v.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schema version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// LatestVersion returns the highest version among the embedded migrations.
func LatestVersion() (uint, error) {
	src, err := iofsSource()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	versions, err := listVersions(src)
	if err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, fmt.Errorf("no migrations embedded")
	}
	return versions[len(versions)-1], nil
}

func iofsSource() (source.Driver, error) {
	return iofs.New(migrationFiles, "files")
}

func applyStep(ctx context.Context, db *sql.DB, src source.Driver, version uint, appliedAt time.Time) error {
	body, identifier, err := src.ReadUp(version)
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	stmts, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	// Another process may have applied this step since the version was read.
	var done int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&done); err != nil {
		return fmt.Errorf("failed to check migration %d: %w", version, err)
	}
	if done > 0 {
		return nil
	}

	if _, err := tx.ExecContext(ctx, string(stmts)); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", version, identifier, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
		version, appliedAt.UnixMilli()); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", version, err)
	}
	return nil
}

func currentVersion(ctx context.Context, db *sql.DB) (uint, error) {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	var version uint
	if err := db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get database version: %w", err)
	}
	return version, nil
}

// listVersions walks the source from First through Next until it runs out.
func listVersions(src source.Driver) ([]uint, error) {
	version, err := src.First()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	versions := []uint{version}
	for {
		next, err := src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return nil, err
		}
		versions = append(versions, next)
		version = next
	}
	return versions, nil
}
