package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"echo-daily/internal/config"
	"echo-daily/internal/diary"
)

// DatabaseFileName is the name of the database inside the managed data directory.
const DatabaseFileName = "echo-daily.db"

// NewDatabaseFromConfig opens and migrates the database selected by cfg.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, clock diary.Clock, idgen diary.IDGenerator) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		dbPath, err := ResolveDatabasePath(cfg.LegacyPath, cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return NewSQLiteDatabase(dbPath, clock, idgen)
	case "memory":
		return NewSQLiteDatabase(":memory:", clock, idgen)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

// ResolveDatabasePath picks the database file once at startup. A database
// left at legacyPath by earlier releases is used in place if it exists as a
// regular file. Otherwise the file lives in dataDir, which is created if
// missing.
func ResolveDatabasePath(legacyPath, dataDir string) (string, error) {
	if legacyPath != "" {
		info, err := os.Stat(legacyPath)
		switch {
		case err == nil && info.Mode().IsRegular():
			return legacyPath, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("%w: checking legacy database %s: %w", diary.ErrIO, legacyPath, err)
		}
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", fmt.Errorf("%w: creating data directory %s: %w", diary.ErrIO, dataDir, err)
	}
	return filepath.Join(dataDir, DatabaseFileName), nil
}

// DefaultLegacyPath is where releases before the managed data directory
// kept the database.
func DefaultLegacyPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".echo-daily", DatabaseFileName), nil
}
