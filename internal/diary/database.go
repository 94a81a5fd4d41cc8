package diary

// ImportOptions controls how a bundle is reconciled with the local store.
type ImportOptions struct {
	// Overwrite replaces content, mood and updated_at of entries whose date
	// already exists locally. Otherwise such entries are skipped.
	Overwrite bool
	// IncludeAIOperations imports audit records whose id is not present yet.
	IncludeAIOperations bool
}

// ImportResult reports what an import applied. EntriesImported counts only
// genuinely inserted or overwritten entries.
type ImportResult struct {
	EntriesImported      int
	EntriesSkipped       int
	AIOperationsImported int
	AIOperationsSkipped  int
	Failed               int
}

// Database provides the persistence operations of the diary.
// Every mutation of an entry runs in one transaction together with the
// matching search index update.
type Database interface {
	// Entry operations

	// UpsertEntry creates the entry for date or replaces its content.
	// id and created_at never change on update.
	UpsertEntry(date, contentJSON string) (*Entry, error)

	// UpsertEntryMood creates the entry for date with empty content, or
	// updates only its mood fields.
	UpsertEntryMood(date string, mood, moodEmoji *string) (*Entry, error)

	// GetEntry returns the entry for date, or nil if none exists.
	GetEntry(date string) (*Entry, error)

	// ListEntries returns the entries of a YYYY-MM month, newest first.
	ListEntries(month string) ([]*Entry, error)

	// ListEntriesByMood returns the entries of a month with the given mood, newest first.
	ListEntriesByMood(month, mood string) ([]*Entry, error)

	// DeleteEntry removes the entry for date along with its AI operations
	// and search projection. Reports whether an entry existed.
	DeleteEntry(date string) (bool, error)

	// SearchEntries runs a full-text query, best match first.
	SearchEntries(query string) ([]*Entry, error)

	// AI operation audit

	// RecordAIOperation inserts op, assigning its ID and CreatedAt.
	// Returns ErrEntryNotFound if op.EntryID does not exist.
	RecordAIOperation(op *AIOperation) (*AIOperation, error)

	// ListAIOperations returns the records of an entry, newest first.
	ListAIOperations(entryID string) ([]*AIOperation, error)

	// DeleteAIOperationsForEntry removes every record of an entry.
	DeleteAIOperationsForEntry(entryID string) (int64, error)

	// Settings

	SaveSetting(key, value string) error

	// GetSetting returns the stored value and whether the key exists.
	GetSetting(key string) (string, bool, error)

	// Statistics

	WritingStats() (*WritingStats, error)

	// Import/export

	ExportAll() (*Bundle, error)
	Import(bundle *Bundle, opts ImportOptions) (*ImportResult, error)

	// Maintenance

	// CheckIndex compares the search index with the entries table.
	CheckIndex() (*IndexReport, error)

	// RebuildIndex re-projects every entry. Returns the number of projections written.
	RebuildIndex() (int64, error)

	// SchemaVersions lists the applied migration steps, oldest first.
	SchemaVersions() ([]SchemaVersion, error)

	// CheckMigrations returns an error if the schema does not match the
	// embedded migrations.
	CheckMigrations() error

	// BackupTo writes a consistent copy of the database to path.
	BackupTo(path string) error

	// Close closes the database connection.
	Close() error
}
