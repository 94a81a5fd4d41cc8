package diary

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DiaryService is the orchestration layer between the command surface and
// the persistence core. It validates input at the edge, so the database
// only ever sees well-formed dates and content.
type DiaryService struct {
	database  Database
	vault     Vault
	encryptor Encryptor
	secrets   SecretStore
	logger    Logger
	clock     Clock
}

// NewDiaryService creates a DiaryService with the provided dependencies.
// vault, encryptor and secrets may be nil; the operations that need them
// return an error in that case.
func NewDiaryService(database Database, vault Vault, encryptor Encryptor, secrets SecretStore, logger Logger, clock Clock) *DiaryService {
	return &DiaryService{
		database:  database,
		vault:     vault,
		encryptor: encryptor,
		secrets:   secrets,
		logger:    logger,
		clock:     clock,
	}
}

// UpsertEntry writes the content of the entry for date, creating it if needed.
// content must be a JSON document.
func (s *DiaryService) UpsertEntry(date, content string) (*Entry, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("%w: entry content for %s is not valid JSON", ErrSerialization, date)
	}

	entry, err := s.database.UpsertEntry(date, content)
	if err != nil {
		return nil, fmt.Errorf("saving entry: %w", err)
	}

	s.logger.Info("entry saved", "date", date, "id", entry.ID)
	return entry, nil
}

// UpsertEntryMood sets the mood of the entry for date. Empty strings clear
// the corresponding field.
func (s *DiaryService) UpsertEntryMood(date, mood, moodEmoji string) (*Entry, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	entry, err := s.database.UpsertEntryMood(date, optional(mood), optional(moodEmoji))
	if err != nil {
		return nil, fmt.Errorf("saving mood: %w", err)
	}

	s.logger.Info("mood saved", "date", date, "mood", mood)
	return entry, nil
}

// GetEntry returns the entry for date, or nil if there is none.
func (s *DiaryService) GetEntry(date string) (*Entry, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	entry, err := s.database.GetEntry(date)
	if err != nil {
		return nil, fmt.Errorf("loading entry: %w", err)
	}
	return entry, nil
}

func (s *DiaryService) ListEntries(month string) ([]*Entry, error) {
	if err := ValidateMonth(month); err != nil {
		return nil, err
	}
	entries, err := s.database.ListEntries(month)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	s.logger.Debug("entries listed", "month", month, "count", len(entries))
	return entries, nil
}

func (s *DiaryService) ListEntriesByMood(month, mood string) ([]*Entry, error) {
	if err := ValidateMonth(month); err != nil {
		return nil, err
	}
	entries, err := s.database.ListEntriesByMood(month, mood)
	if err != nil {
		return nil, fmt.Errorf("listing entries by mood: %w", err)
	}
	return entries, nil
}

// DeleteEntry removes the entry for date. Reports whether it existed.
func (s *DiaryService) DeleteEntry(date string) (bool, error) {
	if err := ValidateDate(date); err != nil {
		return false, err
	}

	deleted, err := s.database.DeleteEntry(date)
	if err != nil {
		return false, fmt.Errorf("deleting entry: %w", err)
	}

	if deleted {
		s.logger.Info("entry deleted", "date", date)
	}
	return deleted, nil
}

// SearchEntries returns the entries matching query, best match first.
// A blank query matches nothing.
func (s *DiaryService) SearchEntries(query string) ([]*Entry, error) {
	if strings.TrimSpace(query) == "" {
		return []*Entry{}, nil
	}
	entries, err := s.database.SearchEntries(query)
	if err != nil {
		return nil, fmt.Errorf("searching entries: %w", err)
	}
	s.logger.Debug("entries searched", "query", query, "count", len(entries))
	return entries, nil
}

// RecordAIOperation appends an audit record to the entry identified by entryID.
func (s *DiaryService) RecordAIOperation(entryID, opType, original, result, provider, model string) (*AIOperation, error) {
	if entryID == "" {
		return nil, fmt.Errorf("%w: empty entry id", ErrEntryNotFound)
	}

	op, err := s.database.RecordAIOperation(&AIOperation{
		EntryID:      entryID,
		OpType:       opType,
		OriginalText: original,
		ResultText:   result,
		Provider:     provider,
		Model:        model,
	})
	if err != nil {
		return nil, fmt.Errorf("recording ai operation: %w", err)
	}

	s.logger.Info("ai operation recorded", "entry_id", entryID, "op_type", opType, "provider", provider)
	return op, nil
}

func (s *DiaryService) ListAIOperations(entryID string) ([]*AIOperation, error) {
	ops, err := s.database.ListAIOperations(entryID)
	if err != nil {
		return nil, fmt.Errorf("listing ai operations: %w", err)
	}
	return ops, nil
}

func (s *DiaryService) DeleteAIOperationsForEntry(entryID string) (int64, error) {
	n, err := s.database.DeleteAIOperationsForEntry(entryID)
	if err != nil {
		return 0, fmt.Errorf("deleting ai operations: %w", err)
	}
	s.logger.Info("ai operations deleted", "entry_id", entryID, "count", n)
	return n, nil
}

func (s *DiaryService) SaveSetting(key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key must not be empty")
	}
	if err := s.database.SaveSetting(key, value); err != nil {
		return fmt.Errorf("saving setting: %w", err)
	}
	s.logger.Info("setting saved", "key", key)
	return nil
}

// GetSetting returns the value stored under key and whether it exists.
func (s *DiaryService) GetSetting(key string) (string, bool, error) {
	value, ok, err := s.database.GetSetting(key)
	if err != nil {
		return "", false, fmt.Errorf("loading setting: %w", err)
	}
	return value, ok, nil
}

// SaveSettingJSON stores v as a JSON setting value.
func (s *DiaryService) SaveSettingJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encoding setting %s: %w", ErrSerialization, key, err)
	}
	return s.SaveSetting(key, string(data))
}

// GetSettingJSON decodes the JSON setting stored under key into v.
// Returns false, leaving v untouched, when the key is absent.
func (s *DiaryService) GetSettingJSON(key string, v any) (bool, error) {
	value, ok, err := s.GetSetting(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(value), v); err != nil {
		return false, fmt.Errorf("%w: decoding setting %s: %w", ErrSerialization, key, err)
	}
	return true, nil
}

func (s *DiaryService) WritingStats() (*WritingStats, error) {
	stats, err := s.database.WritingStats()
	if err != nil {
		return nil, fmt.Errorf("computing writing stats: %w", err)
	}
	return stats, nil
}

// Secrets

func (s *DiaryService) SetSecret(name, value string) error {
	if s.secrets == nil {
		return fmt.Errorf("no secret store configured")
	}
	if err := s.secrets.Set(name, value); err != nil {
		return fmt.Errorf("storing secret %s: %w", name, err)
	}
	s.logger.Info("secret stored", "name", name)
	return nil
}

func (s *DiaryService) GetSecret(name string) (string, bool, error) {
	if s.secrets == nil {
		return "", false, fmt.Errorf("no secret store configured")
	}
	value, ok, err := s.secrets.Get(name)
	if err != nil {
		return "", false, fmt.Errorf("reading secret %s: %w", name, err)
	}
	return value, ok, nil
}

func (s *DiaryService) DeleteSecret(name string) error {
	if s.secrets == nil {
		return fmt.Errorf("no secret store configured")
	}
	if err := s.secrets.Delete(name); err != nil {
		return fmt.Errorf("deleting secret %s: %w", name, err)
	}
	s.logger.Info("secret deleted", "name", name)
	return nil
}

// Maintenance

func (s *DiaryService) CheckIndex() (*IndexReport, error) {
	report, err := s.database.CheckIndex()
	if err != nil {
		return nil, fmt.Errorf("checking search index: %w", err)
	}
	if !report.Consistent() {
		s.logger.Warn("search index inconsistent",
			"missing", report.Missing, "orphaned", report.Orphaned,
			"stale", report.Stale, "duplicated", report.Duplicated)
	}
	return report, nil
}

func (s *DiaryService) RebuildIndex() (int64, error) {
	n, err := s.database.RebuildIndex()
	if err != nil {
		return 0, fmt.Errorf("rebuilding search index: %w", err)
	}
	s.logger.Info("search index rebuilt", "entries", n)
	return n, nil
}

func (s *DiaryService) SchemaVersions() ([]SchemaVersion, error) {
	versions, err := s.database.SchemaVersions()
	if err != nil {
		return nil, fmt.Errorf("reading schema versions: %w", err)
	}
	return versions, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
