package diary

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	bundlePrefix    = "bundle-"
	snapshotPrefix  = "snapshot-"
	encryptedSuffix = ".age"
	archiveStamp    = "20060102T150405Z"
)

// ExportAll returns a complete snapshot of the store.
func (s *DiaryService) ExportAll() (*Bundle, error) {
	bundle, err := s.database.ExportAll()
	if err != nil {
		return nil, fmt.Errorf("exporting: %w", err)
	}
	s.logger.Info("export complete", "entries", len(bundle.Entries), "ai_operations", len(bundle.AIOperations))
	return bundle, nil
}

// Export writes the complete store to w as a JSON bundle.
func (s *DiaryService) Export(w io.Writer) error {
	bundle, err := s.ExportAll()
	if err != nil {
		return err
	}
	return EncodeBundle(w, bundle)
}

// Import reconciles bundle with the store. Individual records that cannot be
// applied are counted in ImportResult.Failed and never abort the batch.
func (s *DiaryService) Import(bundle *Bundle, opts ImportOptions) (*ImportResult, error) {
	result, err := s.database.Import(bundle, opts)
	if err != nil {
		return nil, fmt.Errorf("importing: %w", err)
	}
	result.Failed += bundle.Malformed

	if result.Failed > 0 {
		s.logger.Warn("import skipped failing records", "failed", result.Failed)
	}
	s.logger.Info("import complete",
		"entries_imported", result.EntriesImported,
		"entries_skipped", result.EntriesSkipped,
		"ai_operations_imported", result.AIOperationsImported)
	return result, nil
}

// ImportFrom decodes a JSON bundle from r and imports it.
func (s *DiaryService) ImportFrom(r io.Reader, opts ImportOptions) (*ImportResult, error) {
	bundle, err := DecodeBundle(r)
	if err != nil {
		return nil, err
	}
	return s.Import(bundle, opts)
}

// Backup exports the store and archives the bundle in the vault, encrypted
// when an encryptor is configured. Returns the name of the stored bundle.
func (s *DiaryService) Backup() (string, error) {
	if s.vault == nil {
		return "", fmt.Errorf("no vault configured")
	}

	var plain bytes.Buffer
	if err := s.Export(&plain); err != nil {
		return "", err
	}

	name := bundlePrefix + s.clock.Now().UTC().Format(archiveStamp) + ".json"
	payload := &plain
	if s.encryptor != nil {
		var sealed bytes.Buffer
		if err := s.encryptor.Encrypt(&plain, &sealed); err != nil {
			return "", fmt.Errorf("encrypting bundle: %w", err)
		}
		payload = &sealed
		name += encryptedSuffix
	}

	size := int64(payload.Len())
	if err := s.vault.PutBundle(name, payload, size); err != nil {
		return "", fmt.Errorf("uploading bundle: %w", err)
	}

	s.logger.Info("backup complete", "name", name, "size", size)
	return name, nil
}

// ListBackups returns the names of the bundles stored in the vault.
func (s *DiaryService) ListBackups() ([]string, error) {
	if s.vault == nil {
		return nil, fmt.Errorf("no vault configured")
	}
	names, err := s.vault.ListBundles()
	if err != nil {
		return nil, fmt.Errorf("listing bundles: %w", err)
	}
	return names, nil
}

// IsEncryptedBackup reports whether the named bundle needs a
// DecryptionContext to be restored.
func IsEncryptedBackup(name string) bool {
	return strings.HasSuffix(name, encryptedSuffix)
}

// Restore fetches a bundle from the vault and imports it. decryptCtx is
// required for encrypted bundles and ignored otherwise.
func (s *DiaryService) Restore(name string, opts ImportOptions, decryptCtx DecryptionContext) (*ImportResult, error) {
	if s.vault == nil {
		return nil, fmt.Errorf("no vault configured")
	}
	s.logger.Info("restore started", "name", name)

	var fetched bytes.Buffer
	if err := s.vault.GetBundle(name, &fetched); err != nil {
		return nil, fmt.Errorf("downloading bundle: %w", err)
	}

	payload := &fetched
	if IsEncryptedBackup(name) {
		if decryptCtx == nil {
			return nil, fmt.Errorf("bundle %s is encrypted but no decryption context was provided", name)
		}
		var plain bytes.Buffer
		if err := decryptCtx.Decrypt(&fetched, &plain); err != nil {
			return nil, fmt.Errorf("decrypting bundle: %w", err)
		}
		payload = &plain
	}

	return s.ImportFrom(payload, opts)
}

// Snapshot copies the database file into the vault. The copy is taken
// with the database online and is transactionally consistent.
func (s *DiaryService) Snapshot() (string, error) {
	if s.vault == nil {
		return "", fmt.Errorf("no vault configured")
	}

	tmpDir, err := os.MkdirTemp("", "echo-snapshot-*")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp dir: %w", ErrIO, err)
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, "echo-daily.db")
	if err := s.database.BackupTo(tmpPath); err != nil {
		return "", fmt.Errorf("copying database: %w", err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening snapshot: %w", ErrIO, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: stat snapshot: %w", ErrIO, err)
	}

	name := snapshotPrefix + s.clock.Now().UTC().Format(archiveStamp) + ".db"
	if err := s.vault.PutSnapshot(name, f, info.Size()); err != nil {
		return "", fmt.Errorf("uploading snapshot: %w", err)
	}

	s.logger.Info("snapshot complete", "name", name, "size", info.Size())
	return name, nil
}
