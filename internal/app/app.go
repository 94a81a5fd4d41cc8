package app

import (
	"errors"
	"fmt"
	"io"

	"echo-daily/internal/config"
	"echo-daily/internal/database"
	"echo-daily/internal/diary"
	"echo-daily/internal/encryption"
	"echo-daily/internal/secrets"
	"echo-daily/internal/vault"
)

// Options carries the interactive and test hooks for NewEchoApp.
type Options struct {
	// Passphrase is asked for lazily, when the secrets file or an
	// encrypted bundle has to be opened.
	Passphrase secrets.PassphraseFunc
	Clock      diary.Clock
	IDs        diary.IDGenerator
	// RunID tags every log line written by this run.
	RunID string
}

// EchoApp is the application layer between the CLI and DiaryService.
// It constructs all dependencies from config, resolves human input such as
// relative dates, and releases resources on Close.
type EchoApp struct {
	cfg        *config.Config
	db         *database.SQLiteDatabase
	vault      diary.Vault
	encryptor  diary.Encryptor
	secrets    diary.SecretStore
	service    *diary.DiaryService
	clock      diary.Clock
	passphrase secrets.PassphraseFunc
	logCloser  io.Closer
}

// NewEchoApp creates a fully wired EchoApp from the given config. Opening
// the database applies pending migrations. The caller must call Close.
func NewEchoApp(cfg *config.Config, opts Options) (*EchoApp, error) {
	clock := opts.Clock
	if clock == nil {
		clock = diary.RealClock{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = diary.UUIDGenerator{}
	}
	runID := opts.RunID
	if runID == "" {
		runID = clock.Now().UTC().Format("20060102T150405Z")
	}

	logger, logCloser, err := newLogger(cfg.LogDir, cfg.Log, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	v, err := vault.NewVaultFromConfig(cfg.Vault)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("creating vault: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	sec, err := secrets.NewSecretStoreFromConfig(cfg.Secrets, opts.Passphrase)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("creating secret store: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, clock, ids)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	svc := diary.NewDiaryService(db, v, enc, sec, &slogAdapter{l: logger}, clock)

	return &EchoApp{
		cfg:        cfg,
		db:         db,
		vault:      v,
		encryptor:  enc,
		secrets:    sec,
		service:    svc,
		clock:      clock,
		passphrase: opts.Passphrase,
		logCloser:  logCloser,
	}, nil
}

// Service exposes the diary service for operations that need no input
// resolution.
func (a *EchoApp) Service() *diary.DiaryService {
	return a.service
}

// DatabasePath returns the file backing the store, or ":memory:".
func (a *EchoApp) DatabasePath() string {
	return a.db.Path()
}

// MigrationStatus reports whether the database schema matches the
// embedded migrations.
func (a *EchoApp) MigrationStatus() error {
	return a.db.CheckMigrations()
}

// ResolveDate resolves a raw CLI date against the app clock.
func (a *EchoApp) ResolveDate(raw string) (string, error) {
	return ResolveDate(raw, a.clock.Now())
}

// PutEntry resolves rawDate and stores content for that day.
func (a *EchoApp) PutEntry(rawDate, content string) (*diary.Entry, error) {
	date, err := a.ResolveDate(rawDate)
	if err != nil {
		return nil, err
	}
	return a.service.UpsertEntry(date, content)
}

// GetEntry resolves rawDate and returns its entry, or nil if none exists.
func (a *EchoApp) GetEntry(rawDate string) (*diary.Entry, error) {
	date, err := a.ResolveDate(rawDate)
	if err != nil {
		return nil, err
	}
	return a.service.GetEntry(date)
}

// SetMood resolves rawDate and records the mood for that day.
func (a *EchoApp) SetMood(rawDate, mood, emoji string) (*diary.Entry, error) {
	date, err := a.ResolveDate(rawDate)
	if err != nil {
		return nil, err
	}
	return a.service.UpsertEntryMood(date, mood, emoji)
}

// DeleteEntry resolves rawDate and removes that day's entry.
func (a *EchoApp) DeleteEntry(rawDate string) (bool, error) {
	date, err := a.ResolveDate(rawDate)
	if err != nil {
		return false, err
	}
	return a.service.DeleteEntry(date)
}

// ListEntries lists a month of entries, the current month when month is
// empty. A non-empty mood narrows the listing.
func (a *EchoApp) ListEntries(month, mood string) ([]*diary.Entry, error) {
	m, err := ResolveMonth(month, a.clock.Now())
	if err != nil {
		return nil, err
	}
	if mood != "" {
		return a.service.ListEntriesByMood(m, mood)
	}
	return a.service.ListEntries(m)
}

// SetupEncryption generates the bundle key pair.
func (a *EchoApp) SetupEncryption(passphrase string) error {
	if a.encryptor == nil {
		return fmt.Errorf("bundle encryption is disabled")
	}
	return a.encryptor.Setup(passphrase)
}

// Restore imports a bundle from the vault, unlocking the private key first
// when the bundle is encrypted.
func (a *EchoApp) Restore(name string, opts diary.ImportOptions) (*diary.ImportResult, error) {
	var dc diary.DecryptionContext
	if diary.IsEncryptedBackup(name) {
		if a.encryptor == nil {
			return nil, fmt.Errorf("bundle %s is encrypted but encryption is disabled", name)
		}
		if a.passphrase == nil {
			return nil, fmt.Errorf("bundle %s is encrypted and no passphrase is available", name)
		}
		pass, err := a.passphrase()
		if err != nil {
			return nil, fmt.Errorf("reading passphrase: %w", err)
		}
		dc, err = a.encryptor.Unlock(pass)
		if err != nil {
			return nil, err
		}
	}
	return a.service.Restore(name, opts, dc)
}

// ValidateVault checks the configured vault is reachable.
func (a *EchoApp) ValidateVault() error {
	if a.vault == nil {
		return fmt.Errorf("no vault configured")
	}
	return a.vault.ValidateSetup()
}

// Close closes the database and the log file.
func (a *EchoApp) Close() error {
	var errs []error
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing log: %w", err))
		}
	}
	return errors.Join(errs...)
}
