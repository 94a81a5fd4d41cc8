package secrets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"echo-daily/internal/diary"
	"echo-daily/internal/encryption"
)

// PassphraseFunc supplies the passphrase protecting a FileStore. It is
// called at most once per store, on first access to an existing file or on
// the first write.
type PassphraseFunc func() (string, error)

// FileStore keeps secrets as a JSON object sealed with an age passphrase.
// The file is rewritten atomically on every change.
type FileStore struct {
	path       string
	passphrase PassphraseFunc
	workFactor int

	mu     sync.Mutex
	pass   string
	values map[string]string
}

var _ diary.SecretStore = (*FileStore)(nil)

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithWorkFactor sets the scrypt work factor used when sealing the file.
func WithWorkFactor(n int) FileStoreOption {
	return func(s *FileStore) {
		s.workFactor = n
	}
}

// NewFileStore creates a FileStore at path. Nothing is read until the
// first call.
func NewFileStore(path string, passphrase PassphraseFunc, opts ...FileStoreOption) *FileStore {
	s := &FileStore{path: path, passphrase: passphrase}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) Get(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return "", false, err
	}

	v, ok := s.values[name]
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

func (s *FileStore) Set(name, value string) error {
	if err := validateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	next := copyValues(s.values)
	next[name] = value
	if err := s.save(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *FileStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.values[name]; !ok {
		return nil
	}

	next := copyValues(s.values)
	delete(next, name)
	if err := s.save(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

// load reads and opens the file once. A missing file is an empty store.
func (s *FileStore) load() error {
	if s.values != nil {
		return nil
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.values = make(map[string]string)
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening secrets file: %w", err)
	}
	defer f.Close()

	pass, err := s.getPassphrase()
	if err != nil {
		return err
	}

	data, err := encryption.OpenWithPassphrase(f, pass)
	if err != nil {
		return fmt.Errorf("opening secrets file: %w", err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("decoding secrets file: %w: %w", diary.ErrSerialization, err)
	}
	s.values = values
	return nil
}

func (s *FileStore) save(values map[string]string) error {
	pass, err := s.getPassphrase()
	if err != nil {
		return err
	}

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding secrets: %w: %w", diary.ErrSerialization, err)
	}

	var sealed bytes.Buffer
	if err := encryption.SealWithPassphrase(&sealed, pass, s.workFactor, data); err != nil {
		return fmt.Errorf("sealing secrets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating secrets directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".secrets-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(sealed.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing secrets: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing secrets file: %w", err)
	}

	success = true
	return nil
}

func (s *FileStore) getPassphrase() (string, error) {
	if s.pass != "" {
		return s.pass, nil
	}
	if s.passphrase == nil {
		return "", fmt.Errorf("no passphrase available for secrets file")
	}

	pass, err := s.passphrase()
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if pass == "" {
		return "", fmt.Errorf("empty passphrase")
	}
	s.pass = pass
	return pass, nil
}

func copyValues(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty secret name")
	}
	return nil
}
