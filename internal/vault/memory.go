package vault

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"echo-daily/internal/diary"
)

// MemoryVault is an in-memory implementation of the Vault interface,
// useful for testing. It is safe for concurrent use.
type MemoryVault struct {
	name      string
	bundles   map[string][]byte
	snapshots map[string][]byte
	mu        sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:      name,
		bundles:   make(map[string][]byte),
		snapshots: make(map[string][]byte),
	}
}

func (m *MemoryVault) PutBundle(name string, r io.Reader, size int64) error {
	return m.put(m.bundles, name, r, size)
}

func (m *MemoryVault) GetBundle(name string, w io.Writer) error {
	return m.get(m.bundles, "bundle", name, w)
}

// ListBundles returns the stored bundle names in ascending order.
func (m *MemoryVault) ListBundles() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.bundles))
	for name := range m.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryVault) PutSnapshot(name string, r io.Reader, size int64) error {
	return m.put(m.snapshots, name, r, size)
}

func (m *MemoryVault) GetSnapshot(name string, w io.Writer) error {
	return m.get(m.snapshots, "snapshot", name, w)
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

func (m *MemoryVault) put(dst map[string][]byte, name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	dst[name] = data
	return nil
}

func (m *MemoryVault) get(src map[string][]byte, kind, name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := src[name]
	if !ok {
		return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return nil
}

// Compile-time check that MemoryVault implements diary.Vault interface
var _ diary.Vault = (*MemoryVault)(nil)
