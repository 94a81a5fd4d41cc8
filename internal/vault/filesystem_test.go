package vault

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemVault(t *testing.T) {
	t.Run("creates directory structure", func(t *testing.T) {
		tmpDir := t.TempDir()
		root := filepath.Join(tmpDir, "vault")

		v, err := NewFileSystemVault("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "bundles")); err != nil {
			t.Errorf("bundles directory not created: %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, "snapshots")); err != nil {
			t.Errorf("snapshots directory not created: %v", err)
		}

		if v.name != "test" {
			t.Errorf("name = %q, want %q", v.name, "test")
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		tmpDir := t.TempDir()

		if _, err := NewFileSystemVault("test", tmpDir); err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
	})
}

func TestFileSystemVault_PutBundle(t *testing.T) {
	tests := []struct {
		name       string
		bundleName string
		data       string
		size       int64
		wantErr    bool
	}{
		{
			name:       "store bundle successfully",
			bundleName: "bundle-20260103T103000Z.json",
			data:       `{"version":"1.0"}`,
			size:       17,
		},
		{
			name:       "size mismatch",
			bundleName: "short.json",
			data:       "hello",
			size:       100,
			wantErr:    true,
		},
		{
			name:       "hidden name rejected",
			bundleName: ".tmp-1",
			data:       "x",
			size:       1,
			wantErr:    true,
		},
		{
			name:       "nested name rejected",
			bundleName: "a/b.json",
			data:       "x",
			size:       1,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			v, err := NewFileSystemVault("test", root)
			if err != nil {
				t.Fatalf("NewFileSystemVault() error = %v", err)
			}

			err = v.PutBundle(tt.bundleName, strings.NewReader(tt.data), tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PutBundle() error = %v, wantErr %v", err, tt.wantErr)
			}

			entries, _ := os.ReadDir(filepath.Join(root, "bundles"))
			if tt.wantErr {
				if len(entries) != 0 {
					t.Errorf("bundles dir has %d entries after failed put, want 0", len(entries))
				}
				return
			}

			got, err := os.ReadFile(filepath.Join(root, "bundles", tt.bundleName))
			if err != nil {
				t.Fatalf("reading stored bundle: %v", err)
			}
			if string(got) != tt.data {
				t.Errorf("stored bundle = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestFileSystemVault_GetBundle(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	data := `{"version":"1.0","entries":[]}`
	if err := v.PutBundle("bundle.json", strings.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("PutBundle() error = %v", err)
	}

	var buf bytes.Buffer
	if err := v.GetBundle("bundle.json", &buf); err != nil {
		t.Fatalf("GetBundle() error = %v", err)
	}
	if buf.String() != data {
		t.Errorf("GetBundle() = %q, want %q", buf.String(), data)
	}

	buf.Reset()
	if err := v.GetBundle("missing.json", &buf); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBundle(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFileSystemVault_ListBundles(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	for _, name := range []string{"bundle-2.json.age", "bundle-1.json"} {
		if err := v.PutBundle(name, strings.NewReader("x"), 1); err != nil {
			t.Fatalf("PutBundle(%s) error = %v", name, err)
		}
	}
	// Leftover temp file from an interrupted write.
	if err := os.WriteFile(filepath.Join(root, "bundles", ".tmp-123"), []byte("partial"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := v.ListBundles()
	if err != nil {
		t.Fatalf("ListBundles() error = %v", err)
	}
	if len(got) != 2 || got[0] != "bundle-1.json" || got[1] != "bundle-2.json.age" {
		t.Errorf("ListBundles() = %v, want [bundle-1.json bundle-2.json.age]", got)
	}
}

func TestFileSystemVault_Snapshots(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	data := "SQLite format 3\x00"
	if err := v.PutSnapshot("snapshot-1.db", strings.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "snapshots", "snapshot-1.db")); err != nil {
		t.Errorf("snapshot file not stored: %v", err)
	}

	var buf bytes.Buffer
	if err := v.GetSnapshot("snapshot-1.db", &buf); err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if buf.String() != data {
		t.Errorf("GetSnapshot() = %q, want %q", buf.String(), data)
	}

	if names, _ := v.ListBundles(); len(names) != 0 {
		t.Errorf("ListBundles() = %v, snapshots must not be listed", names)
	}
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	t.Run("valid setup", func(t *testing.T) {
		v, err := NewFileSystemVault("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
		if err := v.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("missing snapshots directory", func(t *testing.T) {
		root := t.TempDir()
		v, err := NewFileSystemVault("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
		if err := os.RemoveAll(filepath.Join(root, "snapshots")); err != nil {
			t.Fatal(err)
		}
		if err := v.ValidateSetup(); err == nil {
			t.Error("ValidateSetup() expected error when snapshots dir is missing")
		}
	})
}
