package vault

import (
	"os"
	"path/filepath"
	"testing"

	"echo-daily/internal/config"
)

func TestNewVaultFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.VaultConfig
		wantErr bool
		wantNil bool
	}{
		{
			name:    "backups disabled",
			cfg:     config.VaultConfig{},
			wantErr: false,
			wantNil: true,
		},
		{
			name: "memory vault",
			cfg: config.VaultConfig{
				Type: "memory",
				Name: "test-memory",
			},
			wantErr: false,
			wantNil: false,
		},
		{
			name: "s3 vault without bucket",
			cfg: config.VaultConfig{
				Type: "s3",
				Name: "test-s3",
			},
			wantErr: true,
			wantNil: true,
		},
		{
			name: "filesystem vault without root",
			cfg: config.VaultConfig{
				Type: "filesystem",
				Name: "test-fs",
			},
			wantErr: true,
			wantNil: true,
		},
		{
			name: "unknown vault type",
			cfg: config.VaultConfig{
				Type: "unknown",
				Name: "test-unknown",
			},
			wantErr: true,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewVaultFromConfig(tt.cfg)

			if (err != nil) != tt.wantErr {
				t.Errorf("NewVaultFromConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if (got == nil) != tt.wantNil {
				t.Errorf("NewVaultFromConfig() returned nil = %v, wantNil %v", got == nil, tt.wantNil)
			}

			if !tt.wantErr && got != nil {
				if err := got.ValidateSetup(); err != nil {
					t.Errorf("ValidateSetup() error = %v", err)
				}
			}
		})
	}
}

func TestNewVaultFromConfig_Filesystem(t *testing.T) {
	cfg := config.VaultConfig{
		Type:        "filesystem",
		Name:        "test-fs",
		FSVaultRoot: t.TempDir(),
	}

	got, err := NewVaultFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewVaultFromConfig() error = %v", err)
	}
	if _, ok := got.(*FileSystemVault); !ok {
		t.Fatalf("NewVaultFromConfig() = %T, want *FileSystemVault", got)
	}
	if err := got.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
}

func TestNewVaultFromConfig_FilesystemUnusableRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(root, []byte("not a directory"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := NewVaultFromConfig(config.VaultConfig{Type: "filesystem", Name: "test-fs", FSVaultRoot: root})
	if err == nil {
		t.Fatal("NewVaultFromConfig() expected error for a file root")
	}
	if got != nil {
		t.Errorf("NewVaultFromConfig() = %#v, want nil vault on error", got)
	}
}
