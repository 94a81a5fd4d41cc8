package vault

import (
	"context"
	"fmt"

	"echo-daily/internal/config"
	"echo-daily/internal/diary"
)

// NewVaultFromConfig creates a Vault implementation based on the vault config type.
// An empty type disables backups and returns a nil vault.
func NewVaultFromConfig(cfg config.VaultConfig) (diary.Vault, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "s3":
		v, err := NewS3Vault(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return v, nil
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires fs_vault_root to be set")
		}
		v, err := NewFileSystemVault(cfg.Name, cfg.FSVaultRoot)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}
