package testutil

import (
	"echo-daily/internal/diary"
	"echo-daily/internal/vault"
)

// NewTestVault creates a new in-memory vault for testing.
func NewTestVault() diary.Vault {
	return vault.NewMemoryVault("test-vault")
}
