package testutil

import (
	"echo-daily/internal/diary"
	"echo-daily/internal/secrets"
)

// NewTestSecretStore creates an empty in-memory secret store.
func NewTestSecretStore() diary.SecretStore {
	return secrets.NewMemoryStore()
}
