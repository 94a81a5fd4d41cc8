package testutil

import (
	"echo-daily/internal/diary"
	"echo-daily/internal/encryption"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() diary.Encryptor {
	return encryption.NewTestEncryptor()
}
