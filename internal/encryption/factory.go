package encryption

import (
	"fmt"

	"echo-daily/internal/config"
	"echo-daily/internal/diary"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
// "none" returns a nil Encryptor and bundles are stored in plaintext.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (diary.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
