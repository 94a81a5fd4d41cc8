package secrets

import (
	"fmt"

	"echo-daily/internal/config"
	"echo-daily/internal/diary"
)

// NewSecretStoreFromConfig creates a SecretStore based on the configuration
// type. passphrase is only consulted by file-backed stores.
func NewSecretStoreFromConfig(cfg config.SecretsConfig, passphrase PassphraseFunc) (diary.SecretStore, error) {
	switch cfg.Type {
	case "age-file", "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("age-file secret store requires path to be set")
		}
		return NewFileStore(cfg.Path, passphrase), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown secret store type: %q", cfg.Type)
	}
}
