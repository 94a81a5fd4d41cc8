package encryption

import (
	"bytes"
	"fmt"
	"io"

	"echo-daily/internal/diary"
)

// testHeader marks bundles written by TestEncryptor.
var testHeader = []byte("ECHOENC\x00")

// TestEncryptor is a deterministic stand-in for AgeEncryptor. It prefixes a
// fixed header on Encrypt and checks the passphrase on Unlock, so restore
// paths can be exercised without scrypt.
type TestEncryptor struct {
	passphrase string
}

var _ diary.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a TestEncryptor that is already configured with
// an empty passphrase.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase = passphrase
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (diary.DecryptionContext, error) {
	if passphrase != e.passphrase {
		return nil, fmt.Errorf("unlocking test key: %w", ErrWrongPassphrase)
	}
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

// TestDecryptionContext strips the header added by TestEncryptor.
type TestDecryptionContext struct{}

var _ diary.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("invalid test encryption header")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
