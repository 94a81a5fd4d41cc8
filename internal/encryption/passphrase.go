package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
)

// ErrWrongPassphrase is returned when passphrase-sealed data cannot be opened.
var ErrWrongPassphrase = errors.New("incorrect passphrase")

// SealWithPassphrase encrypts data to w with an age scrypt recipient.
// A zero workFactor keeps age's default.
func SealWithPassphrase(w io.Writer, passphrase string, workFactor int, data []byte) error {
	if passphrase == "" {
		return fmt.Errorf("empty passphrase")
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if workFactor > 0 {
		recipient.SetWorkFactor(workFactor)
	}

	encWriter, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := encWriter.Write(data); err != nil {
		return fmt.Errorf("writing sealed data: %w", err)
	}
	if err := encWriter.Close(); err != nil {
		return fmt.Errorf("finalizing sealed data: %w", err)
	}
	return nil
}

// OpenWithPassphrase decrypts data sealed by SealWithPassphrase.
func OpenWithPassphrase(r io.Reader, passphrase string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	decReader, err := age.Decrypt(r, identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) || errors.Is(err, age.ErrIncorrectIdentity) {
			return nil, ErrWrongPassphrase
		}
		return nil, fmt.Errorf("opening sealed data: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, decReader); err != nil {
		return nil, fmt.Errorf("reading sealed data: %w", err)
	}
	return buf.Bytes(), nil
}
