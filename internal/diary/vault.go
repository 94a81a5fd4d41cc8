package diary

import "io"

// Vault stores export bundles and database snapshots outside the local
// data directory. All operations stream through io.Reader/io.Writer.
type Vault interface {
	// PutBundle stores a named bundle. Storing an existing name replaces it.
	// size is the number of bytes that will be read from r.
	PutBundle(name string, r io.Reader, size int64) error

	// GetBundle retrieves a bundle by name and writes it to w.
	GetBundle(name string, w io.Writer) error

	// ListBundles returns the stored bundle names in ascending order.
	ListBundles() ([]string, error)

	// PutSnapshot stores a copy of the database file under name.
	PutSnapshot(name string, r io.Reader, size int64) error

	// GetSnapshot retrieves a snapshot by name and writes it to w.
	GetSnapshot(name string, w io.Writer) error

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
