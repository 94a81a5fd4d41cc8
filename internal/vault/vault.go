package vault

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a named bundle or snapshot does not exist.
var ErrNotFound = errors.New("vault object not found")

const (
	bundlesDir   = "bundles"
	snapshotsDir = "snapshots"
)

// validateName rejects names that could escape their vault directory.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty object name")
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid object name: %q", name)
	}
	return nil
}
