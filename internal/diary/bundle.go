package diary

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// BundleVersion is written into every exported bundle. Imports accept any
// 1.x bundle.
const BundleVersion = "1.0"

// Bundle is a complete, order-stable export of the store: entries ascending
// by date and AI operations ascending by creation time.
type Bundle struct {
	Version      string
	ExportedAt   time.Time
	Entries      []*Entry
	AIOperations []*AIOperation

	// Malformed counts records that could not be decoded. They are dropped
	// from Entries/AIOperations and reported as failures on import.
	Malformed int
}

type bundleJSON struct {
	Version      string         `json:"version"`
	ExportedAt   int64          `json:"exported_at"`
	Entries      []*Entry       `json:"entries"`
	AIOperations []*AIOperation `json:"ai_operations"`
}

// rawBundleJSON defers record decoding so a single bad record does not
// reject the whole document.
type rawBundleJSON struct {
	Version      string            `json:"version"`
	ExportedAt   int64             `json:"exported_at"`
	Entries      []json.RawMessage `json:"entries"`
	AIOperations []json.RawMessage `json:"ai_operations"`
}

// EncodeBundle writes b to w as indented JSON.
func EncodeBundle(w io.Writer, b *Bundle) error {
	out := bundleJSON{
		Version:      b.Version,
		ExportedAt:   toMillis(b.ExportedAt),
		Entries:      b.Entries,
		AIOperations: b.AIOperations,
	}
	if out.Entries == nil {
		out.Entries = []*Entry{}
	}
	if out.AIOperations == nil {
		out.AIOperations = []*AIOperation{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("%w: encoding bundle: %w", ErrSerialization, err)
	}
	return nil
}

// DecodeBundle reads a bundle from r. A document that is not a bundle
// returns ErrSerialization; individual undecodable records are counted in
// Bundle.Malformed.
func DecodeBundle(r io.Reader) (*Bundle, error) {
	var raw rawBundleJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding bundle: %w", ErrSerialization, err)
	}
	if raw.Version == "" {
		return nil, fmt.Errorf("%w: bundle has no version", ErrSerialization)
	}
	if !strings.HasPrefix(raw.Version, "1.") {
		return nil, fmt.Errorf("%w: unsupported bundle version %q", ErrSerialization, raw.Version)
	}

	b := &Bundle{
		Version:    raw.Version,
		ExportedAt: FromMillis(raw.ExportedAt),
	}
	for _, msg := range raw.Entries {
		var e Entry
		if err := json.Unmarshal(msg, &e); err != nil {
			b.Malformed++
			continue
		}
		b.Entries = append(b.Entries, &e)
	}
	for _, msg := range raw.AIOperations {
		var op AIOperation
		if err := json.Unmarshal(msg, &op); err != nil {
			b.Malformed++
			continue
		}
		b.AIOperations = append(b.AIOperations, &op)
	}
	return b, nil
}
