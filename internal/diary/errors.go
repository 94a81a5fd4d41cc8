package diary

import "errors"

// Error taxonomy. Callers match with errors.Is; the wrapped cause (driver
// error, JSON error, os error) stays reachable through the chain.
var (
	// ErrStorage wraps failures of the underlying database engine.
	ErrStorage = errors.New("storage fault")

	// ErrEntryNotFound is returned when an operation requires an existing entry.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidDate is returned for malformed YYYY-MM-DD or YYYY-MM values.
	ErrInvalidDate = errors.New("invalid entry date")

	// ErrSerialization is returned when a bundle, setting or content payload
	// is not valid structured data.
	ErrSerialization = errors.New("serialization fault")

	// ErrIO wraps filesystem failures around the database file and exports.
	ErrIO = errors.New("io fault")
)
