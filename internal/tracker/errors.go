package tracker

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by update/get operations on a missing id.
var ErrNotFound = errors.New("record not found")

// QuotaError signals storage-quota exhaustion. It is the one error class the
// front end is expected to special-case, so it carries a user-facing
// message.
type QuotaError struct {
	// Err is the underlying storage error.
	Err error
}

func (e *QuotaError) Error() string {
	return "storage is full: free up disk space or export and prune old data"
}

func (e *QuotaError) Unwrap() error { return e.Err }

// IsQuotaExceeded reports whether err is a storage-quota failure.
func IsQuotaExceeded(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

// BlockedError signals that the database is held open elsewhere and the
// store cannot proceed. The message carries the remediation.
type BlockedError struct {
	Err error
}

func (e *BlockedError) Error() string {
	return "the data file is in use: close other programs using it and retry"
}

func (e *BlockedError) Unwrap() error { return e.Err }

// NotFoundError builds the descriptive error for an update on a missing id.
func NotFoundError(collection, id string) error {
	return fmt.Errorf("%s %q: %w", collection, id, ErrNotFound)
}
