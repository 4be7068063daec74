package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure leaving this package wraps one of these so the
// transport layer can map it to a status code with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrMalformed       = errors.New("malformed document")
	ErrWriteFailure    = errors.New("write failure")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("revision conflict")
)

// ConflictError reports a stale-revision save. It matches ErrConflict.
type ConflictError struct {
	Expected Revision
	Current  Revision
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("revision conflict: expected %s, current %s", e.Expected, e.Current)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
