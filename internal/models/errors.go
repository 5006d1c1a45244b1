package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey indicates a unique-field collision on create or update.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidArgument indicates a blank required field, a stock
	// adjustment that would go negative, or otherwise malformed input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrDuplicateAssignment rejects assigning a role the user already holds.
// It matches ErrInvalidArgument under errors.Is, so callers that only care
// about the coarse class keep working.
var ErrDuplicateAssignment = fmt.Errorf("%w: role already assigned", ErrInvalidArgument)
