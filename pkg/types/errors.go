package types

import (
	"errors"
	"fmt"
)

// Entity lookup errors.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrInvalidID = errors.New("invalid entity ID")
)

// Field validation causes, carried by ValidationError.
var (
	ErrRequired        = errors.New("field is required")
	ErrNameTooLong     = errors.New("name is too long")
	ErrInvalidCapacity = errors.New("capacity must be a positive integer")
	ErrInvalidCategory = errors.New("invalid category")
	ErrUnknownManager  = errors.New("manager is not on the roster")
)

// Cross-entity constraint causes, carried by ConstraintViolation.
var (
	ErrDuplicateName   = errors.New("name already exists")
	ErrDeleteForbidden = errors.New("deletion is forbidden")
)

// Persistence errors. ErrPersistence wraps every failure reported by the
// storage port; ErrCorrupt marks a stored value that does not decode.
var (
	ErrPersistence = errors.New("persistence failure")
	ErrCorrupt     = errors.New("stored collection is corrupt")
	ErrInvalidKey  = errors.New("invalid storage key")
)

// ValidationError reports a user-correctable problem with one field.
// No state is mutated when it is returned.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ConstraintViolation reports a rule spanning the collection (uniqueness,
// delete policy). No state is mutated when it is returned.
type ConstraintViolation struct {
	Rule string
	Err  error
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Err)
}

func (e *ConstraintViolation) Unwrap() error { return e.Err }

// IsUserError reports whether err is recoverable by the caller changing its
// input: validation errors, constraint violations and bad or unknown ids.
func IsUserError(err error) bool {
	var ve *ValidationError
	var cv *ConstraintViolation
	return errors.As(err, &ve) || errors.As(err, &cv) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID)
}
