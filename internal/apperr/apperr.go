// Package apperr defines the error taxonomy shared by repositories,
// services and the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound signals an operation targeting a missing id or name.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a unique-key collision on create or rename.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict signals a storage-level constraint rejection that was not
	// pre-checked application-side, e.g. two writers racing on the same
	// version number. Retryable by the caller.
	ErrConflict = errors.New("conflict")
)

// NotFound wraps ErrNotFound with a formatted message.
func NotFound(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// AlreadyExists wraps ErrAlreadyExists with a formatted message.
func AlreadyExists(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrAlreadyExists)...)
}

// FromDB maps storage errors into the taxonomy. Duplicate-key and
// foreign-key rejections become ErrConflict so callers can treat them as
// retryable; anything else passes through unchanged.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAlreadyExists reports whether err is a unique-key collision.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// IsConflict reports whether err is a storage-level constraint rejection.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
