package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/clubhouse/internal/club/store"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrInvalidToken  = errors.New("invalid or expired invitation token")
	ErrAlreadyActive = errors.New("account is already active")
	ErrConflict      = errors.New("already exists")

	// ErrDependencyFailure marks warnings from collaborators such as the
	// notifier. It is never returned as an operation error.
	ErrDependencyFailure = errors.New("dependency failure")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeErr translates store sentinels into service sentinels and leaves
// everything else untouched.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func warning(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrDependencyFailure, err)
}
