package service

import (
	"errors"

	"alcyxob/fitness-client/internal/server/repository"
)

// --- Error Definitions ---
var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("access denied")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")
	ErrGroupFull         = errors.New("group is full")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// notFound maps the repository sentinel onto the service one and passes
// other errors through.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
