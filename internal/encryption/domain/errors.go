package domain

import (
	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/errors"
)

// Encryption orchestration error definitions.
var (
	// ErrManagerNotInitialized indicates an operation was attempted before the
	// encryption manager reached the READY state. Callers must Initialize first.
	ErrManagerNotInitialized = errors.Wrap(errors.ErrNotInitialized, "encryption manager not initialized")

	// ErrUnsupportedEntity indicates the entity shape cannot be processed
	// (nil entity or a value that is not a string-keyed record).
	ErrUnsupportedEntity = errors.Wrap(errors.ErrInvalidInput, "unsupported entity shape")

	// ErrTooManyAttempts indicates password operations are throttled after
	// repeated failures.
	ErrTooManyAttempts = errors.Wrap(errors.ErrLocked, "too many password attempts")
)
