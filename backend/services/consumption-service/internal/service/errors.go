package service

import (
	"errors"

	"dropzero/backend/services/consumption-service/internal/models"
)

var (
	// ErrNoActiveMeter is returned when a user has no active meter to read.
	ErrNoActiveMeter = errors.New("no active meter for user")
	// ErrReadingTooLow is returned when a cumulative reading goes backwards.
	ErrReadingTooLow = errors.New("reading lower than previous")
	// ErrInvalidInput covers malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden is returned when the caller may not touch another user's data.
	ErrForbidden = errors.New("forbidden")
	// ErrMeterExists is returned when registering a duplicate meter id.
	ErrMeterExists = errors.New("meter already exists")
	// ErrUnknownZone is returned for zones outside the fixed district list.
	ErrUnknownZone = models.ErrUnknownZone
)

// ValidationError is a client-caused failure with a message safe to show.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, message string) error {
	return &ValidationError{Message: message, Err: err}
}
