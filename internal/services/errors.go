package services

import "errors"

var (
	// ErrNotFound is returned when a looked-up row does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned when a status change is not allowed
	// from the row's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidFrequency is returned for schedules whose recurrence cannot
	// be built
	ErrInvalidFrequency = errors.New("invalid frequency")
)
