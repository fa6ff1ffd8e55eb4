package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	ErrResourceOccupied = errors.New("resource is occupied by an active reservation")

	ErrExtensionInFlight = errors.New("an extension for this reservation is already in progress")

	ErrNotActive = errors.New("reservation is not active")
)
