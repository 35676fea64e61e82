package domain

import "errors"

// Error kinds shared by the services. Handlers map these to responses;
// everything is recovered locally, nothing here is fatal to the process.
var (
	ErrValidation        = errors.New("invalid input")
	ErrFlightNotFound    = errors.New("flight not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInsufficientSeats = errors.New("not enough available seats")
	ErrPersistence       = errors.New("storage save failed")
	ErrUnauthorized      = errors.New("booking belongs to another customer")
	ErrFlightNotBookable = errors.New("flight is not open for booking")
	ErrInvalidStatus     = errors.New("booking status does not allow this operation")
)
