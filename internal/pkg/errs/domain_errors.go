package errs

import "errors"

// Domain-specific sentinel errors for the usecase layers
var (
	// Booking errors
	ErrBookingNotFound     = errors.New("booking not found")
	ErrBookingConflict     = errors.New("room already booked for this date")
	ErrInvalidBookingState = errors.New("invalid booking state")
	ErrInvalidBookingDate  = errors.New("invalid booking date")
	ErrInvalidNote         = errors.New("invalid note")

	// Room directory errors
	ErrRoomNotFound        = errors.New("room not found")
	ErrInvalidRoomID       = errors.New("invalid room id")
	ErrUpstreamUnavailable = errors.New("room directory unavailable")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyTaken  = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
