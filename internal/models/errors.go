package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrDuplicatePhone     = errors.New("models: duplicate phone number")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrCarNotFound        = errors.New("car not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrChatNotFound       = errors.New("chat not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrReviewNotFound     = errors.New("review not found")
)

// Booking engine failure taxonomy. Handlers map these to HTTP statuses,
// wrap with fmt.Errorf("%w: ...") for per-case detail.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotAllowed   = errors.New("action not allowed for this actor")
	ErrInvalidState = errors.New("operation invalid for current status")
	ErrDateConflict = errors.New("dates conflict with an existing booking")
)
