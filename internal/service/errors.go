package service

import "errors"

// Request-terminal errors surfaced by the consumption pipeline. Handlers map
// these onto HTTP statuses; every failure leaves all counters untouched.
var (
	ErrUserNotFound          = errors.New("user was not found in registry")
	ErrNoAllowanceRemaining  = errors.New("no allowance remaining")
	ErrAlreadyConsumedToday  = errors.New("already consumed today")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrDrinkNotFound         = errors.New("drink type not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInvalidRequest        = errors.New("invalid request")

	// Delegates registered for specific lunch days only may not claim
	// lunch on other days.
	ErrLunchDayRestricted = errors.New("not registered for lunch today")

	ErrConversationNotFound = errors.New("conversation not found")
	ErrSessionMismatch      = errors.New("session_id does not match this conversation")
)
