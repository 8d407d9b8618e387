package service

import "errors"

// Common service-level errors.
var (
	// ErrInvalidCredentials is returned when a login fails. Callers get no
	// hint whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrBanned is returned when a banned user attempts to authenticate.
	ErrBanned = errors.New("user is banned")

	// ErrAlreadyProcessed is returned when approving a redemption that
	// already left the pending state. The second approval changes nothing.
	ErrAlreadyProcessed = errors.New("redemption already processed")
)
