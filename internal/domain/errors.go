// Package domain defines the core business entities and errors.
package domain

import "errors"

// ErrStatusTransition is returned when a status change would move an
// entity backwards through its lifecycle.
var ErrStatusTransition = errors.New("illegal status transition")
