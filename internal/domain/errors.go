package domain

import "errors"

var (
	ErrInvalidSchedule   = errors.New("invalid schedule")
	ErrInvalidGrant      = errors.New("invalid grant")
	ErrOverflow          = errors.New("integer overflow")
	ErrGrantNotFound     = errors.New("grant not found")
	ErrGrantInactive     = errors.New("grant is not active")
	ErrNotRevocable      = errors.New("grant is not revocable")
	ErrNothingReleasable = errors.New("no vested amount is due")
)
