package appointmentRepo

import "errors"

// Conflict and lookup errors surfaced by the repository. The scheduling
// service maps these to caller-facing messages.
var (
	// ErrSlotTaken: a booked appointment already holds the identical start
	// instant (single-resource calendar rule).
	ErrSlotTaken = errors.New("slot already booked")

	// ErrUserOverlap: the user already has a booked appointment overlapping
	// the requested window.
	ErrUserOverlap = errors.New("user already has a booking during that time window")

	// ErrNotFound: no appointment exists for the given identifier.
	ErrNotFound = errors.New("appointment not found")
)
