package scheduling

import "fmt"

// SchedulingError is a coded, caller-facing error. The conversational layer
// turns these codes into clarification or retry prompts instead of failing
// the call.
type SchedulingError struct {
	Code    string
	Message string
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrInvalidPhone: the supplied phone number holds no digits.
	ErrInvalidPhone = &SchedulingError{Code: "invalidPhone", Message: "a valid phone number is required"}

	// ErrSlotUnavailable: a booked appointment already holds that exact start instant.
	ErrSlotUnavailable = &SchedulingError{Code: "slotUnavailable", Message: "that slot is already booked"}

	// ErrUserDoubleBooked: the caller already has a booking overlapping the window.
	ErrUserDoubleBooked = &SchedulingError{Code: "userDoubleBooked", Message: "you already have an appointment during that time"}

	// ErrNotFound: no appointment exists for the given identifier.
	ErrNotFound = &SchedulingError{Code: "notFound", Message: "no appointment found with that id"}
)
