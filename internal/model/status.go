package model

import "fmt"

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus accepts only the three known values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Transition returns the state reached by moving from s to next.
// Only pending->confirmed and confirmed->cancelled move. cancelled is
// terminal; re-cancelling is a no-op and reports changed=false.
func (s Status) Transition(next Status) (result Status, changed bool, err error) {
	switch {
	case s == next && s == StatusCancelled:
		return s, false, nil
	case s == StatusPending && next == StatusConfirmed:
		return next, true, nil
	case s == StatusConfirmed && next == StatusCancelled:
		return next, true, nil
	}
	return s, false, fmt.Errorf("illegal status transition %s -> %s", s, next)
}
