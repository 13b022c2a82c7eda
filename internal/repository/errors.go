package repository

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected not-found outcomes. Anything else returned
// by a repository is an infrastructure failure.
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrFlightNotFound  = errors.New("flight not found")
	ErrSeatNotFound    = errors.New("seat not found")
	ErrCheckInNotFound = errors.New("check-in not found")
)

// SeatUnavailableError reports a seat that lost its availability between
// listing and the transactional re-check.
type SeatUnavailableError struct {
	SeatNumber string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is no longer available", e.SeatNumber)
}
