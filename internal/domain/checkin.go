package domain

import "time"

type BoardingGroup string

const (
	BoardingGroupA BoardingGroup = "A"
	BoardingGroupB BoardingGroup = "B"
	BoardingGroupC BoardingGroup = "C"
	BoardingGroupD BoardingGroup = "D"
)

// CheckIn is created exactly once per booking and is immutable thereafter.
type CheckIn struct {
	ID            int64         `json:"id"`
	BookingID     int64         `json:"booking_id"`
	SeatID        int64         `json:"seat_id"`
	BoardingPass  string        `json:"boarding_pass"`
	CheckInTime   time.Time     `json:"check_in_time"`
	BoardingGroup BoardingGroup `json:"boarding_group"`
	Gate          string        `json:"gate"`
}

// SeatPreference carries an exact seat or class/position hints for
// auto-assignment. SeatID takes precedence when set.
type SeatPreference struct {
	SeatID   int64        `json:"seat_id,omitempty"`
	Class    SeatClass    `json:"class,omitempty"`
	Position SeatPosition `json:"position,omitempty"`
}

type CheckInRequest struct {
	PNR            string          `json:"pnr"`
	LastName       string          `json:"last_name"`
	SeatPreference *SeatPreference `json:"seat_preference,omitempty"`
}

type CheckInData struct {
	CheckIn      *CheckIn `json:"check_in"`
	BoardingPass string   `json:"boarding_pass"`
	Seat         *Seat    `json:"seat"`
	Flight       *Flight  `json:"flight"`
}

// CheckInResult is the orchestrator's terminal outcome. Expected failures
// (not found, bad status, window violations, seat contention) are reported
// here rather than as errors.
type CheckInResult struct {
	Success          bool         `json:"success"`
	Data             *CheckInData `json:"data,omitempty"`
	Error            string       `json:"error,omitempty"`
	AlreadyCheckedIn bool         `json:"already_checked_in,omitempty"`
}

// BookingDetails aggregates everything known about a booking for lookups.
type BookingDetails struct {
	Booking *Booking `json:"booking"`
	Flight  *Flight  `json:"flight"`
	Seat    *Seat    `json:"seat,omitempty"`
	CheckIn *CheckIn `json:"check_in,omitempty"`
}
