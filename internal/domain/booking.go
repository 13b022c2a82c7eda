package domain

import "time"

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusCheckedIn BookingStatus = "checked_in"
)

// Booking owns at most one seat at a time; SeatID is nil until a seat is
// allocated and nulled again on release.
type Booking struct {
	ID            int64         `json:"id"`
	FlightID      int64         `json:"flight_id"`
	PNR           string        `json:"pnr"`
	PassengerName string        `json:"passenger_name"`
	SeatID        *int64        `json:"seat_id,omitempty"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
