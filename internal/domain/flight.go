package domain

import "time"

// Flight. BookedSeats is maintained transactionally alongside seat status
// changes and must equal the count of this flight's seats whose status is
// not available.
type Flight struct {
	ID               int64     `json:"id"`
	FlightNumber     string    `json:"flight_number"`
	DepartureTime    time.Time `json:"departure_time"`
	TotalSeats       int       `json:"total_seats"`
	BookedSeats      int       `json:"booked_seats"`
	OverbookingLimit float64   `json:"overbooking_limit"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
