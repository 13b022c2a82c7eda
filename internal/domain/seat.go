package domain

type SeatClass string

const (
	SeatClassFirst    SeatClass = "first"
	SeatClassBusiness SeatClass = "business"
	SeatClassEconomy  SeatClass = "economy"
)

type SeatPosition string

const (
	SeatPositionWindow SeatPosition = "window"
	SeatPositionMiddle SeatPosition = "middle"
	SeatPositionAisle  SeatPosition = "aisle"
)

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusBooked    SeatStatus = "booked"
	SeatStatusCheckedIn SeatStatus = "checked_in"
	SeatStatusBlocked   SeatStatus = "blocked"
)

// Seat belongs to exactly one flight for its lifetime; Status is the
// single source of truth for availability.
type Seat struct {
	ID         int64        `json:"id"`
	FlightID   int64        `json:"flight_id"`
	SeatNumber string       `json:"seat_number"`
	Class      SeatClass    `json:"class"`
	Position   SeatPosition `json:"position"`
	Status     SeatStatus   `json:"status"`
	PriceCents int64        `json:"price_cents"`
}

// SeatFilter narrows available-seat queries. Zero values mean no filter.
type SeatFilter struct {
	Class    SeatClass
	Position SeatPosition
}
