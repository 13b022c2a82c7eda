package overbooking

import (
	"context"
	"math"

	"github.com/Domenick1991/aircheckin/internal/repository"
)

// Historical no-show rates by route type.
var noShowRates = map[string]float64{
	"domestic":      0.05,
	"international": 0.03,
	"holiday":       0.02,
	"business":      0.08,
}

const defaultOverbookingLimit = 1.05

type OverbookingUseCase interface {
	MaxBookings(totalSeats int, routeType string) int
	CanAcceptBooking(ctx context.Context, flightID int64) (*Status, error)
}

// Status reports a flight's headroom against its overbooking ceiling.
type Status struct {
	CanBook        bool `json:"can_book"`
	AvailableSlots int  `json:"available_slots"`
	IsOverbooked   bool `json:"is_overbooked"`
	OverbookedBy   int  `json:"overbooked_by"`
}

type OverbookingService struct {
	flights repository.FlightRepository
}

func NewOverbookingService(flights repository.FlightRepository) *OverbookingService {
	return &OverbookingService{flights: flights}
}

// MaxBookings is floor(totalSeats * (1 + noShowRate)) for the route type.
// Unknown route types fall back to the domestic rate.
func (s *OverbookingService) MaxBookings(totalSeats int, routeType string) int {
	rate, ok := noShowRates[routeType]
	if !ok {
		rate = noShowRates["domestic"]
	}
	return int(math.Floor(float64(totalSeats) * (1 + rate)))
}

// CanAcceptBooking compares the flight's live booked-seat counter against
// the ceiling derived from its stored multiplier. Read-only.
func (s *OverbookingService) CanAcceptBooking(ctx context.Context, flightID int64) (*Status, error) {
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}

	limit := flight.OverbookingLimit
	if limit == 0 {
		limit = defaultOverbookingLimit
	}

	maxBookings := int(math.Floor(float64(flight.TotalSeats) * limit))
	availableSlots := maxBookings - flight.BookedSeats
	overbookedBy := flight.BookedSeats - flight.TotalSeats
	if overbookedBy < 0 {
		overbookedBy = 0
	}

	return &Status{
		CanBook:        availableSlots > 0,
		AvailableSlots: availableSlots,
		IsOverbooked:   flight.BookedSeats > flight.TotalSeats,
		OverbookedBy:   overbookedBy,
	}, nil
}

var _ OverbookingUseCase = (*OverbookingService)(nil)
