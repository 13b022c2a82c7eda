package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/aircheckin/internal/cache"
	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/kafka"
	"github.com/Domenick1991/aircheckin/internal/repository"
	"github.com/Domenick1991/aircheckin/internal/service/seats"
	"github.com/Domenick1991/aircheckin/pkg/logger"
)

type CheckInUseCase interface {
	CheckIn(ctx context.Context, req domain.CheckInRequest, idempotencyKey string) (*Response, error)
	LookupBooking(ctx context.Context, pnr, lastName string) (*domain.BookingDetails, error)
}

// SeatAllocator is the slice of the seat engine the orchestrator needs.
type SeatAllocator interface {
	GetSeatByID(ctx context.Context, seatID int64) (*domain.Seat, error)
	AllocateSeat(ctx context.Context, flightID, seatID, bookingID int64) (seats.AllocationResult, error)
	AutoAssignSeat(ctx context.Context, flightID, bookingID int64, pref *domain.SeatPreference) (seats.AllocationResult, error)
}

type IdempotencyStore interface {
	Begin(ctx context.Context, token string) (cache.Outcome, error)
	Store(ctx context.Context, token string, statusCode int, body interface{}) error
	ClearProcessing(ctx context.Context, token string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Window bounds check-in relative to departure, in hours. HoursAfter is
// normally negative: -1 keeps the window open until one hour past
// departure.
type Window struct {
	HoursBefore float64
	HoursAfter  float64
}

// Response pairs the check-in outcome with the HTTP status code it is
// cached and replayed under.
type Response struct {
	StatusCode int
	Result     domain.CheckInResult
}

type CheckInService struct {
	bookings    repository.BookingRepository
	flights     repository.FlightRepository
	checkIns    repository.CheckInRepository
	seats       SeatAllocator
	idempotency IdempotencyStore
	producer    Producer

	eventsTopic        string
	notificationsTopic string
	window             Window
	now                func() time.Time
	log                logger.Logger
}

type CheckInServiceOption func(*CheckInService)

func WithNotificationsTopic(topic string) CheckInServiceOption {
	return func(s *CheckInService) {
		s.notificationsTopic = topic
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) CheckInServiceOption {
	return func(s *CheckInService) {
		s.now = now
	}
}

func NewCheckInService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	checkIns repository.CheckInRepository,
	seatAllocator SeatAllocator,
	idempotency IdempotencyStore,
	producer Producer,
	eventsTopic string,
	window Window,
	log logger.Logger,
	opts ...CheckInServiceOption,
) *CheckInService {
	service := &CheckInService{
		bookings:    bookings,
		flights:     flights,
		checkIns:    checkIns,
		seats:       seatAllocator,
		idempotency: idempotency,
		producer:    producer,
		eventsTopic: eventsTopic,
		window:      window,
		now:         time.Now,
		log:         log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CheckIn runs the check-in state machine under idempotency semantics:
// lookup, status check, window check, seat allocation, boarding pass,
// persist. Every terminal outcome except "already processing" is cached
// under the idempotency key; infrastructure failures are returned as
// errors after the processing marker is cleared.
func (s *CheckInService) CheckIn(ctx context.Context, req domain.CheckInRequest, idempotencyKey string) (*Response, error) {
	if idempotencyKey != "" {
		outcome, err := s.idempotency.Begin(ctx, idempotencyKey)
		if err != nil {
			return nil, err
		}
		switch outcome.Kind {
		case cache.OutcomeCompleted:
			s.log.Info("returning cached idempotent response", "pnr", req.PNR, "idempotency_key", idempotencyKey)
			var result domain.CheckInResult
			if err := json.Unmarshal(outcome.Body, &result); err != nil {
				return nil, fmt.Errorf("decode cached check-in result: %w", err)
			}
			return &Response{StatusCode: outcome.StatusCode, Result: result}, nil
		case cache.OutcomeProcessing:
			// Transient, deliberately not cached: the first request is
			// still in flight and the caller should retry shortly.
			return &Response{
				StatusCode: http.StatusConflict,
				Result:     domain.CheckInResult{Success: false, Error: "Request already being processed. Please wait."},
			}, nil
		}

		defer func() {
			if err := s.idempotency.ClearProcessing(ctx, idempotencyKey); err != nil {
				s.log.Error("failed to clear processing marker", "idempotency_key", idempotencyKey, "error", err)
			}
		}()
	}

	return s.process(ctx, req, idempotencyKey)
}

func (s *CheckInService) process(ctx context.Context, req domain.CheckInRequest, idempotencyKey string) (*Response, error) {
	booking, err := s.bookings.FindByPNR(ctx, req.PNR, req.LastName)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return s.fail(ctx, idempotencyKey, http.StatusNotFound, "Booking not found. Please check PNR and last name.")
		}
		return nil, err
	}

	if booking.Status == domain.BookingStatusCheckedIn {
		resp, err := s.replayExistingCheckIn(ctx, booking, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if resp != nil {
			return resp, nil
		}
	}

	if booking.Status != domain.BookingStatusBooked && booking.Status != "confirmed" {
		return s.fail(ctx, idempotencyKey, http.StatusBadRequest, fmt.Sprintf("Cannot check in. Booking status: %s", booking.Status))
	}

	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return s.fail(ctx, idempotencyKey, http.StatusNotFound, "Flight not found")
		}
		return nil, err
	}

	if valid, message := s.checkWindow(flight.DepartureTime); !valid {
		return s.fail(ctx, idempotencyKey, http.StatusBadRequest, message)
	}

	seat, resp, err := s.resolveSeat(ctx, booking, req.SeatPreference, idempotencyKey)
	if err != nil || resp != nil {
		return resp, err
	}

	boardingPass := GenerateBoardingPass(booking.PNR, flight.FlightNumber)
	checkIn := &domain.CheckIn{
		BookingID:     booking.ID,
		SeatID:        seat.ID,
		BoardingPass:  boardingPass,
		BoardingGroup: BoardingGroupFor(seat),
		Gate:          "TBD",
	}

	if err := s.checkIns.Complete(ctx, checkIn); err != nil {
		s.log.Error("check-in persist failed", "pnr", req.PNR, "booking_id", booking.ID, "error", err)
		return nil, err
	}

	s.log.Info("check-in completed", "pnr", req.PNR, "booking_id", booking.ID, "seat_number", seat.SeatNumber, "boarding_pass", boardingPass)
	s.publishCheckedIn(ctx, booking, flight, seat, checkIn)

	seat.Status = domain.SeatStatusCheckedIn
	result := domain.CheckInResult{
		Success: true,
		Data: &domain.CheckInData{
			CheckIn:      checkIn,
			BoardingPass: boardingPass,
			Seat:         seat,
			Flight:       flight,
		},
	}
	s.cacheResult(ctx, idempotencyKey, http.StatusOK, result)
	return &Response{StatusCode: http.StatusOK, Result: result}, nil
}

// replayExistingCheckIn re-derives the original outcome for a booking
// that already checked in, making repeated calls safe even without an
// idempotency key. Returns nil when no check-in record exists, in which
// case the caller falls through to the status guard.
func (s *CheckInService) replayExistingCheckIn(ctx context.Context, booking *domain.Booking, idempotencyKey string) (*Response, error) {
	existing, err := s.checkIns.GetByBookingID(ctx, booking.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCheckInNotFound) {
			return nil, nil
		}
		return nil, err
	}

	seat, err := s.seats.GetSeatByID(ctx, existing.SeatID)
	if err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, err
	}

	result := domain.CheckInResult{
		Success:          true,
		AlreadyCheckedIn: true,
		Data: &domain.CheckInData{
			CheckIn:      existing,
			BoardingPass: existing.BoardingPass,
			Seat:         seat,
			Flight:       flight,
		},
	}
	s.cacheResult(ctx, idempotencyKey, http.StatusOK, result)
	return &Response{StatusCode: http.StatusOK, Result: result}, nil
}

func (s *CheckInService) resolveSeat(ctx context.Context, booking *domain.Booking, pref *domain.SeatPreference, idempotencyKey string) (*domain.Seat, *Response, error) {
	if booking.SeatID != nil {
		seat, err := s.seats.GetSeatByID(ctx, *booking.SeatID)
		if err != nil {
			if errors.Is(err, repository.ErrSeatNotFound) {
				resp, failErr := s.fail(ctx, idempotencyKey, http.StatusInternalServerError, "Could not allocate seat")
				return nil, resp, failErr
			}
			return nil, nil, err
		}
		return seat, nil, nil
	}

	var result seats.AllocationResult
	var err error
	if pref != nil && pref.SeatID != 0 {
		result, err = s.seats.AllocateSeat(ctx, booking.FlightID, pref.SeatID, booking.ID)
	} else {
		result, err = s.seats.AutoAssignSeat(ctx, booking.FlightID, booking.ID, pref)
	}
	if err != nil {
		return nil, nil, err
	}
	if !result.Success {
		message := result.Error
		if message == "" {
			message = "Seat allocation failed"
		}
		resp, failErr := s.fail(ctx, idempotencyKey, http.StatusBadRequest, message)
		return nil, resp, failErr
	}
	return result.Seat, nil, nil
}

func (s *CheckInService) checkWindow(departureTime time.Time) (bool, string) {
	hoursUntilDeparture := departureTime.Sub(s.now()).Hours()

	if hoursUntilDeparture > s.window.HoursBefore {
		return false, fmt.Sprintf("Check-in opens %g hours before departure", s.window.HoursBefore)
	}
	if hoursUntilDeparture < s.window.HoursAfter {
		return false, "Check-in has closed. Please proceed to the airport counter."
	}
	return true, ""
}

func (s *CheckInService) fail(ctx context.Context, idempotencyKey string, statusCode int, message string) (*Response, error) {
	result := domain.CheckInResult{Success: false, Error: message}
	s.cacheResult(ctx, idempotencyKey, statusCode, result)
	return &Response{StatusCode: statusCode, Result: result}, nil
}

// cacheResult stores a terminal outcome under the idempotency key. A
// store failure is logged, not returned: the outcome itself already
// happened and the already-checked-in path keeps replays correct.
func (s *CheckInService) cacheResult(ctx context.Context, idempotencyKey string, statusCode int, result domain.CheckInResult) {
	if idempotencyKey == "" {
		return
	}
	if err := s.idempotency.Store(ctx, idempotencyKey, statusCode, result); err != nil {
		s.log.Error("failed to store idempotent response", "idempotency_key", idempotencyKey, "error", err)
	}
}

func (s *CheckInService) publishCheckedIn(ctx context.Context, booking *domain.Booking, flight *domain.Flight, seat *domain.Seat, checkIn *domain.CheckIn) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.CheckInEvent{
		Type:          "checkin_completed",
		PNR:           booking.PNR,
		PassengerName: booking.PassengerName,
		FlightNumber:  flight.FlightNumber,
		SeatNumber:    seat.SeatNumber,
		BoardingPass:  checkIn.BoardingPass,
		BoardingGroup: string(checkIn.BoardingGroup),
		Gate:          checkIn.Gate,
		DepartureTime: flight.DepartureTime,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.PNR, event); err != nil {
		s.log.Warn("failed to publish check-in event", "pnr", booking.PNR, "error", err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.PNR, event); err != nil {
			s.log.Warn("failed to publish check-in notification", "pnr", booking.PNR, "error", err)
		}
	}
}

// LookupBooking aggregates everything known about a booking for the
// pre-check-in status screen. Returns nil when the booking or its flight
// cannot be found.
func (s *CheckInService) LookupBooking(ctx context.Context, pnr, lastName string) (*domain.BookingDetails, error) {
	booking, err := s.bookings.FindByPNR(ctx, pnr, lastName)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, nil
		}
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var seat *domain.Seat
	if booking.SeatID != nil {
		seat, err = s.seats.GetSeatByID(ctx, *booking.SeatID)
		if err != nil && !errors.Is(err, repository.ErrSeatNotFound) {
			return nil, err
		}
	}

	checkIn, err := s.checkIns.GetByBookingID(ctx, booking.ID)
	if err != nil && !errors.Is(err, repository.ErrCheckInNotFound) {
		return nil, err
	}

	return &domain.BookingDetails{Booking: booking, Flight: flight, Seat: seat, CheckIn: checkIn}, nil
}

var _ CheckInUseCase = (*CheckInService)(nil)
