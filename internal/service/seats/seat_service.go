package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/aircheckin/internal/cache"
	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/repository"
	"github.com/Domenick1991/aircheckin/pkg/logger"
)

type SeatUseCase interface {
	GetAvailableSeats(ctx context.Context, flightID int64, filter domain.SeatFilter) ([]domain.Seat, error)
	GetSeatByID(ctx context.Context, seatID int64) (*domain.Seat, error)
	AllocateSeat(ctx context.Context, flightID, seatID, bookingID int64) (AllocationResult, error)
	AutoAssignSeat(ctx context.Context, flightID, bookingID int64, pref *domain.SeatPreference) (AllocationResult, error)
	ReleaseSeat(ctx context.Context, seatID, bookingID int64) (bool, error)
}

// Locker is the distributed lock used to serialize contention for a seat
// across instances.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration, retries int, retryDelay time.Duration) (string, error)
	Release(ctx context.Context, key, token string)
}

// AllocationResult is the expected-outcome envelope for seat allocation.
// Infrastructure failures travel separately as errors.
type AllocationResult struct {
	Success bool
	Seat    *domain.Seat
	Error   string
}

type LockSettings struct {
	TTL        time.Duration
	Retries    int
	RetryDelay time.Duration
}

type SeatService struct {
	seats        repository.SeatRepository
	lock         Locker
	lockSettings LockSettings
	log          logger.Logger
}

func NewSeatService(seats repository.SeatRepository, lock Locker, lockSettings LockSettings, log logger.Logger) *SeatService {
	return &SeatService{seats: seats, lock: lock, lockSettings: lockSettings, log: log}
}

func (s *SeatService) GetAvailableSeats(ctx context.Context, flightID int64, filter domain.SeatFilter) ([]domain.Seat, error) {
	return s.seats.ListAvailable(ctx, flightID, filter)
}

func (s *SeatService) GetSeatByID(ctx context.Context, seatID int64) (*domain.Seat, error) {
	return s.seats.GetByID(ctx, seatID)
}

// AllocateSeat serializes contention on one seat with the distributed
// lock, then performs the transactional allocation. The transaction's
// FOR UPDATE status guard stands on its own, so a lost or expired lock
// can cause a spurious failure but never a double booking. The lock is
// released regardless of outcome.
func (s *SeatService) AllocateSeat(ctx context.Context, flightID, seatID, bookingID int64) (AllocationResult, error) {
	key := cache.SeatLockKey(flightID, seatID)

	token, err := s.lock.Acquire(ctx, key, s.lockSettings.TTL, s.lockSettings.Retries, s.lockSettings.RetryDelay)
	if err != nil {
		return AllocationResult{}, err
	}
	if token == "" {
		s.log.Warn("failed to acquire seat lock", "flight_id", flightID, "seat_id", seatID, "booking_id", bookingID)
		return AllocationResult{Success: false, Error: "Seat is being processed by another request. Please try again."}, nil
	}
	defer s.lock.Release(ctx, key, token)

	seat, err := s.seats.Allocate(ctx, flightID, seatID, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return AllocationResult{Success: false, Error: "Seat not found"}, nil
		}
		var unavailable *repository.SeatUnavailableError
		if errors.As(err, &unavailable) {
			return AllocationResult{Success: false, Error: fmt.Sprintf("Seat %s is no longer available", unavailable.SeatNumber)}, nil
		}
		s.log.Error("seat allocation failed", "flight_id", flightID, "seat_id", seatID, "booking_id", bookingID, "error", err)
		return AllocationResult{}, err
	}

	s.log.Info("seat allocated", "flight_id", flightID, "seat_id", seatID, "booking_id", bookingID, "seat_number", seat.SeatNumber)
	return AllocationResult{Success: true, Seat: seat}, nil
}

// AutoAssignSeat picks the best available seat honoring preferences,
// falling back to any seat when nothing matches. Candidates are tried in
// order because a seat listed as available may be taken before our lock
// lands.
func (s *SeatService) AutoAssignSeat(ctx context.Context, flightID, bookingID int64, pref *domain.SeatPreference) (AllocationResult, error) {
	filter := domain.SeatFilter{}
	if pref != nil {
		filter.Class = pref.Class
		filter.Position = pref.Position
	}

	candidates, err := s.seats.ListAvailable(ctx, flightID, filter)
	if err != nil {
		return AllocationResult{}, err
	}

	if len(candidates) == 0 && (filter.Class != "" || filter.Position != "") {
		s.log.Info("no seats matching preferences, trying any available", "flight_id", flightID)
		candidates, err = s.seats.ListAvailable(ctx, flightID, domain.SeatFilter{})
		if err != nil {
			return AllocationResult{}, err
		}
	}

	if len(candidates) == 0 {
		return AllocationResult{Success: false, Error: "No seats available on this flight"}, nil
	}

	for _, candidate := range candidates {
		result, err := s.AllocateSeat(ctx, flightID, candidate.ID, bookingID)
		if err != nil {
			return AllocationResult{}, err
		}
		if result.Success {
			return result, nil
		}
		s.log.Debug("seat allocation failed, trying next", "seat_id", candidate.ID)
	}

	return AllocationResult{Success: false, Error: "Could not allocate any seat. Please try again."}, nil
}

// ReleaseSeat frees a seat owned by the booking. A pairing mismatch is a
// normal no-op reported as false, never an error.
func (s *SeatService) ReleaseSeat(ctx context.Context, seatID, bookingID int64) (bool, error) {
	released, err := s.seats.Release(ctx, seatID, bookingID)
	if err != nil {
		s.log.Error("seat release failed", "seat_id", seatID, "booking_id", bookingID, "error", err)
		return false, err
	}
	if released {
		s.log.Info("seat released", "seat_id", seatID, "booking_id", bookingID)
	}
	return released, nil
}

var _ SeatUseCase = (*SeatService)(nil)
