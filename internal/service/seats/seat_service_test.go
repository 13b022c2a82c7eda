package seats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/repository"
	"github.com/Domenick1991/aircheckin/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSeatRepository struct {
	mock.Mock
}

func (m *MockSeatRepository) GetByID(ctx context.Context, seatID int64) (*domain.Seat, error) {
	args := m.Called(ctx, seatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seat), args.Error(1)
}

func (m *MockSeatRepository) ListAvailable(ctx context.Context, flightID int64, filter domain.SeatFilter) ([]domain.Seat, error) {
	args := m.Called(ctx, flightID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockSeatRepository) Allocate(ctx context.Context, flightID, seatID, bookingID int64) (*domain.Seat, error) {
	args := m.Called(ctx, flightID, seatID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seat), args.Error(1)
}

func (m *MockSeatRepository) Release(ctx context.Context, seatID, bookingID int64) (bool, error) {
	args := m.Called(ctx, seatID, bookingID)
	return args.Bool(0), args.Error(1)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration, retries int, retryDelay time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl, retries, retryDelay)
	return args.String(0), args.Error(1)
}

func (m *MockLocker) Release(ctx context.Context, key, token string) {
	m.Called(ctx, key, token)
}

func newTestService(repo *MockSeatRepository, lock *MockLocker) *SeatService {
	settings := LockSettings{TTL: 10 * time.Second, Retries: 3, RetryDelay: 100 * time.Millisecond}
	return NewSeatService(repo, lock, settings, logger.NewNop())
}

func availableSeat(id int64, number string, class domain.SeatClass) domain.Seat {
	return domain.Seat{
		ID:         id,
		FlightID:   1,
		SeatNumber: number,
		Class:      class,
		Position:   domain.SeatPositionWindow,
		Status:     domain.SeatStatusAvailable,
	}
}

func TestSeatService_AllocateSeat_Success(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	allocated := availableSeat(7, "12A", domain.SeatClassEconomy)
	allocated.Status = domain.SeatStatusBooked

	lock.On("Acquire", mock.Anything, "seat:1:7", 10*time.Second, 3, 100*time.Millisecond).Return("token-1", nil)
	lock.On("Release", mock.Anything, "seat:1:7", "token-1").Return()
	repo.On("Allocate", mock.Anything, int64(1), int64(7), int64(42)).Return(&allocated, nil)

	result, err := service.AllocateSeat(context.Background(), 1, 7, 42)

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "12A", result.Seat.SeatNumber)
	lock.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestSeatService_AllocateSeat_LockContention(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	lock.On("Acquire", mock.Anything, "seat:1:7", 10*time.Second, 3, 100*time.Millisecond).Return("", nil)

	result, err := service.AllocateSeat(context.Background(), 1, 7, 42)

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Seat is being processed by another request. Please try again.", result.Error)
	repo.AssertNotCalled(t, "Allocate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	lock.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeatService_AllocateSeat_SeatTakenDuringRace(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	lock.On("Acquire", mock.Anything, "seat:1:7", 10*time.Second, 3, 100*time.Millisecond).Return("token-1", nil)
	lock.On("Release", mock.Anything, "seat:1:7", "token-1").Return()
	repo.On("Allocate", mock.Anything, int64(1), int64(7), int64(42)).Return(nil, &repository.SeatUnavailableError{SeatNumber: "12A"})

	result, err := service.AllocateSeat(context.Background(), 1, 7, 42)

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Seat 12A is no longer available", result.Error)
	lock.AssertExpectations(t)
}

func TestSeatService_AllocateSeat_SeatNotFound(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	lock.On("Acquire", mock.Anything, "seat:1:99", 10*time.Second, 3, 100*time.Millisecond).Return("token-1", nil)
	lock.On("Release", mock.Anything, "seat:1:99", "token-1").Return()
	repo.On("Allocate", mock.Anything, int64(1), int64(99), int64(42)).Return(nil, repository.ErrSeatNotFound)

	result, err := service.AllocateSeat(context.Background(), 1, 99, 42)

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Seat not found", result.Error)
	lock.AssertExpectations(t)
}

func TestSeatService_AllocateSeat_InfrastructureErrorReleasesLock(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	dbErr := errors.New("connection reset")
	lock.On("Acquire", mock.Anything, "seat:1:7", 10*time.Second, 3, 100*time.Millisecond).Return("token-1", nil)
	lock.On("Release", mock.Anything, "seat:1:7", "token-1").Return()
	repo.On("Allocate", mock.Anything, int64(1), int64(7), int64(42)).Return(nil, dbErr)

	_, err := service.AllocateSeat(context.Background(), 1, 7, 42)

	assert.ErrorIs(t, err, dbErr)
	lock.AssertExpectations(t)
}

func TestSeatService_AutoAssignSeat_PicksFirstByPriority(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	candidates := []domain.Seat{
		availableSeat(1, "2A", domain.SeatClassBusiness),
		availableSeat(2, "11C", domain.SeatClassEconomy),
	}
	allocated := candidates[0]
	allocated.Status = domain.SeatStatusBooked

	repo.On("ListAvailable", mock.Anything, int64(1), domain.SeatFilter{}).Return(candidates, nil)
	lock.On("Acquire", mock.Anything, "seat:1:1", 10*time.Second, 3, 100*time.Millisecond).Return("token-1", nil)
	lock.On("Release", mock.Anything, "seat:1:1", "token-1").Return()
	repo.On("Allocate", mock.Anything, int64(1), int64(1), int64(42)).Return(&allocated, nil)

	result, err := service.AutoAssignSeat(context.Background(), 1, 42, nil)

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "2A", result.Seat.SeatNumber)
}

func TestSeatService_AutoAssignSeat_FallsBackWithoutPreferences(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	pref := &domain.SeatPreference{Class: domain.SeatClassFirst}
	fallback := []domain.Seat{availableSeat(5, "14B", domain.SeatClassEconomy)}
	allocated := fallback[0]
	allocated.Status = domain.SeatStatusBooked

	repo.On("ListAvailable", mock.Anything, int64(1), domain.SeatFilter{Class: domain.SeatClassFirst}).Return([]domain.Seat{}, nil)
	repo.On("ListAvailable", mock.Anything, int64(1), domain.SeatFilter{}).Return(fallback, nil)
	lock.On("Acquire", mock.Anything, "seat:1:5", 10*time.Second, 3, 100*time.Millisecond).Return("token-1", nil)
	lock.On("Release", mock.Anything, "seat:1:5", "token-1").Return()
	repo.On("Allocate", mock.Anything, int64(1), int64(5), int64(42)).Return(&allocated, nil)

	result, err := service.AutoAssignSeat(context.Background(), 1, 42, pref)

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "14B", result.Seat.SeatNumber)
	repo.AssertExpectations(t)
}

func TestSeatService_AutoAssignSeat_NoSeatsAvailable(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	repo.On("ListAvailable", mock.Anything, int64(1), domain.SeatFilter{}).Return([]domain.Seat{}, nil)

	result, err := service.AutoAssignSeat(context.Background(), 1, 42, nil)

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "No seats available on this flight", result.Error)
}

func TestSeatService_AutoAssignSeat_TriesNextCandidateAfterRace(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	candidates := []domain.Seat{
		availableSeat(1, "10A", domain.SeatClassEconomy),
		availableSeat(2, "10B", domain.SeatClassEconomy),
	}
	allocated := candidates[1]
	allocated.Status = domain.SeatStatusBooked

	repo.On("ListAvailable", mock.Anything, int64(1), domain.SeatFilter{}).Return(candidates, nil)
	lock.On("Acquire", mock.Anything, "seat:1:1", 10*time.Second, 3, 100*time.Millisecond).Return("token-1", nil)
	lock.On("Release", mock.Anything, "seat:1:1", "token-1").Return()
	repo.On("Allocate", mock.Anything, int64(1), int64(1), int64(42)).Return(nil, &repository.SeatUnavailableError{SeatNumber: "10A"})
	lock.On("Acquire", mock.Anything, "seat:1:2", 10*time.Second, 3, 100*time.Millisecond).Return("token-2", nil)
	lock.On("Release", mock.Anything, "seat:1:2", "token-2").Return()
	repo.On("Allocate", mock.Anything, int64(1), int64(2), int64(42)).Return(&allocated, nil)

	result, err := service.AutoAssignSeat(context.Background(), 1, 42, nil)

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "10B", result.Seat.SeatNumber)
}

func TestSeatService_AutoAssignSeat_AllCandidatesExhausted(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	candidates := []domain.Seat{availableSeat(1, "10A", domain.SeatClassEconomy)}

	repo.On("ListAvailable", mock.Anything, int64(1), domain.SeatFilter{}).Return(candidates, nil)
	lock.On("Acquire", mock.Anything, "seat:1:1", 10*time.Second, 3, 100*time.Millisecond).Return("", nil)

	result, err := service.AutoAssignSeat(context.Background(), 1, 42, nil)

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Could not allocate any seat. Please try again.", result.Error)
}

func TestSeatService_ReleaseSeat_NotOwnedIsNoOp(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	repo.On("Release", mock.Anything, int64(7), int64(42)).Return(false, nil)

	released, err := service.ReleaseSeat(context.Background(), 7, 42)

	assert.NoError(t, err)
	assert.False(t, released)
}

func TestSeatService_ReleaseSeat_Success(t *testing.T) {
	repo := &MockSeatRepository{}
	lock := &MockLocker{}
	service := newTestService(repo, lock)

	repo.On("Release", mock.Anything, int64(7), int64(42)).Return(true, nil)

	released, err := service.ReleaseSeat(context.Background(), 7, 42)

	assert.NoError(t, err)
	assert.True(t, released)
}
