package overbooking

import (
	"context"
	"testing"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func TestMaxBookings_ByRouteType(t *testing.T) {
	service := NewOverbookingService(nil)

	cases := []struct {
		routeType string
		want      int
	}{
		{"domestic", 105},
		{"international", 103},
		{"holiday", 102},
		{"business", 108},
		{"charter", 105}, // unknown falls back to domestic
	}

	for _, tc := range cases {
		t.Run(tc.routeType, func(t *testing.T) {
			assert.Equal(t, tc.want, service.MaxBookings(100, tc.routeType))
		})
	}
}

func TestMaxBookings_FloorsFractionalSlots(t *testing.T) {
	service := NewOverbookingService(nil)
	// 37 * 1.05 = 38.85
	assert.Equal(t, 38, service.MaxBookings(37, "domestic"))
}

func TestCanAcceptBooking_WithHeadroom(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewOverbookingService(repo)

	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Flight{
		ID:               1,
		TotalSeats:       100,
		BookedSeats:      90,
		OverbookingLimit: 1.05,
	}, nil)

	status, err := service.CanAcceptBooking(context.Background(), 1)

	assert.NoError(t, err)
	assert.True(t, status.CanBook)
	assert.Equal(t, 15, status.AvailableSlots)
	assert.False(t, status.IsOverbooked)
	assert.Equal(t, 0, status.OverbookedBy)
}

func TestCanAcceptBooking_Overbooked(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewOverbookingService(repo)

	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Flight{
		ID:               1,
		TotalSeats:       100,
		BookedSeats:      105,
		OverbookingLimit: 1.05,
	}, nil)

	status, err := service.CanAcceptBooking(context.Background(), 1)

	assert.NoError(t, err)
	assert.False(t, status.CanBook)
	assert.Equal(t, 0, status.AvailableSlots)
	assert.True(t, status.IsOverbooked)
	assert.Equal(t, 5, status.OverbookedBy)
}

func TestCanAcceptBooking_DefaultsMultiplierWhenUnset(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewOverbookingService(repo)

	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Flight{
		ID:          1,
		TotalSeats:  100,
		BookedSeats: 100,
	}, nil)

	status, err := service.CanAcceptBooking(context.Background(), 1)

	assert.NoError(t, err)
	assert.True(t, status.CanBook)
	assert.Equal(t, 5, status.AvailableSlots)
}

func TestCanAcceptBooking_FlightNotFound(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewOverbookingService(repo)

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, repository.ErrFlightNotFound)

	_, err := service.CanAcceptBooking(context.Background(), 99)

	assert.ErrorIs(t, err, repository.ErrFlightNotFound)
}
