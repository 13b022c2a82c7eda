package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	FindByPNR(ctx context.Context, pnr, lastName string) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// FindByPNR matches the PNR case-insensitively and the surname as a
// case-insensitive substring of the stored passenger name.
func (r *PGBookingRepository) FindByPNR(ctx context.Context, pnr, lastName string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, flight_id, pnr, passenger_name, seat_id, status, created_at, updated_at
		FROM bookings
		WHERE UPPER(pnr) = UPPER($1) AND UPPER(passenger_name) LIKE UPPER('%' || $2 || '%')`, pnr, lastName)
	return scanBooking(row)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, flight_id, pnr, passenger_name, seat_id, status, created_at, updated_at FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.FlightID, &b.PNR, &b.PassengerName, &b.SeatID, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
