package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SeatRepository interface {
	GetByID(ctx context.Context, seatID int64) (*domain.Seat, error)
	ListAvailable(ctx context.Context, flightID int64, filter domain.SeatFilter) ([]domain.Seat, error)
	Allocate(ctx context.Context, flightID, seatID, bookingID int64) (*domain.Seat, error)
	Release(ctx context.Context, seatID, bookingID int64) (bool, error)
}

type PGSeatRepository struct {
	db *pgxpool.Pool
}

func NewSeatRepository(db *pgxpool.Pool) SeatRepository {
	return &PGSeatRepository{db: db}
}

func (r *PGSeatRepository) GetByID(ctx context.Context, seatID int64) (*domain.Seat, error) {
	row := r.db.QueryRow(ctx, `SELECT id, flight_id, seat_number, class, position, status, price_cents FROM seats WHERE id=$1`, seatID)
	var s domain.Seat
	if err := row.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Class, &s.Position, &s.Status, &s.PriceCents); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListAvailable returns available seats ordered by class priority
// (first, business, economy) then seat number. The order is the
// auto-assignment priority and must stay deterministic.
func (r *PGSeatRepository) ListAvailable(ctx context.Context, flightID int64, filter domain.SeatFilter) ([]domain.Seat, error) {
	query := `SELECT id, flight_id, seat_number, class, position, status, price_cents
		FROM seats WHERE flight_id=$1 AND status='available'`
	args := []interface{}{flightID}

	if filter.Class != "" {
		args = append(args, filter.Class)
		query += fmt.Sprintf(` AND class=$%d`, len(args))
	}
	if filter.Position != "" {
		args = append(args, filter.Position)
		query += fmt.Sprintf(` AND position=$%d`, len(args))
	}

	query += ` ORDER BY CASE class WHEN 'first' THEN 1 WHEN 'business' THEN 2 ELSE 3 END, seat_number`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Class, &s.Position, &s.Status, &s.PriceCents); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// Allocate marks the seat booked, points the booking at it and bumps the
// flight's booked counter in a single transaction. The seat row is
// re-read FOR UPDATE so a racing transaction blocks until this one
// commits and then fails the status guard. This guard is independent of
// the redis lock and holds even if the lock TTL expires mid-flight.
func (r *PGSeatRepository) Allocate(ctx context.Context, flightID, seatID, bookingID int64) (*domain.Seat, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var s domain.Seat
	row := tx.QueryRow(ctx, `SELECT id, flight_id, seat_number, class, position, status, price_cents FROM seats WHERE id=$1 AND flight_id=$2 FOR UPDATE`, seatID, flightID)
	if err := row.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Class, &s.Position, &s.Status, &s.PriceCents); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}

	if s.Status != domain.SeatStatusAvailable {
		return nil, &SeatUnavailableError{SeatNumber: s.SeatNumber}
	}

	if _, err := tx.Exec(ctx, `UPDATE seats SET status='booked' WHERE id=$1`, seatID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE bookings SET seat_id=$1, updated_at=now() WHERE id=$2`, seatID, bookingID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE flights SET booked_seats = booked_seats + 1, updated_at=now() WHERE id=$1`, flightID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.Status = domain.SeatStatusBooked
	return &s, nil
}

// Release undoes an allocation if and only if the booking currently owns
// the seat. A pairing mismatch is a normal no-op reported as false.
func (r *PGSeatRepository) Release(ctx context.Context, seatID, bookingID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var flightID int64
	row := tx.QueryRow(ctx, `SELECT flight_id FROM bookings WHERE id=$1 AND seat_id=$2`, bookingID, seatID)
	if err := row.Scan(&flightID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	if _, err := tx.Exec(ctx, `UPDATE seats SET status='available' WHERE id=$1`, seatID); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `UPDATE bookings SET seat_id=NULL, updated_at=now() WHERE id=$1`, bookingID); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `UPDATE flights SET booked_seats = booked_seats - 1, updated_at=now() WHERE id=$1`, flightID); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

var _ SeatRepository = (*PGSeatRepository)(nil)
