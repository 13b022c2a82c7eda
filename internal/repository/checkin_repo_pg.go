package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CheckInRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.CheckIn, error)
	Complete(ctx context.Context, checkIn *domain.CheckIn) error
}

type PGCheckInRepository struct {
	db *pgxpool.Pool
}

func NewCheckInRepository(db *pgxpool.Pool) CheckInRepository {
	return &PGCheckInRepository{db: db}
}

func (r *PGCheckInRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.CheckIn, error) {
	row := r.db.QueryRow(ctx, `SELECT id, booking_id, seat_id, boarding_pass, check_in_time, boarding_group, gate FROM check_ins WHERE booking_id=$1`, bookingID)
	var c domain.CheckIn
	if err := row.Scan(&c.ID, &c.BookingID, &c.SeatID, &c.BoardingPass, &c.CheckInTime, &c.BoardingGroup, &c.Gate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCheckInNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Complete inserts the check-in row and flips booking and seat status to
// checked_in in one transaction. A partially applied check-in must never
// be observable, so the three writes commit or roll back together. The
// inserted ID and check-in time are written back into checkIn.
func (r *PGCheckInRepository) Complete(ctx context.Context, checkIn *domain.CheckIn) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO check_ins (booking_id, seat_id, boarding_pass, boarding_group, gate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, check_in_time`,
		checkIn.BookingID, checkIn.SeatID, checkIn.BoardingPass, checkIn.BoardingGroup, checkIn.Gate).
		Scan(&checkIn.ID, &checkIn.CheckInTime); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET status='checked_in', updated_at=now() WHERE id=$1`, checkIn.BookingID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE seats SET status='checked_in' WHERE id=$1`, checkIn.SeatID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

var _ CheckInRepository = (*PGCheckInRepository)(nil)
