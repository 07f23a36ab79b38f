package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	Update(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListStuckBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	err := r.db.QueryRow(ctx, `INSERT INTO bookings
		(reference, trip_id, traveler_id, passengers_count, has_premium_foods, extra_luggage_kilos, price_cents, payment_id, operator_reserve_code, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.TripID, booking.TravelerID, booking.PassengersCount,
		booking.HasPremiumFoods, booking.ExtraLuggageKilos, booking.PriceCents,
		booking.PaymentID, booking.OperatorReserveCode, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert booking: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	err := r.db.QueryRow(ctx, `UPDATE bookings
		SET price_cents=$1, payment_id=$2, operator_reserve_code=$3, status=$4, updated_at=now()
		WHERE id=$5
		RETURNING updated_at`,
		booking.PriceCents, booking.PaymentID, booking.OperatorReserveCode, booking.Status, booking.ID).
		Scan(&booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: update booking %d: %v", domain.ErrPersistence, booking.ID, err)
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, reference, trip_id, traveler_id, passengers_count, has_premium_foods, extra_luggage_kilos, price_cents, payment_id, operator_reserve_code, status, created_at, updated_at FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get booking %d: %v", domain.ErrPersistence, id, err)
	}
	return b, nil
}

// ListStuckBefore returns bookings left one step short of a notified terminal
// status for longer than the given deadline. These are the saga's only
// recovery signal and are re-notified by the worker.
func (r *PGBookingRepository) ListStuckBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, reference, trip_id, traveler_id, passengers_count, has_premium_foods, extra_luggage_kilos, price_cents, payment_id, operator_reserve_code, status, created_at, updated_at
		FROM bookings
		WHERE status = ANY($1) AND updated_at <= $2`,
		[]string{
			string(domain.BookingStatusReserved),
			string(domain.BookingStatusReleased),
			string(domain.BookingStatusCancelled),
		}, deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: list stuck bookings: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var stuck []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan stuck booking: %v", domain.ErrPersistence, err)
		}
		stuck = append(stuck, *b)
	}
	return stuck, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.TripID, &b.TravelerID, &b.PassengersCount, &b.HasPremiumFoods, &b.ExtraLuggageKilos, &b.PriceCents, &b.PaymentID, &b.OperatorReserveCode, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
