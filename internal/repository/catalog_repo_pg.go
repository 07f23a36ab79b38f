package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository reads trips and travelers. Both are owned by external
// systems and never written here.
type CatalogRepository interface {
	GetTrip(ctx context.Context, id int64) (*domain.Trip, error)
	GetTraveler(ctx context.Context, id int64) (*domain.Traveler, error)
}

type PGCatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &PGCatalogRepository{db: db}
}

func (r *PGCatalogRepository) GetTrip(ctx context.Context, id int64) (*domain.Trip, error) {
	row := r.db.QueryRow(ctx, `SELECT id, operator_id, start_date, end_date, staying_night_price_cents, flight_price_cents, premium_food_price_cents, extra_luggage_price_per_kilo, created_at, updated_at FROM trips WHERE id=$1`, id)
	var t domain.Trip
	if err := row.Scan(&t.ID, &t.OperatorID, &t.StartDate, &t.EndDate, &t.StayingNightPriceCents, &t.FlightPriceCents, &t.PremiumFoodPriceCents, &t.ExtraLuggagePricePerKilo, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: trip %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get trip %d: %v", domain.ErrPersistence, id, err)
	}
	return &t, nil
}

func (r *PGCatalogRepository) GetTraveler(ctx context.Context, id int64) (*domain.Traveler, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, email, is_vip FROM travelers WHERE id=$1`, id)
	var t domain.Traveler
	if err := row.Scan(&t.ID, &t.Name, &t.Email, &t.IsVIP); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: traveler %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get traveler %d: %v", domain.ErrPersistence, id, err)
	}
	return &t, nil
}

var _ CatalogRepository = (*PGCatalogRepository)(nil)
