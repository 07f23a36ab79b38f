package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	Insert(ctx context.Context, payment *domain.Payment) error
	Update(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) Insert(ctx context.Context, payment *domain.Payment) error {
	err := r.db.QueryRow(ctx, `INSERT INTO payments
		(reference, card_number, card_expiry, card_cvc, amount_cents, concept, kind, status, gateway_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		payment.Reference, payment.CardNumber, payment.CardExpiry, payment.CardCVC,
		payment.AmountCents, payment.Concept, payment.Kind, payment.Status, payment.GatewayCode).
		Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert payment: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *PGPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	err := r.db.QueryRow(ctx, `UPDATE payments
		SET status=$1, gateway_code=$2, updated_at=now()
		WHERE id=$3
		RETURNING updated_at`,
		payment.Status, payment.GatewayCode, payment.ID).
		Scan(&payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: update payment %d: %v", domain.ErrPersistence, payment.ID, err)
	}
	return nil
}

func (r *PGPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT id, reference, card_number, card_expiry, card_cvc, amount_cents, concept, kind, status, gateway_code, created_at, updated_at FROM payments WHERE id=$1`, id)
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.Reference, &p.CardNumber, &p.CardExpiry, &p.CardCVC, &p.AmountCents, &p.Concept, &p.Kind, &p.Status, &p.GatewayCode, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get payment %d: %v", domain.ErrPersistence, id, err)
	}
	return &p, nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
