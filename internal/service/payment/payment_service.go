package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/gateway"
	"github.com/Domenick1991/tripbooking/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MethodCreditCard is the only payment method the gateway currently accepts.
const MethodCreditCard = "credit-card"

type PaymentUseCase interface {
	Charge(ctx context.Context, method string, card CardDetails, amountCents int64, concept string) (*domain.Payment, error)
	Refund(ctx context.Context, method string, card CardDetails, amountCents int64, concept string) (*domain.Payment, error)
}

// Gateway is the payment gateway collaborator.
type Gateway interface {
	Submit(ctx context.Context, req gateway.Request, idempotencyKey string) (gateway.Result, error)
}

type CardDetails struct {
	Number string
	Expiry string
	CVC    string
}

type PaymentService struct {
	payments repository.PaymentRepository
	gateway  Gateway
	logger   *zap.Logger
}

func NewPaymentService(payments repository.PaymentRepository, gw Gateway, logger *zap.Logger) *PaymentService {
	return &PaymentService{payments: payments, gateway: gw, logger: logger}
}

func (s *PaymentService) Charge(ctx context.Context, method string, card CardDetails, amountCents int64, concept string) (*domain.Payment, error) {
	return s.submit(ctx, domain.PaymentKindCharge, method, card, amountCents, concept)
}

// Refund mirrors Charge with kind REFUND. Used by cancellation and by the
// compensation path; both share the charge request/response contract.
func (s *PaymentService) Refund(ctx context.Context, method string, card CardDetails, amountCents int64, concept string) (*domain.Payment, error) {
	return s.submit(ctx, domain.PaymentKindRefund, method, card, amountCents, concept)
}

func (s *PaymentService) submit(ctx context.Context, kind domain.PaymentKind, method string, card CardDetails, amountCents int64, concept string) (*domain.Payment, error) {
	if method != MethodCreditCard {
		return nil, fmt.Errorf("%w: unsupported payment method %q", domain.ErrPaymentCreation, method)
	}

	payment := &domain.Payment{
		Reference:   uuid.NewString(),
		CardNumber:  card.Number,
		CardExpiry:  card.Expiry,
		CardCVC:     card.CVC,
		AmountCents: amountCents,
		Concept:     concept,
		Kind:        kind,
		Status:      domain.PaymentStatusPending,
	}
	if err := s.payments.Insert(ctx, payment); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentCreation, err)
	}

	result, err := s.gateway.Submit(ctx, gateway.Request{
		Operation:  strings.ToLower(string(kind)),
		Amount:     payment.AmountCents,
		CardNumber: payment.CardNumber,
		CardExpiry: payment.CardExpiry,
		CardCVC:    payment.CardCVC,
	}, payment.Reference)
	if err != nil {
		// Gateway contract violations leave the payment PENDING for manual
		// reconciliation; the money may already have moved.
		s.logger.Error("gateway contract violation",
			zap.Int64("payment_id", payment.ID),
			zap.Error(err))
		return nil, err
	}

	if result.Processed {
		payment.Status = domain.PaymentStatusProcessed
		payment.GatewayCode = result.TransactionNumber
	} else {
		payment.Status = domain.PaymentStatusRefused
	}

	// Both outcomes are recorded, refusals included, for the audit trail.
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment settled",
		zap.Int64("payment_id", payment.ID),
		zap.String("kind", string(payment.Kind)),
		zap.String("status", string(payment.Status)))
	return payment, nil
}

var _ PaymentUseCase = (*PaymentService)(nil)
