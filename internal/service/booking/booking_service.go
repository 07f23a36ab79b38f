package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/kafka"
	"github.com/Domenick1991/tripbooking/internal/repository"
	"github.com/Domenick1991/tripbooking/internal/service/payment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	RequestBooking(ctx context.Context, input RequestBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	NotifyStuckBookings(ctx context.Context) ([]domain.Booking, error)
}

// Cache caches trip catalog reads and holds the per-trip coordination token.
type Cache interface {
	GetTrip(ctx context.Context, tripID int64) (*domain.Trip, error)
	SetTrip(ctx context.Context, trip *domain.Trip) error
	AcquireTripHold(ctx context.Context, tripID int64, ttl time.Duration) (bool, error)
	ReleaseTripHold(ctx context.Context, tripID int64) error
}

// Operator is the third-party system owning trip inventory.
type Operator interface {
	VerifyAvailability(ctx context.Context, trip *domain.Trip, passengersCount int) (bool, error)
	ReserveBooking(ctx context.Context, booking *domain.Booking, trip *domain.Trip) (string, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type RequestBookingInput struct {
	TravelerID        int64  `json:"traveler_id"`
	TripID            int64  `json:"trip_id"`
	PassengersCount   int    `json:"passengers_count"`
	CardNumber        string `json:"card_number"`
	CardExpiry        string `json:"card_expiry"`
	CardCVC           string `json:"card_cvc"`
	HasPremiumFoods   bool   `json:"has_premium_foods"`
	ExtraLuggageKilos int    `json:"extra_luggage_kilos"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	payments           repository.PaymentRepository
	catalog            repository.CatalogRepository
	paymentSvc         payment.PaymentUseCase
	operator           Operator
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	holdTTL            time.Duration
	stuckAfter         time.Duration
	logger             *zap.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithStuckAfter(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.stuckAfter = d
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	payments repository.PaymentRepository,
	catalog repository.CatalogRepository,
	paymentSvc payment.PaymentUseCase,
	operator Operator,
	cache Cache,
	producer Producer,
	eventsTopic string,
	holdTTL time.Duration,
	logger *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		payments:    payments,
		catalog:     catalog,
		paymentSvc:  paymentSvc,
		operator:    operator,
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
		holdTTL:     holdTTL,
		stuckAfter:  time.Hour,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// sagaState is the accumulated context threaded through the saga steps. Steps
// receive it, extend it and hand it forward; the service itself stays
// stateless across requests.
type sagaState struct {
	input    RequestBookingInput
	traveler *domain.Traveler
	trip     *domain.Trip
	booking  *domain.Booking
	payment  *domain.Payment
	held     bool
}

// RequestBooking runs the booking saga: validate the passenger count, check
// availability with the operator, persist the booking, charge the card,
// confirm the reservation and notify the traveler. Every step is gated on the
// previous one and each completed step performs exactly one persistence write,
// so a crash mid-saga leaves the booking at the last completed status.
func (s *BookingService) RequestBooking(ctx context.Context, input RequestBookingInput) (*domain.Booking, error) {
	if input.TravelerID <= 0 || input.TripID <= 0 {
		return nil, fmt.Errorf("%w: traveler and trip ids are required", domain.ErrValidation)
	}

	state := &sagaState{input: input}
	defer func() {
		if state.held {
			s.releaseHold(ctx, state.trip.ID)
		}
	}()

	if err := s.checkAvailability(ctx, state); err != nil {
		return nil, err
	}
	if err := s.createBooking(ctx, state); err != nil {
		return nil, err
	}
	if err := s.pay(ctx, state); err != nil {
		return nil, err
	}
	if err := s.reserve(ctx, state); err != nil {
		return nil, err
	}
	s.notify(ctx, state.traveler, state.booking, state.payment)
	return state.booking, nil
}

// checkAvailability resolves the traveler and trip, validates the passenger
// count and asks the operator for capacity while holding the per-trip token.
func (s *BookingService) checkAvailability(ctx context.Context, state *sagaState) error {
	traveler, err := s.catalog.GetTraveler(ctx, state.input.TravelerID)
	if err != nil {
		return err
	}
	state.traveler = traveler

	count, err := ValidatePassengersCount(traveler.IsVIP, state.input.PassengersCount)
	if err != nil {
		return err
	}
	state.input.PassengersCount = count

	trip, err := s.resolveTrip(ctx, state.input.TripID)
	if err != nil {
		return err
	}
	state.trip = trip

	if s.cache != nil {
		held, err := s.cache.AcquireTripHold(ctx, trip.ID, s.holdTTL)
		if err != nil {
			return err
		}
		if !held {
			return domain.ErrTripHeld
		}
		state.held = true
	}

	available, err := s.operator.VerifyAvailability(ctx, trip, count)
	if err != nil {
		return fmt.Errorf("verify availability: %w", err)
	}
	if !available {
		return domain.ErrTripUnavailable
	}
	return nil
}

func (s *BookingService) createBooking(ctx context.Context, state *sagaState) error {
	booking := &domain.Booking{
		Reference:         uuid.NewString(),
		TripID:            state.trip.ID,
		TravelerID:        state.traveler.ID,
		PassengersCount:   state.input.PassengersCount,
		HasPremiumFoods:   state.input.HasPremiumFoods,
		ExtraLuggageKilos: state.input.ExtraLuggageKilos,
		Status:            domain.BookingStatusCreated,
	}
	if err := s.bookings.Insert(ctx, booking); err != nil {
		return err
	}
	state.booking = booking

	s.publishEvent(ctx, "booking_created", state)
	return nil
}

// pay computes the price and charges the card. The priced booking is not
// persisted until the charge lands, so an unpriced booking is never visible as
// payable. A refusal aborts the saga; the refused payment stays on record.
func (s *BookingService) pay(ctx context.Context, state *sagaState) error {
	state.booking.PriceCents = ComputePriceCents(state.trip, state.booking)

	concept, err := json.Marshal(state.booking)
	if err != nil {
		return fmt.Errorf("serialize booking concept: %w", err)
	}

	card := payment.CardDetails{
		Number: state.input.CardNumber,
		Expiry: state.input.CardExpiry,
		CVC:    state.input.CardCVC,
	}
	p, err := s.paymentSvc.Charge(ctx, payment.MethodCreditCard, card, state.booking.PriceCents, string(concept))
	if err != nil {
		return err
	}
	if p.Status == domain.PaymentStatusRefused {
		return domain.ErrPaymentRefused
	}
	state.payment = p

	state.booking.PaymentID = p.ID
	if err := state.booking.Advance(domain.BookingStatusPaid); err != nil {
		return err
	}
	if err := s.bookings.Update(ctx, state.booking); err != nil {
		return err
	}

	s.publishEvent(ctx, "booking_paid", state)
	return nil
}

// reserve converts the availability hold into an operator reservation. If the
// operator fails after the charge landed, the compensating refund runs and the
// booking is released instead of being left stranded as PAID.
func (s *BookingService) reserve(ctx context.Context, state *sagaState) error {
	code, err := s.operator.ReserveBooking(ctx, state.booking, state.trip)
	if err != nil {
		s.logger.Warn("reservation failed after charge, compensating with refund",
			zap.Int64("booking_id", state.booking.ID),
			zap.Error(err))
		s.compensate(ctx, state)
		return fmt.Errorf("reserve booking: %w", err)
	}

	state.booking.OperatorReserveCode = code
	if err := state.booking.Advance(domain.BookingStatusReserved); err != nil {
		return err
	}
	if err := s.bookings.Update(ctx, state.booking); err != nil {
		return err
	}
	if state.held {
		s.releaseHold(ctx, state.trip.ID)
		state.held = false
	}

	s.publishEvent(ctx, "booking_reserved", state)
	return nil
}

// compensate refunds the charge and moves the booking to RELEASED. Refund
// failures are logged, not retried; the booking still leaves PAID so the
// stranded state is visible.
func (s *BookingService) compensate(ctx context.Context, state *sagaState) {
	card := payment.CardDetails{
		Number: state.input.CardNumber,
		Expiry: state.input.CardExpiry,
		CVC:    state.input.CardCVC,
	}
	refund, err := s.paymentSvc.Refund(ctx, payment.MethodCreditCard, card, state.payment.AmountCents, state.payment.Concept)
	if err != nil {
		s.logger.Error("compensating refund failed",
			zap.Int64("booking_id", state.booking.ID),
			zap.Error(err))
	} else if refund.Status == domain.PaymentStatusRefused {
		s.logger.Error("compensating refund refused by gateway",
			zap.Int64("booking_id", state.booking.ID),
			zap.Int64("refund_id", refund.ID))
	}

	if err := state.booking.Advance(domain.BookingStatusReleased); err != nil {
		s.logger.Error("release transition rejected", zap.Error(err))
		return
	}
	if err := s.bookings.Update(ctx, state.booking); err != nil {
		s.logger.Error("persist released booking", zap.Error(err))
		return
	}
	s.publishEvent(ctx, "booking_released", state)
	s.notify(ctx, state.traveler, state.booking, state.payment)
}

// CancelBooking refunds the original charge and moves the booking to
// CANCELLED, then notifies the traveler.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusPaid && booking.Status != domain.BookingStatusReserved {
		return nil, fmt.Errorf("%w: booking %d in status %s cannot be cancelled", domain.ErrValidation, bookingID, booking.Status)
	}

	charge, err := s.payments.GetByID(ctx, booking.PaymentID)
	if err != nil {
		return nil, err
	}
	card := payment.CardDetails{
		Number: charge.CardNumber,
		Expiry: charge.CardExpiry,
		CVC:    charge.CardCVC,
	}
	refund, err := s.paymentSvc.Refund(ctx, payment.MethodCreditCard, card, charge.AmountCents, charge.Concept)
	if err != nil {
		return nil, err
	}
	if refund.Status == domain.PaymentStatusRefused {
		return nil, domain.ErrPaymentRefused
	}

	if err := booking.Advance(domain.BookingStatusCancelled); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	traveler, err := s.catalog.GetTraveler(ctx, booking.TravelerID)
	if err != nil {
		return booking, nil
	}
	s.publishEvent(ctx, "booking_cancelled", &sagaState{traveler: traveler, booking: booking})
	s.notify(ctx, traveler, booking, refund)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

// NotifyStuckBookings re-dispatches notifications for bookings left one step
// short of a notified terminal status. Run periodically by the worker.
func (s *BookingService) NotifyStuckBookings(ctx context.Context) ([]domain.Booking, error) {
	deadline := time.Now().Add(-s.stuckAfter)
	stuck, err := s.bookings.ListStuckBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}

	var notified []domain.Booking
	for i := range stuck {
		b := &stuck[i]
		traveler, err := s.catalog.GetTraveler(ctx, b.TravelerID)
		if err != nil {
			s.logger.Warn("skip stuck booking, traveler lookup failed",
				zap.Int64("booking_id", b.ID), zap.Error(err))
			continue
		}
		if !s.notify(ctx, traveler, b, nil) {
			continue
		}
		notified = append(notified, *b)
	}
	return notified, nil
}

// notify dispatches the status-appropriate message and, on success, advances
// the booking to its notified terminal status. A dispatch failure leaves the
// booking one step short, to be retried by the worker sweep.
func (s *BookingService) notify(ctx context.Context, traveler *domain.Traveler, booking *domain.Booking, p *domain.Payment) bool {
	next, ok := booking.NotifiedStatus()
	if !ok {
		return false
	}

	event := kafka.BookingEvent{
		Type:                "booking_notification",
		BookingID:           booking.ID,
		Reference:           booking.Reference,
		TripID:              booking.TripID,
		TravelerID:          traveler.ID,
		TravelerEmail:       traveler.Email,
		Status:              string(booking.Status),
		PriceCents:          booking.PriceCents,
		PaymentID:           booking.PaymentID,
		OperatorReserveCode: booking.OperatorReserveCode,
	}
	if p != nil {
		event.PaymentID = p.ID
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
		s.logger.Warn("notification dispatch failed",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err))
		return false
	}

	if err := booking.Advance(next); err != nil {
		s.logger.Error("notified transition rejected", zap.Error(err))
		return false
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		s.logger.Error("persist notified booking",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err))
		return false
	}
	return true
}

func (s *BookingService) resolveTrip(ctx context.Context, tripID int64) (*domain.Trip, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTrip(ctx, tripID); err == nil && cached != nil {
			return cached, nil
		}
	}

	trip, err := s.catalog.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetTrip(ctx, trip)
	}
	return trip, nil
}

func (s *BookingService) releaseHold(ctx context.Context, tripID int64) {
	if err := s.cache.ReleaseTripHold(ctx, tripID); err != nil {
		s.logger.Warn("release trip hold failed", zap.Int64("trip_id", tripID), zap.Error(err))
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, state *sagaState) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:                eventType,
		BookingID:           state.booking.ID,
		Reference:           state.booking.Reference,
		TripID:              state.booking.TripID,
		TravelerID:          state.booking.TravelerID,
		Status:              string(state.booking.Status),
		PriceCents:          state.booking.PriceCents,
		PaymentID:           state.booking.PaymentID,
		OperatorReserveCode: state.booking.OperatorReserveCode,
	}
	if state.traveler != nil {
		event.TravelerEmail = state.traveler.Email
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, state.booking.Reference, event); err != nil {
		s.logger.Warn("publish booking event failed",
			zap.String("type", eventType),
			zap.Int64("booking_id", state.booking.ID),
			zap.Error(err))
	}
}

var _ BookingUseCase = (*BookingService)(nil)
