package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/service/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListStuckBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Insert(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetTrip(ctx context.Context, id int64) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockCatalogRepository) GetTraveler(ctx context.Context, id int64) (*domain.Traveler, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Traveler), args.Error(1)
}

type MockPaymentUseCase struct {
	mock.Mock
}

func (m *MockPaymentUseCase) Charge(ctx context.Context, method string, card payment.CardDetails, amountCents int64, concept string) (*domain.Payment, error) {
	args := m.Called(ctx, method, card, amountCents, concept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentUseCase) Refund(ctx context.Context, method string, card payment.CardDetails, amountCents int64, concept string) (*domain.Payment, error) {
	args := m.Called(ctx, method, card, amountCents, concept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockOperator struct {
	mock.Mock
}

func (m *MockOperator) VerifyAvailability(ctx context.Context, trip *domain.Trip, passengersCount int) (bool, error) {
	args := m.Called(ctx, trip, passengersCount)
	return args.Bool(0), args.Error(1)
}

func (m *MockOperator) ReserveBooking(ctx context.Context, booking *domain.Booking, trip *domain.Trip) (string, error) {
	args := m.Called(ctx, booking, trip)
	return args.String(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetTrip(ctx context.Context, tripID int64) (*domain.Trip, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockCache) SetTrip(ctx context.Context, trip *domain.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockCache) AcquireTripHold(ctx context.Context, tripID int64, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, tripID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseTripHold(ctx context.Context, tripID int64) error {
	args := m.Called(ctx, tripID)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type testMocks struct {
	bookings *MockBookingRepository
	payments *MockPaymentRepository
	catalog  *MockCatalogRepository
	charger  *MockPaymentUseCase
	operator *MockOperator
	cache    *MockCache
	producer *MockProducer
}

func newTestService() (*BookingService, *testMocks) {
	m := &testMocks{
		bookings: &MockBookingRepository{},
		payments: &MockPaymentRepository{},
		catalog:  &MockCatalogRepository{},
		charger:  &MockPaymentUseCase{},
		operator: &MockOperator{},
		cache:    &MockCache{},
		producer: &MockProducer{},
	}
	service := &BookingService{
		bookings:           m.bookings,
		payments:           m.payments,
		catalog:            m.catalog,
		paymentSvc:         m.charger,
		operator:           m.operator,
		cache:              m.cache,
		producer:           m.producer,
		eventsTopic:        "booking_events",
		notificationsTopic: "notifications",
		holdTTL:            time.Minute,
		stuckAfter:         time.Hour,
		logger:             zap.NewNop(),
	}
	return service, m
}

func testTrip() *domain.Trip {
	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Trip{
		ID:                       7,
		OperatorID:               3,
		StartDate:                start,
		EndDate:                  start.AddDate(0, 0, 3),
		StayingNightPriceCents:   100_00,
		FlightPriceCents:         50_00,
		PremiumFoodPriceCents:    20_00,
		ExtraLuggagePricePerKilo: 10_00,
	}
}

func testInput() RequestBookingInput {
	return RequestBookingInput{
		TravelerID:      21,
		TripID:          7,
		PassengersCount: 2,
		CardNumber:      "4111111111111111",
		CardExpiry:      "12/28",
		CardCVC:         "123",
	}
}

func testCard() payment.CardDetails {
	return payment.CardDetails{Number: "4111111111111111", Expiry: "12/28", CVC: "123"}
}

func TestRequestBooking_Success(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	trip := testTrip()
	m.catalog.On("GetTraveler", ctx, int64(21)).Return(&domain.Traveler{ID: 21, Email: "t@example.com"}, nil).Once()
	m.cache.On("GetTrip", ctx, int64(7)).Return(nil, nil).Once()
	m.catalog.On("GetTrip", ctx, int64(7)).Return(trip, nil).Once()
	m.cache.On("SetTrip", ctx, trip).Return(nil).Once()
	m.cache.On("AcquireTripHold", ctx, int64(7), time.Minute).Return(true, nil).Once()
	m.operator.On("VerifyAvailability", ctx, trip, 2).Return(true, nil).Once()

	m.bookings.On("Insert", ctx, mock.AnythingOfType("*domain.Booking")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).ID = 42
	}).Return(nil).Once()

	// 2 passengers, no extras: 2 * (50 + 300) = 700
	charged := &domain.Payment{ID: 11, Status: domain.PaymentStatusProcessed, GatewayCode: "tx-900", AmountCents: 700_00}
	m.charger.On("Charge", ctx, payment.MethodCreditCard, testCard(), int64(700_00), mock.AnythingOfType("string")).Return(charged, nil).Once()

	m.operator.On("ReserveBooking", ctx, mock.AnythingOfType("*domain.Booking"), trip).Return("RC-55", nil).Once()
	m.cache.On("ReleaseTripHold", ctx, int64(7)).Return(nil).Once()
	m.bookings.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Times(3)
	m.producer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(nil)
	m.producer.On("Publish", ctx, "notifications", mock.Anything, mock.Anything).Return(nil).Once()

	booked, err := service.RequestBooking(ctx, testInput())

	assert.NoError(t, err)
	assert.NotNil(t, booked)
	assert.Equal(t, int64(42), booked.ID)
	assert.Equal(t, domain.BookingStatusBookingNotified, booked.Status)
	assert.Equal(t, int64(700_00), booked.PriceCents)
	assert.Equal(t, int64(11), booked.PaymentID)
	assert.Equal(t, "RC-55", booked.OperatorReserveCode)
	assert.NotEmpty(t, booked.Reference)

	m.bookings.AssertExpectations(t)
	m.charger.AssertExpectations(t)
	m.operator.AssertExpectations(t)
	m.cache.AssertExpectations(t)
	m.producer.AssertExpectations(t)
}

func TestRequestBooking_MissingIDs(t *testing.T) {
	service, m := newTestService()

	_, err := service.RequestBooking(context.Background(), RequestBookingInput{TravelerID: 0, TripID: 7})

	assert.ErrorIs(t, err, domain.ErrValidation)
	m.catalog.AssertNotCalled(t, "GetTraveler", mock.Anything, mock.Anything)
}

func TestRequestBooking_CountExceededBeforeAnyStep(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.catalog.On("GetTraveler", ctx, int64(21)).Return(&domain.Traveler{ID: 21, IsVIP: false}, nil).Once()

	input := testInput()
	input.PassengersCount = 5

	_, err := service.RequestBooking(ctx, input)

	assert.ErrorIs(t, err, domain.ErrCountExceeded)
	m.catalog.AssertNotCalled(t, "GetTrip", mock.Anything, mock.Anything)
	m.operator.AssertNotCalled(t, "VerifyAvailability", mock.Anything, mock.Anything, mock.Anything)
	m.bookings.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	m.charger.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestBooking_VIPThreshold(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.catalog.On("GetTraveler", ctx, int64(21)).Return(&domain.Traveler{ID: 21, IsVIP: true}, nil)

	input := testInput()
	input.PassengersCount = 7

	_, err := service.RequestBooking(ctx, input)
	assert.ErrorIs(t, err, domain.ErrCountExceeded)
}

func TestRequestBooking_NonPositiveCountBecomesOne(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	trip := testTrip()
	m.catalog.On("GetTraveler", ctx, int64(21)).Return(&domain.Traveler{ID: 21}, nil).Once()
	m.cache.On("GetTrip", ctx, int64(7)).Return(trip, nil).Once()
	m.cache.On("AcquireTripHold", ctx, int64(7), time.Minute).Return(true, nil).Once()
	m.operator.On("VerifyAvailability", ctx, trip, 1).Return(true, nil).Once()
	m.bookings.On("Insert", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()

	// one passenger: 50 + 300 = 350
	charged := &domain.Payment{ID: 12, Status: domain.PaymentStatusProcessed, GatewayCode: "tx-901", AmountCents: 350_00}
	m.charger.On("Charge", ctx, payment.MethodCreditCard, testCard(), int64(350_00), mock.AnythingOfType("string")).Return(charged, nil).Once()

	m.operator.On("ReserveBooking", ctx, mock.AnythingOfType("*domain.Booking"), trip).Return("RC-56", nil).Once()
	m.cache.On("ReleaseTripHold", ctx, int64(7)).Return(nil).Once()
	m.bookings.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	m.producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	input := testInput()
	input.PassengersCount = 0

	booked, err := service.RequestBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, 1, booked.PassengersCount)
	m.operator.AssertExpectations(t)
}

func TestRequestBooking_TripUnavailable(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	trip := testTrip()
	m.catalog.On("GetTraveler", ctx, int64(21)).Return(&domain.Traveler{ID: 21}, nil).Once()
	m.cache.On("GetTrip", ctx, int64(7)).Return(trip, nil).Once()
	m.cache.On("AcquireTripHold", ctx, int64(7), time.Minute).Return(true, nil).Once()
	m.operator.On("VerifyAvailability", ctx, trip, 2).Return(false, nil).Once()
	m.cache.On("ReleaseTripHold", ctx, int64(7)).Return(nil).Once()

	_, err := service.RequestBooking(ctx, testInput())

	assert.ErrorIs(t, err, domain.ErrTripUnavailable)
	m.bookings.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	m.charger.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.cache.AssertExpectations(t)
}

func TestRequestBooking_TripHeldByAnotherRequest(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	trip := testTrip()
	m.catalog.On("GetTraveler", ctx, int64(21)).Return(&domain.Traveler{ID: 21}, nil).Once()
	m.cache.On("GetTrip", ctx, int64(7)).Return(trip, nil).Once()
	m.cache.On("AcquireTripHold", ctx, int64(7), time.Minute).Return(false, nil).Once()

	_, err := service.RequestBooking(ctx, testInput())

	assert.ErrorIs(t, err, domain.ErrTripHeld)
	m.operator.AssertNotCalled(t, "VerifyAvailability", mock.Anything, mock.Anything, mock.Anything)
	m.cache.AssertNotCalled(t, "ReleaseTripHold", mock.Anything, mock.Anything)
}

func TestRequestBooking_PaymentRefused(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	trip := testTrip()
	m.catalog.On("GetTraveler", ctx, int64(21)).Return(&domain.Traveler{ID: 21}, nil).Once()
	m.cache.On("GetTrip", ctx, int64(7)).Return(trip, nil).Once()
	m.cache.On("AcquireTripHold", ctx, int64(7), time.Minute).Return(true, nil).Once()
	m.operator.On("VerifyAvailability", ctx, trip, 2).Return(true, nil).Once()
	m.bookings.On("Insert", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	m.producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	refused := &domain.Payment{ID: 13, Status: domain.PaymentStatusRefused}
	m.charger.On("Charge", ctx, payment.MethodCreditCard, testCard(), int64(700_00), mock.AnythingOfType("string")).Return(refused, nil).Once()
	m.cache.On("ReleaseTripHold", ctx, int64(7)).Return(nil).Once()

	_, err := service.RequestBooking(ctx, testInput())

	assert.ErrorIs(t, err, domain.ErrPaymentRefused)
	m.operator.AssertNotCalled(t, "ReserveBooking", mock.Anything, mock.Anything, mock.Anything)
	// The refused charge aborts before the PAID write.
	m.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	m.cache.AssertExpectations(t)
}

func TestRequestBooking_ReservationFailureCompensates(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	trip := testTrip()
	m.catalog.On("GetTraveler", ctx, int64(21)).Return(&domain.Traveler{ID: 21, Email: "t@example.com"}, nil).Once()
	m.cache.On("GetTrip", ctx, int64(7)).Return(trip, nil).Once()
	m.cache.On("AcquireTripHold", ctx, int64(7), time.Minute).Return(true, nil).Once()
	m.operator.On("VerifyAvailability", ctx, trip, 2).Return(true, nil).Once()
	m.bookings.On("Insert", ctx, mock.AnythingOfType("*domain.Booking")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).ID = 43
	}).Return(nil).Once()

	charged := &domain.Payment{ID: 14, Status: domain.PaymentStatusProcessed, GatewayCode: "tx-902", AmountCents: 700_00, Concept: "{}"}
	m.charger.On("Charge", ctx, payment.MethodCreditCard, testCard(), int64(700_00), mock.AnythingOfType("string")).Return(charged, nil).Once()

	m.operator.On("ReserveBooking", ctx, mock.AnythingOfType("*domain.Booking"), trip).Return("", errors.New("operator down")).Once()

	// The compensating refund mirrors the charge amount.
	refund := &domain.Payment{ID: 15, Kind: domain.PaymentKindRefund, Status: domain.PaymentStatusProcessed, GatewayCode: "tx-903", AmountCents: 700_00}
	m.charger.On("Refund", ctx, payment.MethodCreditCard, testCard(), int64(700_00), "{}").Return(refund, nil).Once()

	m.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusPaid
	})).Return(nil).Once()
	m.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusReleased
	})).Return(nil).Once()
	m.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusAnnulationNotified
	})).Return(nil).Once()
	m.producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.cache.On("ReleaseTripHold", ctx, int64(7)).Return(nil).Once()

	_, err := service.RequestBooking(ctx, testInput())

	assert.Error(t, err)
	m.charger.AssertExpectations(t)
	m.bookings.AssertExpectations(t)
}

func TestRequestBooking_NotificationFailureLeavesReserved(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	trip := testTrip()
	m.catalog.On("GetTraveler", ctx, int64(21)).Return(&domain.Traveler{ID: 21, Email: "t@example.com"}, nil).Once()
	m.cache.On("GetTrip", ctx, int64(7)).Return(trip, nil).Once()
	m.cache.On("AcquireTripHold", ctx, int64(7), time.Minute).Return(true, nil).Once()
	m.operator.On("VerifyAvailability", ctx, trip, 2).Return(true, nil).Once()
	m.bookings.On("Insert", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()

	charged := &domain.Payment{ID: 16, Status: domain.PaymentStatusProcessed, GatewayCode: "tx-904", AmountCents: 700_00}
	m.charger.On("Charge", ctx, payment.MethodCreditCard, testCard(), int64(700_00), mock.AnythingOfType("string")).Return(charged, nil).Once()

	m.operator.On("ReserveBooking", ctx, mock.AnythingOfType("*domain.Booking"), trip).Return("RC-57", nil).Once()
	m.cache.On("ReleaseTripHold", ctx, int64(7)).Return(nil).Once()
	m.bookings.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	m.producer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(nil)
	m.producer.On("Publish", ctx, "notifications", mock.Anything, mock.Anything).Return(errors.New("kafka down")).Once()

	booked, err := service.RequestBooking(ctx, testInput())

	// A failed dispatch is not a saga failure; the booking stays one step
	// short of BOOKING_NOTIFIED for the worker sweep to retry.
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusReserved, booked.Status)
}

func TestCancelBooking_Success(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	booked := &domain.Booking{ID: 42, Reference: "ref-1", TravelerID: 21, PaymentID: 11, Status: domain.BookingStatusReserved}
	m.bookings.On("GetByID", ctx, int64(42)).Return(booked, nil).Once()

	charge := &domain.Payment{
		ID: 11, CardNumber: "4111111111111111", CardExpiry: "12/28", CardCVC: "123",
		AmountCents: 700_00, Concept: "{}", Kind: domain.PaymentKindCharge, Status: domain.PaymentStatusProcessed,
	}
	m.payments.On("GetByID", ctx, int64(11)).Return(charge, nil).Once()

	refund := &domain.Payment{ID: 17, Kind: domain.PaymentKindRefund, Status: domain.PaymentStatusProcessed, GatewayCode: "tx-905"}
	m.charger.On("Refund", ctx, payment.MethodCreditCard, testCard(), int64(700_00), "{}").Return(refund, nil).Once()

	m.catalog.On("GetTraveler", ctx, int64(21)).Return(&domain.Traveler{ID: 21, Email: "t@example.com"}, nil).Once()
	m.bookings.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	m.producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	cancelled, err := service.CancelBooking(ctx, 42)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancellationNotified, cancelled.Status)
	m.charger.AssertExpectations(t)
}

func TestCancelBooking_WrongStatus(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.bookings.On("GetByID", ctx, int64(42)).Return(&domain.Booking{ID: 42, Status: domain.BookingStatusCreated}, nil).Once()

	_, err := service.CancelBooking(ctx, 42)

	assert.ErrorIs(t, err, domain.ErrValidation)
	m.charger.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_RefundRefused(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	booked := &domain.Booking{ID: 42, TravelerID: 21, PaymentID: 11, Status: domain.BookingStatusPaid}
	m.bookings.On("GetByID", ctx, int64(42)).Return(booked, nil).Once()
	charge := &domain.Payment{ID: 11, CardNumber: "4111111111111111", CardExpiry: "12/28", CardCVC: "123", AmountCents: 700_00, Concept: "{}"}
	m.payments.On("GetByID", ctx, int64(11)).Return(charge, nil).Once()

	refund := &domain.Payment{ID: 18, Status: domain.PaymentStatusRefused}
	m.charger.On("Refund", ctx, payment.MethodCreditCard, testCard(), int64(700_00), "{}").Return(refund, nil).Once()

	_, err := service.CancelBooking(ctx, 42)

	assert.ErrorIs(t, err, domain.ErrPaymentRefused)
	assert.Equal(t, domain.BookingStatusPaid, booked.Status)
	m.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestNotifyStuckBookings(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	stuck := []domain.Booking{
		{ID: 42, Reference: "ref-1", TravelerID: 21, Status: domain.BookingStatusReserved},
		{ID: 43, Reference: "ref-2", TravelerID: 22, Status: domain.BookingStatusCancelled},
	}
	m.bookings.On("ListStuckBefore", ctx, mock.AnythingOfType("time.Time")).Return(stuck, nil).Once()
	m.catalog.On("GetTraveler", ctx, int64(21)).Return(&domain.Traveler{ID: 21, Email: "a@example.com"}, nil).Once()
	m.catalog.On("GetTraveler", ctx, int64(22)).Return(&domain.Traveler{ID: 22, Email: "b@example.com"}, nil).Once()
	m.producer.On("Publish", ctx, "notifications", mock.Anything, mock.Anything).Return(nil).Twice()
	m.bookings.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Twice()

	notified, err := service.NotifyStuckBookings(ctx)

	assert.NoError(t, err)
	assert.Len(t, notified, 2)
	assert.Equal(t, domain.BookingStatusBookingNotified, notified[0].Status)
	assert.Equal(t, domain.BookingStatusCancellationNotified, notified[1].Status)
	m.producer.AssertExpectations(t)
}
