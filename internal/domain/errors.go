package domain

import "errors"

var (
	// ErrValidation covers malformed or missing identifiers and unsupported
	// payment methods. Never retried.
	ErrValidation = errors.New("invalid booking request")

	// ErrCountExceeded is returned when the passenger count is above the
	// VIP or non-VIP cap.
	ErrCountExceeded = errors.New("passengers count exceeds the allowed maximum")

	// ErrTripUnavailable is returned when the operator reports no capacity.
	ErrTripUnavailable = errors.New("the trip is not available")

	// ErrTripHeld is returned when another booking currently holds the trip.
	ErrTripHeld = errors.New("the trip is held by another booking in progress")

	// ErrPaymentCreation is returned when a payment record could not be opened.
	ErrPaymentCreation = errors.New("create payment failed")

	// ErrPaymentRefused is returned when the gateway declines the charge. The
	// refused payment is still persisted for audit.
	ErrPaymentRefused = errors.New("the payment was refused")

	// ErrPersistence wraps any storage failure. Fatal to the current request.
	ErrPersistence = errors.New("persistence failure")

	ErrNotFound = errors.New("not found")
)
