package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusCreated              BookingStatus = "CREATED"
	BookingStatusPaid                 BookingStatus = "PAID"
	BookingStatusReserved             BookingStatus = "RESERVED"
	BookingStatusBookingNotified      BookingStatus = "BOOKING_NOTIFIED"
	BookingStatusReleased             BookingStatus = "RELEASED"
	BookingStatusAnnulationNotified   BookingStatus = "ANNULATION_NOTIFIED"
	BookingStatusCancelled            BookingStatus = "CANCELLED"
	BookingStatusCancellationNotified BookingStatus = "CANCELLATION_NOTIFIED"
)

// forwardTransitions lists the allowed next statuses for each status. A booking
// only ever moves forward along one of three chains:
//
//	CREATED -> PAID -> RESERVED -> BOOKING_NOTIFIED
//	...     -> RELEASED -> ANNULATION_NOTIFIED
//	...     -> CANCELLED -> CANCELLATION_NOTIFIED
var forwardTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusCreated:   {BookingStatusPaid},
	BookingStatusPaid:      {BookingStatusReserved, BookingStatusReleased, BookingStatusCancelled},
	BookingStatusReserved:  {BookingStatusBookingNotified, BookingStatusReleased, BookingStatusCancelled},
	BookingStatusReleased:  {BookingStatusAnnulationNotified},
	BookingStatusCancelled: {BookingStatusCancellationNotified},
}

type Booking struct {
	ID                  int64
	Reference           string
	TripID              int64
	TravelerID          int64
	PassengersCount     int
	HasPremiumFoods     bool
	ExtraLuggageKilos   int
	PriceCents          int64
	PaymentID           int64
	OperatorReserveCode string
	Status              BookingStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Advance moves the booking to the next status, enforcing the forward-only
// chains. Regressions and skipped steps are rejected.
func (b *Booking) Advance(next BookingStatus) error {
	for _, allowed := range forwardTransitions[b.Status] {
		if allowed == next {
			b.Status = next
			return nil
		}
	}
	return fmt.Errorf("booking status %s cannot advance to %s", b.Status, next)
}

// NotifiedStatus returns the terminal status that follows a successful
// notification at the booking's current position in its chain.
func (b *Booking) NotifiedStatus() (BookingStatus, bool) {
	switch b.Status {
	case BookingStatusReserved:
		return BookingStatusBookingNotified, true
	case BookingStatusReleased:
		return BookingStatusAnnulationNotified, true
	case BookingStatusCancelled:
		return BookingStatusCancellationNotified, true
	default:
		return "", false
	}
}
