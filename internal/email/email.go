package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/kafka"
	"go.uber.org/zap"
)

type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

// Send renders the status-appropriate message for a booking notification
// event and delivers it to the traveler.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	subject, body := render(event)
	if subject == "" {
		s.logger.Warn("no message for booking status",
			zap.Int64("booking_id", event.BookingID),
			zap.String("status", event.Status))
		return nil
	}

	// Delivery transport is stubbed to stdout, matching the gateway contract
	// of an external mail relay.
	fmt.Printf("to: %s\nsubject: %s\n%s\n", event.TravelerEmail, subject, body)
	s.logger.Info("notification sent",
		zap.Int64("booking_id", event.BookingID),
		zap.String("status", event.Status))
	return nil
}

func render(event kafka.BookingEvent) (subject, body string) {
	switch domain.BookingStatus(event.Status) {
	case domain.BookingStatusReserved, domain.BookingStatusBookingNotified:
		return "Your trip is booked",
			fmt.Sprintf("Booking %s is confirmed. Reservation code: %s. Total paid: %d.%02d.",
				event.Reference, event.OperatorReserveCode, event.PriceCents/100, event.PriceCents%100)
	case domain.BookingStatusReleased, domain.BookingStatusAnnulationNotified:
		return "Your booking could not be completed",
			fmt.Sprintf("Booking %s was annulled and your payment has been refunded.", event.Reference)
	case domain.BookingStatusCancelled, domain.BookingStatusCancellationNotified:
		return "Your booking was cancelled",
			fmt.Sprintf("Booking %s was cancelled and your payment has been refunded.", event.Reference)
	default:
		return "", ""
	}
}
