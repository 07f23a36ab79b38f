package booking

import (
	"math"

	"github.com/Domenick1991/tripbooking/internal/domain"
)

// ComputePriceCents is the pure price function:
//
//	nights        = round(trip span in days)
//	per passenger = flight (+ premium food) + nights * night price
//	total         = per passenger * passengers + luggage kilos * kilo price
//
// All amounts are integer cents, purely additive.
func ComputePriceCents(trip *domain.Trip, booking *domain.Booking) int64 {
	span := trip.EndDate.Sub(trip.StartDate)
	nights := int64(math.Round(span.Hours() / 24))
	stayCents := nights * trip.StayingNightPriceCents

	flightCents := trip.FlightPriceCents
	if booking.HasPremiumFoods {
		flightCents += trip.PremiumFoodPriceCents
	}

	perPassengerCents := flightCents + stayCents
	passengersCents := perPassengerCents * int64(booking.PassengersCount)
	luggageCents := int64(booking.ExtraLuggageKilos) * trip.ExtraLuggagePricePerKilo
	return passengersCents + luggageCents
}
