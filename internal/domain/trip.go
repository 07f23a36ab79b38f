package domain

import "time"

// Trip is read-only catalog data owned by an external system.
type Trip struct {
	ID                       int64
	OperatorID               int64
	StartDate                time.Time
	EndDate                  time.Time
	StayingNightPriceCents   int64
	FlightPriceCents         int64
	PremiumFoodPriceCents    int64
	ExtraLuggagePricePerKilo int64
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

type Traveler struct {
	ID    int64
	Name  string
	Email string
	IsVIP bool
}
