package domain

import "time"

type PaymentKind string

const (
	PaymentKindCharge PaymentKind = "CHARGE"
	PaymentKindRefund PaymentKind = "REFUND"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusProcessed PaymentStatus = "PROCESSED"
	PaymentStatusRefused   PaymentStatus = "REFUSED"
)

// Payment records a single charge or refund attempt. Card fields are opaque
// pass-through values for the gateway and are never inspected here.
type Payment struct {
	ID          int64
	Reference   string
	CardNumber  string
	CardExpiry  string
	CardCVC     string
	AmountCents int64
	Concept     string
	Kind        PaymentKind
	Status      PaymentStatus
	GatewayCode string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
