package booking

import (
	"fmt"

	"github.com/Domenick1991/tripbooking/internal/domain"
)

const (
	maxPassengersPerVIPBooking = 6
	maxPassengersPerBooking    = 4
)

// ValidatePassengersCount applies the per-booking capacity caps: 6 passengers
// for VIP travelers (a hard cap nobody exceeds), 4 otherwise. A non-positive
// count means "no preference" and is clamped to 1, never rejected.
func ValidatePassengersCount(isVIP bool, requested int) (int, error) {
	if requested > maxPassengersPerVIPBooking {
		return 0, fmt.Errorf("%w: VIPs can't have more than %d passengers", domain.ErrCountExceeded, maxPassengersPerVIPBooking)
	}
	if !isVIP && requested > maxPassengersPerBooking {
		return 0, fmt.Errorf("%w: normal travelers can't have more than %d passengers", domain.ErrCountExceeded, maxPassengersPerBooking)
	}
	if requested <= 0 {
		return 1, nil
	}
	return requested, nil
}
