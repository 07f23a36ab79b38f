package operator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/tripbooking/internal/domain"
)

// Client talks to the trip operator owning inventory and reservation issuance.
// Requests are keyed by the trip's operator id.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type availabilityRequest struct {
	TripID          int64 `json:"trip_id"`
	PassengersCount int   `json:"passengers_count"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

type reservationRequest struct {
	TripID           int64  `json:"trip_id"`
	BookingReference string `json:"booking_reference"`
	PassengersCount  int    `json:"passengers_count"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
}

type reservationResponse struct {
	ReserveCode string `json:"reserve_code"`
}

func (c *Client) VerifyAvailability(ctx context.Context, trip *domain.Trip, passengersCount int) (bool, error) {
	url := fmt.Sprintf("%s/operators/%d/availability", c.baseURL, trip.OperatorID)
	var resp availabilityResponse
	err := c.post(ctx, url, availabilityRequest{TripID: trip.ID, PassengersCount: passengersCount}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Available, nil
}

// ReserveBooking converts the availability hold into a confirmed reservation
// and returns the operator's opaque reserve code.
func (c *Client) ReserveBooking(ctx context.Context, booking *domain.Booking, trip *domain.Trip) (string, error) {
	url := fmt.Sprintf("%s/operators/%d/reservations", c.baseURL, trip.OperatorID)
	req := reservationRequest{
		TripID:           trip.ID,
		BookingReference: booking.Reference,
		PassengersCount:  booking.PassengersCount,
		StartDate:        trip.StartDate.Format(time.RFC3339),
		EndDate:          trip.EndDate.Format(time.RFC3339),
	}
	var resp reservationResponse
	if err := c.post(ctx, url, req, &resp); err != nil {
		return "", err
	}
	if resp.ReserveCode == "" {
		return "", fmt.Errorf("operator returned an empty reserve code")
	}
	return resp.ReserveCode, nil
}

func (c *Client) post(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal operator request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build operator request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call operator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("operator responded with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode operator response: %w", err)
	}
	return nil
}
