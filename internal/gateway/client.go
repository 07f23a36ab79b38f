package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrContractViolation is returned when the gateway reports success without a
// transaction number. Such a response must never be persisted as processed.
var ErrContractViolation = errors.New("gateway accepted the payment but returned no transaction number")

// Request is the gateway wire payload, shared by charges and refunds.
type Request struct {
	Operation  string `json:"operation"`
	Amount     int64  `json:"amount"`
	CardNumber string `json:"cardNumber"`
	CardExpiry string `json:"cardExpiry"`
	CardCVC    string `json:"cardCVC"`
}

type responseBody struct {
	Data struct {
		TransactionNumber string `json:"transaction_number"`
	} `json:"data"`
}

// Result is the typed outcome of a gateway submit. A refusal is a Result, not
// an error; the caller decides whether it aborts the flow.
type Result struct {
	Processed         bool
	TransactionNumber string
}

type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Submit posts the request to the gateway. Any outcome other than a success
// status, transport failures included, is a refusal. The idempotency key
// guards against double-charging on retries.
func (c *Client) Submit(ctx context.Context, req Request, idempotencyKey string) (Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("marshal gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{Processed: false}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{Processed: false}, nil
	}

	var body responseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrContractViolation, err)
	}
	if body.Data.TransactionNumber == "" {
		return Result{}, ErrContractViolation
	}

	return Result{Processed: true, TransactionNumber: body.Data.TransactionNumber}, nil
}
