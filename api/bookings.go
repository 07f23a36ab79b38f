package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type requestBookingRequest struct {
	TravelerID        int64  `json:"traveler_id"`
	TripID            int64  `json:"trip_id"`
	PassengersCount   int    `json:"passengers_count"`
	CardNumber        string `json:"card_number"`
	CardExpiry        string `json:"card_expiry"`
	CardCVC           string `json:"card_cvc"`
	HasPremiumFoods   bool   `json:"has_premium_foods"`
	ExtraLuggageKilos int    `json:"extra_luggage_kilos"`
}

type bookingResponse struct {
	ID                  int64  `json:"id"`
	Reference           string `json:"reference"`
	TripID              int64  `json:"trip_id"`
	TravelerID          int64  `json:"traveler_id"`
	PassengersCount     int    `json:"passengers_count"`
	PriceCents          int64  `json:"price_cents"`
	PaymentID           int64  `json:"payment_id,omitempty"`
	OperatorReserveCode string `json:"operator_reserve_code,omitempty"`
	Status              string `json:"status"`
	CreatedAt           string `json:"created_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.request)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) request(c *gin.Context) {
	var req requestBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TravelerID <= 0 || req.TripID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "traveler_id and trip_id are required"})
		return
	}
	if req.CardNumber == "" || req.CardExpiry == "" || req.CardCVC == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card details are required"})
		return
	}

	created, err := h.service.RequestBooking(c.Request.Context(), booking.RequestBookingInput{
		TravelerID:        req.TravelerID,
		TripID:            req.TripID,
		PassengersCount:   req.PassengersCount,
		CardNumber:        req.CardNumber,
		CardExpiry:        req.CardExpiry,
		CardCVC:           req.CardCVC,
		HasPremiumFoods:   req.HasPremiumFoods,
		ExtraLuggageKilos: req.ExtraLuggageKilos,
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	found, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	cancelled, err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrCountExceeded):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTripUnavailable), errors.Is(err, domain.ErrTripHeld):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPaymentRefused):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrPaymentCreation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                  b.ID,
		Reference:           b.Reference,
		TripID:              b.TripID,
		TravelerID:          b.TravelerID,
		PassengersCount:     b.PassengersCount,
		PriceCents:          b.PriceCents,
		PaymentID:           b.PaymentID,
		OperatorReserveCode: b.OperatorReserveCode,
		Status:              string(b.Status),
		CreatedAt:           b.CreatedAt.Format(time.RFC3339),
	}
}
