package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/service"
)

// PaymentHandler handles HTTP requests for ride payments.
type PaymentHandler struct {
	rideService *service.RideService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(rideService *service.RideService) *PaymentHandler {
	return &PaymentHandler{rideService: rideService}
}

// PaymentResponse is the HTTP response for a payment attempt.
type PaymentResponse struct {
	RideID   string `json:"ride_id"`
	Approved bool   `json:"approved"`
}

// ProcessPayment handles POST /v1/rides/:id/payment
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	rideID := c.Param("id")

	approved, err := h.rideService.ProcessPayment(c.Request.Context(), rideID)
	if err != nil {
		respondError(c, err)
		return
	}

	code := http.StatusOK
	if !approved {
		code = http.StatusPaymentRequired
	}
	respondJSON(c, code, PaymentResponse{RideID: rideID, Approved: approved})
}
