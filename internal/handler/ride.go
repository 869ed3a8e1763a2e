package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// RideHandler handles HTTP requests for the ride lifecycle.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// CreateRideRequest is the HTTP request body for requesting a ride.
type CreateRideRequest struct {
	PassengerEmail string `json:"passenger_email"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	Category       string `json:"category"`
	PaymentMethod  string `json:"payment_method,omitempty"` // CASH, CARD, PIX, WALLET
}

// DriverActionRequest is the HTTP request body for driver accept/refuse.
type DriverActionRequest struct {
	DriverID string `json:"driver_id"`
}

// UpdateLocationRequest is the HTTP request body for driver location updates.
type UpdateLocationRequest struct {
	DriverID string `json:"driver_id"`
	Address  string `json:"address"`
}

// RideResponse is the HTTP response for ride data.
type RideResponse struct {
	ID                  string   `json:"id"`
	PassengerEmail      string   `json:"passenger_email"`
	Origin              string   `json:"origin"`
	Destination         string   `json:"destination"`
	Category            string   `json:"category"`
	Status              string   `json:"status"`
	PaymentMethod       string   `json:"payment_method"`
	RequestedAt         string   `json:"requested_at"`
	DriverID            string   `json:"driver_id,omitempty"`
	DriverLocation      string   `json:"driver_location,omitempty"`
	EstimatedEtaMinutes int      `json:"estimated_eta_minutes,omitempty"`
	OptimizedRoute      []string `json:"optimized_route,omitempty"`
}

func rideResponse(ride *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:                  ride.ID,
		PassengerEmail:      ride.PassengerEmail,
		Origin:              ride.Origin.Address,
		Destination:         ride.Destination.Address,
		Category:            ride.Category,
		Status:              string(ride.Status),
		PaymentMethod:       string(ride.PaymentMethod),
		RequestedAt:         ride.RequestedAt.Format("2006-01-02T15:04:05Z07:00"),
		DriverID:            ride.DriverID,
		EstimatedEtaMinutes: ride.EstimatedEtaMinutes,
		OptimizedRoute:      ride.OptimizedRoute,
	}
	if ride.DriverCurrentLocation != nil {
		resp.DriverLocation = ride.DriverCurrentLocation.Address
	}
	return resp
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Create(c.Request.Context(), service.CreateRideRequest{
		PassengerEmail: req.PassengerEmail,
		Origin:         req.Origin,
		Destination:    req.Destination,
		Category:       req.Category,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, rideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// GetByPassenger handles GET /v1/rides?passenger_email=...
func (h *RideHandler) GetByPassenger(c *gin.Context) {
	email := c.Query("passenger_email")
	if email == "" {
		if status := c.Query("status"); status != "" {
			h.getByStatus(c, domain.RideStatus(status))
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "passenger_email or status is required"})
		return
	}

	rides, err := h.rideService.ForPassenger(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRides(c, rides)
}

func (h *RideHandler) getByStatus(c *gin.Context, status domain.RideStatus) {
	rides, err := h.rideService.ByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRides(c, rides)
}

func respondRides(c *gin.Context, rides []*domain.Ride) {
	response := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		response = append(response, rideResponse(ride))
	}
	c.JSON(http.StatusOK, response)
}

// AcceptRide handles POST /v1/rides/:id/accept
func (h *RideHandler) AcceptRide(c *gin.Context) {
	var req DriverActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Accept(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// RefuseRide handles POST /v1/rides/:id/refuse
func (h *RideHandler) RefuseRide(c *gin.Context) {
	var req DriverActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.rideService.Refuse(c.Request.Context(), c.Param("id"), req.DriverID); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": "ride refused"})
}

// UpdateLocation handles PUT /v1/rides/:id/location
func (h *RideHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.UpdateDriverLocation(c.Request.Context(), c.Param("id"), req.DriverID, req.Address)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// GetRoute handles GET /v1/rides/:id/route?driver_id=...
func (h *RideHandler) GetRoute(c *gin.Context) {
	route, err := h.rideService.Route(c.Request.Context(), c.Param("id"), c.Query("driver_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"route": route})
}

// CompleteRide handles POST /v1/rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	receipt, err := h.rideService.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, receiptResponse(receipt))
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	ride, err := h.rideService.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}
