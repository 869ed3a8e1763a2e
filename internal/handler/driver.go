package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/service"
)

// DriverHandler handles HTTP requests for driver availability and location.
type DriverHandler struct {
	driverService *service.DriverService
	rideService   *service.RideService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService, rideService *service.RideService) *DriverHandler {
	return &DriverHandler{driverService: driverService, rideService: rideService}
}

// AvailabilityRequest is the HTTP request body for the availability toggle.
type AvailabilityRequest struct {
	Available bool `json:"available"`
}

// StandingLocationRequest is the HTTP request body for standing location updates.
type StandingLocationRequest struct {
	Address string `json:"address"`
}

// SetAvailability handles PUT /v1/drivers/:id/availability
func (h *DriverHandler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.SetAvailability(c.Request.Context(), c.Param("id"), req.Available)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, accountResponse(driver))
}

// UpdateStandingLocation handles PUT /v1/drivers/:id/location
func (h *DriverHandler) UpdateStandingLocation(c *gin.Context) {
	var req StandingLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.UpdateStandingLocation(c.Request.Context(), c.Param("id"), req.Address)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, accountResponse(driver))
}

// GetStandingLocation handles GET /v1/drivers/:id/location
func (h *DriverHandler) GetStandingLocation(c *gin.Context) {
	address, err := h.driverService.StandingLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"address": address})
}

// GetPendingRides handles GET /v1/drivers/:id/pending-rides
func (h *DriverHandler) GetPendingRides(c *gin.Context) {
	rides, err := h.rideService.PendingForDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondRides(c, rides)
}
