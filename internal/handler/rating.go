package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/service"
)

// RatingHandler handles HTTP requests for post-ride ratings.
type RatingHandler struct {
	ratingService *service.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RatingRequest is the HTTP request body for submitting a rating.
type RatingRequest struct {
	Value int `json:"value"`
}

// RateDriver handles POST /v1/rides/:id/rate-driver
func (h *RatingHandler) RateDriver(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.ratingService.RateDriver(c.Request.Context(), c.Param("id"), req.Value); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": "driver rated"})
}

// RatePassenger handles POST /v1/rides/:id/rate-passenger
func (h *RatingHandler) RatePassenger(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.ratingService.RatePassenger(c.Request.Context(), c.Param("id"), req.Value); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": "passenger rated"})
}
