package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// PricingHandler handles HTTP requests for quotes and the fare factor.
type PricingHandler struct {
	pricingService *service.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(pricingService *service.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// QuoteResponse is the HTTP response for a single priced category.
type QuoteResponse struct {
	Category     string  `json:"category"`
	DistanceKm   float64 `json:"distance_km"`
	EtaMinutes   int     `json:"eta_minutes"`
	BaseFare     float64 `json:"base_fare"`
	DistanceCost float64 `json:"distance_cost"`
	TimeCost     float64 `json:"time_cost"`
	TotalPrice   float64 `json:"total_price"`
}

// FareFactorRequest is the HTTP request body for updating the fare factor.
type FareFactorRequest struct {
	Factor float64 `json:"factor"`
}

func quoteResponse(q *domain.PricingQuote) QuoteResponse {
	return QuoteResponse{
		Category:     q.Category,
		DistanceKm:   q.DistanceKm,
		EtaMinutes:   q.EtaMinutes,
		BaseFare:     q.BaseFare,
		DistanceCost: q.DistanceCost,
		TimeCost:     q.TimeCost,
		TotalPrice:   q.TotalPrice,
	}
}

// GetQuotes handles GET /v1/quotes?origin=...&destination=...&category=...
// Without a category it prices every category, cheapest first.
func (h *PricingHandler) GetQuotes(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")

	if category := c.Query("category"); category != "" {
		quote, err := h.pricingService.Quote(origin, destination, category)
		if err != nil {
			respondError(c, err)
			return
		}
		respondJSON(c, http.StatusOK, quoteResponse(quote))
		return
	}

	quotes, err := h.pricingService.QuoteAll(c.Request.Context(), origin, destination)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		response = append(response, quoteResponse(q))
	}
	c.JSON(http.StatusOK, response)
}

// GetCategories handles GET /v1/categories
func (h *PricingHandler) GetCategories(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{"categories": h.pricingService.Categories()})
}

// GetFareFactor handles GET /v1/pricing/fare-factor
func (h *PricingHandler) GetFareFactor(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{"factor": h.pricingService.DynamicFareFactor()})
}

// SetFareFactor handles PUT /v1/pricing/fare-factor
// Non-positive factors are ignored and the current factor is returned.
func (h *PricingHandler) SetFareFactor(c *gin.Context) {
	var req FareFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.pricingService.SetDynamicFareFactor(req.Factor)
	respondJSON(c, http.StatusOK, gin.H{"factor": h.pricingService.DynamicFareFactor()})
}
