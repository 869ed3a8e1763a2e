package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// HistoryHandler handles HTTP requests for the ride history.
type HistoryHandler struct {
	historyService *service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// HistoryEntryResponse is the HTTP response for a history entry.
type HistoryEntryResponse struct {
	ID            string  `json:"id"`
	RideID        string  `json:"ride_id"`
	DriverName    string  `json:"driver_name,omitempty"`
	Category      string  `json:"category"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	FinalPrice    float64 `json:"final_price"`
	PaymentMethod string  `json:"payment_method"`
	RecordedAt    string  `json:"recorded_at"`
}

// StatisticsResponse is the HTTP response for passenger statistics.
type StatisticsResponse struct {
	TotalRides      int            `json:"total_rides"`
	TotalSpent      float64        `json:"total_spent"`
	RidesByCategory map[string]int `json:"rides_by_category"`
}

func historyEntryResponse(e *domain.RideHistory) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:            e.ID,
		RideID:        e.RideID,
		DriverName:    e.DriverName,
		Category:      e.Category,
		Origin:        e.OriginAddress,
		Destination:   e.DestinationAddress,
		FinalPrice:    e.FinalPrice,
		PaymentMethod: e.PaymentMethodLabel,
		RecordedAt:    e.RecordedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func respondHistory(c *gin.Context, entries []*domain.RideHistory) {
	response := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, historyEntryResponse(e))
	}
	c.JSON(http.StatusOK, response)
}

// GetHistory handles GET /v1/history with passenger_email, driver_id,
// category, from and to query filters.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()
	email := c.Query("passenger_email")
	driverID := c.Query("driver_id")
	category := c.Query("category")

	switch {
	case email != "" && category != "":
		entries, err := h.historyService.ForPassengerAndCategory(ctx, email, category)
		if err != nil {
			respondError(c, err)
			return
		}
		respondHistory(c, entries)

	case email != "":
		entries, err := h.historyService.ForPassenger(ctx, email)
		if err != nil {
			respondError(c, err)
			return
		}
		respondHistory(c, entries)

	case driverID != "":
		entries, err := h.historyService.ForDriver(ctx, driverID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondHistory(c, entries)

	case category != "":
		entries, err := h.historyService.ForCategory(ctx, category)
		if err != nil {
			respondError(c, err)
			return
		}
		respondHistory(c, entries)

	case c.Query("from") != "" && c.Query("to") != "":
		from, err := time.Parse("2006-01-02", c.Query("from"))
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from date, expected YYYY-MM-DD"})
			return
		}
		to, err := time.Parse("2006-01-02", c.Query("to"))
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to date, expected YYYY-MM-DD"})
			return
		}
		entries, err := h.historyService.ForDateRange(ctx, from, to.Add(24*time.Hour-time.Nanosecond))
		if err != nil {
			respondError(c, err)
			return
		}
		respondHistory(c, entries)

	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "a filter is required: passenger_email, driver_id, category or from/to"})
	}
}

// GetStatistics handles GET /v1/history/statistics?passenger_email=...
func (h *HistoryHandler) GetStatistics(c *gin.Context) {
	stats, err := h.historyService.StatisticsForPassenger(c.Request.Context(), c.Query("passenger_email"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, StatisticsResponse{
		TotalRides:      stats.TotalRides,
		TotalSpent:      stats.TotalSpent,
		RidesByCategory: stats.RidesByCategory,
	})
}

// GetCategoryCounts handles GET /v1/history/category-counts
func (h *HistoryHandler) GetCategoryCounts(c *gin.Context) {
	counts, err := h.historyService.CountByCategory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"counts": counts})
}
