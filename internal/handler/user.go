package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// UserHandler handles HTTP requests for account registration and lookup.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterPassengerRequest is the HTTP request body for passenger registration.
type RegisterPassengerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	LicenseDoc      string `json:"license_doc"`
	VehicleCategory string `json:"vehicle_category"`
	VehiclePlate    string `json:"vehicle_plate"`
	Address         string `json:"address,omitempty"`
}

// AccountResponse is the HTTP response for account data.
type AccountResponse struct {
	ID              string  `json:"id"`
	Role            string  `json:"role"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Rating          float64 `json:"rating"`
	VehicleCategory string  `json:"vehicle_category,omitempty"`
	VehiclePlate    string  `json:"vehicle_plate,omitempty"`
	Available       *bool   `json:"available,omitempty"`
}

func accountResponse(account domain.Account) AccountResponse {
	resp := AccountResponse{
		ID:     account.AccountID(),
		Role:   string(account.Role()),
		Name:   account.DisplayName(),
		Email:  account.EmailAddress(),
		Rating: account.AverageRating(),
	}
	if driver, ok := account.(*domain.Driver); ok {
		resp.VehicleCategory = driver.VehicleCategory
		resp.VehiclePlate = driver.VehiclePlate
		available := driver.Available
		resp.Available = &available
	}
	return resp
}

// RegisterPassenger handles POST /v1/passengers/register
func (h *UserHandler) RegisterPassenger(c *gin.Context) {
	var req RegisterPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	passenger, err := h.userService.RegisterPassenger(c.Request.Context(), service.RegisterPassengerRequest{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, accountResponse(passenger))
}

// RegisterDriver handles POST /v1/drivers/register
func (h *UserHandler) RegisterDriver(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.userService.RegisterDriver(c.Request.Context(), service.RegisterDriverRequest{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		LicenseDoc:      req.LicenseDoc,
		VehicleCategory: req.VehicleCategory,
		VehiclePlate:    req.VehiclePlate,
		Address:         req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, accountResponse(driver))
}

// GetByEmail handles GET /v1/users/:email
func (h *UserHandler) GetByEmail(c *gin.Context) {
	account, err := h.userService.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, accountResponse(account))
}

// GetAll handles GET /v1/users
func (h *UserHandler) GetAll(c *gin.Context) {
	accounts, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, accountResponse(account))
	}
	c.JSON(http.StatusOK, response)
}
