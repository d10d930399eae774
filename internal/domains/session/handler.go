package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domains/address"
	"storefront-backend/internal/shared"
	"storefront-backend/internal/shared/response"
)

type LoginRequest struct {
	UserID string `json:"userId"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login godoc
// @Summary Open a session for a user
// @Router /session [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, address.CodeValidationFailed, "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.UserID)
	if err != nil {
		status, message, code := address.MapErrorToHTTP(err)
		response.ErrorWithDetails(c, status, code, message, address.GetErrorDetails(err))
		return
	}

	response.Success(c, http.StatusCreated, res)
}

// Logout godoc
// @Summary Close the current session
// @Router /session [delete]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.GetString(shared.ContextSessionID)); err != nil {
		status, message, code := address.MapErrorToHTTP(err)
		response.ErrorResponse(c, status, code, message)
		return
	}
	c.Status(http.StatusNoContent)
}
