package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/model"
	"storefront-backend/internal/shared"
	"storefront-backend/internal/shared/response"
)

type AddressHandler struct {
	store a.StoreInterface
}

func NewAddressHandler(store a.StoreInterface) *AddressHandler {
	return &AddressHandler{
		store: store,
	}
}

// ListAddresses handles GET /addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	addrs, err := h.store.FetchAddresses(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, buildBookResponse(addrs))
}

// GetDefaultAddress handles GET /addresses/default
// Đọc từ snapshot của Store; snapshot rỗng thì fetch một lần.
func (h *AddressHandler) GetDefaultAddress(c *gin.Context) {
	ctx := c.Request.Context()
	userID := getUserID(c)

	if len(h.store.Addresses(ctx, userID)) == 0 {
		if _, err := h.store.FetchAddresses(ctx, userID); err != nil {
			handleError(c, err)
			return
		}
	}

	def, ok := h.store.Default(ctx, userID)
	if !ok {
		response.NotFound(c, "No default address")
		return
	}

	response.Success(c, http.StatusOK, model.NewAddressView(def))
}

// CreateAddress handles POST /addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req model.AddressCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		handleError(c, a.NewValidationFailed(err))
		return
	}

	addrs, err := h.store.HandleSave(c.Request.Context(), getUserID(c), a.SaveRequest{
		Input: req.ToInput(),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, buildBookResponse(addrs))
}

// UpdateAddress handles PUT /addresses/:id
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	addressID, ok := getAddressID(c)
	if !ok {
		return
	}

	var req model.AddressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		handleError(c, a.NewValidationFailed(err))
		return
	}

	patch := req.ToPatch()
	if patch.IsEmpty() {
		response.BadRequest(c, "No fields to update")
		return
	}

	addrs, err := h.store.HandleSave(c.Request.Context(), getUserID(c), a.SaveRequest{
		ID:    addressID,
		Patch: patch,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, buildBookResponse(addrs))
}

// DeleteAddress handles DELETE /addresses/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	addressID, ok := getAddressID(c)
	if !ok {
		return
	}

	addrs, err := h.store.HandleDelete(c.Request.Context(), getUserID(c), addressID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, buildBookResponse(addrs))
}

// SetDefaultAddress handles PUT /addresses/:id/default
func (h *AddressHandler) SetDefaultAddress(c *gin.Context) {
	addressID, ok := getAddressID(c)
	if !ok {
		return
	}

	addrs, err := h.store.HandleSetDefault(c.Request.Context(), getUserID(c), addressID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, buildBookResponse(addrs))
}

// ========================================
// HELPERS
// ========================================

// getUserID đọc user id do AuthMiddleware set; rỗng thì Store trả NO_CURRENT_USER
func getUserID(c *gin.Context) string {
	return c.GetString(shared.ContextUserID)
}

func getAddressID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.BadRequest(c, "Address ID is required")
		return "", false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	status, message, code := a.MapErrorToHTTP(err)
	response.ErrorWithDetails(c, status, code, message, a.GetErrorDetails(err))
}

func buildBookResponse(addrs []model.Address) model.AddressBookResponse {
	views := make([]model.AddressView, 0, len(addrs))
	var def *model.AddressView
	for _, addr := range addrs {
		v := model.NewAddressView(addr)
		views = append(views, v)
		if addr.IsDefault && def == nil {
			d := v
			def = &d
		}
	}

	return model.AddressBookResponse{
		Addresses: views,
		Default:   def,
		Total:     len(views),
	}
}
