package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"shoplane/internal/domain/storefront"
	"shoplane/internal/interfaces/http/middleware"
	"shoplane/internal/shared/logger"
	"shoplane/internal/shared/utils"
)

const cartKey = "cart"

// StorefrontHandler serves the per-user cart backed by a KVStore.
type StorefrontHandler struct {
	kv     storefront.KVStore
	logger logger.Interface
}

func NewStorefrontHandler(kv storefront.KVStore, log logger.Interface) *StorefrontHandler {
	return &StorefrontHandler{kv: kv, logger: log}
}

// GetCart returns the caller's saved cart, or an empty one.
func (h *StorefrontHandler) GetCart(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	value, ok, err := h.kv.Get(c.Request.Context(), userID, cartKey)
	if err != nil {
		h.logger.Errorw("failed to load cart", "error", err, "user_id", userID)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to load cart")
		return
	}
	if !ok {
		utils.SuccessResponse(c, http.StatusOK, "", gin.H{"items": []any{}})
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"items": json.RawMessage(value)})
}

// SaveCart replaces the caller's cart with the request body.
func (h *StorefrontHandler) SaveCart(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	var req struct {
		Items json.RawMessage `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if err == io.EOF {
			utils.ErrorResponse(c, http.StatusBadRequest, "request body is required")
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid cart payload")
		return
	}

	if err := h.kv.Set(c.Request.Context(), userID, cartKey, req.Items); err != nil {
		h.logger.Errorw("failed to save cart", "error", err, "user_id", userID)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to save cart")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "cart saved", gin.H{"items": req.Items})
}
