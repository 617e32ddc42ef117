package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type upsertCartItemRequest struct {
	MenuItemID       int64 `json:"menuItemId"`
	UpdateQuantityBy int   `json:"updateQuantityBy"`
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.GetByUser(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, cart)
}

func (h *handlers) upsertCartItem(c *gin.Context) {
	var in upsertCartItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.MenuItemID <= 0 {
		respondFail(c, http.StatusBadRequest, "menuItemId is required")
		return
	}
	if in.UpdateQuantityBy == 0 {
		respondFail(c, http.StatusBadRequest, "updateQuantityBy must not be zero")
		return
	}

	cart, err := h.deps.CartSvc.UpsertItem(c.Request.Context(), callerID(c), in.MenuItemID, in.UpdateQuantityBy)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, cart)
}
