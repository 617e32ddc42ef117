package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// createPaymentIntent reconciles the caller's cart with the payment
// gateway: a fresh intent on first call, an amount update when the cart
// changed since. Staff may reconcile on behalf of another user.
func (h *handlers) createPaymentIntent(c *gin.Context) {
	userID := c.Query("userId")
	switch {
	case userID == "":
		userID = callerID(c)
	case userID != callerID(c) && !isStaff(c):
		respondFail(c, http.StatusForbidden, "payment intents may only be created for the authenticated user")
		return
	}

	cart, err := h.deps.PaymentSvc.Reconcile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, cart)
}
