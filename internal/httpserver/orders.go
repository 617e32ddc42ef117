package httpserver

import (
	"net/http"
	"strconv"

	ordersvc "redmango-orders/internal/service/order"
	"github.com/gin-gonic/gin"
)

func (h *handlers) createOrder(c *gin.Context) {
	var in ordersvc.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !isStaff(c) && in.UserID != callerID(c) {
		respondFail(c, http.StatusForbidden, "orders may only be created for the authenticated user")
		return
	}

	header, err := h.deps.OrderSvc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, header)
}

func (h *handlers) listOrders(c *gin.Context) {
	filter := ordersvc.ListFilter{
		UserID:       c.Query("userId"),
		SearchString: c.Query("searchString"),
		Status:       c.Query("status"),
		Page:         intQuery(c, "pageNumber", 1),
		PageSize:     intQuery(c, "pageSize", 0),
	}
	// Customers see only their own orders regardless of the filter.
	if !isStaff(c) {
		filter.UserID = callerID(c)
	}
	// Defaults are resolved here so the pagination metadata reports the
	// page and size actually applied, not the raw query values.
	filter = filter.Normalize()

	headers, total, err := h.deps.OrderSvc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	setPaginationHeader(c, pagination{
		CurrentPage:  filter.Page,
		PageSize:     filter.PageSize,
		TotalRecords: total,
	})
	respondOK(c, http.StatusOK, headers)
}

func (h *handlers) getOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	header, err := h.deps.OrderSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	// A customer probing someone else's order id learns nothing.
	if !isStaff(c) && header.UserID != callerID(c) {
		respondFail(c, http.StatusNotFound, "not found")
		return
	}
	respondOK(c, http.StatusOK, header)
}

func (h *handlers) updateOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var in ordersvc.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	header, err := h.deps.OrderSvc.UpdateStatus(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, header)
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondFail(c, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
