package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"redmango-orders/internal/domain"
	"github.com/gin-gonic/gin"
)

// apiResponse is the envelope returned by every endpoint so clients can
// branch uniformly on isSuccess.
type apiResponse struct {
	IsSuccess     bool        `json:"isSuccess"`
	Result        interface{} `json:"result"`
	ErrorMessages []string    `json:"errorMessages"`
}

// pagination is serialized into the X-Pagination response header on list
// endpoints.
type pagination struct {
	CurrentPage  int `json:"currentPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

func respondOK(c *gin.Context, status int, result interface{}) {
	c.JSON(status, apiResponse{
		IsSuccess:     true,
		Result:        result,
		ErrorMessages: []string{},
	})
}

func respondFail(c *gin.Context, status int, messages ...string) {
	c.AbortWithStatusJSON(status, apiResponse{
		IsSuccess:     false,
		Result:        nil,
		ErrorMessages: messages,
	})
}

// respondError maps the error taxonomy to status codes. Internal detail is
// logged but never echoed to the client.
func respondError(c *gin.Context, logger *log.Logger, err error) {
	var validationErr *domain.ValidationError
	var gatewayErr *domain.GatewayError
	switch {
	case errors.As(err, &validationErr):
		respondFail(c, http.StatusBadRequest, validationErr.Messages...)
	case errors.Is(err, domain.ErrEmptyCart):
		respondFail(c, http.StatusBadRequest, "shopping cart is empty")
	case errors.Is(err, domain.ErrNotFound):
		respondFail(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		respondFail(c, http.StatusConflict, "the resource was modified concurrently, retry the request")
	case errors.As(err, &gatewayErr):
		logger.Printf("http: payment gateway failure path=%s error=%v", c.FullPath(), err)
		respondFail(c, http.StatusInternalServerError, "payment processing failed, please try again later")
	default:
		logger.Printf("http: internal error path=%s error=%v", c.FullPath(), err)
		respondFail(c, http.StatusInternalServerError, "an unexpected error occurred")
	}
}

func setPaginationHeader(c *gin.Context, p pagination) {
	body, err := json.Marshal(p)
	if err != nil {
		return
	}
	c.Header("X-Pagination", string(body))
}
