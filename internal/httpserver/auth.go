package httpserver

import (
	"net/http"
	"strings"

	"redmango-orders/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID = "auth.userID"
	ctxRole   = "auth.role"
)

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// authMiddleware verifies the HS256 bearer token issued by the identity
// service and stashes the caller's id and role for the handlers.
func authMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			respondFail(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims := &authClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !parsed.Valid || claims.Subject == "" {
			respondFail(c, http.StatusUnauthorized, "invalid bearer token")
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// requireStaff gates order fulfillment transitions to elevated callers.
func requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isStaff(c) {
			respondFail(c, http.StatusForbidden, "staff access required")
			return
		}
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func isStaff(c *gin.Context) bool {
	return c.GetString(ctxRole) == domain.RoleAdmin
}
