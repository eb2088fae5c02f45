package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextAdminID     = "admin_id"
	ContextAdminEmail  = "admin_email"
	ContextRole        = "role"
	ContextToken       = "token"
	ContextTokenExpiry = "token_expiry"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		if claims.AdminID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid admin id in token"))
			c.Abort()
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextAdminEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextToken, tokenString)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExpiry, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// AdminID returns the authenticated admin, or 0 outside an authenticated route.
func AdminID(c *gin.Context) uint {
	if v, ok := c.Get(ContextAdminID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
