package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rtconnect/booking-gateway/pkg/token"
)

// UpstreamTokenKey is the key used to store the rider's token in Gin context
const UpstreamTokenKey = "upstream_token"

// UpstreamToken creates a middleware that extracts the rider's bearer token
// for forwarding to the remote booking API. The gateway never signs or
// verifies tokens; it only rejects requests whose token is absent or has
// already expired, so the rider is sent back to login instead of getting a
// late rejection from the remote server mid-flow.
func UpstreamToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "unauthorized",
				"message":  "Authorization header is required",
				"code":     "MISSING_AUTH_HEADER",
				"redirect": "/login",
			})
			c.Abort()
			return
		}

		// Accept both "Bearer <token>" and a bare token value.
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Token cannot be empty",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		if token.IsExpired(tokenString) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "token_expired",
				"message":  "Your session has expired. Please log in again.",
				"code":     "TOKEN_EXPIRED",
				"redirect": "/login",
			})
			c.Abort()
			return
		}

		c.Set(UpstreamTokenKey, tokenString)
		c.Next()
	}
}

// GetUpstreamToken retrieves the forwarded bearer token from Gin context
func GetUpstreamToken(c *gin.Context) (string, bool) {
	value, exists := c.Get(UpstreamTokenKey)
	if !exists {
		return "", false
	}
	tokenString, ok := value.(string)
	return tokenString, ok
}
