package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// principalIDKey is the key used to store the calling principal's ID in the
// request context. Using a custom type prevents collisions.
const principalIDKey = contextKey("principalID")

// PrincipalHeader is the header carrying the caller identity. Authentication
// itself is handled upstream; the engine only needs an identity to attribute
// commands and decisions.
const PrincipalHeader = "X-Principal-ID"

// PrincipalMiddleware extracts the principal ID from the request header and
// stores it in the request context. Requests without an identity are rejected,
// since every command must be attributable.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principalID := c.GetHeader(PrincipalHeader)
		if principalID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing " + PrincipalHeader + " header"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), principalIDKey, principalID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetPrincipalIDFromContext retrieves the principal ID from the Gin context.
// It returns the ID and a boolean indicating whether it was found.
func GetPrincipalIDFromContext(c *gin.Context) (string, bool) {
	principalVal := c.Request.Context().Value(principalIDKey)
	if principalVal == nil {
		return "", false
	}

	principalID, ok := principalVal.(string)
	if !ok {
		return "", false
	}

	return principalID, true
}
