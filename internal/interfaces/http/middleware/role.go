package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/momtazchem/backend/internal/domain/identity"
)

// RequireRole returns a middleware that only lets the listed roles through.
// Admins always pass. Requests without a validated role get 401, wrong
// roles get 403.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		if role == identity.RoleAdmin {
			c.Next()
			return
		}

		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Your role cannot perform this action",
				},
			})
			return
		}

		c.Next()
	}
}
