package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/bayside-club/backend/internal/authz"
	"github.com/bayside-club/backend/pkg/response"
)

// RequireAction returns a middleware that gates a route on one action
// class from the role/permission evaluator. DENY answers 403.
func RequireAction(action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if p == nil {
			response.Unauthorized(c, "missing session")
			c.Abort()
			return
		}
		if !authz.CanPerform(p, action) {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
