package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bayside-club/backend/internal/authz"
	"github.com/bayside-club/backend/pkg/response"
)

// ContextPrincipal is the gin context key for the decoded principal.
const ContextPrincipal = "principal"

// sessionCookieName matches the cookie set by the auth handler.
const sessionCookieName = "auth_token"

// VerifyFunc turns a raw session token into a principal, failing closed.
type VerifyFunc func(token string) (*authz.Principal, error)

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	// Bearer fallback for non-browser clients.
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// Session returns a middleware that requires a valid session token
// (cookie first, Authorization header fallback) and sets the principal
// in context. Missing or invalid tokens answer 401.
func Session(verify VerifyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.Unauthorized(c, "missing session")
			c.Abort()
			return
		}
		p, err := verify(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}
		c.Set(ContextPrincipal, p)
		c.Next()
	}
}

// OptionalSession sets the principal when a valid token is present and
// continues anonymously otherwise. Read paths use this so public
// resources stay reachable without a session.
func OptionalSession(verify VerifyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			if p, err := verify(token); err == nil {
				c.Set(ContextPrincipal, p)
			}
		}
		c.Next()
	}
}

// PrincipalFrom returns the request principal, or nil for anonymous.
func PrincipalFrom(c *gin.Context) *authz.Principal {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*authz.Principal)
	return p
}
