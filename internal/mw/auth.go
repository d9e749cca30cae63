package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campus-backend/internal/apperr"
	"campus-backend/internal/auth"
)

const identityKey = "campus.identity"

// TokenVerifier turns a bearer token into a caller identity.
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// Authenticate requires a valid bearer token and stores the caller's
// identity in the context.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		id, err := verifier.Verify(token)
		if err != nil {
			msg := "Invalid or expired token"
			if apperr.Is(err, apperr.KindUnauthorized) {
				msg = apperr.Message(err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// AuthorizeRole lets the request through only when the token's role claim
// equals one of allowed. The comparison is case-sensitive and uses the
// claim as issued; the user row is not consulted.
func AuthorizeRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		for _, role := range allowed {
			if id.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*auth.Identity)
	return id, ok && id != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
