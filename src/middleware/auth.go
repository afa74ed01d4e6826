package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/services"
)

// Context keys set by RequireRole
const (
	IdentityKey         = "identity"
	IdentityUsernameKey = "username"
)

// Authorizer resolves a bearer token into an identity holding role
type Authorizer interface {
	Authorize(token string, role models.Role) (models.Identity, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireRole rejects requests without a live identity holding role.
// Missing or invalid tokens get 401 with a Bearer challenge; a valid
// identity without the role gets 403.
func RequireRole(gate Authorizer, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			abortUnauthenticated(c)
			return
		}

		identity, err := gate.Authorize(token, role)
		switch {
		case errors.Is(err, services.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "detail": "Admin access required"})
			return
		case err != nil:
			abortUnauthenticated(c)
			return
		}

		c.Set(IdentityKey, identity)
		c.Set(IdentityUsernameKey, identity.Username)
		c.Next()
	}
}

// AdminAuth is RequireRole for the admin role
func AdminAuth(gate Authorizer) gin.HandlerFunc {
	return RequireRole(gate, models.RoleAdmin)
}

// CurrentIdentity returns the identity set by RequireRole
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

func abortUnauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "detail": "Could not validate credentials"})
}
