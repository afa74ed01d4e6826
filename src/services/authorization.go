package services

import "github.com/zirvehikayem/blog-api/src/models"

// RequireRole passes identity through when it holds role
func RequireRole(identity models.Identity, role models.Role) (models.Identity, error) {
	if identity.Role != role {
		return models.Identity{}, ErrForbidden
	}
	return identity, nil
}

// AuthGate combines token verification and role checks for protected operations
type AuthGate struct {
	tokens *TokenService
}

// NewAuthGate creates a gate backed by tokens
func NewAuthGate(tokens *TokenService) *AuthGate {
	return &AuthGate{tokens: tokens}
}

// Authorize resolves the bearer token and requires role. It returns
// ErrUnauthenticated for a missing or invalid token and ErrForbidden for
// a valid identity lacking the role.
func (g *AuthGate) Authorize(token string, role models.Role) (models.Identity, error) {
	identity, ok := g.tokens.Verify(token)
	if !ok {
		return models.Identity{}, ErrUnauthenticated
	}
	return RequireRole(identity, role)
}
