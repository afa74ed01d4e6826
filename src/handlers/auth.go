package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/zirvehikayem/blog-api/src/middleware"
	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/services"
)

// Authenticator checks a username/password pair
type Authenticator interface {
	Authenticate(username, password string) (models.Identity, error)
}

// TokenIssuer signs access tokens for an identity
type TokenIssuer interface {
	Issue(identity models.Identity) (string, time.Time, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	credentials Authenticator
	tokens      TokenIssuer
	analytics   *services.AnalyticsService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(credentials Authenticator, tokens TokenIssuer, analytics *services.AnalyticsService) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		tokens:      tokens,
		analytics:   analytics,
	}
}

// LoginRequest represents an admin sign-in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	AccessToken string                `json:"access_token"`
	TokenType   string                `json:"token_type"`
	ExpiresAt   time.Time             `json:"expires_at"`
	User        models.PublicIdentity `json:"user"`
}

// HandleLogin handles POST /api/auth/login
func (h *AuthHandler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	identity, err := h.credentials.Authenticate(req.Username, req.Password)
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Str("username", req.Username).Msg("failed sign-in attempt")
		respondError(c, "", err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(identity)
	if err != nil {
		respondError(c, "", err)
		return
	}

	h.analytics.TrackAdminLogin(c.Request.Context(), identity.Username)
	zerolog.Ctx(c.Request.Context()).Info().Str("username", identity.Username).Msg("admin signed in")

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt.UTC(),
		User:        identity.Public(),
	})
}

// HandleVerify handles POST /api/auth/verify; the admin gate has already run
func (h *AuthHandler) HandleVerify(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, "", services.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user":  identity.Public(),
	})
}

// HandleLogout handles POST /api/auth/logout. Tokens are stateless, so
// the client discarding its token is the whole logout.
func (h *AuthHandler) HandleLogout(c *gin.Context) {
	c.JSON(http.StatusOK, success("Successfully logged out"))
}
