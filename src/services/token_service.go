package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zirvehikayem/blog-api/src/models"
)

// TokenTTL is how long an issued access token stays valid
const TokenTTL = 30 * time.Minute

const tokenIssuer = "zirvehikayem"

// TokenClaims are the claims carried by an access token
type TokenClaims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. Verification
// re-reads the identity so deactivation takes effect immediately.
type TokenService struct {
	secret     []byte
	ttl        time.Duration
	identities IdentityLookup
	now        func() time.Time
}

// NewTokenService creates a token service. The secret must be at least 32 bytes.
func NewTokenService(secret string, identities IdentityLookup) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, errors.New("token secret must be at least 32 characters long")
	}
	return &TokenService{
		secret:     []byte(secret),
		ttl:        TokenTTL,
		identities: identities,
		now:        time.Now,
	}, nil
}

// Issue signs a token for identity and returns it with its expiry
func (s *TokenService) Issue(identity models.Identity) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify returns the live identity behind token. It never errors: any
// malformed, forged, expired or orphaned token yields ok == false.
func (s *TokenService) Verify(token string) (models.Identity, bool) {
	if token == "" {
		return models.Identity{}, false
	}

	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, isHMAC := t.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return models.Identity{}, false
	}

	identity, found := s.identities.Lookup(claims.Subject)
	if !found || !identity.Active {
		return models.Identity{}, false
	}
	return identity, true
}
