package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zirvehikayem/blog-api/src/models"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username is unknown, so that
// unknown users and wrong passwords take the same time.
var dummyHash = []byte("$2a$12$C6UzMDM.H6dfI/f/IKcEeO5tH5h6wYqgE5P8u2K0a5iWXrhxd0q2G")

// IdentityLookup resolves a username to its current identity
type IdentityLookup interface {
	Lookup(username string) (models.Identity, bool)
}

// CredentialStore is the fixed set of accounts allowed to sign in.
// It is built once at startup and never mutated.
type CredentialStore struct {
	identities map[string]models.Identity
}

// NewCredentialStore copies identities into a new store. Usernames are
// matched exactly; later duplicates are rejected.
func NewCredentialStore(identities []models.Identity) (*CredentialStore, error) {
	m := make(map[string]models.Identity, len(identities))
	for _, id := range identities {
		if id.Username == "" {
			return nil, errors.New("identity with empty username")
		}
		if _, dup := m[id.Username]; dup {
			return nil, fmt.Errorf("duplicate identity %q", id.Username)
		}
		if id.Role == "" {
			id.Role = models.RoleAdmin
		}
		m[id.Username] = id
	}
	return &CredentialStore{identities: m}, nil
}

// Lookup returns the identity for username, case-sensitively
func (s *CredentialStore) Lookup(username string) (models.Identity, bool) {
	id, ok := s.identities[username]
	return id, ok
}

// Len returns the number of configured identities
func (s *CredentialStore) Len() int {
	return len(s.identities)
}

// Authenticate checks a username/password pair. Unknown user, wrong
// password and inactive identity all yield ErrInvalidCredentials.
func (s *CredentialStore) Authenticate(username, password string) (models.Identity, error) {
	id, ok := s.identities[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return models.Identity{}, ErrInvalidCredentials
	}
	if !VerifyPassword(password, id.PasswordHash) || !id.Active {
		return models.Identity{}, ErrInvalidCredentials
	}
	return id, nil
}

// VerifyPassword reports whether plain matches the bcrypt hash
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewIdentity hashes password and returns an active admin identity
func NewIdentity(username, password, email, displayName string, cost int) (models.Identity, error) {
	username = strings.TrimSpace(username)
	if len(username) < 1 || len(username) > 255 {
		return models.Identity{}, errors.New("username must be between 1 and 255 characters")
	}
	if len(password) < 8 {
		return models.Identity{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	if displayName == "" {
		displayName = username
	}
	return models.Identity{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		DisplayName:  displayName,
		Active:       true,
		Role:         models.RoleAdmin,
	}, nil
}
