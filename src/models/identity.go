package models

// Identity is a configured account allowed to sign in.
// Identities come from configuration and never change at runtime.
type Identity struct {
	Username     string `yaml:"username" json:"username"`
	PasswordHash string `yaml:"password_hash" json:"-"` // never expose
	Email        string `yaml:"email" json:"email"`
	DisplayName  string `yaml:"display_name" json:"full_name"`
	Active       bool   `yaml:"active" json:"-"`
	Role         Role   `yaml:"role" json:"role"`
}

// PublicIdentity is the identity shape returned to clients
type PublicIdentity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// Public strips credential material from the identity.
func (i Identity) Public() PublicIdentity {
	return PublicIdentity{
		Username: i.Username,
		Email:    i.Email,
		FullName: i.DisplayName,
		Role:     i.Role,
	}
}
