package models

import (
	"net/mail"
	"time"
)

// DefaultRole is assigned to administrators created without an explicit role.
const DefaultRole = "ADMIN"

// Administrator is a site administrator account. PasswordHash holds a bcrypt
// hash; the plaintext password is never stored.
type Administrator struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AdministratorProfile is the public projection of an Administrator.
type AdministratorProfile struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	AvatarURL *string `json:"avatar,omitempty"`
}

// IsValidEmail reports whether email is a bare address such as
// "alice@example.com", with no display name or surrounding whitespace.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && addr.Name == ""
}

// Profile returns the public projection of a.
func (a *Administrator) Profile() AdministratorProfile {
	return AdministratorProfile{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		AvatarURL: a.AvatarURL,
	}
}
