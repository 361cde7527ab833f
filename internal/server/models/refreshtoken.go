package models

import "time"

// RefreshToken is a stored refresh token. TokenHash is the SHA-256 digest of
// the value handed to the client.
type RefreshToken struct {
	ID              string
	AdministratorID string
	TokenHash       string
	Expires         time.Time
	CreatedAt       time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}
