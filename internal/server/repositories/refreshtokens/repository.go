// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage. Tokens are addressed by the
// SHA-256 digest of their value; the plaintext is never stored.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores token. ID and CreatedAt are filled in by the repository;
	// AdministratorID, TokenHash and Expires must be set by the caller.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find looks up a refresh token by its hash and returns its metadata.
	// Implementations return common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its hash and reports whether a row was
	// removed. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, tokenHash string) (bool, error)

	// DeleteForAdministrator removes the token with tokenHash only if it
	// belongs to administratorID.
	DeleteForAdministrator(ctx context.Context, administratorID, tokenHash string) (int64, error)

	// DeleteAllForAdministrator removes every token of administratorID.
	DeleteAllForAdministrator(ctx context.Context, administratorID string) (int64, error)

	// DeleteExpired removes tokens whose expiry is at or before the given instant.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
