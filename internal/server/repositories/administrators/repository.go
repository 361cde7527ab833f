// Package administrators declares the credential store contract: persistent
// administrator accounts looked up by email or id.
package administrators

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

// Repository defines persistence operations for administrator accounts.
type Repository interface {
	// Create inserts a new administrator, filling in ID and timestamps.
	// A duplicate email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, admin *models.Administrator) (*models.Administrator, error)

	// GetByEmail returns the administrator with exactly this email, or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Administrator, error)

	// GetByID returns the administrator with this id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Administrator, error)
}
