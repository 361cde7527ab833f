// Package devices declares the device registry contract.
package devices

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

type Repository interface {
	// Upsert inserts the device or, when (AdministratorID, Token) already
	// exists, bumps its last activity and type. The stored row is returned.
	Upsert(ctx context.Context, device *models.Device) (*models.Device, error)
}
