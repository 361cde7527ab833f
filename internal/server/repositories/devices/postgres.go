package devices

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, device *models.Device) (*models.Device, error) {
	query := `
		INSERT INTO devices (id, administrator_id, device_token, device_type, last_active_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (administrator_id, device_token)
		DO UPDATE SET last_active_at = EXCLUDED.last_active_at, device_type = EXCLUDED.device_type
		RETURNING id, administrator_id, device_token, device_type, last_active_at, created_at
	`

	out := &models.Device{}
	var deviceType string
	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), device.AdministratorID, device.Token, device.Type.String(), device.LastActiveAt).
		Scan(&out.ID, &out.AdministratorID, &out.Token, &deviceType, &out.LastActiveAt, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	out.Type = models.DeviceType(deviceType)
	return out, nil
}
