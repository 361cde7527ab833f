package administrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/common"
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

func (r *PostgresRepository) Create(ctx context.Context, admin *models.Administrator) (*models.Administrator, error) {
	query := `
		INSERT INTO administrators (id, email, password_hash, name, role, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	id := uuid.NewString()
	err := r.db.QueryRowContext(ctx, query,
		id, admin.Email, admin.PasswordHash, admin.Name, admin.Role, admin.AvatarURL).
		Scan(&admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("email %q: %w", admin.Email, common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	admin.ID = id
	return admin, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	query := `
		SELECT id, email, password_hash, name, role, avatar_url, created_at, updated_at
		FROM administrators
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Administrator, error) {
	query := `
		SELECT id, email, password_hash, name, role, avatar_url, created_at, updated_at
		FROM administrators
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Administrator, error) {
	admin := &models.Administrator{}
	var avatar sql.NullString

	err := row.Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.Name, &admin.Role,
		&avatar, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if avatar.Valid {
		admin.AvatarURL = &avatar.String
	}
	return admin, nil
}
