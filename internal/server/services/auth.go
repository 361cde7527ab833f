// Package services contains server-side business logic. This file implements
// AuthService, which handles administrator registration, login, refresh-token
// rotation, logout, device registration and profile lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// ExpiresIn is the access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// DeviceInput is an optional device registration piggybacked on token issuance.
type DeviceInput struct {
	Token string
	Type  models.DeviceType
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Device   *DeviceInput
}

type LoginInput struct {
	Email    string
	Password string
	Device   *DeviceInput
}

type RefreshInput struct {
	RefreshToken string
	Device       *DeviceInput
}

// AuthService provides administrator authentication operations.
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	issuer                       *auth.Issuer
	hasher                       *auth.PasswordHasher
	log                          logging.Logger
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer,
	hasher *auth.PasswordHasher, cfg *config.Config, log logging.Logger) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		issuer:                       issuer,
		hasher:                       hasher,
		log:                          log,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// CreateAdministrator stores a new administrator with a bcrypt-hashed password.
// An existing email yields common.ErrorConflict. Empty role means models.DefaultRole.
func (s *AuthService) CreateAdministrator(ctx context.Context, email, password, name, role string) (*models.Administrator, error) {
	repo := s.repomanager.Administrators(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrorConflict
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("%w: looking up administrator: %v", common.ErrorInternal, err)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: hashing password: %v", common.ErrorInternal, err)
	}

	if role == "" {
		role = models.DefaultRole
	}

	admin, err := repo.Create(ctx, &models.Administrator{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("%w: creating administrator: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "administrator created", "administrator_id", admin.ID, "role", admin.Role)
	return admin, nil
}

// Register creates an administrator and starts a session for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*TokenPair, error) {
	admin, err := s.CreateAdministrator(ctx, in.Email, in.Password, in.Name, models.DefaultRole)
	if err != nil {
		return nil, err
	}

	pair, err := s.generateTokenPair(ctx, admin.ID, s.db)
	if err != nil {
		return nil, err
	}

	s.touchDevice(ctx, admin.ID, in.Device)
	return pair, nil
}

// Login verifies credentials and starts a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenPair, error) {
	repo := s.repomanager.Administrators(s.db)

	admin, err := repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(ctx, in.Password)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: looking up administrator: %v", common.ErrorInternal, err)
	}

	if err := s.hasher.Compare(ctx, admin.PasswordHash, in.Password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: comparing password: %v", common.ErrorInternal, err)
	}

	pair, err := s.generateTokenPair(ctx, admin.ID, s.db)
	if err != nil {
		return nil, err
	}

	s.touchDevice(ctx, admin.ID, in.Device)
	return pair, nil
}

// RefreshToken consumes a refresh token and returns a fresh TokenPair. The
// consumed row is deleted and the new one inserted in a single transaction;
// a token that another request already consumed yields common.ErrorUnauthorized.
func (s *AuthService) RefreshToken(ctx context.Context, in RefreshInput) (*TokenPair, error) {
	if in.RefreshToken == "" {
		return nil, common.ErrorUnauthorized
	}

	tokenHash := auth.HashRefreshToken(in.RefreshToken)
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: searching refresh token: %v", common.ErrorInternal, err)
	}

	if token.Expired(s.now()) {
		if _, err := repo.Delete(ctx, tokenHash); err != nil {
			s.log.Warn(ctx, "failed to delete expired refresh token",
				"administrator_id", token.AdministratorID, "error", err)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrRefreshTokenExpired)
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		deleted, err := s.repomanager.RefreshTokens(tx).Delete(ctx, tokenHash)
		if err != nil {
			return fmt.Errorf("%w: deleting refresh token: %v", common.ErrorInternal, err)
		}
		if !deleted {
			return common.ErrorUnauthorized
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.AdministratorID, tx)
		return genErr
	}); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrorInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: refresh transaction: %v", common.ErrorInternal, err)
	}

	s.touchDevice(ctx, token.AdministratorID, in.Device)
	return pair, nil
}

// Logout revokes refreshToken for the administrator, or every refresh token
// the administrator holds when refreshToken is empty. Revoking an unknown
// token is not an error.
func (s *AuthService) Logout(ctx context.Context, administratorID, refreshToken string) error {
	repo := s.repomanager.RefreshTokens(s.db)

	var (
		n   int64
		err error
	)
	if refreshToken == "" {
		n, err = repo.DeleteAllForAdministrator(ctx, administratorID)
	} else {
		n, err = repo.DeleteForAdministrator(ctx, administratorID, auth.HashRefreshToken(refreshToken))
	}
	if err != nil {
		return fmt.Errorf("%w: revoking refresh tokens: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "logout", "administrator_id", administratorID, "revoked", n)
	return nil
}

// Profile returns the public view of the administrator. A missing account is
// common.ErrorUnauthorized, since the caller holds a token for it.
func (s *AuthService) Profile(ctx context.Context, administratorID string) (*models.AdministratorProfile, error) {
	admin, err := s.repomanager.Administrators(s.db).GetByID(ctx, administratorID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: loading administrator: %v", common.ErrorInternal, err)
	}
	profile := admin.Profile()
	return &profile, nil
}

// RegisterDevice upserts a device for the administrator and marks it active now.
func (s *AuthService) RegisterDevice(ctx context.Context, administratorID, token string, deviceType models.DeviceType) (*models.Device, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: device token is required", common.ErrorValidation)
	}
	if _, err := models.ParseDeviceType(deviceType.String()); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	device, err := s.repomanager.Devices(s.db).Upsert(ctx, &models.Device{
		AdministratorID: administratorID,
		Token:           token,
		Type:            deviceType,
		LastActiveAt:    s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upserting device: %v", common.ErrorInternal, err)
	}
	return device, nil
}

// PurgeExpiredRefreshTokens deletes every refresh token that has expired and
// returns how many were removed.
func (s *AuthService) PurgeExpiredRefreshTokens(ctx context.Context) (int64, error) {
	n, err := s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%w: purging refresh tokens: %v", common.ErrorInternal, err)
	}
	return n, nil
}

// --- helpers below ---

func (s *AuthService) generateTokenPair(ctx context.Context, administratorID string, db dbx.DBTX) (*TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(administratorID)
	if err != nil {
		return nil, fmt.Errorf("%w: signing access token: %v", common.ErrorInternal, err)
	}
	refresh, err := auth.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("%w: generating refresh token: %v", common.ErrorInternal, err)
	}

	row := &models.RefreshToken{
		AdministratorID: administratorID,
		TokenHash:       auth.HashRefreshToken(refresh),
		Expires:         s.now().Add(s.refreshTokenValidityDuration),
	}
	if err := s.repomanager.RefreshTokens(db).Create(ctx, row); err != nil {
		return nil, fmt.Errorf("%w: storing refresh token: %v", common.ErrorInternal, err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.issuer.TTL() / time.Second),
	}, nil
}

// touchDevice registers the device when both fields are present. Failures are
// logged and swallowed: the session has already been issued.
func (s *AuthService) touchDevice(ctx context.Context, administratorID string, device *DeviceInput) {
	if device == nil || device.Token == "" || device.Type == "" {
		return
	}
	if _, err := s.RegisterDevice(ctx, administratorID, device.Token, device.Type); err != nil {
		s.log.Warn(ctx, "device registration failed",
			"administrator_id", administratorID, "device_type", device.Type.String(), "error", err)
	}
}
