package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/administrators"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/devices"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/refreshtokens"
)

// --- in-memory repositories ---

type fakeAdministrators struct {
	mu      sync.Mutex
	byID    map[string]*models.Administrator
	seq     int
	getErr  error
	saveErr error
}

func newFakeAdministrators() *fakeAdministrators {
	return &fakeAdministrators{byID: map[string]*models.Administrator{}}
}

func (f *fakeAdministrators) Create(_ context.Context, a *models.Administrator) (*models.Administrator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	for _, existing := range f.byID {
		if existing.Email == a.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.seq++
	cp := *a
	cp.ID = fmt.Sprintf("admin-%d", f.seq)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAdministrators) GetByEmail(_ context.Context, email string) (*models.Administrator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.byID {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAdministrators) GetByID(_ context.Context, id string) (*models.Administrator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *a
	return &out, nil
}

func (f *fakeAdministrators) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakeRefreshTokens struct {
	mu        sync.Mutex
	byHash    map[string]*models.RefreshToken
	findErr   error
	createErr error
	deleteErr error
}

func newFakeRefreshTokens() *fakeRefreshTokens {
	return &fakeRefreshTokens{byHash: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshTokens) Create(_ context.Context, t *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, dup := f.byHash[t.TokenHash]; dup {
		return common.ErrorAlreadyExists
	}
	cp := *t
	cp.ID = "rt-" + t.TokenHash
	cp.CreatedAt = time.Now()
	f.byHash[t.TokenHash] = &cp
	return nil
}

func (f *fakeRefreshTokens) Find(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.byHash[tokenHash]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *t
	return &out, nil
}

func (f *fakeRefreshTokens) Delete(_ context.Context, tokenHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	if _, ok := f.byHash[tokenHash]; !ok {
		return false, nil
	}
	delete(f.byHash, tokenHash)
	return true, nil
}

func (f *fakeRefreshTokens) DeleteForAdministrator(_ context.Context, administratorID, tokenHash string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	if t, ok := f.byHash[tokenHash]; ok && t.AdministratorID == administratorID {
		delete(f.byHash, tokenHash)
		return 1, nil
	}
	return 0, nil
}

func (f *fakeRefreshTokens) DeleteAllForAdministrator(_ context.Context, administratorID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var n int64
	for h, t := range f.byHash {
		if t.AdministratorID == administratorID {
			delete(f.byHash, h)
			n++
		}
	}
	return n, nil
}

func (f *fakeRefreshTokens) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var n int64
	for h, t := range f.byHash {
		if !t.Expires.After(before) {
			delete(f.byHash, h)
			n++
		}
	}
	return n, nil
}

func (f *fakeRefreshTokens) all() []models.RefreshToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.RefreshToken, 0, len(f.byHash))
	for _, t := range f.byHash {
		out = append(out, *t)
	}
	return out
}

func (f *fakeRefreshTokens) put(t models.RefreshToken) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byHash[t.TokenHash] = &t
}

type fakeDevices struct {
	mu        sync.Mutex
	rows      map[string]*models.Device
	seq       int
	upsertErr error
}

func newFakeDevices() *fakeDevices {
	return &fakeDevices{rows: map[string]*models.Device{}}
}

func (f *fakeDevices) Upsert(_ context.Context, d *models.Device) (*models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	key := d.AdministratorID + "|" + d.Token
	if existing, ok := f.rows[key]; ok {
		existing.LastActiveAt = d.LastActiveAt
		existing.Type = d.Type
		out := *existing
		return &out, nil
	}
	f.seq++
	cp := *d
	cp.ID = fmt.Sprintf("device-%d", f.seq)
	cp.CreatedAt = d.LastActiveAt
	f.rows[key] = &cp
	out := cp
	return &out, nil
}

func (f *fakeDevices) all() []models.Device {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Device, 0, len(f.rows))
	for _, d := range f.rows {
		out = append(out, *d)
	}
	return out
}

type fakeRepoManager struct {
	admins  *fakeAdministrators
	tokens  *fakeRefreshTokens
	devices *fakeDevices
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Administrators(dbx.DBTX) administrators.Repository {
	return m.admins
}
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.tokens }
func (m *fakeRepoManager) Devices(dbx.DBTX) devices.Repository             { return m.devices }

// --- clock ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
