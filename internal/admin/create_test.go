package admin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	email, password, name, role string
	err                         error
}

func (f *fakeCreator) CreateAdministrator(_ context.Context, email, password, name, role string) (*models.Administrator, error) {
	f.email, f.password, f.name, f.role = email, password, name, role
	if f.err != nil {
		return nil, f.err
	}
	return &models.Administrator{ID: "a-1", Email: email, Name: name, Role: role}, nil
}

func stubPasswords(t *testing.T, pw ...string) {
	t.Helper()
	orig := readPassword
	i := 0
	readPassword = func(int) ([]byte, error) {
		if i >= len(pw) {
			return nil, errors.New("no more input")
		}
		i++
		return []byte(pw[i-1]), nil
	}
	t.Cleanup(func() { readPassword = orig })
}

func TestRunCreate_FromFlags(t *testing.T) {
	stubPasswords(t, "password123", "password123")
	svc := &fakeCreator{}
	var out bytes.Buffer

	err := RunCreate(context.Background(), svc,
		[]string{"-email", "root@example.com", "-name", "Root", "-role", "SUPERADMIN"},
		bufio.NewReader(strings.NewReader("")), &out)
	require.NoError(t, err)

	assert.Equal(t, "root@example.com", svc.email)
	assert.Equal(t, "password123", svc.password)
	assert.Equal(t, "Root", svc.name)
	assert.Equal(t, "SUPERADMIN", svc.role)
	assert.Contains(t, out.String(), "created with role SUPERADMIN")
}

func TestRunCreate_PromptsForMissingFields(t *testing.T) {
	stubPasswords(t, "password123", "password123")
	svc := &fakeCreator{}
	var out bytes.Buffer

	err := RunCreate(context.Background(), svc, nil,
		bufio.NewReader(strings.NewReader("ops@example.com\nOps\n")), &out)
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", svc.email)
	assert.Equal(t, "Ops", svc.name)
	assert.Equal(t, models.DefaultRole, svc.role)
	assert.Contains(t, out.String(), "Email\n> ")
}

func TestRunCreate_PasswordMismatch(t *testing.T) {
	stubPasswords(t, "password123", "password124")
	svc := &fakeCreator{}

	err := RunCreate(context.Background(), svc, []string{"-email", "a@example.com", "-name", "A"},
		bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Empty(t, svc.email)
}

func TestRunCreate_ShortPassword(t *testing.T) {
	stubPasswords(t, "short", "short")

	err := RunCreate(context.Background(), &fakeCreator{}, []string{"-email", "a@example.com", "-name", "A"},
		bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRunCreate_Conflict(t *testing.T) {
	stubPasswords(t, "password123", "password123")

	err := RunCreate(context.Background(), &fakeCreator{err: common.ErrorConflict},
		[]string{"-email", "a@example.com", "-name", "A"},
		bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRunCreate_MissingNameOnEOF(t *testing.T) {
	stubPasswords(t)

	err := RunCreate(context.Background(), &fakeCreator{}, []string{"-email", "a@example.com"},
		bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunCreate_TrimsEmailAndName(t *testing.T) {
	stubPasswords(t, "password123", "password123")
	svc := &fakeCreator{}

	err := RunCreate(context.Background(), svc, []string{"-email", " Alice@example.com ", "-name", "  Alice "},
		bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "Alice@example.com", svc.email)
	assert.Equal(t, "Alice", svc.name)
}

func TestRunCreate_InvalidEmail(t *testing.T) {
	for _, email := range []string{"alice", "Alice <alice@example.com>", "   "} {
		t.Run(email, func(t *testing.T) {
			stubPasswords(t, "password123", "password123")
			svc := &fakeCreator{}

			err := RunCreate(context.Background(), svc, []string{"-email", email, "-name", "Alice"},
				bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Empty(t, svc.email)
		})
	}
}

func TestRunCreate_BadFlag(t *testing.T) {
	err := RunCreate(context.Background(), &fakeCreator{}, []string{"-bogus"},
		bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestGetSimpleText_PartialLineOnEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("  hello  ")), "Prompt", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, "Prompt\n> ", out.String())
}
