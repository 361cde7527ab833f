// Package admin implements the provisioning commands of cmd/admin.
package admin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

const minPasswordLength = 8

var ErrPasswordMismatch = errors.New("passwords do not match")

// Creator stores a new administrator.
type Creator interface {
	CreateAdministrator(ctx context.Context, email, password, name, role string) (*models.Administrator, error)
}

// RunCreate implements "admin create [-email E] [-name N] [-role R]". Missing
// email and name are prompted for; the password is always read from the
// terminal twice.
func RunCreate(ctx context.Context, svc Creator, args []string, reader *bufio.Reader, w io.Writer) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(w)
	email := fs.String("email", "", "administrator email")
	name := fs.String("name", "", "display name")
	role := fs.String("role", models.DefaultRole, "role")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = GetSimpleText(reader, "Email", w); err != nil {
			return err
		}
	}
	if *name == "" {
		if *name, err = GetSimpleText(reader, "Name", w); err != nil {
			return err
		}
	}
	*email = strings.TrimSpace(*email)
	*name = strings.TrimSpace(*name)
	if *email == "" || *name == "" {
		return fmt.Errorf("%w: email and name are required", common.ErrorValidation)
	}
	if !models.IsValidEmail(*email) {
		return fmt.Errorf("%w: invalid email %q", common.ErrorValidation, *email)
	}

	password, err := GetPassword("Password", w)
	if err != nil {
		return err
	}
	confirm, err := GetPassword("Repeat password", w)
	if err != nil {
		return err
	}
	if !bytes.Equal(password, confirm) {
		return ErrPasswordMismatch
	}
	if utf8.RuneCount(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	admin, err := svc.CreateAdministrator(ctx, *email, string(password), *name, *role)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return fmt.Errorf("administrator %s already exists", *email)
		}
		return err
	}

	fmt.Fprintf(w, "Administrator %s (%s) created with role %s\n", admin.Email, admin.ID, admin.Role)
	return nil
}
