// Command admin provisions administrator accounts directly in the database.
//
// Usage:
//
//	admin create [-email E] [-name N] [-role R] [-d DSN] [-c config.json]
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/portfolio/internal/admin"
	"github.com/dmitrijs2005/portfolio/internal/flagx"
	"github.com/dmitrijs2005/portfolio/internal/server"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] != "create" {
		fmt.Fprintln(os.Stderr, "usage: admin create [-email E] [-name N] [-role R]")
		os.Exit(2)
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Migrate(ctx); err != nil {
		return err
	}

	args := flagx.FilterArgs(os.Args[2:], []string{"-email", "-name", "-role"})
	return admin.RunCreate(ctx, app.AuthService(), args, bufio.NewReader(os.Stdin), os.Stdout)
}
