// Command staffctl creates console staff accounts directly in the database.
// It is the only way to add the first member of a department; later
// members are registered over HTTP by a signed in colleague.
//
//	STAFF_PASSWORD=secret staffctl -login fin -department financial -- -config config/local.yml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/KretovDmitry/order-workflow/internal/application/services"
	"github.com/KretovDmitry/order-workflow/internal/config"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/infrastructure/db/postgres"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
)

// PasswordEnv holds the password of the created member.
const PasswordEnv = "STAFF_PASSWORD"

type options struct {
	login      string
	password   string
	department entities.Department
	// Arguments left for the configuration loader.
	rest []string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	opts, err := parseArgs(args, os.Getenv(PasswordEnv))
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.rest)
	if err != nil {
		return err
	}

	logger := logger.New(cfg)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := postgres.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	repo, err := postgres.NewStaffRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init staff repository: %w", err)
	}

	authService, err := services.NewAuthService(repo, logger, cfg)
	if err != nil {
		return fmt.Errorf("failed to init auth service: %w", err)
	}

	member, err := authService.Register(ctx, opts.login, opts.password, opts.department)
	if err != nil {
		return err
	}

	logger.Infof("created %s staff %q with id %d", member.Department, member.Login, member.ID)
	return nil
}

func parseArgs(args []string, password string) (*options, error) {
	fs := flag.NewFlagSet("staffctl", flag.ContinueOnError)

	login := fs.String("login", "", "staff login")
	department := fs.String("department", "", "staff department")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *login == "" {
		return nil, errors.New("login required")
	}
	if password == "" {
		return nil, fmt.Errorf("password required in %s", PasswordEnv)
	}

	dept, err := entities.ParseDepartment(*department)
	if err != nil {
		return nil, err
	}

	return &options{
		login:      *login,
		password:   password,
		department: dept,
		rest:       fs.Args(),
	}, nil
}
