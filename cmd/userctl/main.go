package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"loginhub/internal/config"
	"loginhub/internal/migrations"
	"loginhub/internal/repository"
	"loginhub/internal/repository/postgres"
	"loginhub/internal/repository/sqlite"
	"loginhub/internal/service"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	username := flag.String("username", "", "username of the account to create")
	email := flag.String("email", "", "email of the account to create")
	password := flag.String("password", "", "password; prompted without echo when omitted")
	flag.Parse()

	if err := run(*username, *email, *password); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(username, email, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if strings.TrimSpace(password) == "" {
		password, err = promptPassword()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	ctx := context.Background()

	db, dialect, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db, dialect); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var users repository.UserRepository
	if cfg.Database.Driver == "postgres" {
		users = postgres.NewUserRepository(db)
	} else {
		users = sqlite.NewUserRepository(db)
	}

	user, err := service.NewUserService(users).Register(ctx, service.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created user %s <%s>\n", user.Username, user.Email)
	return nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func openDatabase(cfg config.Config) (*sql.DB, string, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, "", err
		}
		return db, "sqlite3", nil
	case "postgres":
		if cfg.Database.DSN == "" {
			return nil, "", fmt.Errorf("database dsn is required for postgres")
		}
		db, err := postgres.Open(cfg.Database.DSN)
		if err != nil {
			return nil, "", err
		}
		return db, "pgx", nil
	default:
		return nil, "", fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
