// Command createsuperuser creates an admin account or resets the password
// and flags of an existing one.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/aiowing/aiowing/internal/auth"
	"github.com/aiowing/aiowing/internal/model"
	"github.com/aiowing/aiowing/internal/repository"
)

type output struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
	Superuser bool   `json:"superuser"`
}

type options struct {
	databaseURL string
	email       string
	password    string
	inactive    bool
	noSuperuser bool
	migrate     bool
	format      string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func parseFlags(args []string, getenv func(string) string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	fs.StringVar(&opts.databaseURL, "database-url", getenv("DATABASE_URL"), "PostgreSQL connection string")
	fs.StringVar(&opts.email, "email", "", "Admin email (required)")
	fs.StringVar(&opts.password, "password", getenv("ADMIN_PASSWORD"), "Admin password (default $ADMIN_PASSWORD)")
	fs.BoolVar(&opts.inactive, "inactive", false, "Create the account disabled")
	fs.BoolVar(&opts.noSuperuser, "no-superuser", false, "Create the account without admin access")
	fs.BoolVar(&opts.migrate, "migrate", true, "Apply pending migrations first")
	fs.StringVar(&opts.format, "format", "plain", "Output format: plain or json")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.email = strings.TrimSpace(opts.email)
	opts.format = strings.ToLower(opts.format)

	switch {
	case opts.databaseURL == "":
		return opts, errors.New("DATABASE_URL is required")
	case opts.email == "":
		return opts, errors.New("--email is required")
	case opts.password == "":
		return opts, errors.New("--password or ADMIN_PASSWORD is required")
	case opts.format != "plain" && opts.format != "json":
		return opts, errors.New("invalid format; use plain or json")
	}
	return opts, nil
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if opts.migrate {
		m, err := repository.NewMigrator(opts.databaseURL, logger)
		if err != nil {
			return err
		}
		err = m.Up(ctx)
		_ = m.Close()
		if err != nil {
			return err
		}
	}

	repo, err := repository.New(ctx, opts.databaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	user, err := buildUser(opts, time.Now().UTC())
	if err != nil {
		return err
	}

	stored, err := repo.UpsertUser(ctx, user)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	return writeOutput(stdout, opts.format, output{
		UserID:    stored.ID,
		Email:     stored.Email,
		Active:    stored.Active,
		Superuser: stored.Superuser,
	})
}

func buildUser(opts options, now time.Time) (*model.User, error) {
	hash, err := auth.HashPassword(opts.password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &model.User{
		ID:           ulid.Make().String(),
		Email:        opts.email,
		PasswordHash: hash,
		Active:       !opts.inactive,
		Superuser:    !opts.noSuperuser,
		CreatedAt:    now,
	}, nil
}

func writeOutput(w io.Writer, format string, out output) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	_, err := fmt.Fprintf(w, "%s %s active=%t superuser=%t\n", out.UserID, out.Email, out.Active, out.Superuser)
	return err
}
