// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/bookworld/internal/auth"
	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// AdminStore is the subset of the query layer the admin bootstrap needs.
type AdminStore interface {
	GetUserByEmail(ctx context.Context, email string) (repository.User, error)
	CreateUser(ctx context.Context, arg repository.CreateUserParams) (repository.User, error)
	SetUserAdmin(ctx context.Context, arg repository.SetUserAdminParams) error
}

// AdminConfig contains configuration for the initial admin user.
type AdminConfig struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if c.Password == "" {
		return errors.New("admin password is required")
	}
	if len(c.Password) < 12 {
		return errors.New("admin password must be at least 12 characters")
	}
	return nil
}

// EnsureAdmin creates the initial admin user if it doesn't exist.
// It is idempotent and safe to call on every startup.
//
// An existing customer account with the configured email is promoted to
// admin; its password is left alone. A nil config, or one without email and
// password, is skipped with a warning.
func EnsureAdmin(ctx context.Context, store AdminStore, cfg *AdminConfig, logger *slog.Logger) error {
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping admin creation - BOOKWORLD_ADMIN_EMAIL or BOOKWORLD_ADMIN_PASSWORD not set",
			"hint", "Set these environment variables to create an admin user on first startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	email := domain.NormalizeEmail(cfg.Email)

	existing, err := store.GetUserByEmail(ctx, email)
	if err == nil {
		if existing.IsAdmin {
			logger.Info("bootstrap: admin user already exists", "email", email)
			return nil
		}
		if err := store.SetUserAdmin(ctx, repository.SetUserAdminParams{ID: existing.ID, IsAdmin: true}); err != nil {
			return fmt.Errorf("failed to promote admin user: %w", err)
		}
		logger.Info("bootstrap: existing user promoted to admin", "email", email)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	firstName := cfg.FirstName
	if firstName == "" {
		firstName = "Admin"
	}
	lastName := cfg.LastName
	if lastName == "" {
		lastName = "User"
	}

	user, err := store.CreateUser(ctx, repository.CreateUserParams{
		Email:        email,
		PasswordHash: pgtype.Text{String: passwordHash, Valid: true},
		FirstName:    firstName,
		LastName:     lastName,
		AuthProvider: domain.AuthProviderPassword,
		IsAdmin:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("bootstrap: admin user created successfully",
		"email", email,
		"user_id", user.ID.Bytes,
	)

	return nil
}
