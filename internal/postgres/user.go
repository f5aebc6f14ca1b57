package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/bookworld/internal/auth"
	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/repository"
	"github.com/dukerupert/bookworld/internal/storage"
	"github.com/dukerupert/bookworld/internal/telemetry"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// UserService implements domain.UserService using PostgreSQL.
type UserService struct {
	repo    repository.Querier
	storage storage.Storage
	logger  *slog.Logger
	now     func() time.Time
}

// Compile-time check to ensure UserService implements domain.UserService.
var _ domain.UserService = (*UserService)(nil)

// NewUserService creates a new UserService. store may be nil when profile
// images are not needed.
func NewUserService(repo repository.Querier, store storage.Storage, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		repo:    repo,
		storage: store,
		logger:  logger,
		now:     time.Now,
	}
}

func userFromRow(u repository.User) *domain.User {
	user := &domain.User{
		ID:           fromPgUUID(u.ID),
		Email:        u.Email,
		PasswordHash: u.PasswordHash.String,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone.String,
		Address: domain.Address{
			Street:  u.Street.String,
			City:    u.City.String,
			State:   u.State.String,
			ZipCode: u.ZipCode.String,
			Country: u.Country,
		},
		Bio:          u.Bio.String,
		ProfileImage: u.ProfileImage.String,
		AuthProvider: u.AuthProvider,
		IsAdmin:      u.IsAdmin,
		IsActive:     u.IsActive,
		CreatedAt:    fromPgTime(u.CreatedAt),
		UpdatedAt:    fromPgTime(u.UpdatedAt),
	}
	if u.LastLoginAt.Valid {
		t := u.LastLoginAt.Time
		user.LastLoginAt = &t
	}
	return user
}

// =============================================================================
// Registration and sign-in
// =============================================================================

func (s *UserService) Register(ctx context.Context, params domain.RegisterParams) (*domain.User, error) {
	const op = "user.register"

	email := domain.NormalizeEmail(params.Email)
	if email == "" {
		return nil, domain.NewValidationError(op, "email", "Email is required")
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.NewValidationError(op, "password", auth.Message(auth.CodeWeakPassword))
		}
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, domain.NewValidationError(op, "password", "Password must be at most 72 characters")
		}
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	row, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		Email:        email,
		PasswordHash: pgText(hash),
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		Phone:        pgText(strings.TrimSpace(params.Phone)),
		AuthProvider: domain.AuthProviderPassword,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailInUse
		}
		return nil, dbError(err, op, "failed to create user")
	}

	user := userFromRow(row)
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate checks the password and records the sign-in time. A failure
// to record the time does not fail the sign-in.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	const op = "user.authenticate"

	row, err := s.repo.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, dbError(err, op, "failed to load user")
	}

	// Federated accounts carry no password hash.
	if !row.PasswordHash.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(password, row.PasswordHash.String); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.Internal(err, op, "failed to verify password")
	}
	if !row.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	user := userFromRow(row)
	if auth.NeedsRehash(row.PasswordHash.String) {
		s.rehash(ctx, user, password)
	}
	s.touchLastLogin(ctx, user)
	return user, nil
}

// UpsertFederated returns the account for identity's email, creating it on
// first sign-in.
func (s *UserService) UpsertFederated(ctx context.Context, identity domain.FederatedIdentity) (*domain.User, error) {
	const op = "user.upsert_federated"

	email := domain.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, domain.NewValidationError(op, "email", "Email is required")
	}

	row, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !row.IsActive {
			return nil, domain.ErrAccountDisabled
		}
		user := userFromRow(row)
		s.touchLastLogin(ctx, user)
		return user, nil
	case !isNoRows(err):
		return nil, dbError(err, op, "failed to load user")
	}

	first, last := splitName(identity.Name)
	provider := identity.Provider
	if provider == "" {
		provider = domain.AuthProviderGoogle
	}

	row, err = s.repo.CreateUser(ctx, repository.CreateUserParams{
		Email:        email,
		FirstName:    first,
		LastName:     last,
		ProfileImage: pgText(identity.Picture),
		AuthProvider: provider,
	})
	if err != nil {
		// A concurrent first sign-in created the row; use it.
		if isUniqueViolation(err) {
			row, err = s.repo.GetUserByEmail(ctx, email)
			if err == nil {
				return userFromRow(row), nil
			}
		}
		return nil, dbError(err, op, "failed to create user")
	}

	user := userFromRow(row)
	s.logger.Info("federated user created", "user_id", user.ID, "provider", provider)
	if telemetry.Business != nil {
		telemetry.Business.Signups.WithLabelValues(provider).Inc()
	}
	s.touchLastLogin(ctx, user)
	return user, nil
}

// rehash upgrades a stored hash to the current cost. Failure only costs the
// upgrade; the sign-in still succeeds.
func (s *UserService) rehash(ctx context.Context, user *domain.User, password string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = s.repo.UpdateUserPassword(ctx, repository.UpdateUserPasswordParams{
			ID:           pgUUID(user.ID),
			PasswordHash: pgtype.Text{String: hash, Valid: true},
		})
	}
	if err != nil {
		s.logger.Warn("failed to upgrade password hash", "user_id", user.ID, "error", err)
	}
}

func (s *UserService) touchLastLogin(ctx context.Context, user *domain.User) {
	if err := s.repo.UpdateUserLastLogin(ctx, pgUUID(user.ID)); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
		return
	}
	now := s.now()
	user.LastLoginAt = &now
}

// splitName breaks a display name into first and last names.
func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "Reader", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

// =============================================================================
// Profile
// =============================================================================

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row, err := s.repo.GetUserByID(ctx, pgUUID(id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, dbError(err, "user.get", "failed to load user")
	}
	return userFromRow(row), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, params domain.UpdateProfileParams) (*domain.User, error) {
	const op = "user.update_profile"

	current, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	first := current.FirstName
	if params.FirstName != nil {
		first = strings.TrimSpace(*params.FirstName)
		if first == "" {
			return nil, domain.NewValidationError(op, "firstName", "First name is required")
		}
	}
	last := current.LastName
	if params.LastName != nil {
		last = strings.TrimSpace(*params.LastName)
	}
	phone := current.Phone
	if params.Phone != nil {
		phone = strings.TrimSpace(*params.Phone)
	}
	bio := current.Bio
	if params.Bio != nil {
		bio = strings.TrimSpace(*params.Bio)
	}
	addr := current.Address
	if params.Address != nil {
		addr = *params.Address
	}
	if strings.TrimSpace(addr.Country) == "" {
		addr.Country = domain.DefaultCountry
	}

	row, err := s.repo.UpdateUserProfile(ctx, repository.UpdateUserProfileParams{
		ID:        pgUUID(id),
		FirstName: first,
		LastName:  last,
		Phone:     pgText(phone),
		Bio:       pgText(bio),
		Street:    pgText(strings.TrimSpace(addr.Street)),
		City:      pgText(strings.TrimSpace(addr.City)),
		State:     pgText(strings.TrimSpace(addr.State)),
		ZipCode:   pgText(strings.TrimSpace(addr.ZipCode)),
		Country:   strings.TrimSpace(addr.Country),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, dbError(err, op, "failed to update profile")
	}
	return userFromRow(row), nil
}

// UploadProfileImage stores a new avatar and removes the previous one.
func (s *UserService) UploadProfileImage(ctx context.Context, id uuid.UUID, filename, contentType string, r io.Reader) (*domain.User, error) {
	const op = "user.upload_profile_image"

	if s.storage == nil {
		return nil, domain.Errorf(domain.ENOTIMPL, op, "Image uploads are not configured")
	}

	old, err := s.repo.GetUserByID(ctx, pgUUID(id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, dbError(err, op, "failed to load user")
	}

	key := storage.ProfileImageKey(id, filename, s.now())
	url, err := s.storage.Put(ctx, key, r, contentType)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.SetUserProfileImage(ctx, repository.SetUserProfileImageParams{
		ID:              pgUUID(id),
		ProfileImage:    pgText(url),
		ProfileImageKey: pgText(key),
	})
	if err != nil {
		s.deleteImage(ctx, key)
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, dbError(err, op, "failed to save profile image")
	}

	s.deleteImage(ctx, old.ProfileImageKey.String)
	return userFromRow(row), nil
}

func (s *UserService) deleteImage(ctx context.Context, key string) {
	if key == "" || s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete profile image", "key", key, "error", err)
	}
}
