package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dukerupert/bookworld/internal/auth"
	"github.com/dukerupert/bookworld/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users    map[string]repository.User
	lookup   error
	promoted []pgtype.UUID
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	if f.lookup != nil {
		return repository.User{}, f.lookup
	}
	u, ok := f.users[email]
	if !ok {
		return repository.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeStore) CreateUser(_ context.Context, arg repository.CreateUserParams) (repository.User, error) {
	u := repository.User{
		ID:           pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		FirstName:    arg.FirstName,
		LastName:     arg.LastName,
		IsAdmin:      arg.IsAdmin,
	}
	f.users[arg.Email] = u
	return u, nil
}

func (f *fakeStore) SetUserAdmin(_ context.Context, arg repository.SetUserAdminParams) error {
	f.promoted = append(f.promoted, arg.ID)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnsureAdmin_CreatesAdmin(t *testing.T) {
	store := &fakeStore{users: map[string]repository.User{}}
	cfg := &AdminConfig{Email: " Admin@BookWorld.test ", Password: "correct-horse-battery"}

	require.NoError(t, EnsureAdmin(context.Background(), store, cfg, quietLogger()))

	u, ok := store.users["admin@bookworld.test"]
	require.True(t, ok)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "Admin", u.FirstName)
	assert.NoError(t, auth.VerifyPassword(cfg.Password, u.PasswordHash.String))

	// second run is a no-op
	require.NoError(t, EnsureAdmin(context.Background(), store, cfg, quietLogger()))
	assert.Len(t, store.users, 1)
	assert.Empty(t, store.promoted)
}

func TestEnsureAdmin_PromotesExistingCustomer(t *testing.T) {
	id := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	store := &fakeStore{users: map[string]repository.User{
		"owner@bookworld.test": {ID: id, Email: "owner@bookworld.test"},
	}}

	err := EnsureAdmin(context.Background(), store, &AdminConfig{Email: "owner@bookworld.test", Password: "a-long-enough-password"}, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []pgtype.UUID{id}, store.promoted)
}

func TestEnsureAdmin_Skips(t *testing.T) {
	store := &fakeStore{users: map[string]repository.User{}}
	assert.NoError(t, EnsureAdmin(context.Background(), store, nil, quietLogger()))
	assert.NoError(t, EnsureAdmin(context.Background(), store, &AdminConfig{Email: "a@b.test"}, quietLogger()))
	assert.Empty(t, store.users)
}

func TestEnsureAdmin_Errors(t *testing.T) {
	store := &fakeStore{users: map[string]repository.User{}}
	err := EnsureAdmin(context.Background(), store, &AdminConfig{Email: "a@b.test", Password: "short"}, quietLogger())
	assert.ErrorContains(t, err, "at least 12 characters")

	store.lookup = errors.New("connection reset")
	err = EnsureAdmin(context.Background(), store, &AdminConfig{Email: "a@b.test", Password: "a-long-enough-password"}, quietLogger())
	assert.ErrorContains(t, err, "failed to check for existing admin")
}
