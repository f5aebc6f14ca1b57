package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "asha@example.com", FirstName: "Asha"}
	auth := &fakeAuth{
		login: func(email, password string) (*service.AuthResult, error) {
			if password != "secret1" {
				return nil, domain.ErrInvalidCredentials
			}
			return &service.AuthResult{User: user, Token: "jwt-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	h := NewAuthHandler(auth, nil)

	t.Run("success", func(t *testing.T) {
		rec := serve("POST /api/auth/login", h.Login, request(t, http.MethodPost, "/api/auth/login",
			map[string]any{"email": "asha@example.com", "password": "secret1"}, uuid.Nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "jwt-token", body["token"])
		assert.Equal(t, "asha@example.com", body["user"].(map[string]any)["email"])
		assert.NotContains(t, body["user"], "passwordHash")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := serve("POST /api/auth/login", h.Login, request(t, http.MethodPost, "/api/auth/login",
			map[string]any{"email": "asha@example.com", "password": "nope"}, uuid.Nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password", decode(t, rec)["error"])
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := serve("POST /api/auth/login", h.Login, request(t, http.MethodPost, "/api/auth/login",
			map[string]any{"email": "asha", "password": "secret1"}, uuid.Nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		fields := decode(t, rec)["fields"].(map[string]any)
		assert.Equal(t, "Please enter a valid email address.", fields["email"])
	})
}

func TestAuthHandler_MeRequiresUser(t *testing.T) {
	h := NewAuthHandler(&fakeAuth{}, nil)

	rec := serve("GET /api/auth/me", h.Me, request(t, http.MethodGet, "/api/auth/me", nil, uuid.Nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
