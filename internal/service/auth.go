package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/bookworld/internal/auth"
	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/telemetry"
)

// ErrGoogleSignInDisabled is returned when no identity verifier is configured.
var ErrGoogleSignInDisabled = domain.Errorf(domain.ENOTIMPL, "auth.google", "Google sign-in is not enabled")

// AuthService signs users in and issues bearer tokens.
type AuthService interface {
	Register(ctx context.Context, params domain.RegisterParams) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// SignInWithGoogle verifies an identity provider token, creating the
	// account on first use.
	SignInWithGoogle(ctx context.Context, idToken string) (*AuthResult, error)

	// Authenticate resolves a bearer token to the caller. Admin claims are
	// confirmed against the stored account on every call.
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// AuthResult is a signed-in user and their token.
type AuthResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Tokens issues and parses bearer tokens.
type Tokens interface {
	Issue(user *domain.User) (string, time.Time, error)
	Parse(token string) (*domain.Principal, error)
}

var _ Tokens = (*auth.TokenIssuer)(nil)

type authService struct {
	users    domain.UserService
	tokens   Tokens
	verifier auth.IdentityVerifier
	events   events.Publisher
	logger   *slog.Logger
}

// NewAuthService creates an AuthService. verifier may be nil, which disables
// Google sign-in.
func NewAuthService(users domain.UserService, tokens Tokens, verifier auth.IdentityVerifier, pub events.Publisher, logger *slog.Logger) AuthService {
	if pub == nil {
		pub = events.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		events:   pub,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, params domain.RegisterParams) (*AuthResult, error) {
	user, err := s.users.Register(ctx, params)
	if err != nil {
		return nil, err
	}

	if telemetry.Business != nil {
		telemetry.Business.Signups.WithLabelValues(domain.AuthProviderPassword).Inc()
	}
	return s.signedIn(ctx, user, true)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.NewValidationError("auth.login", "email", "Email and password are required")
	}

	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		s.loginFailed(err)
		return nil, err
	}
	return s.signedIn(ctx, user, false)
}

func (s *authService) SignInWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.verifier == nil {
		return nil, ErrGoogleSignInDisabled
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, domain.NewValidationError("auth.google", "idToken", "ID token is required")
	}

	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		s.loginFailed(err)
		return nil, err
	}
	if identity.Provider == "" {
		identity.Provider = domain.AuthProviderGoogle
	}

	user, err := s.users.UpsertFederated(ctx, *identity)
	if err != nil {
		s.loginFailed(err)
		return nil, err
	}
	return s.signedIn(ctx, user, false)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	principal, err := s.tokens.Parse(token)
	if err != nil || !principal.IsAdmin {
		return principal, err
	}

	user, err := s.users.GetUser(ctx, principal.UserID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil, domain.Unauthorized("auth.authenticate", "Account no longer exists")
	case err != nil:
		return nil, err
	case !user.IsActive:
		return nil, domain.ErrAccountDisabled
	}
	if !user.IsAdmin {
		s.logger.Warn("admin claim no longer held", "user_id", user.ID)
	}
	principal.IsAdmin = user.IsAdmin
	return principal, nil
}

func (s *authService) signedIn(ctx context.Context, user *domain.User, isNew bool) (*AuthResult, error) {
	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		return nil, domain.Internal(err, "auth.issue_token", "failed to issue token")
	}

	s.logger.Info("user signed in", "user_id", user.ID, "provider", user.AuthProvider, "new", isNew)
	if telemetry.Business != nil {
		telemetry.Business.Logins.WithLabelValues(user.AuthProvider).Inc()
	}
	s.events.Publish(ctx, events.NewUserSignedIn(user, isNew))

	return &AuthResult{User: user, Token: token, ExpiresAt: expires}, nil
}

func (s *authService) loginFailed(err error) {
	if telemetry.Business == nil {
		return
	}
	reason := "error"
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		reason = "invalid_credentials"
	case errors.Is(err, domain.ErrAccountDisabled):
		reason = "disabled"
	case domain.IsCode(err, domain.EUNAUTHORIZED):
		reason = "invalid_token"
	}
	telemetry.Business.LoginFailed.WithLabelValues(reason).Inc()
}
