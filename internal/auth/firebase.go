package auth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/dukerupert/bookworld/internal/domain"
	"google.golang.org/api/option"
)

// IdentityVerifier checks an ID token from an external identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*domain.FederatedIdentity, error)
}

// FirebaseVerifier verifies Firebase ID tokens, which carry Google sign-in.
type FirebaseVerifier struct {
	client *fbauth.Client
}

var _ IdentityVerifier = (*FirebaseVerifier)(nil)

// NewFirebaseApp initialises the Firebase app shared by the verifier and
// the Firestore wishlist store.
func NewFirebaseApp(ctx context.Context, projectID, credentialsFile string) (*firebase.App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase: %w", err)
	}
	return app, nil
}

func NewFirebaseVerifier(ctx context.Context, app *firebase.App) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*domain.FederatedIdentity, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, domain.NewValidationError("auth.google", "idToken", "ID token is required")
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, verifyError(err, firebaseCode(err))
	}

	identity := &domain.FederatedIdentity{
		Subject:  token.UID,
		Provider: domain.AuthProviderGoogle,
	}
	identity.Email, _ = token.Claims["email"].(string)
	identity.Name, _ = token.Claims["name"].(string)
	identity.Picture, _ = token.Claims["picture"].(string)

	if identity.Email == "" {
		return nil, domain.Unauthorized("auth.google", "Google account has no email address")
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok && !verified {
		return nil, domain.Unauthorized("auth.google", "Google email address is not verified")
	}
	return identity, nil
}

// firebaseCode classifies a token verification failure.
func firebaseCode(err error) string {
	switch {
	case fbauth.IsUserDisabled(err):
		return CodeAccountDisabled
	case fbauth.IsIDTokenExpired(err):
		return CodeExpiredIDToken
	case fbauth.IsIDTokenRevoked(err):
		return CodeRevokedIDToken
	case fbauth.IsCertificateFetchFailed(err):
		return CodeNetworkFailed
	default:
		return CodeInvalidIDToken
	}
}

func verifyError(err error, code string) error {
	status := domain.EUNAUTHORIZED
	switch code {
	case CodeAccountDisabled:
		status = domain.EFORBIDDEN
	case CodeNetworkFailed:
		status = domain.EUNAVAILABLE
	}
	return domain.WrapError(err, status, "auth.google", Message(code))
}
