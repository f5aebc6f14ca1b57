package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	if _, err := HashPassword("12345"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("HashPassword(short) error = %v, want ErrPasswordTooShort", err)
	}
	if _, err := HashPassword(strings.Repeat("x", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("HashPassword(long) error = %v, want ErrPasswordTooLong", err)
	}

	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "secret" {
		t.Fatal("HashPassword() returned the plain password")
	}

	if err := VerifyPassword("secret", hash); err != nil {
		t.Errorf("VerifyPassword(correct) error = %v", err)
	}
	if err := VerifyPassword("Secret", hash); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("VerifyPassword(wrong) error = %v, want ErrPasswordMismatch", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	current, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if NeedsRehash(current) {
		t.Error("NeedsRehash(current cost) = true")
	}

	old, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !NeedsRehash(string(old)) {
		t.Error("NeedsRehash(min cost) = false")
	}
	if NeedsRehash("not a hash") {
		t.Error("NeedsRehash(garbage) = true")
	}
	if err := VerifyPassword("secret", "not a hash"); err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("VerifyPassword(garbage hash) error = %v", err)
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "bookworld", time.Hour)
	user := &domain.User{ID: uuid.New(), Email: "reader@example.com", IsAdmin: true}

	token, expires, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Errorf("Issue() expiry %v is not in the future", expires)
	}

	p, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.UserID != user.ID || p.Email != user.Email || !p.IsAdmin {
		t.Errorf("Parse() = %+v, want user %s admin", p, user.ID)
	}
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "bookworld", time.Hour)
	user := &domain.User{ID: uuid.New(), Email: "reader@example.com"}
	token, _, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	other := NewTokenIssuer("other-secret", "bookworld", time.Hour)
	if _, err := other.Parse(token); !domain.IsCode(err, domain.EUNAUTHORIZED) {
		t.Errorf("Parse(wrong key) error = %v, want unauthorized", err)
	}

	wrongIssuer := NewTokenIssuer("test-secret", "someone-else", time.Hour)
	if _, err := wrongIssuer.Parse(token); !domain.IsCode(err, domain.EUNAUTHORIZED) {
		t.Errorf("Parse(wrong issuer) error = %v, want unauthorized", err)
	}

	later := NewTokenIssuer("test-secret", "bookworld", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Parse(token)
	if !domain.IsCode(err, domain.EUNAUTHORIZED) {
		t.Fatalf("Parse(expired) error = %v, want unauthorized", err)
	}
	if got := domain.ErrorMessage(err); got != "Your session has expired. Please sign in again." {
		t.Errorf("Parse(expired) message = %q", got)
	}

	if _, err := issuer.Parse("not-a-token"); !domain.IsCode(err, domain.EUNAUTHORIZED) {
		t.Errorf("Parse(garbage) error = %v, want unauthorized", err)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{CodeWeakPassword, "Password should be at least 6 characters."},
		{CodeAccountDisabled, "This account has been disabled."},
		{CodeExpiredIDToken, "Your sign-in has expired. Please sign in again."},
		{"auth/something-new", "An error occurred. Please try again."},
		{"", "An error occurred. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Message(tt.code); got != tt.want {
				t.Errorf("Message(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestVerifyError(t *testing.T) {
	cause := errors.New("token rejected")

	if got := firebaseCode(cause); got != CodeInvalidIDToken {
		t.Fatalf("firebaseCode(unknown) = %q, want %q", got, CodeInvalidIDToken)
	}

	tests := []struct {
		code   string
		status string
	}{
		{CodeInvalidIDToken, domain.EUNAUTHORIZED},
		{CodeExpiredIDToken, domain.EUNAUTHORIZED},
		{CodeRevokedIDToken, domain.EUNAUTHORIZED},
		{CodeAccountDisabled, domain.EFORBIDDEN},
		{CodeNetworkFailed, domain.EUNAVAILABLE},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := verifyError(cause, tt.code)
			if got := domain.ErrorCode(err); got != tt.status {
				t.Errorf("code = %q, want %q", got, tt.status)
			}
			if got := domain.ErrorMessage(err); got != Message(tt.code) {
				t.Errorf("message = %q, want %q", got, Message(tt.code))
			}
			if !errors.Is(err, cause) {
				t.Error("cause not wrapped")
			}
		})
	}
}
