package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"deadline", context.DeadlineExceeded, domain.EUNAVAILABLE},
		{"wrapped cancel", fmt.Errorf("query: %w", context.Canceled), domain.EUNAVAILABLE},
		{"connection exception", &pgconn.PgError{Code: "08006"}, domain.EUNAVAILABLE},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, domain.EUNAVAILABLE},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, domain.EUNAVAILABLE},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.EUNAVAILABLE},
		{"check violation", &pgconn.PgError{Code: "23514"}, domain.EINTERNAL},
		{"short code", &pgconn.PgError{Code: "0"}, domain.EINTERNAL},
		{"plain", errors.New("boom"), domain.EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dbError(tt.err, "test.op", "failed")
			if code := domain.ErrorCode(got); code != tt.want {
				t.Errorf("dbError(%v) code = %q, want %q", tt.err, code, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("dbError(%v) does not wrap the cause", tt.err)
			}
		})
	}

	if dbError(nil, "test.op", "failed") != nil {
		t.Error("dbError(nil) should be nil")
	}
}

func TestPgConversions(t *testing.T) {
	if pgText("").Valid {
		t.Error("pgText(\"\") should be NULL")
	}
	if !pgTextFromPtr(new(string)).Valid {
		t.Error("pgTextFromPtr(&\"\") should be valid")
	}
	if pgInt4(0).Valid {
		t.Error("pgInt4(0) should be NULL")
	}
	id := uuid.New()
	if got := fromPgUUID(pgUUID(id)); got != id {
		t.Errorf("uuid round trip = %s, want %s", got, id)
	}
	if !isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Error("wrapped 23505 should be a unique violation")
	}
}
