package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	t.Run("matches sql.ErrNoRows", func(t *testing.T) {
		if !isNotFound(sql.ErrNoRows) {
			t.Fatalf("expected true for sql.ErrNoRows")
		}
	})

	t.Run("matches wrapped sql.ErrNoRows", func(t *testing.T) {
		if !isNotFound(fmt.Errorf("get user: %w", sql.ErrNoRows)) {
			t.Fatalf("expected true for wrapped sql.ErrNoRows")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isNotFound(errors.New("boom")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pq.Error{Code: "23505", Constraint: "users_email_key"}

	t.Run("matches any constraint when unscoped", func(t *testing.T) {
		if !isUniqueViolation(uniqueErr, "") {
			t.Fatalf("expected true for 23505")
		}
	})

	t.Run("matches named constraint", func(t *testing.T) {
		if !isUniqueViolation(uniqueErr, "users_email_key") {
			t.Fatalf("expected true for matching constraint")
		}
	})

	t.Run("ignores other constraint", func(t *testing.T) {
		if isUniqueViolation(uniqueErr, "pool_participants_pool_id_user_id_key") {
			t.Fatalf("expected false for different constraint")
		}
	})

	t.Run("ignores other codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}, "") {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(errors.New("pq: duplicate key"), "") {
			t.Fatalf("expected false for non-pq error")
		}
	})
}

func TestNullHelpers(t *testing.T) {
	t.Run("null int64 to int pointer", func(t *testing.T) {
		if got := nullInt64ToIntPtr(sql.NullInt64{Int64: 3, Valid: true}); got == nil || *got != 3 {
			t.Fatalf("expected 3, got %v", got)
		}
		if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
			t.Fatalf("expected nil for invalid value, got %v", got)
		}
	})

	t.Run("null bool to pointer", func(t *testing.T) {
		if got := nullBoolToPtr(sql.NullBool{Bool: true, Valid: true}); got == nil || !*got {
			t.Fatalf("expected true, got %v", got)
		}
		if got := nullBoolToPtr(sql.NullBool{}); got != nil {
			t.Fatalf("expected nil for invalid value, got %v", got)
		}
	})

	t.Run("empty string to nil pointer", func(t *testing.T) {
		if got := strPtrOrNil(""); got != nil {
			t.Fatalf("expected nil for empty string, got %v", got)
		}
		if got := strPtrOrNil("x"); got == nil || *got != "x" {
			t.Fatalf("expected pointer to x, got %v", got)
		}
	})
}
