package db

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
)

func TestExtractTableFromOperation(t *testing.T) {
	tests := []struct {
		operation string
		want      string
	}{
		{"insert message", "messages"},
		{"list conversation messages", "messages"},
		{"find accepted partners", "applications"},
		{"update application status", "applications"},
		{"list jobs by owner", "jobs"},
		{"find user by id", "users"},
		{"ping", "unknown"},
	}

	for _, tt := range tests {
		if got := extractTableFromOperation(tt.operation); got != tt.want {
			t.Errorf("extractTableFromOperation(%q) = %q, want %q", tt.operation, got, tt.want)
		}
	}
}

func TestHandleQueryError(t *testing.T) {
	notFound := errors.New("not found")

	if err := HandleQueryError(nil, notFound, "find user by id", time.Now()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := HandleQueryError(pgx.ErrNoRows, notFound, "find user by id", time.Now()); !errors.Is(err, notFound) {
		t.Fatalf("expected notFound, got %v", err)
	}

	boom := errors.New("boom")
	err := HandleQueryError(boom, notFound, "find user by id", time.Now())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("expected unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "40001"}) {
		t.Error("serialization failure is not a unique violation")
	}
	if IsUniqueViolation(errors.New("plain")) {
		t.Error("plain error is not a unique violation")
	}
}

func TestIsRetryableError(t *testing.T) {
	if !isRetryableError(&pgconn.PgError{Code: "40P01"}) {
		t.Error("deadlock should be retryable")
	}
	if isRetryableError(pgx.ErrNoRows) {
		t.Error("no rows should not be retryable")
	}
	if isRetryableError(nil) {
		t.Error("nil should not be retryable")
	}
}
