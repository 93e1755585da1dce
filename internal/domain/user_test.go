package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel() // Enable parallel execution

	user, err := NewUser("alice", "alice@example.com", "password123")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Username != "alice" {
		t.Errorf("Expected username %q, got %q", "alice", user.Username)
	}

	if user.Email != "alice@example.com" {
		t.Errorf("Expected email %q, got %q", "alice@example.com", user.Email)
	}

	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
}

func TestUserValidation(t *testing.T) {
	t.Parallel() // Enable parallel execution

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "alice", "alice@example.com", "password123", nil},
		{"empty username", "", "alice@example.com", "password123", ErrEmptyUsername},
		{"empty email", "alice", "", "password123", ErrEmptyEmail},
		{"malformed email", "alice", "not-an-email", "password123", ErrInvalidEmail},
		{"email missing domain dot", "alice", "alice@localhost", "password123", ErrInvalidEmail},
		{"password too short", "alice", "alice@example.com", "short", ErrPasswordTooShort},
		{"password too long", "alice", "alice@example.com", strings.Repeat("x", 73), ErrPasswordTooLong},
		{"empty password", "alice", "alice@example.com", "", ErrEmptyPassword},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel() // Enable parallel execution

			_, err := NewUser(tc.username, tc.email, tc.password)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUserValidationHashedOnly(t *testing.T) {
	t.Parallel() // Enable parallel execution

	// Users loaded from storage carry only the hash.
	user := &User{
		ID:             uuid.New(),
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}

	if err := user.Validate(); err != nil {
		t.Errorf("Expected no error for hashed-only user, got %v", err)
	}
}

func TestUserFullName(t *testing.T) {
	t.Parallel() // Enable parallel execution

	user := &User{Username: "alice"}
	if got := user.FullName(); got != "alice" {
		t.Errorf("Expected fallback to username, got %q", got)
	}

	user.FirstName = "Alice"
	if got := user.FullName(); got != "Alice" {
		t.Errorf("Expected %q, got %q", "Alice", got)
	}

	user.LastName = "Smith"
	if got := user.FullName(); got != "Alice Smith" {
		t.Errorf("Expected %q, got %q", "Alice Smith", got)
	}
}
