package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// PasswordVerifier defines the interface for comparing a password with a hash.
type PasswordVerifier interface {
	// Compare checks if the given password matches the stored hash.
	// Returns nil if they match, or an error if they don't match or if
	// the comparison fails.
	Compare(ctx context.Context, hashedPassword, password string) error

	// Hash generates a hash from the given password.
	Hash(ctx context.Context, password string) (string, error)
}

// bcryptVerifier implements PasswordVerifier using the bcrypt algorithm.
type bcryptVerifier struct {
	cost int
}

var _ PasswordVerifier = (*bcryptVerifier)(nil)

// NewBcryptVerifier creates a PasswordVerifier backed by bcrypt with the
// given cost. Costs outside bcrypt's supported range fall back to the
// library default.
func NewBcryptVerifier(cost int) PasswordVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptVerifier{cost: cost}
}

// Compare checks if the given password matches the stored bcrypt hash.
func (v *bcryptVerifier) Compare(ctx context.Context, hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("password does not match: %w", err)
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}

// Hash generates a bcrypt hash from the given password. Passwords longer
// than 72 bytes are rejected up front since bcrypt silently truncates them.
func (v *bcryptVerifier) Hash(ctx context.Context, password string) (string, error) {
	if len(password) > 72 {
		return "", domain.ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
