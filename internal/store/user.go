package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user's password must
	// already be hashed. Returns ErrEmailExists or ErrUsernameExists if
	// the unique fields collide with an existing user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByIDs retrieves several users at once, keyed by ID. IDs that do
	// not resolve are simply absent from the result; it is the caller's
	// job to decide whether that matters.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error)

	// List retrieves all users ordered by username. Intended for
	// assignee pickers; callers should project to the minimal fields.
	List(ctx context.Context) ([]*domain.User, error)

	// Update saves changes to an existing user's profile fields.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error
}
