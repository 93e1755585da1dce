package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// DefaultPageLimit is used when a caller does not specify a page size.
const DefaultPageLimit = 10

// TaskFilter describes the selection criteria for a task listing.
// AssignedTo is mandatory: every listing is scoped to the tasks
// assigned to the calling user. The remaining fields are optional
// refinements; nil/empty means "no constraint".
type TaskFilter struct {
	AssignedTo uuid.UUID
	Status     *domain.TaskStatus
	Priority   *domain.TaskPriority
	CategoryID *uuid.UUID

	// Search matches case-insensitively as a substring against the
	// task title OR description.
	Search string
}

// Page describes a 1-indexed page request.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the row offset for the page, normalizing out-of-range
// values (page < 1 becomes 1, limit < 1 becomes DefaultPageLimit).
func (p Page) Offset() int {
	return (p.normalized().Number - 1) * p.normalized().Limit
}

// EffectiveLimit returns the page size after normalization.
func (p Page) EffectiveLimit() int {
	return p.normalized().Limit
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	return p
}

// StatusCount is one bucket of the per-status aggregation.
type StatusCount struct {
	Status domain.TaskStatus `json:"status"`
	Count  int               `json:"count"`
}

// PriorityCount is one bucket of the per-priority aggregation.
type PriorityCount struct {
	Priority domain.TaskPriority `json:"priority"`
	Count    int                 `json:"count"`
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// The task must be valid according to domain validation rules.
	// Returns ErrInvalidEntity (wrapped) if a referenced user or
	// category does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, including its embedded
	// comments. Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves a page of tasks matching the filter, sorted by
	// creation time descending (newest first), plus the total number of
	// matching tasks. A page beyond the end of the result set yields an
	// empty slice and no error.
	List(ctx context.Context, filter TaskFilter, page Page) ([]*domain.Task, int, error)

	// Update saves changes to an existing task. The stored created_by
	// column is never touched; callers enforce field-level immutability
	// before calling. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID. Embedded comments
	// are stored in the task row, so they are removed with it.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AppendComment atomically appends a comment to the task's comment
	// list and returns the full list in insertion order. The append must
	// be a single atomic operation at the database level so two
	// concurrent appends both survive; implementations must not
	// read-modify-write the whole list.
	// Returns ErrTaskNotFound if the task does not exist.
	AppendComment(ctx context.Context, taskID uuid.UUID, comment *domain.Comment) ([]domain.Comment, error)

	// CountAssigned returns the total number of tasks assigned to the user.
	CountAssigned(ctx context.Context, userID uuid.UUID) (int, error)

	// CountByStatus returns per-status counts of the user's assigned
	// tasks, in a stable order. Statuses with no tasks are omitted.
	CountByStatus(ctx context.Context, userID uuid.UUID) ([]StatusCount, error)

	// CountByPriority returns per-priority counts of the user's assigned
	// tasks, in a stable order. Priorities with no tasks are omitted.
	CountByPriority(ctx context.Context, userID uuid.UUID) ([]PriorityCount, error)
}
