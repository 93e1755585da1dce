package service

import (
	"errors"
	"fmt"
)

// Common service-level errors
var (
	// ErrTaskAccessDenied is returned when the caller is authenticated
	// but the task's access policy does not grant them the attempted
	// operation. Existence is always resolved first: callers only see
	// this error for tasks that are actually there.
	ErrTaskAccessDenied = errors.New("not authorized to access this task")

	// ErrAssigneeNotFound is returned when a task create or update names
	// an assignee that does not exist.
	ErrAssigneeNotFound = errors.New("assigned user does not exist")

	// ErrCategoryRefNotFound is returned when a task create or update
	// names a category that does not exist.
	ErrCategoryRefNotFound = errors.New("referenced category does not exist")
)

// TaskServiceError wraps errors from task service operations with
// operation context.
type TaskServiceError struct {
	// Operation is the name of the operation that failed.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TaskServiceError) Error() string {
	return fmt.Sprintf("task service %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Err:       err,
	}
}
