package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field length limits for tasks.
const (
	MaxTaskTitleLength       = 200
	MaxTaskDescriptionLength = 2000
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskTitleTooLong is returned when a task's title exceeds the limit.
	ErrTaskTitleTooLong = errors.New("task title cannot exceed 200 characters")

	// ErrTaskDescriptionTooLong is returned when a task's description exceeds the limit.
	ErrTaskDescriptionTooLong = errors.New("task description cannot exceed 2000 characters")

	// ErrTaskStatusInvalid is returned when a task's status is not one of the known values.
	ErrTaskStatusInvalid = errors.New("invalid task status")

	// ErrTaskPriorityInvalid is returned when a task's priority is not one of the known values.
	ErrTaskPriorityInvalid = errors.New("invalid task priority")

	// ErrTaskCreatedByEmpty is returned when a task's creator reference is empty or nil.
	ErrTaskCreatedByEmpty = errors.New("task creator cannot be empty")

	// ErrTaskAssignedToEmpty is returned when a task's assignee reference is empty or nil.
	ErrTaskAssignedToEmpty = errors.New("task assignee cannot be empty")
)

// TaskStatus represents the workflow state of a task. There is no
// enforced transition graph: any status may replace any other through
// an authorized update.
type TaskStatus string

// Known task statuses.
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusArchived   TaskStatus = "archived"
)

// TaskStatuses lists all known statuses in display order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusArchived,
}

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusArchived:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

// Known task priorities.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// TaskPriorities lists all known priorities in display order.
var TaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityUrgent,
}

// IsValid reports whether the priority is one of the known values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task is the central entity of the service. Comments are embedded and
// owned exclusively by their parent task: they are appended through the
// task API and removed only when the task itself is deleted. Tags are
// an ordered list; duplicates are preserved.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CategoryID  *uuid.UUID   `json:"category,omitempty"`
	AssignedTo  uuid.UUID    `json:"assignedTo"`
	CreatedBy   uuid.UUID    `json:"createdBy"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Tags        []string     `json:"tags"`
	Comments    []Comment    `json:"comments"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewTask creates a new Task owned by the given creator. The assignee
// defaults to the creator, status to "todo", and priority to "medium";
// callers adjust fields before persisting. Returns an error if
// validation fails.
func NewTask(createdBy uuid.UUID, title string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:         uuid.New(),
		Title:      title,
		Status:     TaskStatusTodo,
		Priority:   TaskPriorityMedium,
		AssignedTo: createdBy,
		CreatedBy:  createdBy,
		Tags:       []string{},
		Comments:   []Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	// Limits count characters, not bytes, like the request validator.
	if utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}

	if utf8.RuneCountInString(t.Description) > MaxTaskDescriptionLength {
		return ErrTaskDescriptionTooLong
	}

	if !t.Status.IsValid() {
		return ErrTaskStatusInvalid
	}

	if !t.Priority.IsValid() {
		return ErrTaskPriorityInvalid
	}

	if t.CreatedBy == uuid.Nil {
		return ErrTaskCreatedByEmpty
	}

	if t.AssignedTo == uuid.Nil {
		return ErrTaskAssignedToEmpty
	}

	return nil
}

// ReadableBy reports whether the given identity may read this task.
// The assignee and the creator both have read access. Identities are
// compared by UUID value equality.
func (t *Task) ReadableBy(userID uuid.UUID) bool {
	return t.AssignedTo == userID || t.CreatedBy == userID
}

// UpdatableBy reports whether the given identity may update this task.
// The update policy is identical to the read policy.
func (t *Task) UpdatableBy(userID uuid.UUID) bool {
	return t.ReadableBy(userID)
}

// DeletableBy reports whether the given identity may delete this task.
// Only the creator may delete; being the assignee is not sufficient.
func (t *Task) DeletableBy(userID uuid.UUID) bool {
	return t.CreatedBy == userID
}
