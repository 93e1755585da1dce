package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username  string `json:"username"  validate:"required,min=3,max=30"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"omitempty,max=50"`
	LastName  string `json:"lastName"  validate:"omitempty,max=50"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	Success bool      `json:"success"`
	UserID  uuid.UUID `json:"userId"`
	Token   string    `json:"token"`
}

// UpdateProfileRequest defines the payload for profile updates. All
// fields are optional; absent fields are left unchanged.
type UpdateProfileRequest struct {
	Username  *string `json:"username"  validate:"omitempty,min=3,max=30"`
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName"  validate:"omitempty,max=50"`
	Avatar    *string `json:"avatar"    validate:"omitempty,max=500"`
}

// CreateTaskRequest defines the payload for task creation. Status and
// priority default server-side when omitted; the assignee defaults to
// the caller.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=todo in-progress completed archived"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
	Category    *uuid.UUID `json:"category"`
	AssignedTo  *uuid.UUID `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
}

// UpdateTaskRequest defines the payload for task updates. Absent fields
// are left unchanged; a JSON null for category or dueDate clears the
// value.
type UpdateTaskRequest struct {
	Title       *string      `json:"title"       validate:"omitempty,max=200"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	Status      *string      `json:"status"      validate:"omitempty,oneof=todo in-progress completed archived"`
	Priority    *string      `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
	Category    OptionalUUID `json:"category"`
	AssignedTo  *uuid.UUID   `json:"assignedTo"`
	DueDate     OptionalTime `json:"dueDate"`
	Tags        []string     `json:"tags"`
}

// AddCommentRequest defines the payload for appending a task comment.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// CreateCategoryRequest defines the payload for category creation.
type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=50"`
	Description string `json:"description" validate:"omitempty,max=200"`
	Color       string `json:"color"       validate:"omitempty,hexcolor"`
	Icon        string `json:"icon"        validate:"omitempty,max=50"`
}

// UpdateCategoryRequest defines the payload for category updates.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	Color       *string `json:"color"       validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon"        validate:"omitempty,max=50"`
}

// DataResponse is the generic success envelope for single-object
// responses.
type DataResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// ListResponse is the success envelope for paginated listings.
type ListResponse struct {
	Success     bool        `json:"success"`
	Count       int         `json:"count"`
	Total       int         `json:"total"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Data        interface{} `json:"data"`
}

// CollectionResponse is the success envelope for unpaginated listings.
type CollectionResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}
