package domain

import (
	"errors"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field length limits for categories.
const (
	MaxCategoryNameLength        = 50
	MaxCategoryDescriptionLength = 200
)

// DefaultCategoryColor is assigned when the creator does not pick one.
const DefaultCategoryColor = "#3B82F6"

// Category-specific validation errors
var (
	// ErrCategoryIDEmpty is returned when a category ID is empty or nil.
	ErrCategoryIDEmpty = errors.New("category ID cannot be empty")

	// ErrCategoryNameEmpty is returned when a category's name is empty.
	ErrCategoryNameEmpty = errors.New("category name cannot be empty")

	// ErrCategoryNameTooLong is returned when a category's name exceeds the limit.
	ErrCategoryNameTooLong = errors.New("category name cannot exceed 50 characters")

	// ErrCategoryDescriptionTooLong is returned when a category's description exceeds the limit.
	ErrCategoryDescriptionTooLong = errors.New("category description cannot exceed 200 characters")

	// ErrCategoryColorInvalid is returned when a category's color is not a hex color code.
	ErrCategoryColorInvalid = errors.New("category color must be a hex color code")

	// ErrCategoryCreatedByEmpty is returned when a category's creator reference is empty or nil.
	ErrCategoryCreatedByEmpty = errors.New("category creator cannot be empty")
)

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category is a label tasks can reference. The relation is weak: a
// task points at a category but the category does not own the task,
// and deleting a category detaches it from its tasks.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon,omitempty"`
	CreatedBy   uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewCategory creates a new Category owned by the given creator with
// the default color. Returns an error if validation fails.
func NewCategory(createdBy uuid.UUID, name string) (*Category, error) {
	now := time.Now().UTC()
	category := &Category{
		ID:        uuid.New(),
		Name:      name,
		Color:     DefaultCategoryColor,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCategoryIDEmpty
	}

	if c.Name == "" {
		return ErrCategoryNameEmpty
	}

	if utf8.RuneCountInString(c.Name) > MaxCategoryNameLength {
		return ErrCategoryNameTooLong
	}

	if utf8.RuneCountInString(c.Description) > MaxCategoryDescriptionLength {
		return ErrCategoryDescriptionTooLong
	}

	if !hexColorRegex.MatchString(c.Color) {
		return ErrCategoryColorInvalid
	}

	if c.CreatedBy == uuid.Nil {
		return ErrCategoryCreatedByEmpty
	}

	return nil
}
