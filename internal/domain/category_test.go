package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewCategory(t *testing.T) {
	t.Parallel() // Enable parallel execution
	creator := uuid.New()

	category, err := NewCategory(creator, "Work")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if category.Color != DefaultCategoryColor {
		t.Errorf("Expected default color %q, got %q", DefaultCategoryColor, category.Color)
	}

	// Test empty name
	_, err = NewCategory(creator, "")
	if err != ErrCategoryNameEmpty {
		t.Errorf("Expected error %v, got %v", ErrCategoryNameEmpty, err)
	}

	// Test name over the limit
	_, err = NewCategory(creator, strings.Repeat("a", MaxCategoryNameLength+1))
	if err != ErrCategoryNameTooLong {
		t.Errorf("Expected error %v, got %v", ErrCategoryNameTooLong, err)
	}
}

func TestCategoryValidateColor(t *testing.T) {
	t.Parallel() // Enable parallel execution
	category := Category{
		ID:        uuid.New(),
		Name:      "Home",
		Color:     DefaultCategoryColor,
		CreatedBy: uuid.New(),
	}

	for _, color := range []string{"#000000", "#FFFFFF", "#3b82f6", "#A1b2C3"} {
		category.Color = color
		if err := category.Validate(); err != nil {
			t.Errorf("Expected color %q to be valid, got %v", color, err)
		}
	}

	for _, color := range []string{"", "3B82F6", "#3B82F", "#3B82F6A", "#GGGGGG", "blue"} {
		category.Color = color
		if err := category.Validate(); err != ErrCategoryColorInvalid {
			t.Errorf("Expected color %q to fail with %v, got %v", color, ErrCategoryColorInvalid, err)
		}
	}
}
