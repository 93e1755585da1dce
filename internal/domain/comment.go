package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Comment-specific validation errors
var (
	// ErrCommentIDEmpty is returned when a comment ID is empty or nil.
	ErrCommentIDEmpty = errors.New("comment ID cannot be empty")

	// ErrCommentUserIDEmpty is returned when a comment's author reference is empty or nil.
	ErrCommentUserIDEmpty = errors.New("comment author cannot be empty")

	// ErrCommentTextEmpty is returned when a comment's text is empty.
	ErrCommentTextEmpty = errors.New("comment text cannot be empty")
)

// Comment is a note attached to a task. Comments have no independent
// lifecycle: they are appended through the task API, never edited or
// removed individually, and disappear with their parent task.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewComment creates a new Comment authored by the given user.
// Returns an error if validation fails.
func NewComment(userID uuid.UUID, text string) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCommentIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCommentUserIDEmpty
	}

	if c.Text == "" {
		return ErrCommentTextEmpty
	}

	return nil
}
