package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// UserRef is a projection of a user embedded in task responses. Which
// fields are populated depends on the context: list responses carry a
// slimmer ref than single-task responses.
type UserRef struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
}

// CategoryRef is the projection of a category embedded in task
// responses.
type CategoryRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Icon  string    `json:"icon,omitempty"`
}

// CommentDetail is a comment with its author expanded.
type CommentDetail struct {
	ID        uuid.UUID `json:"id"`
	User      *UserRef  `json:"user,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskDetail is a task with its references expanded for API responses.
// A nil ref means the referenced entity no longer resolves; the task
// itself is still returned. Comments are only expanded for single-task
// responses; list responses leave the field unset.
type TaskDetail struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	Category    *CategoryRef        `json:"category,omitempty"`
	AssignedTo  *UserRef            `json:"assignedTo,omitempty"`
	CreatedBy   *UserRef            `json:"createdBy,omitempty"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
	Tags        []string            `json:"tags"`
	Comments    []CommentDetail     `json:"comments,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TaskPage is one page of a task listing plus the pagination totals
// the API envelope reports.
type TaskPage struct {
	Tasks       []*TaskDetail
	Total       int
	TotalPages  int
	CurrentPage int
}

// TaskStats summarizes the caller's assigned tasks. The groupings are
// independent bucket lists over the same set; each sums to Total. Only
// buckets with at least one task appear, in the store's sort order.
type TaskStats struct {
	Total      int                   `json:"total"`
	ByStatus   []store.StatusCount   `json:"byStatus"`
	ByPriority []store.PriorityCount `json:"byPriority"`
}

// refProjection selects which user fields a projection context exposes.
type refProjection int

const (
	// listProjection is used in list responses: name fields plus email
	// for the assignee, username and email for the creator.
	listProjection refProjection = iota
	// detailProjection is used in single-task responses and adds the
	// avatar.
	detailProjection
	// commentProjection is used for comment authors: name fields and
	// avatar, no email.
	commentProjection
)

// projectUser builds a UserRef for the given context. Returns nil when
// the user did not resolve.
func projectUser(u *domain.User, p refProjection) *UserRef {
	if u == nil {
		return nil
	}
	ref := &UserRef{
		ID:       u.ID,
		Username: u.Username,
	}
	switch p {
	case listProjection:
		ref.Email = u.Email
		ref.FirstName = u.FirstName
		ref.LastName = u.LastName
	case detailProjection:
		ref.Email = u.Email
		ref.FirstName = u.FirstName
		ref.LastName = u.LastName
		ref.Avatar = u.Avatar
	case commentProjection:
		ref.FirstName = u.FirstName
		ref.LastName = u.LastName
		ref.Avatar = u.Avatar
	}
	return ref
}

// projectCategory builds a CategoryRef. Returns nil when the category
// did not resolve, which happens when a task still points at a
// category deleted out from under it.
func projectCategory(c *domain.Category) *CategoryRef {
	if c == nil {
		return nil
	}
	return &CategoryRef{
		ID:    c.ID,
		Name:  c.Name,
		Color: c.Color,
		Icon:  c.Icon,
	}
}

// creatorListRef is the slim creator projection used in list
// responses: username and email only.
func creatorListRef(u *domain.User) *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
