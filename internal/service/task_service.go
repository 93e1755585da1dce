package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// ListTasksInput carries the optional refinements of a task listing.
// The listing itself is always scoped to tasks assigned to the caller;
// these fields only narrow it further.
type ListTasksInput struct {
	Status     *domain.TaskStatus
	Priority   *domain.TaskPriority
	CategoryID *uuid.UUID
	Search     string
	Page       int
	Limit      int
}

// CreateTaskInput carries the caller-settable fields of a new task.
// Omitted fields take domain defaults; the creator is taken from the
// authenticated caller, never from the input.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	CategoryID  *uuid.UUID
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
	Tags        []string
}

// UpdateTaskInput carries a partial update. Nil fields are left
// untouched. There is deliberately no creator field: who created a
// task never changes.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *domain.TaskStatus
	Priority      *domain.TaskPriority
	CategoryID    *uuid.UUID
	ClearCategory bool
	AssignedTo    *uuid.UUID
	DueDate       *time.Time
	ClearDueDate  bool
	Tags          []string
}

// TaskService defines the task use-cases exposed by the API.
type TaskService interface {
	// ListTasks returns a page of the caller's assigned tasks matching
	// the given refinements, newest first, with references expanded.
	// A page past the end of the results is an empty page, not an error.
	ListTasks(ctx context.Context, callerID uuid.UUID, input ListTasksInput) (*TaskPage, error)

	// GetTask returns a single task with references and comment authors
	// expanded. The caller must be the assignee or the creator.
	GetTask(ctx context.Context, callerID, taskID uuid.UUID) (*TaskDetail, error)

	// CreateTask creates a task owned by the caller. When no assignee is
	// given, the task is assigned to the caller.
	CreateTask(ctx context.Context, callerID uuid.UUID, input CreateTaskInput) (*TaskDetail, error)

	// UpdateTask applies a partial update. The caller must be the
	// assignee or the creator; the creator field is immutable.
	UpdateTask(ctx context.Context, callerID, taskID uuid.UUID, input UpdateTaskInput) (*TaskDetail, error)

	// DeleteTask removes a task and its embedded comments. Only the
	// creator may delete.
	DeleteTask(ctx context.Context, callerID, taskID uuid.UUID) error

	// AddComment appends a comment authored by the caller and returns
	// the task's full comment list, oldest first, with authors expanded.
	// Any authenticated user may comment on any existing task.
	AddComment(ctx context.Context, callerID, taskID uuid.UUID, text string) ([]CommentDetail, error)

	// GetStats returns aggregate counts over the caller's assigned tasks.
	GetStats(ctx context.Context, callerID uuid.UUID) (*TaskStats, error)
}

// taskService implements TaskService on top of the store interfaces.
type taskService struct {
	taskStore     store.TaskStore
	userStore     store.UserStore
	categoryStore store.CategoryStore
	logger        *slog.Logger
}

var _ TaskService = (*taskService)(nil)

// NewTaskService creates a new TaskService.
// Panics if any dependency is nil, as this is a programming error.
func NewTaskService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	categoryStore store.CategoryStore,
	log *slog.Logger,
) TaskService {
	if taskStore == nil {
		panic("taskStore cannot be nil")
	}
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if categoryStore == nil {
		panic("categoryStore cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil")
	}
	return &taskService{
		taskStore:     taskStore,
		userStore:     userStore,
		categoryStore: categoryStore,
		logger:        log.With(slog.String("component", "task_service")),
	}
}

func (s *taskService) ListTasks(ctx context.Context, callerID uuid.UUID, input ListTasksInput) (*TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	filter := store.TaskFilter{
		AssignedTo: callerID,
		Status:     input.Status,
		Priority:   input.Priority,
		CategoryID: input.CategoryID,
		Search:     input.Search,
	}
	page := store.Page{Number: input.Page, Limit: input.Limit}

	tasks, total, err := s.taskStore.List(ctx, filter, page)
	if err != nil {
		log.Error("failed to list tasks", "error", err, "user_id", callerID)
		return nil, NewTaskServiceError("list", err)
	}

	details, err := s.expandTasks(ctx, tasks, listProjection)
	if err != nil {
		return nil, NewTaskServiceError("list", err)
	}

	limit := page.EffectiveLimit()
	totalPages := (total + limit - 1) / limit

	return &TaskPage{
		Tasks:       details,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: max(input.Page, 1),
	}, nil
}

func (s *taskService) GetTask(ctx context.Context, callerID, taskID uuid.UUID) (*TaskDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, NewTaskServiceError("get", err)
	}

	// Existence resolves before access: a task the caller cannot see is
	// still a 403, not a 404.
	if !task.ReadableBy(callerID) {
		log.Debug("task read denied",
			"task_id", taskID,
			"user_id", callerID)
		return nil, NewTaskServiceError("get", ErrTaskAccessDenied)
	}

	details, err := s.expandTasks(ctx, []*domain.Task{task}, detailProjection)
	if err != nil {
		return nil, NewTaskServiceError("get", err)
	}
	return details[0], nil
}

func (s *taskService) CreateTask(ctx context.Context, callerID uuid.UUID, input CreateTaskInput) (*TaskDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(callerID, input.Title)
	if err != nil {
		return nil, NewTaskServiceError("create", err)
	}

	task.Description = input.Description
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}

	if input.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *input.AssignedTo); err != nil {
			return nil, NewTaskServiceError("create", err)
		}
		task.AssignedTo = *input.AssignedTo
	}

	if input.CategoryID != nil {
		if err := s.checkCategory(ctx, *input.CategoryID); err != nil {
			return nil, NewTaskServiceError("create", err)
		}
		task.CategoryID = input.CategoryID
	}

	if err := task.Validate(); err != nil {
		return nil, NewTaskServiceError("create", err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			"error", err,
			"user_id", callerID)
		return nil, NewTaskServiceError("create", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"user_id", callerID)

	details, err := s.expandTasks(ctx, []*domain.Task{task}, detailProjection)
	if err != nil {
		return nil, NewTaskServiceError("create", err)
	}
	return details[0], nil
}

func (s *taskService) UpdateTask(ctx context.Context, callerID, taskID uuid.UUID, input UpdateTaskInput) (*TaskDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, NewTaskServiceError("update", err)
	}

	if !task.UpdatableBy(callerID) {
		log.Debug("task update denied",
			"task_id", taskID,
			"user_id", callerID)
		return nil, NewTaskServiceError("update", ErrTaskAccessDenied)
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *input.AssignedTo); err != nil {
			return nil, NewTaskServiceError("update", err)
		}
		task.AssignedTo = *input.AssignedTo
	}
	switch {
	case input.ClearCategory:
		task.CategoryID = nil
	case input.CategoryID != nil:
		if err := s.checkCategory(ctx, *input.CategoryID); err != nil {
			return nil, NewTaskServiceError("update", err)
		}
		task.CategoryID = input.CategoryID
	}
	switch {
	case input.ClearDueDate:
		task.DueDate = nil
	case input.DueDate != nil:
		task.DueDate = input.DueDate
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}
	task.UpdatedAt = time.Now().UTC()

	if err := task.Validate(); err != nil {
		return nil, NewTaskServiceError("update", err)
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		log.Error("failed to update task",
			"error", err,
			"task_id", taskID,
			"user_id", callerID)
		return nil, NewTaskServiceError("update", err)
	}

	details, err := s.expandTasks(ctx, []*domain.Task{task}, detailProjection)
	if err != nil {
		return nil, NewTaskServiceError("update", err)
	}
	return details[0], nil
}

func (s *taskService) DeleteTask(ctx context.Context, callerID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return NewTaskServiceError("delete", err)
	}

	// Deletion is creator-only; the assignee may read and update but
	// not delete.
	if !task.DeletableBy(callerID) {
		log.Debug("task delete denied",
			"task_id", taskID,
			"user_id", callerID)
		return NewTaskServiceError("delete", ErrTaskAccessDenied)
	}

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		log.Error("failed to delete task",
			"error", err,
			"task_id", taskID,
			"user_id", callerID)
		return NewTaskServiceError("delete", err)
	}

	log.Info("task deleted",
		"task_id", taskID,
		"user_id", callerID)
	return nil
}

func (s *taskService) AddComment(ctx context.Context, callerID, taskID uuid.UUID, text string) ([]CommentDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Commenting requires the task to exist but is otherwise open to
	// any authenticated user, matching the read policy of nothing else
	// in this service.
	if _, err := s.taskStore.GetByID(ctx, taskID); err != nil {
		return nil, NewTaskServiceError("comment", err)
	}

	comment, err := domain.NewComment(callerID, text)
	if err != nil {
		return nil, NewTaskServiceError("comment", err)
	}

	comments, err := s.taskStore.AppendComment(ctx, taskID, comment)
	if err != nil {
		log.Error("failed to append comment",
			"error", err,
			"task_id", taskID,
			"user_id", callerID)
		return nil, NewTaskServiceError("comment", err)
	}

	details, err := s.expandComments(ctx, comments)
	if err != nil {
		return nil, NewTaskServiceError("comment", err)
	}
	return details, nil
}

func (s *taskService) GetStats(ctx context.Context, callerID uuid.UUID) (*TaskStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	total, err := s.taskStore.CountAssigned(ctx, callerID)
	if err != nil {
		log.Error("failed to count tasks", "error", err, "user_id", callerID)
		return nil, NewTaskServiceError("stats", err)
	}

	byStatus, err := s.taskStore.CountByStatus(ctx, callerID)
	if err != nil {
		log.Error("failed to count tasks by status", "error", err, "user_id", callerID)
		return nil, NewTaskServiceError("stats", err)
	}

	byPriority, err := s.taskStore.CountByPriority(ctx, callerID)
	if err != nil {
		log.Error("failed to count tasks by priority", "error", err, "user_id", callerID)
		return nil, NewTaskServiceError("stats", err)
	}

	return &TaskStats{
		Total:      total,
		ByStatus:   byStatus,
		ByPriority: byPriority,
	}, nil
}

// checkAssignee verifies that an explicitly named assignee exists.
func (s *taskService) checkAssignee(ctx context.Context, userID uuid.UUID) error {
	_, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("%w: %s", ErrAssigneeNotFound, userID)
		}
		return err
	}
	return nil
}

// checkCategory verifies that an explicitly named category exists.
func (s *taskService) checkCategory(ctx context.Context, categoryID uuid.UUID) error {
	_, err := s.categoryStore.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return fmt.Errorf("%w: %s", ErrCategoryRefNotFound, categoryID)
		}
		return err
	}
	return nil
}

// expandTasks resolves the user/category references of a batch of
// tasks into projections. References that no longer resolve become
// nil refs rather than errors.
func (s *taskService) expandTasks(ctx context.Context, tasks []*domain.Task, p refProjection) ([]*TaskDetail, error) {
	userIDs := make([]uuid.UUID, 0, len(tasks)*2)
	categoryIDs := make([]uuid.UUID, 0, len(tasks))
	seenUsers := make(map[uuid.UUID]bool)
	seenCategories := make(map[uuid.UUID]bool)

	addUser := func(id uuid.UUID) {
		if id != uuid.Nil && !seenUsers[id] {
			seenUsers[id] = true
			userIDs = append(userIDs, id)
		}
	}

	for _, t := range tasks {
		addUser(t.AssignedTo)
		addUser(t.CreatedBy)
		if p == detailProjection {
			for _, c := range t.Comments {
				addUser(c.UserID)
			}
		}
		if t.CategoryID != nil && !seenCategories[*t.CategoryID] {
			seenCategories[*t.CategoryID] = true
			categoryIDs = append(categoryIDs, *t.CategoryID)
		}
	}

	users := map[uuid.UUID]*domain.User{}
	if len(userIDs) > 0 {
		var err error
		users, err = s.userStore.GetByIDs(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user references: %w", err)
		}
	}

	categories := map[uuid.UUID]*domain.Category{}
	if len(categoryIDs) > 0 {
		var err error
		categories, err = s.categoryStore.GetByIDs(ctx, categoryIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category references: %w", err)
		}
	}

	details := make([]*TaskDetail, 0, len(tasks))
	for _, t := range tasks {
		d := &TaskDetail{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Priority:    t.Priority,
			DueDate:     t.DueDate,
			Tags:        t.Tags,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		}
		if d.Tags == nil {
			d.Tags = []string{}
		}

		d.AssignedTo = projectUser(users[t.AssignedTo], p)
		if p == listProjection {
			d.CreatedBy = creatorListRef(users[t.CreatedBy])
		} else {
			d.CreatedBy = projectUser(users[t.CreatedBy], p)
		}
		if t.CategoryID != nil {
			d.Category = projectCategory(categories[*t.CategoryID])
		}

		if p == detailProjection {
			for _, c := range t.Comments {
				d.Comments = append(d.Comments, CommentDetail{
					ID:        c.ID,
					User:      projectUser(users[c.UserID], commentProjection),
					Text:      c.Text,
					CreatedAt: c.CreatedAt,
				})
			}
		}

		details = append(details, d)
	}
	return details, nil
}

// expandComments resolves comment authors into projections.
func (s *taskService) expandComments(ctx context.Context, comments []domain.Comment) ([]CommentDetail, error) {
	ids := make([]uuid.UUID, 0, len(comments))
	seen := make(map[uuid.UUID]bool)
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}

	users := map[uuid.UUID]*domain.User{}
	if len(ids) > 0 {
		var err error
		users, err = s.userStore.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve comment authors: %w", err)
		}
	}

	details := make([]CommentDetail, 0, len(comments))
	for _, c := range comments {
		details = append(details, CommentDetail{
			ID:        c.ID,
			User:      projectUser(users[c.UserID], commentProjection),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return details, nil
}
