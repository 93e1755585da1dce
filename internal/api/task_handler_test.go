package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// mockTaskService implements service.TaskService with overridable functions.
type mockTaskService struct {
	listFn       func(ctx context.Context, callerID uuid.UUID, input service.ListTasksInput) (*service.TaskPage, error)
	getFn        func(ctx context.Context, callerID, taskID uuid.UUID) (*service.TaskDetail, error)
	createFn     func(ctx context.Context, callerID uuid.UUID, input service.CreateTaskInput) (*service.TaskDetail, error)
	updateFn     func(ctx context.Context, callerID, taskID uuid.UUID, input service.UpdateTaskInput) (*service.TaskDetail, error)
	deleteFn     func(ctx context.Context, callerID, taskID uuid.UUID) error
	addCommentFn func(ctx context.Context, callerID, taskID uuid.UUID, text string) ([]service.CommentDetail, error)
	statsFn      func(ctx context.Context, callerID uuid.UUID) (*service.TaskStats, error)
}

func (m *mockTaskService) ListTasks(ctx context.Context, callerID uuid.UUID, input service.ListTasksInput) (*service.TaskPage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, callerID, input)
	}
	return &service.TaskPage{Tasks: []*service.TaskDetail{}, TotalPages: 0, CurrentPage: 1}, nil
}

func (m *mockTaskService) GetTask(ctx context.Context, callerID, taskID uuid.UUID) (*service.TaskDetail, error) {
	if m.getFn != nil {
		return m.getFn(ctx, callerID, taskID)
	}
	return nil, store.ErrTaskNotFound
}

func (m *mockTaskService) CreateTask(ctx context.Context, callerID uuid.UUID, input service.CreateTaskInput) (*service.TaskDetail, error) {
	if m.createFn != nil {
		return m.createFn(ctx, callerID, input)
	}
	return &service.TaskDetail{ID: uuid.New(), Title: input.Title}, nil
}

func (m *mockTaskService) UpdateTask(ctx context.Context, callerID, taskID uuid.UUID, input service.UpdateTaskInput) (*service.TaskDetail, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, callerID, taskID, input)
	}
	return &service.TaskDetail{ID: taskID}, nil
}

func (m *mockTaskService) DeleteTask(ctx context.Context, callerID, taskID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, callerID, taskID)
	}
	return nil
}

func (m *mockTaskService) AddComment(ctx context.Context, callerID, taskID uuid.UUID, text string) ([]service.CommentDetail, error) {
	if m.addCommentFn != nil {
		return m.addCommentFn(ctx, callerID, taskID, text)
	}
	return nil, nil
}

func (m *mockTaskService) GetStats(ctx context.Context, callerID uuid.UUID) (*service.TaskStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, callerID)
	}
	return &service.TaskStats{}, nil
}

// newTaskRouter wires a chi router the way the server does, with the
// user ID injected as if the auth middleware had run.
func newTaskRouter(svc service.TaskService, userID uuid.UUID) http.Handler {
	handler := NewTaskHandler(svc, slog.Default())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/tasks", handler.ListTasks)
	r.Post("/tasks", handler.CreateTask)
	r.Get("/tasks/stats", handler.GetStats)
	r.Get("/tasks/{id}", handler.GetTask)
	r.Put("/tasks/{id}", handler.UpdateTask)
	r.Delete("/tasks/{id}", handler.DeleteTask)
	r.Post("/tasks/{id}/comments", handler.AddComment)
	return r
}

func TestListTasksEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockTaskService{
		listFn: func(ctx context.Context, callerID uuid.UUID, input service.ListTasksInput) (*service.TaskPage, error) {
			assert.Equal(t, userID, callerID)
			return &service.TaskPage{
				Tasks:       []*service.TaskDetail{{ID: uuid.New(), Title: "one"}, {ID: uuid.New(), Title: "two"}},
				Total:       12,
				TotalPages:  2,
				CurrentPage: 1,
			}, nil
		},
	}
	router := newTaskRouter(svc, userID)

	req := httptest.NewRequest(http.MethodGet, "/tasks?status=todo&search=deploy", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 12, resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.CurrentPage)

	// Listings never carry a comments field, not even an empty one
	assert.NotContains(t, rec.Body.String(), `"comments"`)
}

func TestListTasksEndpoint_InvalidQuery(t *testing.T) {
	t.Parallel()

	router := newTaskRouter(&mockTaskService{}, uuid.New())

	cases := []struct {
		name  string
		query string
	}{
		{"bad status", "?status=someday"},
		{"bad priority", "?priority=critical"},
		{"bad category", "?category=not-a-uuid"},
		{"bad page", "?page=zero"},
		{"negative limit", "?limit=-5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tasks"+tc.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetTaskEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		svc := &mockTaskService{
			getFn: func(ctx context.Context, callerID, id uuid.UUID) (*service.TaskDetail, error) {
				return &service.TaskDetail{ID: id, Title: "deploy"}, nil
			},
		}
		router := newTaskRouter(svc, userID)

		req := httptest.NewRequest(http.MethodGet, "/tasks/"+taskID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp DataResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(&mockTaskService{}, userID)

		req := httptest.NewRequest(http.MethodGet, "/tasks/"+uuid.New().String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		t.Parallel()
		svc := &mockTaskService{
			getFn: func(ctx context.Context, callerID, id uuid.UUID) (*service.TaskDetail, error) {
				return nil, service.NewTaskServiceError("get", service.ErrTaskAccessDenied)
			},
		}
		router := newTaskRouter(svc, userID)

		req := httptest.NewRequest(http.MethodGet, "/tasks/"+taskID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		var resp shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(&mockTaskService{}, userID)

		req := httptest.NewRequest(http.MethodGet, "/tasks/banana", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateTaskEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		var gotInput service.CreateTaskInput
		svc := &mockTaskService{
			createFn: func(ctx context.Context, callerID uuid.UUID, input service.CreateTaskInput) (*service.TaskDetail, error) {
				gotInput = input
				return &service.TaskDetail{ID: uuid.New(), Title: input.Title}, nil
			},
		}
		router := newTaskRouter(svc, userID)

		body := bytes.NewBufferString(`{"title":"Ship the release","priority":"high","tags":["release","ops"]}`)
		req := httptest.NewRequest(http.MethodPost, "/tasks", body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Ship the release", gotInput.Title)
		require.NotNil(t, gotInput.Priority)
		assert.Equal(t, domain.TaskPriorityHigh, *gotInput.Priority)
		assert.Equal(t, []string{"release", "ops"}, gotInput.Tags)
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(&mockTaskService{}, userID)

		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{"priority":"low"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(&mockTaskService{}, userID)

		req := httptest.NewRequest(http.MethodPost, "/tasks",
			bytes.NewBufferString(`{"title":"ok","titel":"typo"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateTaskEndpoint_NullClearsFields(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	var gotInput service.UpdateTaskInput
	svc := &mockTaskService{
		updateFn: func(ctx context.Context, callerID, id uuid.UUID, input service.UpdateTaskInput) (*service.TaskDetail, error) {
			gotInput = input
			return &service.TaskDetail{ID: id}, nil
		},
	}
	router := newTaskRouter(svc, userID)

	body := bytes.NewBufferString(`{"category":null,"dueDate":null,"status":"completed"}`)
	req := httptest.NewRequest(http.MethodPut, "/tasks/"+taskID.String(), body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotInput.ClearCategory)
	assert.True(t, gotInput.ClearDueDate)
	assert.Nil(t, gotInput.CategoryID)
	require.NotNil(t, gotInput.Status)
	assert.Equal(t, domain.TaskStatusCompleted, *gotInput.Status)
	assert.Nil(t, gotInput.Title, "absent fields stay nil")
}

func TestDeleteTaskEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	t.Run("creator deletes", func(t *testing.T) {
		t.Parallel()
		svc := &mockTaskService{
			deleteFn: func(ctx context.Context, callerID, id uuid.UUID) error {
				return nil
			},
		}
		router := newTaskRouter(svc, userID)

		req := httptest.NewRequest(http.MethodDelete, "/tasks/"+taskID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Success bool           `json:"success"`
			Data    map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		// Empty object, not null
		require.NotNil(t, resp.Data)
		assert.Empty(t, resp.Data)
	})

	t.Run("assignee denied", func(t *testing.T) {
		t.Parallel()
		svc := &mockTaskService{
			deleteFn: func(ctx context.Context, callerID, id uuid.UUID) error {
				return service.NewTaskServiceError("delete", service.ErrTaskAccessDenied)
			},
		}
		router := newTaskRouter(svc, userID)

		req := httptest.NewRequest(http.MethodDelete, "/tasks/"+taskID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAddCommentEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	t.Run("appends", func(t *testing.T) {
		t.Parallel()
		svc := &mockTaskService{
			addCommentFn: func(ctx context.Context, callerID, id uuid.UUID, text string) ([]service.CommentDetail, error) {
				return []service.CommentDetail{
					{ID: uuid.New(), Text: "earlier", CreatedAt: time.Now().Add(-time.Hour)},
					{ID: uuid.New(), Text: text, CreatedAt: time.Now()},
				}, nil
			},
		}
		router := newTaskRouter(svc, userID)

		body := bytes.NewBufferString(`{"text":"looks good"}`)
		req := httptest.NewRequest(http.MethodPost, "/tasks/"+taskID.String()+"/comments", body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Success bool                    `json:"success"`
			Message string                  `json:"message"`
			Data    []service.CommentDetail `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Comment added successfully", resp.Message)
		assert.Len(t, resp.Data, 2)
		assert.Equal(t, "looks good", resp.Data[1].Text)
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(&mockTaskService{}, userID)

		req := httptest.NewRequest(http.MethodPost, "/tasks/"+taskID.String()+"/comments",
			bytes.NewBufferString(`{"text":""}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()
		svc := &mockTaskService{
			addCommentFn: func(ctx context.Context, callerID, id uuid.UUID, text string) ([]service.CommentDetail, error) {
				return nil, service.NewTaskServiceError("comment", store.ErrTaskNotFound)
			},
		}
		router := newTaskRouter(svc, userID)

		req := httptest.NewRequest(http.MethodPost, "/tasks/"+taskID.String()+"/comments",
			bytes.NewBufferString(`{"text":"hello"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetStatsEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockTaskService{
		statsFn: func(ctx context.Context, callerID uuid.UUID) (*service.TaskStats, error) {
			return &service.TaskStats{
				Total: 5,
				ByStatus: []store.StatusCount{
					{Status: domain.TaskStatusCompleted, Count: 2},
					{Status: domain.TaskStatusTodo, Count: 3},
				},
				ByPriority: []store.PriorityCount{
					{Priority: domain.TaskPriorityMedium, Count: 5},
				},
			}, nil
		},
	}
	router := newTaskRouter(svc, userID)

	req := httptest.NewRequest(http.MethodGet, "/tasks/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	// Groupings are bucket arrays, not keyed objects
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Total      int              `json:"total"`
			ByStatus   []map[string]any `json:"byStatus"`
			ByPriority []map[string]any `json:"byPriority"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 5, resp.Data.Total)
	require.Len(t, resp.Data.ByStatus, 2)
	assert.Equal(t, "completed", resp.Data.ByStatus[0]["status"])
	assert.Equal(t, float64(2), resp.Data.ByStatus[0]["count"])
	require.Len(t, resp.Data.ByPriority, 1)
	assert.Equal(t, "medium", resp.Data.ByPriority[0]["priority"])
	assert.Equal(t, float64(5), resp.Data.ByPriority[0]["count"])
}
