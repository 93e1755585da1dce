package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTaskFilter(t *testing.T) {
	t.Parallel()
	caller := uuid.New()

	t.Run("scope only", func(t *testing.T) {
		where, args := buildTaskFilter(store.TaskFilter{AssignedTo: caller})
		assert.Equal(t, "assigned_to = $1", where)
		require.Len(t, args, 1)
		assert.Equal(t, caller, args[0])
	})

	t.Run("all refinements", func(t *testing.T) {
		status := domain.TaskStatusTodo
		priority := domain.TaskPriorityUrgent
		category := uuid.New()

		where, args := buildTaskFilter(store.TaskFilter{
			AssignedTo: caller,
			Status:     &status,
			Priority:   &priority,
			CategoryID: &category,
			Search:     "deploy",
		})

		assert.Equal(t,
			"assigned_to = $1 AND status = $2 AND priority = $3 AND category_id = $4 AND (title ILIKE $5 OR description ILIKE $5)",
			where)
		require.Len(t, args, 5)
		assert.Equal(t, "%deploy%", args[4])
	})

	t.Run("search wildcards are escaped", func(t *testing.T) {
		_, args := buildTaskFilter(store.TaskFilter{
			AssignedTo: caller,
			Search:     "50%_done",
		})
		require.Len(t, args, 2)
		assert.Equal(t, `%50\%\_done%`, args[1])
	})
}

func TestEscapeLikePattern(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"plain":   "plain",
		"100%":    `100\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}

	for input, want := range cases {
		assert.Equal(t, want, escapeLikePattern(input), "input %q", input)
	}
}
