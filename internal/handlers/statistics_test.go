package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/edutask-api/internal/dto"
	"github.com/yukikurage/edutask-api/internal/testutil"
)

func TestStatisticsHandler(t *testing.T) {
	env := setupTestEnv(t)
	testutil.CreateUser(t, env.db, "teacher", true)
	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		testutil.CreateUser(t, env.db, name, false)
	}
	adminToken := env.login(t, "teacher")

	t.Run("empty overview", func(t *testing.T) {
		w := env.do(http.MethodGet, "/statistics/overview", adminToken, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		overview := decode[dto.OverviewStatsDTO](t, w)
		require.Equal(t, int64(4), overview.TotalStudents)
		require.Equal(t, int64(0), overview.TotalCompletions)
		require.Equal(t, float64(0), overview.OverallCompletionRate)
	})

	task := env.createTask(t, adminToken, "Fractions")
	for _, name := range []string{"alice", "bob", "carol"} {
		w := env.do(http.MethodPut, fmt.Sprintf("/tasks/%d/complete", task.ID), env.login(t, name), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	t.Run("overview", func(t *testing.T) {
		w := env.do(http.MethodGet, "/statistics/overview", adminToken, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		overview := decode[dto.OverviewStatsDTO](t, w)
		require.Equal(t, dto.OverviewStatsDTO{
			TotalTasks:            1,
			TotalStudents:         4,
			TotalCompletions:      4,
			CompletedCompletions:  3,
			PendingCompletions:    1,
			OverallCompletionRate: 75,
		}, overview)
	})

	t.Run("tasks", func(t *testing.T) {
		w := env.do(http.MethodGet, "/statistics/tasks", adminToken, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		stats := decode[[]dto.TaskStatsDTO](t, w)
		require.Len(t, stats, 1)
		require.Equal(t, task.ID, stats[0].TaskID)
		require.Equal(t, int64(4), stats[0].TotalAssignments)
		require.Equal(t, int64(3), stats[0].Completed)
		require.Equal(t, float64(75), stats[0].CompletionRate)
	})

	t.Run("students", func(t *testing.T) {
		w := env.do(http.MethodGet, "/statistics/students", adminToken, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		stats := decode[[]dto.StudentStatsDTO](t, w)
		require.Len(t, stats, 4)
		require.Equal(t, "alice", stats[0].StudentName)
		require.Equal(t, float64(100), stats[0].CompletionRate)
		require.Equal(t, "dave", stats[3].StudentName)
		require.Equal(t, int64(1), stats[3].PendingTasks)
		require.Equal(t, float64(0), stats[3].CompletionRate)
	})

	t.Run("admin only", func(t *testing.T) {
		studentToken := env.login(t, "alice")
		for _, path := range []string{"/statistics/overview", "/statistics/tasks", "/statistics/students"} {
			require.Equal(t, http.StatusForbidden, env.do(http.MethodGet, path, studentToken, nil, "").Code, path)
			require.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, path, "", nil, "").Code, path)
		}
	})
}
