package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/edutask-api/internal/dto"
	apierrors "github.com/yukikurage/edutask-api/internal/errors"
	"github.com/yukikurage/edutask-api/internal/models"
	"github.com/yukikurage/edutask-api/internal/testutil"
)

// TaskHandlerTestSuite drives the task and completion endpoints through the router
type TaskHandlerTestSuite struct {
	suite.Suite
	env        testEnv
	admin      *models.User
	adminToken string
	alice      *models.User
	aliceToken string
	bobToken   string
}

func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = setupTestEnv(suite.T())

	suite.admin = testutil.CreateUser(suite.T(), suite.env.db, "teacher", true)
	suite.alice = testutil.CreateUser(suite.T(), suite.env.db, "alice", false)
	testutil.CreateUser(suite.T(), suite.env.db, "bob", false)

	suite.adminToken = suite.env.login(suite.T(), "teacher")
	suite.aliceToken = suite.env.login(suite.T(), "alice")
	suite.bobToken = suite.env.login(suite.T(), "bob")
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	w := suite.env.postTask(suite.T(), suite.adminToken, taskForm{
		fields: map[string]string{
			"title":       "Fractions",
			"description": "Worksheet 4",
			"due_date":    "2024-06-01",
		},
		imageName:        "worksheet.jpg",
		imageContentType: "image/jpeg",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	task := decode[dto.TaskDTO](suite.T(), w)
	assert.Equal(suite.T(), "Fractions", task.Title)
	assert.Equal(suite.T(), suite.admin.ID, task.CreatorID)
	suite.Require().NotNil(task.Creator)
	assert.Equal(suite.T(), "teacher", task.Creator.Username)
	suite.Require().NotNil(task.DueDate)
	assert.Equal(suite.T(), "2024-06-01", task.DueDate.Format("2006-01-02"))
	suite.Require().NotNil(task.ImagePath)
	assert.True(suite.T(), strings.HasSuffix(*task.ImagePath, ".jpg"))

	var completions int64
	suite.Require().NoError(suite.env.db.Model(&models.Completion{}).Where("task_id = ?", task.ID).Count(&completions).Error)
	assert.Equal(suite.T(), int64(2), completions)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Rejects() {
	tests := []struct {
		name     string
		token    string
		form     taskForm
		wantCode int
	}{
		{
			name:     "student",
			token:    suite.aliceToken,
			form:     taskForm{fields: map[string]string{"title": "x"}, imageName: "a.png", imageContentType: "image/png"},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "no token",
			form:     taskForm{fields: map[string]string{"title": "x"}, imageName: "a.png", imageContentType: "image/png"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "gif image",
			token:    suite.adminToken,
			form:     taskForm{fields: map[string]string{"title": "x"}, imageName: "a.gif", imageContentType: "image/gif"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing image",
			token:    suite.adminToken,
			form:     taskForm{fields: map[string]string{"title": "x"}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing title",
			token:    suite.adminToken,
			form:     taskForm{fields: map[string]string{"description": "x"}, imageName: "a.png", imageContentType: "image/png"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad due date",
			token:    suite.adminToken,
			form:     taskForm{fields: map[string]string{"title": "x", "due_date": "31/12/2024"}, imageName: "a.png", imageContentType: "image/png"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.env.postTask(suite.T(), tt.token, tt.form)
			suite.Equal(tt.wantCode, w.Code, w.Body.String())
		})
	}

	var tasks int64
	suite.Require().NoError(suite.env.db.Model(&models.Task{}).Count(&tasks).Error)
	assert.Equal(suite.T(), int64(0), tasks)
	assert.Equal(suite.T(), 0, suite.env.images.Len())
}

func (suite *TaskHandlerTestSuite) TestCreateTask_RequiresMultipart() {
	w := suite.env.doJSON(suite.T(), http.MethodPost, "/tasks", suite.adminToken, map[string]string{"title": "x"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks() {
	suite.env.createTask(suite.T(), suite.adminToken, "First")
	suite.env.createTask(suite.T(), suite.adminToken, "Second")

	for _, token := range []string{suite.adminToken, suite.aliceToken} {
		w := suite.env.do(http.MethodGet, "/tasks", token, nil, "")
		suite.Require().Equal(http.StatusOK, w.Code)

		tasks := decode[[]dto.TaskDTO](suite.T(), w)
		suite.Require().Len(tasks, 2)
		assert.Equal(suite.T(), "Second", tasks[0].Title)
	}

	w := suite.env.do(http.MethodGet, fmt.Sprintf("/tasks?creator_id=%d", suite.alice.ID), suite.aliceToken, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Empty(suite.T(), decode[[]dto.TaskDTO](suite.T(), w))

	w = suite.env.do(http.MethodGet, "/tasks?creator_id=abc", suite.aliceToken, nil, "")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.env.do(http.MethodGet, "/tasks", "", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask() {
	task := suite.env.createTask(suite.T(), suite.adminToken, "Fractions")
	path := fmt.Sprintf("/tasks/%d", task.ID)

	w := suite.env.do(http.MethodPut, path+"/complete", suite.aliceToken, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.env.do(http.MethodGet, path, suite.adminToken, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	detail := decode[dto.TaskDetailDTO](suite.T(), w)
	assert.Equal(suite.T(), "Fractions", detail.Title)
	assert.Equal(suite.T(), int64(2), detail.TotalStudents)
	assert.Equal(suite.T(), int64(1), detail.CompletedCount)
	assert.Equal(suite.T(), int64(1), detail.PendingCount)
	assert.Equal(suite.T(), float64(50), detail.CompletionRate)
	suite.Require().Len(detail.Completions, 2)
	suite.Require().NotNil(detail.Completions[0].Student)
	assert.Equal(suite.T(), "alice", detail.Completions[0].Student.Username)
	assert.True(suite.T(), detail.Completions[0].Completed)

	w = suite.env.do(http.MethodGet, path, suite.aliceToken, nil, "")
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.env.do(http.MethodGet, "/tasks/999", suite.adminToken, nil, "")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), apierrors.ErrCodeNotFound, decode[apierrors.APIError](suite.T(), w).Code)

	w = suite.env.do(http.MethodGet, "/tasks/abc", suite.adminToken, nil, "")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCompleteAndUncomplete() {
	task := suite.env.createTask(suite.T(), suite.adminToken, "Fractions")
	path := fmt.Sprintf("/tasks/%d", task.ID)

	w := suite.env.doJSON(suite.T(), http.MethodPut, path+"/complete", suite.aliceToken, map[string]string{"notes": "page 12 was hard"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	assert.Equal(suite.T(), "Task marked as completed", decode[dto.MessageDTO](suite.T(), w).Message)

	w = suite.env.do(http.MethodGet, "/my-tasks", suite.aliceToken, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	mine := decode[[]dto.MyTaskDTO](suite.T(), w)
	suite.Require().Len(mine, 1)
	assert.True(suite.T(), mine[0].Completed)
	suite.Require().NotNil(mine[0].Notes)
	assert.Equal(suite.T(), "page 12 was hard", *mine[0].Notes)
	assert.NotNil(suite.T(), mine[0].CompletedAt)
	assert.Equal(suite.T(), "Fractions", mine[0].Task.Title)

	// bob's row is independent of alice's
	w = suite.env.do(http.MethodGet, "/my-tasks", suite.bobToken, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.False(suite.T(), decode[[]dto.MyTaskDTO](suite.T(), w)[0].Completed)

	w = suite.env.do(http.MethodPut, path+"/uncomplete", suite.aliceToken, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.env.do(http.MethodGet, "/my-tasks", suite.aliceToken, nil, "")
	mine = decode[[]dto.MyTaskDTO](suite.T(), w)
	suite.Require().Len(mine, 1)
	assert.False(suite.T(), mine[0].Completed)
	assert.Nil(suite.T(), mine[0].CompletedAt)
	assert.Nil(suite.T(), mine[0].Notes)
}

func (suite *TaskHandlerTestSuite) TestComplete_Rejects() {
	task := suite.env.createTask(suite.T(), suite.adminToken, "Fractions")
	path := fmt.Sprintf("/tasks/%d", task.ID)

	w := suite.env.do(http.MethodPut, path+"/complete", suite.adminToken, nil, "")
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.env.do(http.MethodPut, path+"/uncomplete", suite.adminToken, nil, "")
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.env.do(http.MethodGet, "/my-tasks", suite.adminToken, nil, "")
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.env.do(http.MethodPut, "/tasks/999/complete", suite.aliceToken, nil, "")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.env.do(http.MethodPut, "/tasks/0/complete", suite.aliceToken, nil, "")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	// registered after the task was created, so no completion row exists
	testutil.CreateUser(suite.T(), suite.env.db, "latecomer", false)
	lateToken := suite.env.login(suite.T(), "latecomer")
	w = suite.env.do(http.MethodPut, path+"/complete", lateToken, nil, "")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
