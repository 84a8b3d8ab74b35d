package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/edutask-api/internal/auth"
	"github.com/yukikurage/edutask-api/internal/dto"
	"github.com/yukikurage/edutask-api/internal/repository"
	"github.com/yukikurage/edutask-api/internal/services"
	"github.com/yukikurage/edutask-api/internal/testutil"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	images      *testutil.MemoryImageStore
	authService *services.AuthService
	taskService *services.TaskService
	router      *gin.Engine
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	images := testutil.NewMemoryImageStore()

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	completionRepo := repository.NewCompletionRepository(db)

	issuer := auth.NewIssuer("test-secret", "edutask-test", 30*time.Minute)
	authService := services.NewAuthService(userRepo, issuer, auth.NewMemoryBlocklist())
	taskService := services.NewTaskService(taskRepo, completionRepo, userRepo, images)
	statsService := services.NewStatsService(taskRepo, completionRepo, userRepo)

	return testEnv{
		db:          db,
		images:      images,
		authService: authService,
		taskService: taskService,
		router: NewRouter(RouterDeps{
			AuthService:  authService,
			TaskService:  taskService,
			StatsService: statsService,
		}),
	}
}

// login returns a bearer token for a user created by testutil.CreateUser
func (e testEnv) login(t *testing.T, username string) string {
	t.Helper()

	result, err := e.authService.Login(services.LoginInput{Username: username, Password: "password123"})
	require.NoError(t, err)
	return result.Token.AccessToken
}

func (e testEnv) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e testEnv) doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return e.do(method, path, token, bytes.NewReader(body), "application/json")
}

type taskForm struct {
	fields           map[string]string
	imageName        string
	imageContentType string
}

func (e testEnv) postTask(t *testing.T, token string, form taskForm) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range form.fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if form.imageName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, form.imageName))
		h.Set("Content-Type", form.imageContentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake-image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return e.do(http.MethodPost, "/tasks", token, &buf, mw.FormDataContentType())
}

// createTask posts a valid task and returns its DTO
func (e testEnv) createTask(t *testing.T, token, title string) dto.TaskDTO {
	t.Helper()

	w := e.postTask(t, token, taskForm{
		fields:           map[string]string{"title": title, "description": "Solve the exercises"},
		imageName:        "worksheet.png",
		imageContentType: "image/png",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
