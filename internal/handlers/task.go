package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/edutask-api/internal/constants"
	"github.com/yukikurage/edutask-api/internal/dto"
	apierrors "github.com/yukikurage/edutask-api/internal/errors"
	"github.com/yukikurage/edutask-api/internal/middleware"
	"github.com/yukikurage/edutask-api/internal/services"
)

// TaskHandler handles task and completion endpoints
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task from a multipart form and fans it out to every student
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title       string `form:"title" binding:"required"`
		Description string `form:"description"`
		DueDate     string `form:"due_date"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := c.Request.ParseMultipartForm(constants.MaxUploadMemory); err != nil {
		apierrors.BadRequest(c, "Expected multipart form data")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fileHeader, err := c.FormFile(constants.ImageFormField)
	if err != nil {
		apierrors.BadRequest(c, "Image is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("failed to open uploaded image: %v", err)
		apierrors.InternalError(c, "Error reading image")
		return
	}
	defer file.Close()

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CreatorID:   userID,
		Image: &services.ImageUpload{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Content:     file,
		},
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns every task, optionally restricted to one creator
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var input services.ListTasksInput
	if raw := c.Query("creator_id"); raw != "" {
		creatorID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid creator ID")
			return
		}
		input.CreatorID = &creatorID
	}

	tasks, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListDTO(tasks))
}

// GetTask returns a task with every student's completion and its summary
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := middleware.GetTaskID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	detail, err := h.taskService.GetTaskDetail(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*detail))
}

// MyTasks lists the authenticated student's completions
func (h *TaskHandler) MyTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	items, err := h.taskService.ListMyTasks(userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMyTaskListDTO(items))
}

// CompleteTask marks the authenticated student's completion as done
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	type CompleteTaskRequest struct {
		Notes string `form:"notes" json:"notes"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := middleware.GetTaskID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req CompleteTaskRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.taskService.MarkComplete(services.MarkCompleteInput{
		TaskID:    taskID,
		StudentID: userID,
		Notes:     req.Notes,
	}); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageDTO{Message: "Task marked as completed"})
}

// UncompleteTask resets the authenticated student's completion
func (h *TaskHandler) UncompleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := middleware.GetTaskID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if _, err := h.taskService.MarkIncomplete(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageDTO{Message: "Task marked as incomplete"})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCompletionNotFound),
		errors.Is(err, services.ErrCreatorNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotAdmin),
		errors.Is(err, services.ErrAdminHasNoTasks),
		errors.Is(err, services.ErrAdminCannotComplete),
		errors.Is(err, services.ErrAdminCannotUncomplete):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrImageRequired),
		errors.Is(err, services.ErrInvalidImageType),
		errors.Is(err, services.ErrInvalidDueDate):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrFailedToSaveImage):
		log.Printf("task error: %v", err)
		apierrors.InternalError(c, services.ErrFailedToSaveImage.Error())
	case errors.Is(err, services.ErrFailedToCreateTask):
		log.Printf("task error: %v", err)
		apierrors.InternalError(c, services.ErrFailedToCreateTask.Error())
	default:
		log.Printf("task error: %v", err)
		apierrors.InternalError(c, "Internal server error")
	}
}
