package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/yukikurage/edutask-api/internal/constants"
	"github.com/yukikurage/edutask-api/internal/metrics"
	"github.com/yukikurage/edutask-api/internal/models"
	"github.com/yukikurage/edutask-api/internal/repository"
	"github.com/yukikurage/edutask-api/internal/storage"
	"github.com/yukikurage/edutask-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound          = errors.New("task not found")
	ErrCreatorNotFound       = errors.New("creator not found")
	ErrNotAdmin              = errors.New("not enough permissions")
	ErrAdminHasNoTasks       = errors.New("admins cannot have assigned tasks")
	ErrAdminCannotComplete   = errors.New("admins cannot complete tasks")
	ErrAdminCannotUncomplete = errors.New("admins cannot uncomplete tasks")
	ErrCompletionNotFound    = errors.New("task assignment not found")
	ErrTitleRequired         = errors.New("title is required")
	ErrImageRequired         = errors.New("image is required")
	ErrInvalidImageType      = errors.New("only JPEG and PNG images are allowed")
	ErrInvalidDueDate        = errors.New("invalid date format")
	ErrFailedToSaveImage     = errors.New("error saving image")
	ErrFailedToCreateTask    = errors.New("failed to create task")
)

// TaskService handles task creation, fan-out and completion toggling
type TaskService struct {
	taskRepo       repository.TaskRepository
	completionRepo repository.CompletionRepository
	userRepo       repository.UserRepository
	images         storage.ImageStore
	now            func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	completionRepo repository.CompletionRepository,
	userRepo repository.UserRepository,
	images storage.ImageStore,
) *TaskService {
	return &TaskService{
		taskRepo:       taskRepo,
		completionRepo: completionRepo,
		userRepo:       userRepo,
		images:         images,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// ImageUpload is an uploaded image as received from the client
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     string
	CreatorID   uint64
	Image       *ImageUpload
}

// TaskWithCreator pairs a task with its author
type TaskWithCreator struct {
	Task    models.Task
	Creator *models.User
}

// CompletionWithStudent pairs a completion with the student it belongs to
type CompletionWithStudent struct {
	Completion models.Completion
	Student    *models.User
}

// TaskDetail is a task with every completion and their aggregate
type TaskDetail struct {
	TaskWithCreator
	Completions []CompletionWithStudent
	Summary     CompletionSummary
}

// MyTask is one of a student's completions with the task it refers to
type MyTask struct {
	Completion models.Completion
	Task       TaskWithCreator
}

// CreateTask validates the request, stores the image and then creates the
// task together with one pending completion per current student.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*TaskWithCreator, error) {
	creator, err := s.userRepo.FindByID(input.CreatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("failed to find creator: %w", err)
	}
	if !creator.IsAdmin {
		return nil, ErrNotAdmin
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if input.Image == nil || input.Image.Content == nil {
		return nil, ErrImageRequired
	}
	contentType := strings.ToLower(strings.TrimSpace(input.Image.ContentType))
	if _, ok := constants.AllowedImageTypes[contentType]; !ok {
		return nil, ErrInvalidImageType
	}

	var dueDate *time.Time
	if strings.TrimSpace(input.DueDate) != "" {
		parsed, err := utils.ParseISODate(input.DueDate)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		dueDate = &parsed
	}

	imageName := storage.GenerateImageName(input.Image.Filename)
	imagePath, err := s.images.Save(ctx, imageName, contentType, input.Image.Content)
	if err != nil {
		log.Printf("failed to save image %s: %v", imageName, err)
		return nil, ErrFailedToSaveImage
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		ImagePath:   &imagePath,
		DueDate:     dueDate,
		CreatorID:   creator.ID,
		CreatedAt:   s.now(),
	}

	assigned, err := s.taskRepo.CreateWithCompletions(task)
	if err != nil {
		if delErr := s.images.Delete(ctx, imageName); delErr != nil {
			log.Printf("failed to remove orphaned image %s: %v", imageName, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateTask, err)
	}

	metrics.TasksCreated.Inc()
	metrics.CompletionsFannedOut.Add(float64(assigned))

	return &TaskWithCreator{Task: *task, Creator: creator}, nil
}

// ListTasksInput filters the task list
type ListTasksInput struct {
	CreatorID *uint64
}

// ListTasks returns tasks with their creators, newest first
func (s *TaskService) ListTasks(input ListTasksInput) ([]TaskWithCreator, error) {
	var (
		tasks []models.Task
		err   error
	)
	if input.CreatorID != nil {
		tasks, err = s.taskRepo.ListByCreator(*input.CreatorID)
	} else {
		tasks, err = s.taskRepo.List()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	creatorIDs := make([]uint64, 0, len(tasks))
	for _, t := range tasks {
		creatorIDs = append(creatorIDs, t.CreatorID)
	}
	creators, err := s.userRepo.FindByIDs(uniqueUint64(creatorIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load task creators: %w", err)
	}

	result := make([]TaskWithCreator, len(tasks))
	for i, t := range tasks {
		result[i] = TaskWithCreator{Task: t, Creator: lookupUser(creators, t.CreatorID)}
	}
	return result, nil
}

// GetTaskDetail returns a task with every completion and their aggregate
func (s *TaskService) GetTaskDetail(taskID uint64) (*TaskDetail, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	completions, err := s.completionRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}

	userIDs := make([]uint64, 0, len(completions)+1)
	userIDs = append(userIDs, task.CreatorID)
	for _, c := range completions {
		userIDs = append(userIDs, c.StudentID)
	}
	users, err := s.userRepo.FindByIDs(uniqueUint64(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	detail := &TaskDetail{
		TaskWithCreator: TaskWithCreator{Task: *task, Creator: lookupUser(users, task.CreatorID)},
		Completions:     make([]CompletionWithStudent, len(completions)),
		Summary:         Summarize(completions),
	}
	for i, c := range completions {
		detail.Completions[i] = CompletionWithStudent{Completion: c, Student: lookupUser(users, c.StudentID)}
	}

	return detail, nil
}

// ListMyTasks returns the student's completions joined with their tasks
func (s *TaskService) ListMyTasks(studentID uint64) ([]MyTask, error) {
	if _, err := s.resolveStudent(studentID, ErrAdminHasNoTasks); err != nil {
		return nil, err
	}

	completions, err := s.completionRepo.ListByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}

	taskIDs := make([]uint64, len(completions))
	for i, c := range completions {
		taskIDs[i] = c.TaskID
	}
	tasks, err := s.taskRepo.FindByIDs(taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	creatorIDs := make([]uint64, 0, len(tasks))
	for _, t := range tasks {
		creatorIDs = append(creatorIDs, t.CreatorID)
	}
	creators, err := s.userRepo.FindByIDs(uniqueUint64(creatorIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load task creators: %w", err)
	}

	result := make([]MyTask, 0, len(completions))
	for _, c := range completions {
		task, ok := tasks[c.TaskID]
		if !ok {
			continue
		}
		result = append(result, MyTask{
			Completion: c,
			Task:       TaskWithCreator{Task: task, Creator: lookupUser(creators, task.CreatorID)},
		})
	}
	return result, nil
}

// MarkCompleteInput represents input for completing a task
type MarkCompleteInput struct {
	TaskID    uint64
	StudentID uint64
	Notes     string
}

// MarkComplete flags the student's completion as done. Empty notes keep the
// previously stored notes.
func (s *TaskService) MarkComplete(input MarkCompleteInput) (*models.Completion, error) {
	completion, err := s.findOwnCompletion(input.TaskID, input.StudentID, ErrAdminCannotComplete)
	if err != nil {
		return nil, err
	}

	completion.MarkComplete(s.now(), strings.TrimSpace(input.Notes))
	if err := s.completionRepo.Save(completion); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	metrics.CompletionToggles.WithLabelValues("complete").Inc()
	return completion, nil
}

// MarkIncomplete resets the student's completion to its pending state,
// clearing the timestamp and notes.
func (s *TaskService) MarkIncomplete(taskID, studentID uint64) (*models.Completion, error) {
	completion, err := s.findOwnCompletion(taskID, studentID, ErrAdminCannotUncomplete)
	if err != nil {
		return nil, err
	}

	completion.Reset()
	if err := s.completionRepo.Save(completion); err != nil {
		return nil, fmt.Errorf("failed to uncomplete task: %w", err)
	}

	metrics.CompletionToggles.WithLabelValues("uncomplete").Inc()
	return completion, nil
}

func (s *TaskService) findOwnCompletion(taskID, studentID uint64, adminErr error) (*models.Completion, error) {
	if _, err := s.resolveStudent(studentID, adminErr); err != nil {
		return nil, err
	}

	completion, err := s.completionRepo.FindByTaskAndStudent(taskID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompletionNotFound
		}
		return nil, fmt.Errorf("failed to find completion: %w", err)
	}
	return completion, nil
}

// resolveStudent loads the user and rejects admins with adminErr
func (s *TaskService) resolveStudent(userID uint64, adminErr error) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.IsAdmin {
		return nil, adminErr
	}
	return user, nil
}

func lookupUser(users map[uint64]models.User, id uint64) *models.User {
	u, ok := users[id]
	if !ok {
		return nil
	}
	return &u
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
