package dto

import (
	"time"

	"github.com/yukikurage/edutask-api/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImagePath   *string    `json:"image_path"`
	DueDate     *time.Time `json:"due_date"`
	CreatorID   uint64     `json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	Creator     *UserDTO   `json:"creator,omitempty"`
}

// CompletionDTO represents one student's completion in a task detail
type CompletionDTO struct {
	ID          uint64     `json:"id"`
	TaskID      uint64     `json:"task_id"`
	StudentID   uint64     `json:"student_id"`
	Student     *UserDTO   `json:"student,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       *string    `json:"notes"`
}

// TaskDetailDTO is a task with its completions and aggregate counters
type TaskDetailDTO struct {
	TaskDTO
	TotalStudents  int64           `json:"total_students"`
	CompletedCount int64           `json:"completed_count"`
	PendingCount   int64           `json:"pending_count"`
	CompletionRate float64         `json:"completion_rate"`
	Completions    []CompletionDTO `json:"completions"`
}

// MyTaskDTO is one entry of a student's task list
type MyTaskDTO struct {
	CompletionID uint64     `json:"completion_id"`
	Task         TaskDTO    `json:"task"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at"`
	Notes        *string    `json:"notes"`
}

// ToTaskDTO converts a task and its creator to TaskDTO
func ToTaskDTO(t services.TaskWithCreator) TaskDTO {
	return TaskDTO{
		ID:          t.Task.ID,
		Title:       t.Task.Title,
		Description: t.Task.Description,
		ImagePath:   t.Task.ImagePath,
		DueDate:     t.Task.DueDate,
		CreatorID:   t.Task.CreatorID,
		CreatedAt:   t.Task.CreatedAt,
		Creator:     toUserDTOPtr(t.Creator),
	}
}

// ToTaskListDTO converts a task list
func ToTaskListDTO(tasks []services.TaskWithCreator) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		items[i] = ToTaskDTO(t)
	}
	return items
}

// ToCompletionDTO converts a completion and its student
func ToCompletionDTO(c services.CompletionWithStudent) CompletionDTO {
	return CompletionDTO{
		ID:          c.Completion.ID,
		TaskID:      c.Completion.TaskID,
		StudentID:   c.Completion.StudentID,
		Student:     toUserDTOPtr(c.Student),
		Completed:   c.Completion.Completed,
		CompletedAt: c.Completion.CompletedAt,
		Notes:       c.Completion.Notes,
	}
}

// ToTaskDetailDTO converts a task detail
func ToTaskDetailDTO(d services.TaskDetail) TaskDetailDTO {
	completions := make([]CompletionDTO, len(d.Completions))
	for i, c := range d.Completions {
		completions[i] = ToCompletionDTO(c)
	}

	return TaskDetailDTO{
		TaskDTO:        ToTaskDTO(d.TaskWithCreator),
		TotalStudents:  d.Summary.Total,
		CompletedCount: d.Summary.Completed,
		PendingCount:   d.Summary.Pending,
		CompletionRate: d.Summary.Rate,
		Completions:    completions,
	}
}

// ToMyTaskListDTO converts a student's task list
func ToMyTaskListDTO(items []services.MyTask) []MyTaskDTO {
	result := make([]MyTaskDTO, len(items))
	for i, item := range items {
		result[i] = MyTaskDTO{
			CompletionID: item.Completion.ID,
			Task:         ToTaskDTO(item.Task),
			Completed:    item.Completion.Completed,
			CompletedAt:  item.Completion.CompletedAt,
			Notes:        item.Completion.Notes,
		}
	}
	return result
}
