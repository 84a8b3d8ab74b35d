package repository

import (
	"github.com/yukikurage/edutask-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByIDs loads the users with the given IDs, keyed by ID
	FindByIDs(ids []uint64) (map[uint64]models.User, error)

	// AdminExists reports whether at least one admin user is stored
	AdminExists() (bool, error)

	// ListStudents lists every non-admin user
	ListStudents() ([]models.User, error)

	// CountStudents counts non-admin users
	CountStudents() (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CreateWithCompletions inserts the task and one pending completion per
	// current student in a single transaction. It returns the number of
	// completions created.
	CreateWithCompletions(task *models.Task) (int, error)

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// FindByIDs loads the tasks with the given IDs, keyed by ID
	FindByIDs(ids []uint64) (map[uint64]models.Task, error)

	// List lists every task, newest first
	List() ([]models.Task, error)

	// ListByCreator lists the tasks authored by one admin, newest first
	ListByCreator(creatorID uint64) ([]models.Task, error)

	// Count counts all tasks
	Count() (int64, error)
}

// CompletionRepository defines the interface for completion data access
type CompletionRepository interface {
	// FindByTaskAndStudent finds the completion of one student for one task
	FindByTaskAndStudent(taskID, studentID uint64) (*models.Completion, error)

	// Save persists every column of an existing completion, including nulls
	Save(completion *models.Completion) error

	// ListByTask lists the completions of a task ordered by student
	ListByTask(taskID uint64) ([]models.Completion, error)

	// ListByStudent lists the completions of a student, newest task first
	ListByStudent(studentID uint64) ([]models.Completion, error)

	// Count counts all completions
	Count() (int64, error)

	// CountCompleted counts completions marked as completed
	CountCompleted() (int64, error)
}
