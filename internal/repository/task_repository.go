package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/edutask-api/internal/database"
	"github.com/yukikurage/edutask-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateTask is returned when inserting the task row fails inside the fan-out transaction.
	ErrCreateTask = errors.New("task repository: create task failed")
	// ErrLoadStudents is returned when the fan-out target set cannot be read.
	ErrLoadStudents = errors.New("task repository: load students failed")
	// ErrCreateCompletions is returned when inserting the fan-out rows fails.
	ErrCreateCompletions = errors.New("task repository: create completions failed")
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateWithCompletions creates the task and fans it out to every current
// student atomically. Students registered later never receive a row for it.
func (r *GormTaskRepository) CreateWithCompletions(task *models.Task) (int, error) {
	created := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTask, err)
		}

		var studentIDs []uint64
		if err := tx.Model(&models.User{}).
			Scopes(database.Students).
			Order("id").
			Pluck("id", &studentIDs).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrLoadStudents, err)
		}

		if len(studentIDs) == 0 {
			return nil
		}

		completions := make([]models.Completion, len(studentIDs))
		for i, studentID := range studentIDs {
			completions[i] = models.Completion{
				TaskID:    task.ID,
				StudentID: studentID,
			}
		}

		if err := tx.Create(&completions).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateCompletions, err)
		}

		created = len(completions)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByIDs loads the tasks with the given IDs, keyed by ID
func (r *GormTaskRepository) FindByIDs(ids []uint64) (map[uint64]models.Task, error) {
	result := make(map[uint64]models.Task, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var tasks []models.Task
	if err := r.db.Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, err
	}
	for _, t := range tasks {
		result[t.ID] = t
	}
	return result, nil
}

// List lists every task, newest first
func (r *GormTaskRepository) List() ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByCreator lists the tasks authored by one admin, newest first
func (r *GormTaskRepository) ListByCreator(creatorID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("creator_id = ?", creatorID).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Count counts all tasks
func (r *GormTaskRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Count(&count).Error
	return count, err
}
