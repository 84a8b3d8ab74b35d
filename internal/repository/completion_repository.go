package repository

import (
	"github.com/yukikurage/edutask-api/internal/database"
	"github.com/yukikurage/edutask-api/internal/models"
	"gorm.io/gorm"
)

// GormCompletionRepository is a GORM implementation of CompletionRepository
type GormCompletionRepository struct {
	db *gorm.DB
}

// NewCompletionRepository creates a new CompletionRepository
func NewCompletionRepository(db *gorm.DB) CompletionRepository {
	return &GormCompletionRepository{db: db}
}

// FindByTaskAndStudent finds the completion of one student for one task
func (r *GormCompletionRepository) FindByTaskAndStudent(taskID, studentID uint64) (*models.Completion, error) {
	var completion models.Completion
	if err := r.db.Where("task_id = ? AND student_id = ?", taskID, studentID).
		First(&completion).Error; err != nil {
		return nil, err
	}
	return &completion, nil
}

// Save persists every column of an existing completion, including nulls
func (r *GormCompletionRepository) Save(completion *models.Completion) error {
	return r.db.Save(completion).Error
}

// ListByTask lists the completions of a task ordered by student
func (r *GormCompletionRepository) ListByTask(taskID uint64) ([]models.Completion, error) {
	var completions []models.Completion
	if err := r.db.Where("task_id = ?", taskID).
		Order("student_id").
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

// ListByStudent lists the completions of a student, newest task first
func (r *GormCompletionRepository) ListByStudent(studentID uint64) ([]models.Completion, error) {
	var completions []models.Completion
	if err := r.db.Where("student_id = ?", studentID).
		Order("task_id DESC").
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

// Count counts all completions
func (r *GormCompletionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Completion{}).Count(&count).Error
	return count, err
}

// CountCompleted counts completions marked as completed
func (r *GormCompletionRepository) CountCompleted() (int64, error) {
	var count int64
	err := r.db.Model(&models.Completion{}).Scopes(database.Completed).Count(&count).Error
	return count, err
}
