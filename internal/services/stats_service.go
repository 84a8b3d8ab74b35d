package services

import (
	"fmt"
	"math"
	"time"

	"github.com/yukikurage/edutask-api/internal/models"
	"github.com/yukikurage/edutask-api/internal/repository"
)

// CompletionRate returns completed/total as a percentage rounded to two
// decimals. An empty group has a rate of 0.
func CompletionRate(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(completed) / float64(total) * 100
	return math.Round(rate*100) / 100
}

// CompletionSummary aggregates a group of completions
type CompletionSummary struct {
	Total     int64
	Completed int64
	Pending   int64
	Rate      float64
}

// Summarize counts the completed and pending rows of a group
func Summarize(completions []models.Completion) CompletionSummary {
	var completed int64
	for _, c := range completions {
		if c.Completed {
			completed++
		}
	}
	total := int64(len(completions))
	return CompletionSummary{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
		Rate:      CompletionRate(completed, total),
	}
}

// OverviewStats summarizes the whole system
type OverviewStats struct {
	TotalTasks    int64
	TotalStudents int64
	Completions   CompletionSummary
}

// TaskStats summarizes one task
type TaskStats struct {
	TaskID    uint64
	TaskTitle string
	CreatedAt time.Time
	Summary   CompletionSummary
}

// StudentStats summarizes one student
type StudentStats struct {
	StudentID    uint64
	StudentName  string
	StudentEmail string
	Summary      CompletionSummary
}

// StatsService recomputes completion statistics from the current rows on
// every call.
type StatsService struct {
	taskRepo       repository.TaskRepository
	completionRepo repository.CompletionRepository
	userRepo       repository.UserRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(
	taskRepo repository.TaskRepository,
	completionRepo repository.CompletionRepository,
	userRepo repository.UserRepository,
) *StatsService {
	return &StatsService{
		taskRepo:       taskRepo,
		completionRepo: completionRepo,
		userRepo:       userRepo,
	}
}

// Overview returns system-wide totals
func (s *StatsService) Overview() (*OverviewStats, error) {
	totalTasks, err := s.taskRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	totalStudents, err := s.userRepo.CountStudents()
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	total, err := s.completionRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count completions: %w", err)
	}
	completed, err := s.completionRepo.CountCompleted()
	if err != nil {
		return nil, fmt.Errorf("failed to count completed completions: %w", err)
	}

	return &OverviewStats{
		TotalTasks:    totalTasks,
		TotalStudents: totalStudents,
		Completions: CompletionSummary{
			Total:     total,
			Completed: completed,
			Pending:   total - completed,
			Rate:      CompletionRate(completed, total),
		},
	}, nil
}

// TaskStats returns one entry per task, newest first
func (s *StatsService) TaskStats() ([]TaskStats, error) {
	tasks, err := s.taskRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	stats := make([]TaskStats, 0, len(tasks))
	for _, task := range tasks {
		completions, err := s.completionRepo.ListByTask(task.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list completions for task %d: %w", task.ID, err)
		}
		stats = append(stats, TaskStats{
			TaskID:    task.ID,
			TaskTitle: task.Title,
			CreatedAt: task.CreatedAt,
			Summary:   Summarize(completions),
		})
	}
	return stats, nil
}

// StudentStats returns one entry per student
func (s *StatsService) StudentStats() ([]StudentStats, error) {
	students, err := s.userRepo.ListStudents()
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	stats := make([]StudentStats, 0, len(students))
	for _, student := range students {
		completions, err := s.completionRepo.ListByStudent(student.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list completions for student %d: %w", student.ID, err)
		}
		stats = append(stats, StudentStats{
			StudentID:    student.ID,
			StudentName:  student.Username,
			StudentEmail: student.Email,
			Summary:      Summarize(completions),
		})
	}
	return stats, nil
}
