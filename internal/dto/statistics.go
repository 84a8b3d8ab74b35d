package dto

import (
	"time"

	"github.com/yukikurage/edutask-api/internal/services"
)

type OverviewStatsDTO struct {
	TotalTasks            int64   `json:"total_tasks"`
	TotalStudents         int64   `json:"total_students"`
	TotalCompletions      int64   `json:"total_completions"`
	CompletedCompletions  int64   `json:"completed_completions"`
	PendingCompletions    int64   `json:"pending_completions"`
	OverallCompletionRate float64 `json:"overall_completion_rate"`
}

type TaskStatsDTO struct {
	TaskID           uint64    `json:"task_id"`
	TaskTitle        string    `json:"task_title"`
	TotalAssignments int64     `json:"total_assignments"`
	Completed        int64     `json:"completed"`
	Pending          int64     `json:"pending"`
	CompletionRate   float64   `json:"completion_rate"`
	CreatedAt        time.Time `json:"created_at"`
}

type StudentStatsDTO struct {
	StudentID      uint64  `json:"student_id"`
	StudentName    string  `json:"student_name"`
	StudentEmail   string  `json:"student_email"`
	TotalTasks     int64   `json:"total_tasks"`
	CompletedTasks int64   `json:"completed_tasks"`
	PendingTasks   int64   `json:"pending_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

func ToOverviewStatsDTO(s services.OverviewStats) OverviewStatsDTO {
	return OverviewStatsDTO{
		TotalTasks:            s.TotalTasks,
		TotalStudents:         s.TotalStudents,
		TotalCompletions:      s.Completions.Total,
		CompletedCompletions:  s.Completions.Completed,
		PendingCompletions:    s.Completions.Pending,
		OverallCompletionRate: s.Completions.Rate,
	}
}

func ToTaskStatsDTOs(stats []services.TaskStats) []TaskStatsDTO {
	result := make([]TaskStatsDTO, len(stats))
	for i, s := range stats {
		result[i] = TaskStatsDTO{
			TaskID:           s.TaskID,
			TaskTitle:        s.TaskTitle,
			TotalAssignments: s.Summary.Total,
			Completed:        s.Summary.Completed,
			Pending:          s.Summary.Pending,
			CompletionRate:   s.Summary.Rate,
			CreatedAt:        s.CreatedAt,
		}
	}
	return result
}

func ToStudentStatsDTOs(stats []services.StudentStats) []StudentStatsDTO {
	result := make([]StudentStatsDTO, len(stats))
	for i, s := range stats {
		result[i] = StudentStatsDTO{
			StudentID:      s.StudentID,
			StudentName:    s.StudentName,
			StudentEmail:   s.StudentEmail,
			TotalTasks:     s.Summary.Total,
			CompletedTasks: s.Summary.Completed,
			PendingTasks:   s.Summary.Pending,
			CompletionRate: s.Summary.Rate,
		}
	}
	return result
}
