package models

import "time"

// Completion tracks one student's progress on one task. Exactly one row exists
// per (task, student) pair captured by the fan-out at task creation.
type Completion struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	TaskID      uint64     `gorm:"not null;uniqueIndex:idx_task_completions_task_student" json:"task_id"`
	StudentID   uint64     `gorm:"not null;uniqueIndex:idx_task_completions_task_student" json:"student_id"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       *string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Completion) TableName() string {
	return "task_completions"
}

// MarkComplete stamps the completion. Notes are only replaced when non-empty.
func (c *Completion) MarkComplete(at time.Time, notes string) {
	c.Completed = true
	c.CompletedAt = &at
	if notes != "" {
		c.Notes = &notes
	}
}

// Reset returns the completion to its freshly fanned-out state.
func (c *Completion) Reset() {
	c.Completed = false
	c.CompletedAt = nil
	c.Notes = nil
}
