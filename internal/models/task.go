package models

import "time"

// Task is an assignment authored by an admin. It references its creator by ID
// only; completions are loaded through the completion repository.
type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	ImagePath   *string    `gorm:"type:varchar(512)" json:"image_path"`
	DueDate     *time.Time `json:"due_date"`
	CreatorID   uint64     `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
}
