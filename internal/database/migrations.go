package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds the foreign-key lookup indexes used by the fan-out and the
// statistics queries. Existing indexes are left untouched.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"users", "idx_users_is_admin", "is_admin"},

		{"tasks", "idx_tasks_creator_id", "creator_id"},
		{"tasks", "idx_tasks_created_at", "created_at"},

		{"task_completions", "idx_task_completions_task_id", "task_id"},
		{"task_completions", "idx_task_completions_student_id", "student_id"},
		{"task_completions", "idx_task_completions_completed", "completed"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
