package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/edutask-api/internal/config"
	"github.com/yukikurage/edutask-api/internal/models"
	"gorm.io/gorm/logger"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, logLevel("silent"))
	assert.Equal(t, logger.Error, logLevel("ERROR"))
	assert.Equal(t, logger.Info, logLevel("info"))
	assert.Equal(t, logger.Warn, logLevel(""))
}

func TestMigrate(t *testing.T) {
	db, err := Open(&config.Config{
		DBDriver:   "sqlite",
		DBName:     t.TempDir() + "/edutask.db",
		DBLogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	require.NoError(t, Migrate(db))
	// a second run finds every index in place
	require.NoError(t, Migrate(db))

	migrator := db.Migrator()
	for _, table := range []interface{}{&models.User{}, &models.Task{}, &models.Completion{}} {
		assert.True(t, migrator.HasTable(table))
	}
	assert.True(t, migrator.HasIndex("task_completions", "idx_task_completions_task_student"))
	assert.True(t, migrator.HasIndex("task_completions", "idx_task_completions_student_id"))
	assert.True(t, migrator.HasIndex("tasks", "idx_tasks_creator_id"))
}

func TestScopes(t *testing.T) {
	db, err := Open(&config.Config{DBDriver: "sqlite", DBName: ":memory:", DBLogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&[]models.User{
		{Email: "a@example.com", Username: "a", PasswordHash: "x", IsAdmin: true},
		{Email: "b@example.com", Username: "b", PasswordHash: "x"},
		{Email: "c@example.com", Username: "c", PasswordHash: "x"},
	}).Error)

	var admins, students int64
	require.NoError(t, db.Model(&models.User{}).Scopes(Admins).Count(&admins).Error)
	require.NoError(t, db.Model(&models.User{}).Scopes(Students).Count(&students).Error)
	assert.Equal(t, int64(1), admins)
	assert.Equal(t, int64(2), students)
}
