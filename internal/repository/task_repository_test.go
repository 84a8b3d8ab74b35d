package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/edutask-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestCreateWithCompletions_Commit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `tasks`")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `users`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `task_completions`")).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	task := &models.Task{Title: "Homework", CreatorID: 1, CreatedAt: time.Now().UTC()}
	created, err := repo.CreateWithCompletions(task)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, uint64(7), task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithCompletions_RollsBackWhenFanOutFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `tasks`")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `users`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `task_completions`")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	created, err := repo.CreateWithCompletions(&models.Task{Title: "Homework", CreatorID: 1})
	assert.ErrorIs(t, err, ErrCreateCompletions)
	assert.Equal(t, 0, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithCompletions_RollsBackWhenStudentsCannotBeRead(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `tasks`")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `users`")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.CreateWithCompletions(&models.Task{Title: "Homework", CreatorID: 1})
	assert.ErrorIs(t, err, ErrLoadStudents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithCompletions_NoStudents(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `tasks`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `users`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	created, err := repo.CreateWithCompletions(&models.Task{Title: "Homework", CreatorID: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}
