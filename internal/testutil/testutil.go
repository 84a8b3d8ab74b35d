// Package testutil provides database and storage fixtures shared by tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/edutask-api/internal/database"
	"github.com/yukikurage/edutask-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database that is closed when the
// test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user whose password is "password123"
func CreateUser(t *testing.T, db *gorm.DB, username string, isAdmin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// ErrSaveFailed is returned by MemoryImageStore.Save when FailSave is set
var ErrSaveFailed = errors.New("image store unavailable")

// MemoryImageStore keeps saved images in memory
type MemoryImageStore struct {
	mu       sync.Mutex
	Objects  map[string][]byte
	Deleted  []string
	FailSave bool
}

// NewMemoryImageStore creates an empty MemoryImageStore
func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{Objects: make(map[string][]byte)}
}

func (s *MemoryImageStore) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if s.FailSave {
		return "", ErrSaveFailed
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[name] = data
	return fmt.Sprintf("/uploads/%s", name), nil
}

func (s *MemoryImageStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, name)
	s.Deleted = append(s.Deleted, name)
	return nil
}

// Len reports how many images are stored
func (s *MemoryImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Objects)
}
