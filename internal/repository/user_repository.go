package repository

import (
	"github.com/yukikurage/edutask-api/internal/database"
	"github.com/yukikurage/edutask-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs loads the users with the given IDs, keyed by ID
func (r *GormUserRepository) FindByIDs(ids []uint64) (map[uint64]models.User, error) {
	result := make(map[uint64]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// AdminExists reports whether at least one admin user is stored
func (r *GormUserRepository) AdminExists() (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Scopes(database.Admins).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListStudents lists every non-admin user
func (r *GormUserRepository) ListStudents() ([]models.User, error) {
	var users []models.User
	if err := r.db.Scopes(database.Students).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountStudents counts non-admin users
func (r *GormUserRepository) CountStudents() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Scopes(database.Students).Count(&count).Error
	return count, err
}
