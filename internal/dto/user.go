package dto

import (
	"time"

	"github.com/yukikurage/edutask-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash is never exposed.
type UserDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenDTO is the login response
type TokenDTO struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// MessageDTO is a plain confirmation
type MessageDTO struct {
	Message string `json:"message"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

func toUserDTOPtr(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	u := ToUserDTO(*user)
	return &u
}
