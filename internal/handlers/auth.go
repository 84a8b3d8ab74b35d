package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/edutask-api/internal/constants"
	"github.com/yukikurage/edutask-api/internal/dto"
	apierrors "github.com/yukikurage/edutask-api/internal/errors"
	"github.com/yukikurage/edutask-api/internal/middleware"
	"github.com/yukikurage/edutask-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user from form or JSON fields.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email    string `form:"email" json:"email" binding:"required,email"`
		Username string `form:"username" json:"username" binding:"required,max=255"`
		Password string `form:"password" json:"password" binding:"required"`
		IsAdmin  bool   `form:"is_admin" json:"is_admin"`
	}

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login checks credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `form:"username" json:"username" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenDTO{
		AccessToken: result.Token.AccessToken,
		TokenType:   constants.TokenType,
		ExpiresAt:   result.Token.ExpiresAt,
	})
}

// Logout revokes the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageDTO{Message: "Logged out successfully"})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUsernameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrNotAuthenticated):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToCreateUser):
		log.Printf("auth error: %v", err)
		apierrors.InternalError(c, services.ErrFailedToCreateUser.Error())
	case errors.Is(err, services.ErrFailedToIssueToken):
		log.Printf("auth error: %v", err)
		apierrors.InternalError(c, services.ErrFailedToIssueToken.Error())
	case errors.Is(err, services.ErrFailedToRevokeToken):
		log.Printf("auth error: %v", err)
		apierrors.InternalError(c, services.ErrFailedToRevokeToken.Error())
	default:
		log.Printf("auth error: %v", err)
		apierrors.InternalError(c, "Internal server error")
	}
}
