package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/edutask-api/internal/auth"
	"github.com/yukikurage/edutask-api/internal/constants"
	apierrors "github.com/yukikurage/edutask-api/internal/errors"
	"github.com/yukikurage/edutask-api/internal/models"
	"github.com/yukikurage/edutask-api/internal/services"
)

// RequireAuth resolves the bearer token to a user and stores the user, its ID
// and the token claims in the context.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "Not authenticated")
			return
		}

		user, claims, err := authService.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, services.ErrNotAuthenticated) {
				apierrors.Unauthorized(c, "")
				return
			}
			log.Printf("authentication failed: %v", err)
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireAdmin rejects non-admin users. It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "Not authenticated")
			return
		}
		if !user.IsAdmin {
			apierrors.Forbidden(c, "Not enough permissions")
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetCurrentUser retrieves the authenticated user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// GetClaims retrieves the access token claims from context
func GetClaims(c *gin.Context) (auth.Claims, bool) {
	value, exists := c.Get(constants.ContextKeyClaims)
	if !exists {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}
