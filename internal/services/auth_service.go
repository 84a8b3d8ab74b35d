package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yukikurage/edutask-api/internal/auth"
	"github.com/yukikurage/edutask-api/internal/constants"
	"github.com/yukikurage/edutask-api/internal/models"
	"github.com/yukikurage/edutask-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already registered")
	ErrUsernameRequired     = errors.New("username is required")
	ErrInvalidCredentials   = errors.New("incorrect username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotAuthenticated     = errors.New("could not validate credentials")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrFailedToIssueToken   = errors.New("failed to issue access token")
	ErrFailedToRevokeToken  = errors.New("failed to revoke access token")
)

// AuthService handles registration, credential checks and token lifecycle.
type AuthService struct {
	userRepo  repository.UserRepository
	issuer    *auth.Issuer
	blocklist auth.Blocklist
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, issuer *auth.Issuer, blocklist auth.Blocklist) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		issuer:    issuer,
		blocklist: blocklist,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	IsAdmin  bool
}

// Register creates a new user. Duplicate emails and usernames are rejected
// before anything is written.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
		IsAdmin:      input.IsAdmin,
	}

	if err := s.userRepo.Create(user); err != nil {
		// a concurrent registration may win the race past the checks above
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is an issued access token and the user it belongs to.
type LoginResult struct {
	User  *models.User
	Token auth.Token
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.Username, user.ID, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToIssueToken, err)
	}

	return &LoginResult{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token to its user. Expired, malformed,
// revoked and orphaned tokens all yield ErrNotAuthenticated.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*models.User, auth.Claims, error) {
	claims, err := s.issuer.Parse(tokenStr)
	if err != nil {
		return nil, auth.Claims{}, ErrNotAuthenticated
	}

	revoked, err := s.blocklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, auth.Claims{}, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, auth.Claims{}, ErrNotAuthenticated
	}

	user, err := s.userRepo.FindByUsername(claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.Claims{}, ErrNotAuthenticated
		}
		return nil, auth.Claims{}, fmt.Errorf("failed to find user: %w", err)
	}

	return user, claims, nil
}

// Logout revokes the token described by claims until it expires.
func (s *AuthService) Logout(ctx context.Context, claims auth.Claims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return ErrNotAuthenticated
	}
	if err := s.blocklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToRevokeToken, err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// AdminCredentials are the fixed credentials of the bootstrap admin.
type AdminCredentials struct {
	Email    string
	Username string
	Password string
}

// BootstrapAdmin creates the default admin when no admin exists yet. It is
// safe to call on every startup and reports whether a user was created.
func (s *AuthService) BootstrapAdmin(creds AdminCredentials) (bool, error) {
	exists, err := s.userRepo.AdminExists()
	if err != nil {
		return false, fmt.Errorf("failed to check for admin: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := s.Register(RegisterInput{
		Email:    creds.Email,
		Username: creds.Username,
		Password: creds.Password,
		IsAdmin:  true,
	}); err != nil {
		return false, err
	}

	log.Printf("Default admin user created: %s", creds.Username)
	return true, nil
}
