package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"chartdeck/internal/auth"
	"chartdeck/internal/errors"
	"chartdeck/internal/model"
	"chartdeck/internal/repository"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

// AuthService handles registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken string, user *model.User, err error)
	// Logout revokes the token the caller authenticated with.
	Logout(ctx context.Context, identity *auth.Identity)
}

type authService struct {
	users       repository.UserRepository
	jwtService  *auth.JWTService
	revocations *auth.RevocationList
}

// NewAuthService creates a new authentication service. revocations may be nil,
// logout is then a no-op on the server.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, revocations *auth.RevocationList) AuthService {
	return &authService{
		users:       users,
		jwtService:  jwtService,
		revocations: revocations,
	}
}

// Register creates the user with its profile and default settings.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := normalizeEmail(in.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.ErrEmailTaken
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	profile := &model.Profile{FirstName: in.FirstName, LastName: in.LastName}
	if err := s.users.CreateWithDefaults(ctx, user, profile); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and issues an access token. Unknown emails,
// inactive users and wrong passwords all return ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive || !auth.VerifyPassword(password, user.PasswordHash) {
		return "", nil, errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.IssueToken(user.ID, 0)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *authService) Logout(ctx context.Context, identity *auth.Identity) {
	s.revocations.Revoke(ctx, identity)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
