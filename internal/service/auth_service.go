package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fleetcare/internal/middleware"
	"fleetcare/internal/model"
	"fleetcare/internal/repository"
	"fleetcare/internal/scope"
)

// DTOs for auth endpoints

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Elevated bool   `json:"elevated"`
}

// UserResponse returns a user without exposing sensitive data
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Elevated bool   `json:"elevated"`
}

// AuthService covers login, token refresh and user provisioning. Role is a
// closed enum and is immutable after creation.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, id uint) (*UserResponse, error)
	CreateUser(ctx context.Context, ident scope.Identity, req CreateUserRequest) (*UserResponse, error)
}

type authService struct {
	repo repository.UserRepository
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(repo repository.UserRepository) AuthService {
	return &authService{repo: repo}
}

func validRole(role string) bool {
	return role == model.RoleClient || role == model.RoleService || role == model.RoleManager
}

func mapToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		Elevated: u.Elevated,
	}
}

func signToken(u *model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      float64(u.ID),
		"role":     u.Role,
		"elevated": u.Elevated,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})

	// Same secret resolution as the parsing middleware, including the
	// release-mode requirement for an explicit JWT_SECRET.
	return token.SignedString(middleware.GetJWTSecret())
}

func (s *authService) issueTokens(ctx context.Context, u *model.User) (*TokenResponse, error) {
	tokenString, err := signToken(u)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	rt := &model.RefreshToken{
		UserID:    u.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.repo.CreateRefreshToken(ctx, rt); err != nil {
		return nil, errors.New("failed to store refresh token")
	}

	return &TokenResponse{Token: tokenString, RefreshToken: rt.Token}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	rt, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("invalid or expired refresh token")
	}

	// Rotate: old token is gone once used.
	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, errors.New("failed to rotate refresh token")
	}

	return s.issueTokens(ctx, &rt.User)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *authService) GetUser(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return mapToUserResponse(user), nil
}

func (s *authService) CreateUser(ctx context.Context, ident scope.Identity, req CreateUserRequest) (*UserResponse, error) {
	if !ident.Authenticated {
		return nil, ErrNotAuthenticated
	}
	if !ident.Unrestricted() {
		return nil, ErrAccessDenied
	}
	if !validRole(req.Role) {
		return nil, errors.New("invalid role: must be client, service, or manager")
	}

	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("username already exists")
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashed),
		Role:     req.Role,
		Elevated: req.Elevated,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return mapToUserResponse(user), nil
}
