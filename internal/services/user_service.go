package services

import (
	"context"
	"errors"
	"strings"

	"scrap-backend/internal/auth"
	"scrap-backend/internal/models"
	"scrap-backend/internal/repositories"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore is the persistence surface the user service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	SetActive(ctx context.Context, id int, active bool) error
}

type UserService struct {
	store UserStore
	jwt   *auth.JWTManager
}

func NewUserService(store UserStore, jwt *auth.JWTManager) *UserService {
	return &UserService{store: store, jwt: jwt}
}

func validRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleOperador, models.RoleReceptor, models.RoleContraloria:
		return true
	}
	return false
}

// Signup registers a new account. Accounts start active.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, errors.New("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if !validRole(req.Role) {
		return nil, errors.New("role must be admin, operador, receptor or contraloria")
	}

	if _, err := s.store.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a signed token. Disabled
// accounts are rejected with the same error as bad credentials.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.store.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.store.List(ctx)
}

func (s *UserService) SetActive(ctx context.Context, id int, active bool) (*models.User, error) {
	if err := s.store.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}
