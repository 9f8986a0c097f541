package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"partsmarket/internal/auth"
	"partsmarket/internal/dto"
	"partsmarket/internal/entity"
	"partsmarket/internal/model"
	"partsmarket/internal/repository"
)

const minPasswordLen = 6

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, creds *dto.Credentials) (*dto.AuthResponse, error)
	AdminLogin(ctx context.Context, creds *dto.Credentials) (*dto.AuthResponse, error)
}

type authServiceImpl struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Name == "" || req.Email == "" {
		return nil, ErrMissingField
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrMissingField, minPasswordLen)
	}

	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		UserType:     string(model.TierCustomer),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.respond(user)
}

func (s *authServiceImpl) Login(ctx context.Context, creds *dto.Credentials) (*dto.AuthResponse, error) {
	user, err := s.authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

// AdminLogin is a normal login with a tier gate on top.
func (s *authServiceImpl) AdminLogin(ctx context.Context, creds *dto.Credentials) (*dto.AuthResponse, error) {
	user, err := s.authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	if model.ParseTier(user.UserType) != model.TierAdmin {
		return nil, ErrNotAdmin
	}
	return s.respond(user)
}

func (s *authServiceImpl) authenticate(ctx context.Context, creds *dto.Credentials) (*entity.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up email: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authServiceImpl) respond(user *entity.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.UserType)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.AuthResponse{User: toUser(user), Token: token}, nil
}
