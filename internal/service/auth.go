package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/repository"
	"everkeep-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*domain.User, string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, "", "", fmt.Errorf("email is required: %w", domain.ErrValidation)
	}
	if len(password) < 8 {
		return nil, "", "", fmt.Errorf("password must be at least 8 characters: %w", domain.ErrValidation)
	}

	if existing, _ := s.userRepo.GetByEmail(ctx, email); existing != nil {
		return nil, "", "", fmt.Errorf("email already registered: %w", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.generateTokenPair(user)
	return user, access, refresh, err
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	return s.generateTokenPair(user)
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", security.ErrInvalidToken
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", security.ErrInvalidToken
	}
	return s.generateTokenPair(user)
}

func (s *authService) Logout(ctx context.Context, refresh string) error {
	// Stateless tokens; a blocklist would live here if we ever need one.
	return nil
}

func (s *authService) generateTokenPair(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
