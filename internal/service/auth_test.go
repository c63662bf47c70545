package service_test

import (
	"context"
	"testing"
	"time"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/security"
	"everkeep-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-at-least-32-characters"

func newAuthFixture() (*MockUserRepo, security.TokenManager, service.AuthService) {
	userRepo := new(MockUserRepo)
	tokens := security.NewTokenManager(testSecret, time.Hour, 7*24*time.Hour)
	return userRepo, tokens, service.NewAuthService(userRepo, tokens)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		userRepo, tokens, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "new@test.com").Return(nil, domain.ErrNotFound)
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			if u.Email != "new@test.com" || u.PasswordHash == "password123" {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 42
		}).Return(nil)

		user, access, refresh, err := svc.Signup(ctx, "New User", "  NEW@test.com ", "password123")
		assert.NoError(t, err)
		assert.Equal(t, int32(42), user.ID)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), claims.UserID)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, _, svc := newAuthFixture()
		_, _, _, err := svc.Signup(ctx, "User", "u@test.com", "short")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "taken@test.com").Return(&domain.User{ID: 1}, nil)

		_, _, _, err := svc.Signup(ctx, "User", "taken@test.com", "password123")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "already registered")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &domain.User{ID: 42, Email: "user@test.com", PasswordHash: string(hash)}

	t.Run("valid credentials", func(t *testing.T) {
		userRepo, tokens, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "user@test.com").Return(user, nil)

		access, refresh, err := svc.Login(ctx, "user@test.com", "password123")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		claims, err := tokens.ValidateToken(refresh)
		assert.NoError(t, err)
		assert.Equal(t, security.TokenTypeRefresh, claims.Type)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "user@test.com").Return(user, nil)

		_, _, err := svc.Login(ctx, "user@test.com", "wrong-password")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "nobody@test.com").Return(nil, domain.ErrNotFound)

		_, _, err := svc.Login(ctx, "nobody@test.com", "password123")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: 42, Email: "user@test.com"}

	t.Run("valid refresh token", func(t *testing.T) {
		userRepo, tokens, svc := newAuthFixture()
		refresh, err := tokens.GenerateRefreshToken(42, "user@test.com")
		assert.NoError(t, err)
		userRepo.On("GetByID", ctx, int32(42)).Return(user, nil)

		newAccess, newRefresh, err := svc.RefreshToken(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
	})

	t.Run("access token is not accepted for refresh", func(t *testing.T) {
		_, tokens, svc := newAuthFixture()
		access, err := tokens.GenerateAccessToken(42, "user@test.com")
		assert.NoError(t, err)

		_, _, err = svc.RefreshToken(ctx, access)
		assert.ErrorIs(t, err, security.ErrWrongTokenType)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, svc := newAuthFixture()
		_, _, err := svc.RefreshToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})
}
