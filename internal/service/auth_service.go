package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/coopcredit/credit-engine/internal/domain"
	"github.com/coopcredit/credit-engine/internal/middleware"
	"github.com/coopcredit/credit-engine/internal/repository"
	customError "github.com/coopcredit/credit-engine/pkg/errors"
)

type AuthService struct {
	userRepo repository.UserRepository
	auth     *middleware.AuthMiddleware
}

func NewAuthService(userRepo repository.UserRepository, auth *middleware.AuthMiddleware) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		auth:     auth,
	}
}

// Register creates a new user account with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, request *domain.RegisterRequest) (*domain.User, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, request.Username)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if exists {
		return nil, customError.WrapConflict("User", "username", request.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     request.Username,
		PasswordHash: string(hash),
		Role:         request.Role,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login validates the credentials and issues a JWT. Lookup failures and
// password mismatches return the same unauthorized error on purpose.
func (s *AuthService) Login(ctx context.Context, request *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, request.Username)
	if err != nil {
		return nil, customError.WrapUnauthorized("Invalid credentials")
	}

	if !user.Enabled {
		return nil, customError.WrapUnauthorized("User account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return nil, customError.WrapUnauthorized("Invalid credentials")
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{
		Token:     token,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresIn: int64(s.auth.Expiration().Seconds()),
	}, nil
}
