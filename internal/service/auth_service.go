package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/arredo/backoffice-api/internal/auth"
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService exchanges credentials for access tokens
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenIssuer
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login checks the credentials and issues a token. Unknown emails, inactive users
// and wrong passwords all return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, translate(err, "look up user")
	}

	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info("login rejected", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	return &domain.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.Format(time.RFC3339),
		User:        mapper.ToUserDTO(user),
	}, nil
}

// Me returns the authenticated user. API key requests get a synthetic system user.
func (s *AuthService) Me(ctx context.Context) (*domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if userCtx.IsSystem {
		return &domain.UserDTO{
			ID:       userCtx.UserID,
			Email:    userCtx.Email,
			Name:     userCtx.DisplayName,
			IsStaff:  true,
			IsActive: true,
		}, nil
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		return nil, translate(err, "get current user")
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}
