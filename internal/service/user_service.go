package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arredo/backoffice-api/internal/auth"
	"github.com/arredo/backoffice-api/internal/config"
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo    *repository.UserRepository
	bcryptCost  int
	defaultRate decimal.Decimal
	logger      *zap.Logger
	db          *gorm.DB
}

func NewUserService(
	userRepo *repository.UserRepository,
	authCfg *config.AuthConfig,
	businessCfg *config.BusinessConfig,
	logger *zap.Logger,
	db *gorm.DB,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		bcryptCost:  authCfg.BcryptCost,
		defaultRate: decimal.NewFromFloat(businessCfg.DefaultHourlyRate),
		logger:      logger,
		db:          db,
	}
}

// Create stores a new user and provisions its cost profile in the same transaction
func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserDTO, error) {
	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		IsStaff:      req.IsStaff,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.userRepo.WithTx(tx)
		if _, err := repo.GetByEmail(ctx, user.Email); err == nil {
			return fmt.Errorf("%w: email already registered", ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := repo.Create(ctx, user); err != nil {
			return err
		}
		return s.afterUserCreated(ctx, repo, user)
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, translate(err, "create user")
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.Bool("is_staff", user.IsStaff))

	return s.GetByID(ctx, user.ID)
}

// afterUserCreated is the post-creation hook: every user gets a cost profile at the default rate
func (s *UserService) afterUserCreated(ctx context.Context, repo *repository.UserRepository, user *domain.User) error {
	profile, err := repo.EnsureProfile(ctx, user.ID, s.defaultRate)
	if err != nil {
		return fmt.Errorf("failed to provision user profile: %w", err)
	}
	user.Profile = profile
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get user")
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.UserDTO, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, translate(err, "list users")
	}
	return toUserDTOs(users), nil
}

// ListSalespeople returns the active staff users deals and sales can be assigned to
func (s *UserService) ListSalespeople(ctx context.Context) ([]domain.UserDTO, error) {
	users, err := s.userRepo.ListStaff(ctx)
	if err != nil {
		return nil, translate(err, "list salespeople")
	}
	return toUserDTOs(users), nil
}

// UpdateProfile sets the user's hourly rate, provisioning the profile first if it is missing
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *domain.UpdateUserProfileRequest) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get user")
	}
	if user.Profile == nil {
		if err := s.afterUserCreated(ctx, s.userRepo, user); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.UpdateProfileRate(ctx, id, decimal.NewFromFloat(req.HourlyRate)); err != nil {
		return nil, translate(err, "update user profile")
	}
	return s.GetByID(ctx, id)
}

// EnsureAdmin creates the bootstrap staff account unless a user with that email exists
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	_, err := s.Create(ctx, &domain.CreateUserRequest{
		Email:    email,
		Name:     "Administrator",
		Password: password,
		IsStaff:  true,
	})
	return err
}

// Exists reports whether a user with the ID exists
func (s *UserService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.userRepo.Exists(ctx, id)
}

func toUserDTOs(users []domain.User) []domain.UserDTO {
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos
}
