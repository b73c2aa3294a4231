package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartShop/domain"
	"smartShop/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.UserProfile) error
	FindByID(ctx context.Context, id string) (domain.UserProfile, error)
	FindAll(ctx context.Context) ([]domain.UserProfile, error)
	Update(ctx context.Context, user *domain.UserProfile) error
}

// EventRepository contract interface
type EventRepository interface {
	Create(ctx context.Context, event *domain.UserEvent) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

type userService struct {
	userRepo    UserRepository
	eventRepo   EventRepository
	productRepo ProductRepository
	validate    *validator.Validate
	now         func() time.Time
}

func NewUserService(
	userRepo UserRepository,
	eventRepo EventRepository,
	productRepo ProductRepository,
	validate *validator.Validate,
) *userService {
	return &userService{
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		productRepo: productRepo,
		validate:    validate,
		now:         time.Now,
	}
}

// CreateUser stores a new profile. domain.ErrUserExists is returned when the id is taken.
func (s *userService) CreateUser(ctx context.Context, user *domain.UserProfile) (domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create user")
		return domain.UserProfile{}, fmt.Errorf("context error: %w", err)
	}

	user.ID = strings.TrimSpace(user.ID)
	if user.ID == "" || strings.TrimSpace(user.Name) == "" {
		return domain.UserProfile{}, fmt.Errorf("%w: id and name are required", domain.ErrInvalidRequest)
	}

	if _, err := s.userRepo.FindByID(ctx, user.ID); err == nil {
		logger.Error("User already exists", "user_id", user.ID)
		return domain.UserProfile{}, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		logger.Error("Failed to check existing user", err)
		return domain.UserProfile{}, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.Error("Failed to create user", err)
		return domain.UserProfile{}, err
	}

	return *user, nil
}

// GetUserByID retrieves a profile by id
func (s *userService) GetUserByID(ctx context.Context, id string) (domain.UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			logger.Error("Failed to get user by ID", err)
		}
		return domain.UserProfile{}, err
	}

	return user, nil
}

// GetAllUsers retrieves every profile ordered by name
func (s *userService) GetAllUsers(ctx context.Context) ([]domain.UserProfile, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return nil, err
	}

	return users, nil
}

// UpdateUser applies a partial update. Name and categories change only when provided;
// the budget window is always replaced, so omitting it clears it.
func (s *userService) UpdateUser(ctx context.Context, id string, update domain.UserProfileUpdate) (domain.UserProfile, error) {
	existingUser, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			logger.Error("Failed to find user for update", err)
		}
		return domain.UserProfile{}, err
	}

	if update.Name != nil {
		existingUser.Name = *update.Name
	}
	if update.PreferredCategories != nil {
		existingUser.PreferredCategories = update.PreferredCategories
	}
	existingUser.BudgetMin = update.BudgetMin
	existingUser.BudgetMax = update.BudgetMax

	if err := s.userRepo.Update(ctx, &existingUser); err != nil {
		logger.Error("Failed to update user", err)
		return domain.UserProfile{}, err
	}

	return existingUser, nil
}

// RecordEvent appends an interaction. Events naming an unknown user or product are
// dropped and reported as not recorded, without an error.
func (s *userService) RecordEvent(ctx context.Context, event domain.UserEvent) (bool, error) {
	if err := s.validate.Var(event.EventType, "required,oneof=view wishlist purchase"); err != nil {
		return false, fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidRequest, event.EventType)
	}

	if _, err := s.userRepo.FindByID(ctx, event.UserID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			logger.Debug("dropping event for unknown user", "user_id", event.UserID)
			return false, nil
		}
		return false, err
	}
	if _, err := s.productRepo.FindByID(ctx, event.ProductID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			logger.Debug("dropping event for unknown product", "product_id", event.ProductID)
			return false, nil
		}
		return false, err
	}

	event.ID = 0
	event.CreatedAt = s.now().UTC().Truncate(24 * time.Hour)
	if err := s.eventRepo.Create(ctx, &event); err != nil {
		logger.Error("Failed to record user event", err)
		return false, err
	}

	return true, nil
}
