package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartShop/domain"
	"smartShop/pkg/logger"
)

const listLimit = 100

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.UserProfile, error)
}

type productService struct {
	productRepo ProductRepository
	userRepo    UserRepository
}

func NewProductService(productRepo ProductRepository, userRepo UserRepository) *productService {
	return &productService{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// ListProducts returns at most 100 products in display order. When userID names a
// profile with preferred categories the listing is limited to those categories.
func (s *productService) ListProducts(ctx context.Context, filter domain.ProductFilter, userID string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when list products")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, fmt.Errorf("%w: min_price is greater than max_price", domain.ErrInvalidRequest)
	}

	if userID = strings.TrimSpace(userID); userID != "" {
		profile, err := s.userRepo.FindByID(ctx, userID)
		switch {
		case err == nil:
			if profile.HasPreferences() {
				filter.Categories = profile.PreferredCategories
			}
		case errors.Is(err, domain.ErrUserNotFound):
		default:
			logger.Error("failed to load user for product listing", err)
			return nil, err
		}
	}

	filter.Limit = listLimit
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		logger.Error("invalid product id")
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidRequest)
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			logger.Error("failed to find product by id", err.Error())
		}
		return nil, err
	}

	return &product, nil
}
