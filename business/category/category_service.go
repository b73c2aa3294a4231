package category

import (
	"context"
	"fmt"

	"smartShop/domain"
	"smartShop/pkg/logger"
)

// CategoryRepository contract interface
type CategoryRepository interface {
	CategorySummaries(ctx context.Context) ([]domain.CategorySummary, error)
}

type categoryService struct {
	categoryRepo CategoryRepository
}

func NewCategoryService(categoryRepo CategoryRepository) *categoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
	}
}

// GetAllCategories lists every catalog category with its product count and price range.
func (s *categoryService) GetAllCategories(ctx context.Context) ([]domain.CategorySummary, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all categories")
		return nil, fmt.Errorf("context error: %w", err)
	}

	categories, err := s.categoryRepo.CategorySummaries(ctx)
	if err != nil {
		logger.Error("Failed to find all categories", err)
		return nil, err
	}
	if categories == nil {
		categories = []domain.CategorySummary{}
	}

	return categories, nil
}
