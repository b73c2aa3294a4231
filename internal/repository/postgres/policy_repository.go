package postgres

import (
	"context"
	"errors"
	"fmt"
	"smartShop/domain"

	"gorm.io/gorm"
)

type PolicyRepository struct {
	DB *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{
		DB: db,
	}
}

func (r *PolicyRepository) FindByDescription(ctx context.Context, description string) (domain.StorePolicy, error) {
	if err := ctx.Err(); err != nil {
		return domain.StorePolicy{}, fmt.Errorf("context error: %w", err)
	}

	var policy domain.StorePolicy
	err := r.DB.WithContext(ctx).Where("description = ?", description).Order("id ASC").First(&policy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.StorePolicy{}, domain.ErrPolicyNotFound
		}
		return domain.StorePolicy{}, fmt.Errorf("failed to find policy: %w", err)
	}

	return policy, nil
}
