package postgres

import (
	"context"
	"fmt"
	"smartShop/domain"

	"gorm.io/gorm"
)

type UserEventRepository struct {
	DB *gorm.DB
}

func NewUserEventRepository(db *gorm.DB) *UserEventRepository {
	return &UserEventRepository{
		DB: db,
	}
}

func (r *UserEventRepository) Create(ctx context.Context, event *domain.UserEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create user event: %w", err)
	}

	return nil
}

// CategoryAffinity sums event weights per product category for one user.
// purchase counts 3, wishlist 2, anything else 1.
func (r *UserEventRepository) CategoryAffinity(ctx context.Context, userID string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []struct {
		Category string
		Weight   float64
	}
	err := r.DB.WithContext(ctx).
		Table("user_events").
		Select(`products.category AS category, SUM(CASE
			WHEN user_events.event_type = ? THEN 3
			WHEN user_events.event_type = ? THEN 2
			ELSE 1 END) AS weight`, domain.EventPurchase, domain.EventWishlist).
		Joins("JOIN products ON products.id = user_events.product_id").
		Where("user_events.user_id = ?", userID).
		Group("products.category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user affinity: %w", err)
	}

	affinity := make(map[string]float64, len(rows))
	for _, row := range rows {
		affinity[row.Category] = row.Weight
	}

	return affinity, nil
}
