package postgres

import (
	"context"
	"fmt"
	"smartShop/domain"

	"gorm.io/gorm"
)

// CatalogData is one full bulk load of the seed files.
type CatalogData struct {
	Products []domain.Product
	Reviews  []domain.Review
	Policies []domain.StorePolicy
	Users    []domain.UserProfile
	Events   []domain.UserEvent
}

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

// Replace wipes every catalog table and loads data in a single transaction.
func (r *CatalogRepository) Replace(ctx context.Context, data CatalogData) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&domain.UserEvent{},
			&domain.UserProfile{},
			&domain.Review{},
			&domain.StorePolicy{},
			&domain.Product{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
		}

		if err := createInBatches(tx, data.Products); err != nil {
			return fmt.Errorf("failed to insert products: %w", err)
		}
		if err := createInBatches(tx, data.Reviews); err != nil {
			return fmt.Errorf("failed to insert reviews: %w", err)
		}
		if err := createInBatches(tx, data.Policies); err != nil {
			return fmt.Errorf("failed to insert policies: %w", err)
		}
		if err := createInBatches(tx, data.Users); err != nil {
			return fmt.Errorf("failed to insert users: %w", err)
		}
		if err := createInBatches(tx, data.Events); err != nil {
			return fmt.Errorf("failed to insert events: %w", err)
		}

		return nil
	})
}

// InsertUsers adds profiles without touching the rest of the catalog.
func (r *CatalogRepository) InsertUsers(ctx context.Context, users []domain.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := createInBatches(r.DB.WithContext(ctx), users); err != nil {
		return fmt.Errorf("failed to insert users: %w", err)
	}

	return nil
}

func createInBatches[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 200).Error
}
