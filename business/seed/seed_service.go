package seed

import (
	"context"
	"fmt"
	"time"

	"smartShop/domain"
	"smartShop/internal/repository/postgres"
	"smartShop/pkg/logger"
)

// CatalogRepository contract interface
type CatalogRepository interface {
	Replace(ctx context.Context, data postgres.CatalogData) error
	InsertUsers(ctx context.Context, users []domain.UserProfile) error
}

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// SummaryCache is flushed after a reload so cached review summaries never outlive their reviews.
type SummaryCache interface {
	Flush(ctx context.Context) error
}

type seedService struct {
	catalogRepo CatalogRepository
	products    Counter
	users       Counter
	cache       SummaryCache
	now         func() time.Time
}

// NewSeedService builds the loader. cache may be nil.
func NewSeedService(catalogRepo CatalogRepository, products Counter, users Counter, cache SummaryCache) *seedService {
	return &seedService{
		catalogRepo: catalogRepo,
		products:    products,
		users:       users,
		cache:       cache,
		now:         time.Now,
	}
}

// Seed replaces the whole catalog with the files in dir.
func (s *seedService) Seed(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	data, err := LoadCatalog(dir, s.now())
	if err != nil {
		logger.Error("failed to load seed files", err, "data_dir", dir)
		return err
	}

	if err := s.catalogRepo.Replace(ctx, data); err != nil {
		logger.Error("failed to replace catalog", err)
		return err
	}

	if s.cache != nil {
		if err := s.cache.Flush(ctx); err != nil {
			logger.Warn("failed to flush review summary cache", "error", err)
		}
	}

	logger.Info("catalog seeded",
		"data_dir", dir,
		"products", len(data.Products),
		"reviews", len(data.Reviews),
		"policies", len(data.Policies),
		"users", len(data.Users),
		"events", len(data.Events),
	)
	return nil
}

// SeedIfNeeded loads the catalog when there are no products. When products exist but
// no users, only the users are inserted. It reports whether anything was written.
func (s *seedService) SeedIfNeeded(ctx context.Context, dir string) (bool, error) {
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return false, err
	}

	if productCount == 0 {
		if err := s.Seed(ctx, dir); err != nil {
			return false, err
		}
		return true, nil
	}

	userCount, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if userCount > 0 {
		return false, nil
	}

	users, err := LoadUsers(dir)
	if err != nil {
		logger.Error("failed to load users", err, "data_dir", dir)
		return false, err
	}
	if err := s.catalogRepo.InsertUsers(ctx, users); err != nil {
		logger.Error("failed to insert users", err)
		return false, err
	}

	logger.Info("user profiles seeded", "users", len(users))
	return true, nil
}
