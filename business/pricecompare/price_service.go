package pricecompare

import (
	"context"
	"fmt"
	"math"
	"time"

	"smartShop/domain"
	"smartShop/pkg/logger"
)

const maxCheaper = 5

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
	PriceStats(ctx context.Context, category string) (domain.PriceStats, error)
	CheaperThan(ctx context.Context, category string, price float64, limit int) ([]domain.Product, error)
}

type priceService struct {
	productRepo ProductRepository
	now         func() time.Time
}

func NewPriceService(productRepo ProductRepository) *priceService {
	return &priceService{
		productRepo: productRepo,
		now:         time.Now,
	}
}

// Compare places a product within its category's price range. It returns
// domain.ErrProductNotFound for an unknown id.
func (s *priceService) Compare(ctx context.Context, productID string) (*domain.PriceComparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	base, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	stats, err := s.productRepo.PriceStats(ctx, base.Category)
	if err != nil {
		logger.Error("failed to aggregate category prices", "category", base.Category, "error", err)
		return nil, err
	}

	cheaper, err := s.productRepo.CheaperThan(ctx, base.Category, base.Price, maxCheaper)
	if err != nil {
		logger.Error("failed to find cheaper products", "category", base.Category, "error", err)
		return nil, err
	}
	if cheaper == nil {
		cheaper = []domain.Product{}
	}

	return &domain.PriceComparison{
		Base:      base,
		Min:       round2(orPrice(stats.Min, base.Price)),
		Max:       round2(orPrice(stats.Max, base.Price)),
		Avg:       round2(orPrice(stats.Avg, base.Price)),
		Cheaper:   cheaper,
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
	}, nil
}

// orPrice substitutes the base price for an empty aggregate.
func orPrice(v, price float64) float64 {
	if v == 0 {
		return price
	}
	return v
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
