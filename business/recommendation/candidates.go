package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartShop/domain"
)

// loadCandidates applies the retrieval rules in order; the first matching rule wins.
// The profile's budget window filters every pool as it is fetched. Preferred categories
// restrict the product and query paths only. A nil seed is returned
// when no product id was given.
func (s *RecommendationService) loadCandidates(
	ctx context.Context,
	req domain.RecommendationRequest,
	profile *domain.UserProfile,
) ([]domain.Product, *domain.Product, error) {

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("context error: %w", err)
	}

	restrict := profile != nil && profile.HasPreferences()

	if req.ProductID != "" {
		seed, err := s.productRepo.FindByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return nil, nil, nil
			}
			return nil, nil, fmt.Errorf("load seed product: %w", err)
		}
		if restrict && !profile.Prefers(seed.Category) {
			return nil, &seed, nil
		}

		rows, err := s.productRepo.FindSimilar(ctx, seed.Category, seed.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("load similar products: %w", err)
		}
		return withinBudget(rows, profile), &seed, nil
	}

	if strings.TrimSpace(req.Query) != "" {
		var categories []string
		if restrict {
			categories = profile.PreferredCategories
		}
		rows, err := s.productRepo.Search(ctx, req.Query, categories)
		if err != nil {
			return nil, nil, fmt.Errorf("search products: %w", err)
		}
		return withinBudget(rows, profile), nil, nil
	}

	if restrict {
		rows, err := s.productRepo.TopRated(ctx, profile.PreferredCategories, s.cfg.PoolSize)
		if err != nil {
			return nil, nil, fmt.Errorf("load preferred products: %w", err)
		}
		pool := withinBudget(rows, profile)
		if len(pool) >= s.cfg.TopUpBelow {
			return pool, nil, nil
		}

		top, err := s.productRepo.TopRated(ctx, nil, s.cfg.PoolSize)
		if err != nil {
			return nil, nil, fmt.Errorf("load top rated products: %w", err)
		}
		return withinBudget(appendMissing(pool, top), profile), nil, nil
	}

	// Nothing to narrow by: the top-rated catalog.
	top, err := s.productRepo.TopRated(ctx, nil, s.cfg.PoolSize)
	if err != nil {
		return nil, nil, fmt.Errorf("load top rated products: %w", err)
	}
	return withinBudget(top, profile), nil, nil
}

func appendMissing(pool, extra []domain.Product) []domain.Product {
	seen := make(map[string]struct{}, len(pool))
	for _, p := range pool {
		seen[p.ID] = struct{}{}
	}
	for _, p := range extra {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		pool = append(pool, p)
	}
	return pool
}

func withinBudget(rows []domain.Product, profile *domain.UserProfile) []domain.Product {
	if profile == nil || !profile.HasBudget() {
		return rows
	}
	out := rows[:0:0]
	for _, p := range rows {
		if profile.WithinBudget(p.Price) {
			out = append(out, p)
		}
	}
	return out
}
