package recommendation

import (
	"math"
	"sort"

	"smartShop/domain"
)

type scored struct {
	product domain.Product
	score   float64
}

// seededScore favors well-rated products priced close to the seed.
func (c Config) seededScore(seed, p domain.Product, affinity map[string]float64) float64 {
	diff := math.Abs(p.Price - seed.Price)
	proximity := 1 - math.Min(diff/math.Max(seed.Price, 1), 1)
	return p.Rating*c.SeedRatingWeight + proximity + c.stock(p) + affinity[p.Category]
}

func (c Config) profileScore(p domain.Product, profile *domain.UserProfile, affinity map[string]float64) float64 {
	score := p.Rating + c.stock(p) + affinity[p.Category]
	if profile.Prefers(p.Category) {
		score += c.PreferredBonus
	}
	if profile.HasBudget() && profile.WithinBudget(p.Price) {
		score += c.BudgetBonus
	}
	return score
}

func (c Config) stock(p domain.Product) float64 {
	if p.InStock() {
		return c.StockBonus
	}
	return 0
}

// rank scores candidates and sorts them by descending score. Equal scores keep
// retrieval order.
func (c Config) rank(candidates []domain.Product, seed *domain.Product, profile *domain.UserProfile, affinity map[string]float64) []domain.Product {
	rows := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		var s float64
		if seed != nil {
			s = c.seededScore(*seed, p, affinity)
		} else {
			s = c.profileScore(p, profile, affinity)
		}
		rows = append(rows, scored{product: p, score: s})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].score > rows[j].score
	})

	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.product)
	}
	return out
}
