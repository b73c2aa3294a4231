package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smartShop/domain"
	"smartShop/internal/repository/openai"
	"smartShop/pkg/logger"
	"smartShop/pkg/metrics"
)

const rerankSchemaName = "recommendation_rerank"

// ---- Repository interfaces ----

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindSimilar(ctx context.Context, category, excludeID string) ([]domain.Product, error)
	Search(ctx context.Context, query string, categories []string) ([]domain.Product, error)
	TopRated(ctx context.Context, categories []string, limit int) ([]domain.Product, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.UserProfile, error)
}

type AffinityRepository interface {
	CategoryAffinity(ctx context.Context, userID string) (map[string]float64, error)
}

type Model interface {
	Available() bool
	StructuredComplete(ctx context.Context, system, user, schemaName string, schema map[string]any) openai.Result
}

// ---- Usecase / Service ----

type RecommendationService struct {
	productRepo  ProductRepository
	userRepo     UserRepository
	affinityRepo AffinityRepository
	model        Model
	cfg          Config
}

func NewRecommendationService(
	productRepo ProductRepository,
	userRepo UserRepository,
	affinityRepo AffinityRepository,
	model Model,
	cfg Config,
) *RecommendationService {
	return &RecommendationService{
		productRepo:  productRepo,
		userRepo:     userRepo,
		affinityRepo: affinityRepo,
		model:        model,
		cfg:          cfg,
	}
}

// Recommend returns at most req.Limit products, best first. Reasons are only present
// when the model reranked the shortlist.
func (s *RecommendationService) Recommend(ctx context.Context, req domain.RecommendationRequest) ([]domain.Recommendation, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(start).Seconds())
		metrics.RecommendRequests.Inc()
	}()

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	profile, err := s.loadProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	candidates, seed, err := s.loadCandidates(ctx, req, profile)
	if err != nil {
		logger.Error("failed to load recommendation candidates", err)
		return nil, err
	}
	if len(candidates) == 0 {
		return []domain.Recommendation{}, nil
	}

	affinity := map[string]float64{}
	if profile != nil {
		affinity, err = s.affinityRepo.CategoryAffinity(ctx, profile.ID)
		if err != nil {
			logger.Error("failed to load category affinity", "user_id", profile.ID, "error", err)
			return nil, err
		}
	}

	ranked := s.cfg.rank(candidates, seed, profile, affinity)
	shortlist := ranked
	if n := s.cfg.shortlistSize(limit); len(shortlist) > n {
		shortlist = shortlist[:n]
	}

	if picks := s.rerank(ctx, seed, shortlist, limit); len(picks) > 0 {
		return picks, nil
	}

	if len(shortlist) > limit {
		shortlist = shortlist[:limit]
	}
	out := make([]domain.Recommendation, 0, len(shortlist))
	for _, p := range shortlist {
		out = append(out, domain.Recommendation{Product: p})
	}
	return out, nil
}

// loadProfile returns nil for an empty or unknown user id.
func (s *RecommendationService) loadProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, nil
	}
	profile, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load user profile: %w", err)
	}
	return &profile, nil
}

var rerankSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"recommended_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"reasons":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
	"required":             []string{"recommended_ids", "reasons"},
	"additionalProperties": false,
}

type rerankCandidate struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	Stock    int     `json:"stock"`
}

// rerank asks the model to pick from the shortlist. Ids outside the shortlist are
// ignored; an empty result means the caller keeps the scored order.
func (s *RecommendationService) rerank(ctx context.Context, seed *domain.Product, shortlist []domain.Product, limit int) []domain.Recommendation {
	if s.model == nil || !s.model.Available() || len(shortlist) == 0 {
		return nil
	}

	rows := make([]rerankCandidate, 0, len(shortlist))
	byID := make(map[string]domain.Product, len(shortlist))
	for _, p := range shortlist {
		rows = append(rows, rerankCandidate{
			ID: p.ID, Name: p.Name, Brand: p.Brand, Category: p.Category,
			Price: p.Price, Rating: p.Rating, Stock: p.Stock,
		})
		byID[p.ID] = p
	}
	prompt, err := json.Marshal(map[string]any{
		"base_product": seed,
		"candidates":   rows,
		"limit":        limit,
	})
	if err != nil {
		return nil
	}

	res := s.model.StructuredComplete(ctx,
		"You are an e-commerce recommendation engine. Select the best products from the provided list and provide concise reasons.",
		string(prompt), rerankSchemaName, rerankSchema)
	obj, ok := res.Get()
	if !ok {
		metrics.ModelFallbacks.WithLabelValues(rerankSchemaName).Inc()
		return nil
	}

	ids, _ := openai.Strings(obj, "recommended_ids")
	reasons, _ := openai.Strings(obj, "reasons")
	if len(ids) > limit {
		ids = ids[:limit]
	}

	picks := make([]domain.Recommendation, 0, len(ids))
	used := make(map[string]struct{}, len(ids))
	for idx, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := used[id]; dup {
			continue
		}
		used[id] = struct{}{}

		rec := domain.Recommendation{Product: p}
		if idx < len(reasons) {
			reason := reasons[idx]
			rec.Reason = &reason
		}
		picks = append(picks, rec)
	}

	if len(picks) == 0 {
		metrics.ModelFallbacks.WithLabelValues(rerankSchemaName).Inc()
	}
	return picks
}
