package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"smartShop/domain"
	"smartShop/internal/repository/openai"
	redisrepo "smartShop/internal/repository/redis"
	"smartShop/pkg/logger"
	"smartShop/pkg/metrics"
)

const summarySchemaName = "review_summary"

// ReviewRepository contract interface
type ReviewRepository interface {
	FindByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	Recent(ctx context.Context, productID string, limit int) ([]domain.Review, error)
}

// SummaryCache is optional; a nil cache disables caching.
type SummaryCache interface {
	GetSummary(ctx context.Context, productID string) (domain.ReviewSummary, error)
	StoreSummary(ctx context.Context, productID string, summary domain.ReviewSummary) error
}

type Model interface {
	Available() bool
	StructuredComplete(ctx context.Context, system, user, schemaName string, schema map[string]any) openai.Result
}

type reviewService struct {
	reviewRepo ReviewRepository
	model      Model
	cache      SummaryCache
}

func NewReviewService(reviewRepo ReviewRepository, model Model, cache SummaryCache) *reviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		model:      model,
		cache:      cache,
	}
}

// Summary returns the aggregate view of a product's reviews. A product without reviews
// gets the empty summary rather than an error.
func (s *reviewService) Summary(ctx context.Context, productID string) (domain.ReviewSummary, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when summarizing reviews")
		return domain.ReviewSummary{}, fmt.Errorf("context error: %w", err)
	}

	if s.cache != nil {
		cached, err := s.cache.GetSummary(ctx, productID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redisrepo.ErrCacheMiss) {
			logger.Warn("review summary cache unavailable", "product_id", productID, "error", err)
		}
	}

	reviews, err := s.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		logger.Error("failed to find reviews", err)
		return domain.ReviewSummary{}, err
	}

	summary := Summarize(reviews)
	cacheable := true
	if len(reviews) > 0 {
		summary, cacheable = s.refine(ctx, reviews, summary)
	}

	if s.cache != nil && cacheable {
		if err := s.cache.StoreSummary(ctx, productID, summary); err != nil {
			logger.Warn("failed to cache review summary", "product_id", productID, "error", err)
		}
	}

	return summary, nil
}

// Recent returns up to limit reviews, newest first.
func (s *reviewService) Recent(ctx context.Context, productID string, limit int) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	reviews, err := s.reviewRepo.Recent(ctx, productID, limit)
	if err != nil {
		logger.Error("failed to find recent reviews", err)
		return nil, err
	}

	return reviews, nil
}

var summarySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"summary_text": map[string]any{"type": "string"},
		"themes": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"summary_text", "themes"},
	"additionalProperties": false,
}

// refine lets the model rewrite summary_text and themes. Theme counts always come from
// the local term frequencies. The flag is false when a configured model failed, so the
// heuristic fallback is not cached in place of a later model answer.
func (s *reviewService) refine(ctx context.Context, reviews []domain.Review, summary domain.ReviewSummary) (domain.ReviewSummary, bool) {
	if s.model == nil || !s.model.Available() {
		return summary, true
	}

	texts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		texts = append(texts, r.Text)
	}
	prompt, err := json.Marshal(map[string]any{
		"reviews":        texts,
		"average_rating": summary.AverageRating,
		"sentiment":      summary.Sentiment,
	})
	if err != nil {
		return summary, false
	}

	res := s.model.StructuredComplete(ctx,
		"Summarize customer reviews with a short summary and 3-5 themes.",
		string(prompt), summarySchemaName, summarySchema)
	obj, ok := res.Get()
	if !ok {
		metrics.ModelFallbacks.WithLabelValues(summarySchemaName).Inc()
		return summary, false
	}

	text, ok := openai.String(obj, "summary_text")
	if !ok {
		metrics.ModelFallbacks.WithLabelValues(summarySchemaName).Inc()
		return summary, false
	}
	summary.SummaryText = text

	if words, _ := openai.Strings(obj, "themes"); len(words) > 0 {
		tf := NewTermFrequency(reviews)
		themes := make([]domain.Theme, 0, len(words))
		for _, w := range words {
			themes = append(themes, domain.Theme{Word: w, Count: tf.Count(w, 1)})
		}
		summary.Themes = themes
	}

	return summary, true
}
