package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smartShop/domain"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const summaryPrefix = "review_summary:"

// SummaryRepository caches computed review summaries per product.
type SummaryRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSummaryRepository(client *redis.Client, ttl time.Duration) *SummaryRepository {
	return &SummaryRepository{
		client: client,
		ttl:    ttl,
	}
}

func summaryKey(productID string) string {
	// key format: "review_summary:{product_id}"
	return summaryPrefix + productID
}

func (r *SummaryRepository) GetSummary(ctx context.Context, productID string) (domain.ReviewSummary, error) {
	val, err := r.client.Get(ctx, summaryKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ReviewSummary{}, ErrCacheMiss
		}
		return domain.ReviewSummary{}, fmt.Errorf("failed to get summary from Redis: %w", err)
	}

	var summary domain.ReviewSummary
	if err := json.Unmarshal(val, &summary); err != nil {
		return domain.ReviewSummary{}, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return summary, nil
}

func (r *SummaryRepository) StoreSummary(ctx context.Context, productID string, summary domain.ReviewSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := r.client.Set(ctx, summaryKey(productID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store summary in Redis: %w", err)
	}

	return nil
}

// Flush drops every cached summary. Called after a reseed replaces the reviews.
func (r *SummaryRepository) Flush(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, summaryPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cached summary: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached summaries: %w", err)
	}

	return nil
}
