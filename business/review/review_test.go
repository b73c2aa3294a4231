package review

import (
	"context"
	"errors"
	"testing"

	"smartShop/domain"
	"smartShop/internal/repository/openai"
	redisrepo "smartShop/internal/repository/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewRepo struct {
	reviews []domain.Review
	calls   int
}

func (f *fakeReviewRepo) FindByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	f.calls++
	var out []domain.Review
	for _, r := range f.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) Recent(ctx context.Context, productID string, limit int) ([]domain.Review, error) {
	all, _ := f.FindByProduct(ctx, productID)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type fakeModel struct {
	available bool
	result    openai.Result
	prompts   []string
}

func (m *fakeModel) Available() bool { return m.available }

func (m *fakeModel) StructuredComplete(ctx context.Context, system, user, schemaName string, schema map[string]any) openai.Result {
	m.prompts = append(m.prompts, user)
	return m.result
}

type memoryCache struct {
	items map[string]domain.ReviewSummary
}

func (c *memoryCache) GetSummary(ctx context.Context, productID string) (domain.ReviewSummary, error) {
	s, ok := c.items[productID]
	if !ok {
		return domain.ReviewSummary{}, redisrepo.ErrCacheMiss
	}
	return s, nil
}

func (c *memoryCache) StoreSummary(ctx context.Context, productID string, summary domain.ReviewSummary) error {
	c.items[productID] = summary
	return nil
}

func sampleReviews() []domain.Review {
	return []domain.Review{
		{ProductID: "LAP1001", Rating: 5, Text: "Great screen, great battery"},
		{ProductID: "LAP1001", Rating: 5, Text: "Slow and heavy but I love it"},
		{ProductID: "LAP1001", Rating: 3, Text: "Screen is dim and the fan is noisy"},
		{ProductID: "LAP1001", Rating: 3, Text: "Fan okay"},
		{ProductID: "LAP1001", Rating: 1, Text: "Arrived broken"},
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"battery", "life", "amazing", "10h"}, Tokenize("The battery-life is AMAZING!! (10h)"))
	assert.Empty(t, Tokenize("it is the"))
}

func TestSentimentScore(t *testing.T) {
	assert.Equal(t, 2, SentimentScore("Great and fast"))
	assert.Equal(t, -1, SentimentScore("good but slow and laggy"))
	assert.Equal(t, 0, SentimentScore("arrived on tuesday"))
}

func TestClassifyRatingFirst(t *testing.T) {
	assert.Equal(t, "positive", Classify(domain.Review{Rating: 5, Text: "terrible awful broken"}))
	assert.Equal(t, "positive", Classify(domain.Review{Rating: 1, Text: "great"}))
	assert.Equal(t, "negative", Classify(domain.Review{Rating: 2, Text: "fine"}))
	assert.Equal(t, "negative", Classify(domain.Review{Rating: 3, Text: "dim"}))
	assert.Equal(t, "neutral", Classify(domain.Review{Rating: 3, Text: "fine"}))
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleReviews())

	assert.Equal(t, 5, summary.TotalReviews)
	assert.Equal(t, 3.4, summary.AverageRating)
	assert.Equal(t, domain.SentimentBreakdown{Positive: 2, Neutral: 1, Negative: 2}, summary.Sentiment)
	require.Len(t, summary.Themes, 5)
	assert.Equal(t, domain.Theme{Word: "great", Count: 2}, summary.Themes[0])
	assert.Equal(t, domain.Theme{Word: "screen", Count: 2}, summary.Themes[1])
	assert.Equal(t, domain.Theme{Word: "fan", Count: 2}, summary.Themes[2])
	assert.Equal(t, domain.Theme{Word: "battery", Count: 1}, summary.Themes[3])
	assert.Equal(t, "slow", summary.Themes[4].Word)
	assert.Empty(t, summary.SummaryText)
}

func TestRound2HalvesToEven(t *testing.T) {
	assert.Equal(t, 4.12, round2(4.125))
	assert.Equal(t, 3.4, round2(3.4))
	assert.Equal(t, 4.67, round2(14.0/3))
}

func TestSummarizeNoReviews(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.TotalReviews)
	assert.Equal(t, 0.0, summary.AverageRating)
	assert.Empty(t, summary.Themes)
	assert.NotNil(t, summary.Themes)
	assert.Equal(t, "No reviews yet.", summary.SummaryText)
}

func TestSummaryModelOverride(t *testing.T) {
	model := &fakeModel{available: true, result: openai.Ok(map[string]any{
		"summary_text": "Loved for its screen, some hardware complaints.",
		"themes":       []any{"screen", "build"},
	})}
	svc := NewReviewService(&fakeReviewRepo{reviews: sampleReviews()}, model, nil)

	summary, err := svc.Summary(context.Background(), "LAP1001")
	require.NoError(t, err)

	assert.Equal(t, "Loved for its screen, some hardware complaints.", summary.SummaryText)
	assert.Equal(t, []domain.Theme{{Word: "screen", Count: 2}, {Word: "build", Count: 1}}, summary.Themes)
	assert.Equal(t, 5, summary.TotalReviews)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Arrived broken")
}

func TestSummaryModelFailureFallsBack(t *testing.T) {
	model := &fakeModel{available: true, result: openai.Failed[map[string]any]("timeout")}
	svc := NewReviewService(&fakeReviewRepo{reviews: sampleReviews()}, model, nil)

	summary, err := svc.Summary(context.Background(), "LAP1001")
	require.NoError(t, err)
	assert.Equal(t, Summarize(sampleReviews()), summary)
}

func TestSummaryModelFailureIsNotCached(t *testing.T) {
	model := &fakeModel{available: true, result: openai.Failed[map[string]any]("timeout")}
	repo := &fakeReviewRepo{reviews: sampleReviews()}
	cache := &memoryCache{items: map[string]domain.ReviewSummary{}}
	svc := NewReviewService(repo, model, cache)

	_, err := svc.Summary(context.Background(), "LAP1001")
	require.NoError(t, err)
	assert.Empty(t, cache.items)

	model.result = openai.Ok(map[string]any{"summary_text": "Bright screen, noisy fan.", "themes": []any{"screen"}})
	summary, err := svc.Summary(context.Background(), "LAP1001")
	require.NoError(t, err)
	assert.Equal(t, "Bright screen, noisy fan.", summary.SummaryText)
	assert.Len(t, model.prompts, 2)
	assert.Equal(t, summary, cache.items["LAP1001"])
}

func TestSummaryModelNotConsultedWithoutReviews(t *testing.T) {
	model := &fakeModel{available: true, result: openai.Ok(map[string]any{"summary_text": "x", "themes": []any{}})}
	svc := NewReviewService(&fakeReviewRepo{}, model, nil)

	summary, err := svc.Summary(context.Background(), "NONE1")
	require.NoError(t, err)
	assert.Equal(t, "No reviews yet.", summary.SummaryText)
	assert.Empty(t, model.prompts)
}

func TestSummaryUsesCache(t *testing.T) {
	repo := &fakeReviewRepo{reviews: sampleReviews()}
	cache := &memoryCache{items: map[string]domain.ReviewSummary{}}
	svc := NewReviewService(repo, nil, cache)

	first, err := svc.Summary(context.Background(), "LAP1001")
	require.NoError(t, err)
	second, err := svc.Summary(context.Background(), "LAP1001")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)
}

func TestSummaryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReviewService(&fakeReviewRepo{}, nil, nil).Summary(ctx, "LAP1001")
	assert.True(t, errors.Is(err, context.Canceled))
}
