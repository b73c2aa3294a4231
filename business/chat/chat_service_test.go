package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"smartShop/domain"
	"smartShop/internal/repository/openai"
	"smartShop/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cheapestCall struct {
	category string
	maxPrice *float64
	limit    int
}

type fakeProducts struct {
	products []domain.Product
	cheapest []cheapestCall
}

func (f *fakeProducts) FindByID(ctx context.Context, id string) (domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (f *fakeProducts) Cheapest(ctx context.Context, category string, maxPrice *float64, limit int) ([]domain.Product, error) {
	f.cheapest = append(f.cheapest, cheapestCall{category: category, maxPrice: maxPrice, limit: limit})
	var out []domain.Product
	for _, p := range f.products {
		if category != "" && p.Category != category {
			continue
		}
		if maxPrice != nil && p.Price > *maxPrice {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProducts) TopRated(ctx context.Context, categories []string, limit int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if len(categories) == 0 || p.Category == categories[0] {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeReviews struct{}

func (fakeReviews) Summary(ctx context.Context, productID string) (domain.ReviewSummary, error) {
	if productID == "LAP1001" {
		return domain.ReviewSummary{AverageRating: 4.5, TotalReviews: 2, Themes: []domain.Theme{}}, nil
	}
	return domain.ReviewSummary{Themes: []domain.Theme{}, SummaryText: "No reviews yet."}, nil
}

func (fakeReviews) Recent(ctx context.Context, productID string, limit int) ([]domain.Review, error) {
	if productID == "LAP1001" {
		return []domain.Review{{ProductID: "LAP1001", Rating: 5, Text: "Great"}}, nil
	}
	return nil, nil
}

type fakePolicies struct{}

var laptopPolicy = domain.StorePolicy{PolicyType: "returns", Description: "Laptop Return Policy", Timeframe: 30}

func (fakePolicies) ResolveByCategory(ctx context.Context, category, policyType string) (*domain.StorePolicy, error) {
	if category == "laptop" {
		p := laptopPolicy
		return &p, nil
	}
	return nil, nil
}

func (f fakePolicies) ResolveByProduct(ctx context.Context, productID, policyType string) (*domain.StorePolicy, error) {
	if len(productID) >= 3 && productID[:3] == "LAP" {
		return f.ResolveByCategory(ctx, "laptop", policyType)
	}
	return nil, nil
}

type fakePrices struct{}

func (fakePrices) Compare(ctx context.Context, productID string) (*domain.PriceComparison, error) {
	if productID != "LAP1001" {
		return nil, domain.ErrProductNotFound
	}
	return &domain.PriceComparison{
		Base: domain.Product{ID: "LAP1001", Category: "laptop", Price: 999},
		Min:  450, Max: 1500, Avg: 597.21,
		Cheaper: []domain.Product{},
	}, nil
}

type fakeRecommender struct {
	requests []domain.RecommendationRequest
}

func (f *fakeRecommender) Recommend(ctx context.Context, req domain.RecommendationRequest) ([]domain.Recommendation, error) {
	f.requests = append(f.requests, req)
	return []domain.Recommendation{{Product: domain.Product{ID: "SPK3001"}}}, nil
}

type fakeModel struct {
	available  bool
	intent     openai.Result
	rewrite    openai.TextResult
	classified int
	rewrites   int
}

func (m *fakeModel) Available() bool { return m.available }

func (m *fakeModel) StructuredComplete(ctx context.Context, system, user, schemaName string, schema map[string]any) openai.Result {
	m.classified++
	return m.intent
}

func (m *fakeModel) FreeTextComplete(ctx context.Context, system, user string) openai.TextResult {
	m.rewrites++
	return m.rewrite
}

func shopCatalog() *fakeProducts {
	return &fakeProducts{products: []domain.Product{
		{ID: "LAP1001", Name: "Aero 14", Category: "laptop", Price: 999, Rating: 4.5},
		{ID: "LAP1002", Name: "Forge 16", Category: "laptop", Price: 1500, Rating: 4.7},
		{ID: "LAP1003", Name: "Study 13", Category: "laptop", Price: 450, Rating: 3.9},
		{ID: "LAP1004", Name: "Mini 11", Category: "laptop", Price: 300, Rating: 3.5},
		{ID: "PHN2001", Name: "Pixelate 8", Category: "smartphone", Price: 699, Rating: 4.6},
		{ID: "SPK3001", Name: "Boom Mini", Category: "speaker", Price: 59, Rating: 4.1},
		{ID: "SPK3002", Name: "Boom Max", Category: "speaker", Price: 129, Rating: 4.3},
	}}
}

type harness struct {
	svc      *ChatService
	products *fakeProducts
	recs     *fakeRecommender
}

func newHarness(model Model) harness {
	products := shopCatalog()
	recs := &fakeRecommender{}
	return harness{
		svc:      NewChatService(products, fakeReviews{}, fakePolicies{}, fakePrices{}, recs, model),
		products: products,
		recs:     recs,
	}
}

func handle(t *testing.T, h harness, req domain.ChatRequest) domain.ChatResponse {
	t.Helper()
	resp, err := h.svc.Handle(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func TestBudgetShortCircuitBeatsModel(t *testing.T) {
	model := &fakeModel{
		available: true,
		intent:    openai.Ok(map[string]any{"intent": "policy", "category": "speaker", "product_id": nil}),
		rewrite:   openai.Ok("Rewritten!"),
	}
	h := newHarness(model)

	resp := handle(t, h, domain.ChatRequest{Message: "show me laptops under $500"})

	assert.Equal(t, domain.IntentBudgetSearch, resp.Intent)
	assert.Equal(t, "Here are laptop under $500.", resp.Reply)
	assert.Equal(t, 0, model.classified)
	assert.Equal(t, 0, model.rewrites)

	require.Len(t, h.products.cheapest, 1)
	call := h.products.cheapest[0]
	assert.Equal(t, "laptop", call.category)
	require.NotNil(t, call.maxPrice)
	assert.Equal(t, 500.0, *call.maxPrice)
	assert.Equal(t, 10, call.limit)

	result, ok := resp.Payload.(domain.BudgetSearchResult)
	require.True(t, ok)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "LAP1004", result.Results[0].Product.ID)
	assert.Equal(t, "LAP1003", result.Results[1].Product.ID)
	for _, r := range result.Results {
		assert.LessOrEqual(t, r.Product.Price, 500.0)
	}
}

func TestBudgetSearchNoMatches(t *testing.T) {
	resp := handle(t, newHarness(nil), domain.ChatRequest{Message: "any tv below 100"})

	assert.Equal(t, domain.IntentBudgetSearch, resp.Intent)
	assert.Equal(t, "No smart_tv found under $100.", resp.Reply)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"reply":"No smart_tv found under $100.","intent":"budget_search","payload":{"results":[]}}`, string(raw))
}

func TestPolicyIntent(t *testing.T) {
	h := newHarness(nil)

	resp := handle(t, h, domain.ChatRequest{Message: "what is the return policy?", ProductID: "LAP1002"})
	assert.Equal(t, domain.IntentPolicy, resp.Intent)
	assert.Equal(t, "Return policy: Laptop Return Policy. Timeframe: 30 days.", resp.Reply)

	resp = handle(t, h, domain.ChatRequest{Message: "warranty on a speaker?"})
	assert.Equal(t, "I couldn't find a matching policy. Provide a product ID or category.", resp.Reply)
	raw, err := json.Marshal(resp.Payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"policy":null}`, string(raw))
}

func TestPolicyUsesModelCategory(t *testing.T) {
	model := &fakeModel{
		available: true,
		intent:    openai.Ok(map[string]any{"intent": "policy", "category": "laptop", "product_id": nil}),
		rewrite:   openai.Failed[string]("timeout"),
	}
	resp := handle(t, newHarness(model), domain.ChatRequest{Message: "can I send my notebook back?"})

	assert.Equal(t, domain.IntentPolicy, resp.Intent)
	assert.Equal(t, "Return policy: Laptop Return Policy. Timeframe: 30 days.", resp.Reply)
	assert.Equal(t, 1, model.rewrites)
}

func TestReviewIntent(t *testing.T) {
	h := newHarness(nil)

	resp := handle(t, h, domain.ChatRequest{Message: "show reviews for LAP1001"})
	assert.Equal(t, domain.IntentReview, resp.Intent)
	assert.Equal(t, "Here are recent reviews for Aero 14.", resp.Reply)
	result := resp.Payload.(domain.ReviewResult)
	assert.Equal(t, 2, result.Summary.TotalReviews)
	require.Len(t, result.Reviews, 1)

	resp = handle(t, h, domain.ChatRequest{Message: "review of the best speaker"})
	assert.Equal(t, "No reviews found for Boom Max.", resp.Reply)

	resp = handle(t, h, domain.ChatRequest{Message: "review please"})
	assert.Equal(t, "Tell me the product ID or name for review details.", resp.Reply)
	assert.Equal(t, domain.IntentReview, resp.Payload.PayloadIntent())
}

func TestPriceIntent(t *testing.T) {
	h := newHarness(nil)

	resp := handle(t, h, domain.ChatRequest{Message: "compare prices", ProductID: "LAP1001"})
	assert.Equal(t, domain.IntentPrice, resp.Intent)
	assert.Equal(t, "Price range for laptop: $450.0 - $1500.0 (avg $597.21).", resp.Reply)
	assert.IsType(t, domain.PriceResult{}, resp.Payload)

	resp = handle(t, h, domain.ChatRequest{Message: "compare LAP1001 and PHN2001"})
	assert.Equal(t, "Aero 14 ($999.00) vs Pixelate 8 ($699.00). Categories: laptop vs smartphone.", resp.Reply)
	pair := resp.Payload.(domain.ComparisonPairResult).ComparisonPair
	require.NotNil(t, pair.Left.Policy)
	assert.Nil(t, pair.Right.Policy)
	assert.Equal(t, 2, pair.Left.ReviewSummary.TotalReviews)

	resp = handle(t, h, domain.ChatRequest{Message: "compare LAP1001 and ZZZ9999"})
	assert.Equal(t, "I couldn't find one of those products. Check the IDs.", resp.Reply)

	resp = handle(t, h, domain.ChatRequest{Message: "compare LAP1001"})
	assert.Equal(t, "Tell me the product ID to compare prices.", resp.Reply)

	resp = handle(t, h, domain.ChatRequest{Message: "price check", ProductID: "NOPE1"})
	assert.Equal(t, "I couldn't find that product.", resp.Reply)
}

func TestRecommendIntent(t *testing.T) {
	h := newHarness(nil)

	resp := handle(t, h, domain.ChatRequest{Message: "recommend the cheapest speaker"})
	assert.Equal(t, domain.IntentRecommend, resp.Intent)
	assert.Equal(t, "Here are the cheapest options I found.", resp.Reply)
	cheapest := resp.Payload.(domain.CheapestResult).Cheapest
	require.Len(t, cheapest, 2)
	assert.Equal(t, "SPK3001", cheapest[0].ID)
	assert.Nil(t, h.products.cheapest[0].maxPrice)
	assert.Equal(t, 5, h.products.cheapest[0].limit)

	resp = handle(t, h, domain.ChatRequest{Message: "suggest something similar", ProductID: "LAP1001", UserID: "U001"})
	assert.Equal(t, "Here are recommendations based on your request.", resp.Reply)
	assert.IsType(t, domain.RecommendResult{}, resp.Payload)
	require.Len(t, h.recs.requests, 1)
	assert.Equal(t, domain.RecommendationRequest{ProductID: "LAP1001", Query: "suggest something similar", UserID: "U001"}, h.recs.requests[0])
}

func TestSearchIntent(t *testing.T) {
	h := newHarness(nil)

	resp := handle(t, h, domain.ChatRequest{Message: "wireless earbuds", ProductID: "LAP1001", UserID: "U002"})
	assert.Equal(t, domain.IntentSearch, resp.Intent)
	assert.Equal(t, "Here are products that might match.", resp.Reply)
	assert.Equal(t, domain.RecommendationRequest{Query: "wireless earbuds", UserID: "U002"}, h.recs.requests[0])

	raw, err := json.Marshal(resp.Payload)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"results"`)
}

func TestModelFallbacksKeepPayload(t *testing.T) {
	failing := &fakeModel{
		available: true,
		intent:    openai.Failed[map[string]any]("boom"),
		rewrite:   openai.Failed[string]("boom"),
	}
	unknown := &fakeModel{
		available: true,
		intent:    openai.Ok(map[string]any{"intent": "haggle"}),
		rewrite:   openai.Ok("   "),
	}

	plain := handle(t, newHarness(nil), domain.ChatRequest{Message: "compare prices", ProductID: "LAP1001"})
	for _, model := range []*fakeModel{failing, unknown} {
		resp := handle(t, newHarness(model), domain.ChatRequest{Message: "compare prices", ProductID: "LAP1001"})
		assert.Equal(t, plain, resp)
		assert.Equal(t, 1, model.classified)
		assert.Equal(t, 1, model.rewrites)
	}
}

type deadlineRecommender struct{}

func (deadlineRecommender) Recommend(ctx context.Context, req domain.RecommendationRequest) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []domain.Recommendation{{Product: domain.Product{ID: "SPK3001"}}}, nil
}

func TestStalledModelLeavesRequestBudget(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	model := openai.NewClient(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL, Timeout: 20 * time.Second})
	svc := NewChatService(shopCatalog(), fakeReviews{}, fakePolicies{}, fakePrices{}, deadlineRecommender{}, model)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	resp, err := svc.Handle(ctx, domain.ChatRequest{Message: "show me something nice"})
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSearch, resp.Intent)
	assert.Equal(t, "Here are products that might match.", resp.Reply)
	result, ok := resp.Payload.(domain.SearchResult)
	require.True(t, ok)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "SPK3001", result.Results[0].Product.ID)
}

func TestRewriteOnlyChangesReply(t *testing.T) {
	model := &fakeModel{
		available: true,
		intent:    openai.Ok(map[string]any{"intent": "price", "category": nil, "product_id": nil}),
		rewrite:   openai.Ok("Laptops here run from $450 to $1500."),
	}
	plain := handle(t, newHarness(nil), domain.ChatRequest{Message: "compare prices", ProductID: "LAP1001"})
	resp := handle(t, newHarness(model), domain.ChatRequest{Message: "compare prices", ProductID: "LAP1001"})

	assert.Equal(t, "Laptops here run from $450 to $1500.", resp.Reply)
	assert.Equal(t, plain.Intent, resp.Intent)
	assert.Equal(t, plain.Payload, resp.Payload)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1200.0", formatAmount(1200))
	assert.Equal(t, "597.21", formatAmount(597.21))
	assert.Equal(t, "0.5", formatAmount(0.5))
}
