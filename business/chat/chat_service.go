package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"smartShop/domain"
	"smartShop/internal/repository/openai"
	"smartShop/pkg/logger"
	"smartShop/pkg/metrics"
)

const (
	budgetSearchLimit = 10
	cheapestLimit     = 5
	recentReviewLimit = 5
)

// ---- Collaborator interfaces ----

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
	Cheapest(ctx context.Context, category string, maxPrice *float64, limit int) ([]domain.Product, error)
	TopRated(ctx context.Context, categories []string, limit int) ([]domain.Product, error)
}

type ReviewService interface {
	Summary(ctx context.Context, productID string) (domain.ReviewSummary, error)
	Recent(ctx context.Context, productID string, limit int) ([]domain.Review, error)
}

type PolicyService interface {
	ResolveByCategory(ctx context.Context, category, policyType string) (*domain.StorePolicy, error)
	ResolveByProduct(ctx context.Context, productID, policyType string) (*domain.StorePolicy, error)
}

type PriceService interface {
	Compare(ctx context.Context, productID string) (*domain.PriceComparison, error)
}

type Recommender interface {
	Recommend(ctx context.Context, req domain.RecommendationRequest) ([]domain.Recommendation, error)
}

type Model interface {
	Available() bool
	StructuredComplete(ctx context.Context, system, user, schemaName string, schema map[string]any) openai.Result
	FreeTextComplete(ctx context.Context, system, user string) openai.TextResult
}

type ChatService struct {
	productRepo ProductRepository
	reviews     ReviewService
	policies    PolicyService
	prices      PriceService
	recommender Recommender
	model       Model
}

func NewChatService(
	productRepo ProductRepository,
	reviews ReviewService,
	policies PolicyService,
	prices PriceService,
	recommender Recommender,
	model Model,
) *ChatService {
	return &ChatService{
		productRepo: productRepo,
		reviews:     reviews,
		policies:    policies,
		prices:      prices,
		recommender: recommender,
		model:       model,
	}
}

// Handle routes one message. A budget in the message short-circuits classification
// entirely; every other intent gets its reply rewritten by the model when one is
// configured. The payload is never touched by the rewrite.
func (s *ChatService) Handle(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.ChatResponse{}, fmt.Errorf("context error: %w", err)
	}

	if budget, ok := ExtractBudget(req.Message); ok {
		resp, err := s.budgetSearch(ctx, req.Message, budget)
		if err != nil {
			return domain.ChatResponse{}, err
		}
		metrics.ChatIntents.WithLabelValues(resp.Intent).Inc()
		return resp, nil
	}

	cls := s.classify(ctx, req.Message)

	var (
		reply   string
		payload domain.ChatPayload
		err     error
	)
	switch cls.Intent {
	case domain.IntentPolicy:
		reply, payload, err = s.handlePolicy(ctx, req, cls)
	case domain.IntentReview:
		reply, payload, err = s.handleReview(ctx, req, cls)
	case domain.IntentPrice:
		reply, payload, err = s.handlePrice(ctx, req)
	case domain.IntentRecommend:
		reply, payload, err = s.handleRecommend(ctx, req)
	default:
		reply, payload, err = s.handleSearch(ctx, req)
	}
	if err != nil {
		logger.Error("failed to handle chat message", "intent", cls.Intent, "error", err)
		return domain.ChatResponse{}, err
	}

	metrics.ChatIntents.WithLabelValues(cls.Intent).Inc()
	return domain.ChatResponse{
		Reply:   s.rewrite(ctx, req, cls.Intent, reply, payload),
		Intent:  cls.Intent,
		Payload: payload,
	}, nil
}

func (s *ChatService) budgetSearch(ctx context.Context, message string, budget float64) (domain.ChatResponse, error) {
	category := ExtractCategory(message)

	matches, err := s.productRepo.Cheapest(ctx, category, &budget, budgetSearchLimit)
	if err != nil {
		return domain.ChatResponse{}, fmt.Errorf("budget search: %w", err)
	}

	results := make([]domain.BudgetMatch, 0, len(matches))
	for _, p := range matches {
		results = append(results, domain.BudgetMatch{
			Product: domain.ProductBrief{ID: p.ID, Name: p.Name, Price: p.Price},
		})
	}

	label := category
	if label == "" {
		label = "products"
	}
	reply := fmt.Sprintf("Here are %s under $%.0f.", label, budget)
	if len(matches) == 0 {
		reply = fmt.Sprintf("No %s found under $%.0f.", label, budget)
	}

	return domain.ChatResponse{
		Reply:   reply,
		Intent:  domain.IntentBudgetSearch,
		Payload: domain.BudgetSearchResult{Results: results},
	}, nil
}

func (s *ChatService) handlePolicy(ctx context.Context, req domain.ChatRequest, cls Classification) (string, domain.ChatPayload, error) {
	var policy *domain.StorePolicy
	var err error

	if productID := firstNonEmpty(req.ProductID, cls.ProductID); productID != "" {
		policy, err = s.policies.ResolveByProduct(ctx, productID, domain.PolicyTypeReturns)
		if err != nil {
			return "", nil, err
		}
	}
	if policy == nil {
		if category := firstNonEmpty(cls.Category, ExtractCategory(req.Message)); category != "" {
			policy, err = s.policies.ResolveByCategory(ctx, category, domain.PolicyTypeReturns)
			if err != nil {
				return "", nil, err
			}
		}
	}

	if policy == nil {
		return "I couldn't find a matching policy. Provide a product ID or category.", domain.PolicyResult{}, nil
	}
	reply := fmt.Sprintf("Return policy: %s. Timeframe: %d days.", policy.Description, policy.Timeframe)
	return reply, domain.PolicyResult{Policy: policy}, nil
}

func (s *ChatService) handleReview(ctx context.Context, req domain.ChatRequest, cls Classification) (string, domain.ChatPayload, error) {
	target := firstNonEmpty(req.ProductID, cls.ProductID, ExtractProductID(req.Message))
	if target == "" {
		if category := ExtractCategory(req.Message); category != "" {
			top, err := s.productRepo.TopRated(ctx, []string{category}, 1)
			if err != nil {
				return "", nil, fmt.Errorf("find review target: %w", err)
			}
			if len(top) > 0 {
				target = top[0].ID
			}
		}
	}
	if target == "" {
		return "Tell me the product ID or name for review details.", domain.ClarificationResult{For: domain.IntentReview}, nil
	}

	summary, err := s.reviews.Summary(ctx, target)
	if err != nil {
		return "", nil, err
	}
	recent, err := s.reviews.Recent(ctx, target, recentReviewLimit)
	if err != nil {
		return "", nil, err
	}

	name := target
	product, err := s.productRepo.FindByID(ctx, target)
	switch {
	case err == nil:
		name = product.Name
	case !errors.Is(err, domain.ErrProductNotFound):
		return "", nil, err
	}

	snippets := make([]domain.ReviewSnippet, 0, len(recent))
	for _, r := range recent {
		snippets = append(snippets, domain.NewReviewSnippet(r))
	}

	reply := fmt.Sprintf("Here are recent reviews for %s.", name)
	if len(recent) == 0 {
		reply = fmt.Sprintf("No reviews found for %s.", name)
	}
	return reply, domain.ReviewResult{Summary: summary, Reviews: snippets}, nil
}

func (s *ChatService) handlePrice(ctx context.Context, req domain.ChatRequest) (string, domain.ChatPayload, error) {
	clarify := domain.ClarificationResult{For: domain.IntentPrice}

	if req.ProductID != "" {
		cmp, err := s.prices.Compare(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return "I couldn't find that product.", clarify, nil
			}
			return "", nil, err
		}
		reply := fmt.Sprintf("Price range for %s: $%s - $%s (avg $%s).",
			cmp.Base.Category, formatAmount(cmp.Min), formatAmount(cmp.Max), formatAmount(cmp.Avg))
		return reply, domain.PriceResult{Comparison: *cmp}, nil
	}

	ids := ExtractProductIDs(req.Message)
	if len(ids) < 2 {
		return "Tell me the product ID to compare prices.", clarify, nil
	}

	left, ok, err := s.comparisonSide(ctx, ids[0])
	if err != nil {
		return "", nil, err
	}
	right, okRight, err := s.comparisonSide(ctx, ids[1])
	if err != nil {
		return "", nil, err
	}
	if !ok || !okRight {
		return "I couldn't find one of those products. Check the IDs.", clarify, nil
	}

	reply := fmt.Sprintf("%s ($%.2f) vs %s ($%.2f). Categories: %s vs %s.",
		left.Name, left.Price, right.Name, right.Price, left.Category, right.Category)
	return reply, domain.ComparisonPairResult{ComparisonPair: domain.ComparisonPair{Left: left, Right: right}}, nil
}

// comparisonSide reports false when the product does not exist.
func (s *ChatService) comparisonSide(ctx context.Context, productID string) (domain.ComparisonSide, bool, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.ComparisonSide{}, false, nil
		}
		return domain.ComparisonSide{}, false, err
	}

	summary, err := s.reviews.Summary(ctx, product.ID)
	if err != nil {
		return domain.ComparisonSide{}, false, err
	}
	policy, err := s.policies.ResolveByProduct(ctx, product.ID, domain.PolicyTypeReturns)
	if err != nil {
		return domain.ComparisonSide{}, false, err
	}

	return domain.ComparisonSide{
		ID:            product.ID,
		Name:          product.Name,
		Price:         product.Price,
		Category:      product.Category,
		Rating:        product.Rating,
		ReviewSummary: summary,
		Policy:        policy,
	}, true, nil
}

func (s *ChatService) handleRecommend(ctx context.Context, req domain.ChatRequest) (string, domain.ChatPayload, error) {
	if IsCheapestRequest(req.Message) {
		rows, err := s.productRepo.Cheapest(ctx, ExtractCategory(req.Message), nil, cheapestLimit)
		if err != nil {
			return "", nil, fmt.Errorf("cheapest search: %w", err)
		}
		items := make([]domain.CheapestItem, 0, len(rows))
		for _, p := range rows {
			items = append(items, domain.CheapestItem{ID: p.ID, Name: p.Name, Price: p.Price, Category: p.Category})
		}
		if len(items) == 0 {
			return "I couldn't find cheap options for that category.", domain.CheapestResult{Cheapest: items}, nil
		}
		return "Here are the cheapest options I found.", domain.CheapestResult{Cheapest: items}, nil
	}

	recs, err := s.recommender.Recommend(ctx, domain.RecommendationRequest{
		ProductID: req.ProductID,
		Query:     req.Message,
		UserID:    req.UserID,
	})
	if err != nil {
		return "", nil, err
	}
	return "Here are recommendations based on your request.", domain.RecommendResult{Recommendations: recs}, nil
}

func (s *ChatService) handleSearch(ctx context.Context, req domain.ChatRequest) (string, domain.ChatPayload, error) {
	recs, err := s.recommender.Recommend(ctx, domain.RecommendationRequest{
		Query:  req.Message,
		UserID: req.UserID,
	})
	if err != nil {
		return "", nil, err
	}
	return "Here are products that might match.", domain.SearchResult{Results: recs}, nil
}

// rewrite asks the model for a friendlier wording of draft and keeps draft on any failure.
func (s *ChatService) rewrite(ctx context.Context, req domain.ChatRequest, intent, draft string, payload domain.ChatPayload) string {
	if s.model == nil || !s.model.Available() {
		return draft
	}

	prompt, err := json.Marshal(map[string]any{
		"message":     req.Message,
		"intent":      intent,
		"draft_reply": draft,
		"user_id":     nullable(req.UserID),
		"payload":     payload,
	})
	if err != nil {
		return draft
	}

	res := s.model.FreeTextComplete(ctx,
		"You are a helpful e-commerce assistant. Rewrite the response to be friendly and concise. Reply with the rewritten text only.",
		string(prompt))
	text, ok := res.Get()
	if !ok || strings.TrimSpace(text) == "" {
		metrics.ModelFallbacks.WithLabelValues("chat_reply").Inc()
		return draft
	}
	return text
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// formatAmount prints whole amounts with one decimal ("1200.0") and otherwise the
// shortest exact form ("597.21").
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
