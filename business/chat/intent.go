package chat

import (
	"context"
	"strings"

	"smartShop/domain"
	"smartShop/internal/repository/openai"
	"smartShop/pkg/metrics"
)

const intentSchemaName = "chat_intent"

// Classification is the routed intent plus any slots the classifier filled in.
type Classification struct {
	Intent    string
	Category  string
	ProductID string
}

var classifiableIntents = map[string]struct{}{
	domain.IntentPolicy:    {},
	domain.IntentReview:    {},
	domain.IntentPrice:     {},
	domain.IntentRecommend: {},
	domain.IntentSearch:    {},
}

var intentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"intent": map[string]any{
			"type": "string",
			"enum": []string{
				domain.IntentPolicy, domain.IntentReview, domain.IntentPrice,
				domain.IntentRecommend, domain.IntentSearch,
			},
		},
		"category":   map[string]any{"type": []string{"string", "null"}},
		"product_id": map[string]any{"type": []string{"string", "null"}},
	},
	"required":             []string{"intent", "category", "product_id"},
	"additionalProperties": false,
}

// classify asks the model first and falls back to keyword heuristics when the model is
// unavailable, fails or names an intent outside the known set.
func (s *ChatService) classify(ctx context.Context, message string) Classification {
	if s.model != nil && s.model.Available() {
		res := s.model.StructuredComplete(ctx, "Classify the customer intent.", message, intentSchemaName, intentSchema)
		if obj, ok := res.Get(); ok {
			intent, _ := openai.String(obj, "intent")
			intent = strings.ToLower(strings.TrimSpace(intent))
			if _, known := classifiableIntents[intent]; known {
				category, _ := openai.String(obj, "category")
				productID, _ := openai.String(obj, "product_id")
				return Classification{
					Intent:    intent,
					Category:  strings.TrimSpace(category),
					ProductID: strings.TrimSpace(productID),
				}
			}
		}
		metrics.ModelFallbacks.WithLabelValues(intentSchemaName).Inc()
	}

	return Classification{Intent: HeuristicIntent(message)}
}
