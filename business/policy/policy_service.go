package policy

import (
	"context"
	"errors"
	"fmt"

	"smartShop/domain"
	"smartShop/pkg/logger"
)

// categoryPolicies maps (policy type, category) to the description of the stored policy.
var categoryPolicies = map[string]map[string]string{
	domain.PolicyTypeReturns: {
		"laptop":     "Laptop Return Policy",
		"smartphone": "Smartphone Return Policy",
		"smart_tv":   "Smart TV Return Policy",
		"speaker":    "Speaker Return Policy",
	},
	domain.PolicyTypeWarranty: {
		"laptop":     "Standard Laptop Warranty",
		"smartphone": "Standard Smartphone Warranty",
		"speaker":    "Speaker Warranty",
	},
}

// PolicyRepository contract interface
type PolicyRepository interface {
	FindByDescription(ctx context.Context, description string) (domain.StorePolicy, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

type policyService struct {
	policyRepo  PolicyRepository
	productRepo ProductRepository
}

func NewPolicyService(policyRepo PolicyRepository, productRepo ProductRepository) *policyService {
	return &policyService{
		policyRepo:  policyRepo,
		productRepo: productRepo,
	}
}

// ResolveByCategory returns nil when the combination is unmapped or the mapped policy is
// missing from the store. An empty policyType means returns.
func (s *policyService) ResolveByCategory(ctx context.Context, category, policyType string) (*domain.StorePolicy, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if policyType == "" {
		policyType = domain.PolicyTypeReturns
	}
	description, ok := categoryPolicies[policyType][category]
	if !ok {
		return nil, nil
	}

	policy, err := s.policyRepo.FindByDescription(ctx, description)
	if err != nil {
		if errors.Is(err, domain.ErrPolicyNotFound) {
			return nil, nil
		}
		logger.Error("failed to find policy", "description", description, "error", err)
		return nil, err
	}

	return &policy, nil
}

// ResolveByProduct looks up the product's category and resolves from there.
func (s *policyService) ResolveByProduct(ctx context.Context, productID, policyType string) (*domain.StorePolicy, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, nil
		}
		logger.Error("failed to find product for policy", err)
		return nil, err
	}

	return s.ResolveByCategory(ctx, product.Category, policyType)
}
