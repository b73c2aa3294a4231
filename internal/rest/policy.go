package rest

import (
	"context"
	"net/http"
	"time"

	"smartShop/domain"
	"smartShop/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type PolicyService interface {
	ResolveByCategory(ctx context.Context, category, policyType string) (*domain.StorePolicy, error)
	ResolveByProduct(ctx context.Context, productID, policyType string) (*domain.StorePolicy, error)
}

type PolicyHandler struct {
	policyService PolicyService
	validate      *validator.Validate
	timeout       time.Duration
}

func NewPolicyHandler(policyService PolicyService) *PolicyHandler {
	return &PolicyHandler{
		policyService: policyService,
		validate:      validator.New(),
		timeout:       requestTimeout,
	}
}

type PolicyQuery struct {
	ProductID  string `query:"product_id" validate:"max=64"`
	Category   string `query:"category" validate:"max=64"`
	PolicyType string `query:"policy_type" validate:"omitempty,oneof=returns warranty"`
}

// GET /api/v1/policy?product_id=LAP1001&policy_type=warranty
func (h *PolicyHandler) GetPolicy(c echo.Context) error {
	var q PolicyQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if q.ProductID == "" && q.Category == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "product_id or category required"})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if q.PolicyType == "" {
		q.PolicyType = domain.PolicyTypeReturns
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var (
		policy *domain.StorePolicy
		err    error
	)
	if q.ProductID != "" {
		policy, err = h.policyService.ResolveByProduct(ctx, q.ProductID, q.PolicyType)
	} else {
		policy, err = h.policyService.ResolveByCategory(ctx, q.Category, q.PolicyType)
	}
	if err != nil {
		logger.Error("Failed to resolve policy", err)
		return errorResponse(c, err)
	}
	if policy == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrPolicyNotFound.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(policy))
}
