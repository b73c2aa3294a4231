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

type (
	RecommendationHandler struct {
		validate              *validator.Validate
		recommendationService RecommendationService
		timeout               time.Duration
	}

	RecommendationService interface {
		Recommend(ctx context.Context, req domain.RecommendationRequest) ([]domain.Recommendation, error)
	}

	RecommendQuery struct {
		ProductID string `query:"product_id" validate:"max=64"`
		Query     string `query:"query" validate:"max=200"`
		UserID    string `query:"user_id" validate:"max=64"`
		Limit     int    `query:"limit" validate:"omitempty,min=1,max=50"`
	}
)

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		validate:              validator.New(),
		recommendationService: svc,
		timeout:               requestTimeout,
	}
}

// GET /api/v1/recommendations?product_id=LAP1001&user_id=U001&limit=6
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, err := h.recommendationService.Recommend(ctx, domain.RecommendationRequest{
		ProductID: q.ProductID,
		Query:     q.Query,
		UserID:    q.UserID,
		Limit:     q.Limit,
	})
	if err != nil {
		logger.Error("Failed to build recommendations", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}
