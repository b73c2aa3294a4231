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

const recentReviewLimit = 10

type ReviewService interface {
	Summary(ctx context.Context, productID string) (domain.ReviewSummary, error)
	Recent(ctx context.Context, productID string, limit int) ([]domain.Review, error)
}

type ReviewHandler struct {
	reviewService ReviewService
	validate      *validator.Validate
	timeout       time.Duration
}

func NewReviewHandler(reviewService ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      validator.New(),
		timeout:       requestTimeout,
	}
}

type ProductQuery struct {
	ProductID string `query:"product_id" validate:"required,max=64"`
}

func (h *ReviewHandler) GetReviews(c echo.Context) error {
	var q ProductQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reviews, err := h.reviewService.Recent(ctx, q.ProductID, recentReviewLimit)
	if err != nil {
		logger.Error("Failed to get reviews", err)
		return errorResponse(c, err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(reviews))
}

func (h *ReviewHandler) GetSummary(c echo.Context) error {
	var q ProductQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.reviewService.Summary(ctx, q.ProductID)
	if err != nil {
		logger.Error("Failed to summarize reviews", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}
