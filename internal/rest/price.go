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

type PriceService interface {
	Compare(ctx context.Context, productID string) (*domain.PriceComparison, error)
}

type PriceHandler struct {
	priceService PriceService
	validate     *validator.Validate
	timeout      time.Duration
}

func NewPriceHandler(priceService PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
		validate:     validator.New(),
		timeout:      requestTimeout,
	}
}

func (h *PriceHandler) Compare(c echo.Context) error {
	var q ProductQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	comparison, err := h.priceService.Compare(ctx, q.ProductID)
	if err != nil {
		if statusFromError(err) == http.StatusInternalServerError {
			logger.Error("Failed to compare prices", err)
		}
		return errorResponse(c, err)
	}
	if comparison == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrProductNotFound.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(comparison))
}
