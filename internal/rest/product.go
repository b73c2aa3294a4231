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

type ProductService interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter, userID string) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        requestTimeout,
	}
}

type ListProductsQuery struct {
	Query       string `query:"query" validate:"max=200"`
	Category    string `query:"category" validate:"max=64"`
	UserID      string `query:"user_id" validate:"max=64"`
	InStockOnly bool   `query:"in_stock_only"`
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	var req ListProductsQuery
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid product query", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product query", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	minPrice, err := optionalFloat(c, "min_price")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	maxPrice, err := optionalFloat(c, "max_price")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.ListProducts(ctx, domain.ProductFilter{
		Query:       req.Query,
		Category:    req.Category,
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		InStockOnly: req.InStockOnly,
	}, req.UserID)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(product))
}

