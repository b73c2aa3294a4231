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

type UserService interface {
	CreateUser(ctx context.Context, user *domain.UserProfile) (domain.UserProfile, error)
	GetUserByID(ctx context.Context, id string) (domain.UserProfile, error)
	GetAllUsers(ctx context.Context) ([]domain.UserProfile, error)
	UpdateUser(ctx context.Context, id string, update domain.UserProfileUpdate) (domain.UserProfile, error)
	RecordEvent(ctx context.Context, event domain.UserEvent) (bool, error)
}

type UserHandler struct {
	userService UserService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		timeout:     requestTimeout,
	}
}

type UserCreateRequest struct {
	ID                  string   `json:"id" validate:"required,max=64"`
	Name                string   `json:"name" validate:"required,max=200"`
	PreferredCategories []string `json:"preferred_categories" validate:"dive,required"`
	BudgetMin           *float64 `json:"budget_min" validate:"omitempty,gte=0"`
	BudgetMax           *float64 `json:"budget_max" validate:"omitempty,gte=0"`
}

type UserUpdateRequest struct {
	Name                *string  `json:"name" validate:"omitempty,min=1,max=200"`
	PreferredCategories []string `json:"preferred_categories" validate:"omitempty,dive,required"`
	BudgetMin           *float64 `json:"budget_min" validate:"omitempty,gte=0"`
	BudgetMax           *float64 `json:"budget_max" validate:"omitempty,gte=0"`
}

type UserEventRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
	EventType string `json:"event_type" validate:"required,oneof=view wishlist purchase"`
}

func budgetInverted(lo, hi *float64) bool {
	return lo != nil && hi != nil && *lo > *hi
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	var req UserCreateRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate user request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if budgetInverted(req.BudgetMin, req.BudgetMax) {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "budget_min is greater than budget_max"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	categories := req.PreferredCategories
	if categories == nil {
		categories = []string{}
	}

	user, err := h.userService.CreateUser(ctx, &domain.UserProfile{
		ID:                  req.ID,
		Name:                req.Name,
		PreferredCategories: categories,
		BudgetMin:           req.BudgetMin,
		BudgetMax:           req.BudgetMax,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(user))
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.GetUserByID(ctx, c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(user))
}

func (h *UserHandler) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	users, err := h.userService.GetAllUsers(ctx)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if users == nil {
		users = []domain.UserProfile{}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(users))
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate user update", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if budgetInverted(req.BudgetMin, req.BudgetMax) {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "budget_min is greater than budget_max"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updatedUser, err := h.userService.UpdateUser(ctx, c.Param("id"), domain.UserProfileUpdate{
		Name:                req.Name,
		PreferredCategories: req.PreferredCategories,
		BudgetMin:           req.BudgetMin,
		BudgetMax:           req.BudgetMax,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updatedUser))
}

// RecordEvent always answers ok once the body is valid. Events for unknown users or
// products are dropped by the service.
func (h *UserHandler) RecordEvent(c echo.Context) error {
	var req UserEventRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate user event", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if _, err := h.userService.RecordEvent(ctx, domain.UserEvent{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		EventType: req.EventType,
	}); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
