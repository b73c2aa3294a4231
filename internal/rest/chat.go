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

type ChatService interface {
	Handle(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error)
}

type ChatHandler struct {
	chatService ChatService
	validate    *validator.Validate
	timeout     time.Duration
}

func NewChatHandler(chatService ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validate:    validator.New(),
		timeout:     requestTimeout,
	}
}

type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=2000"`
	ProductID string `json:"product_id" validate:"max=64"`
	UserID    string `json:"user_id" validate:"max=64"`
}

func (h *ChatHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate chat request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	resp, err := h.chatService.Handle(ctx, domain.ChatRequest{
		Message:   req.Message,
		ProductID: req.ProductID,
		UserID:    req.UserID,
	})
	if err != nil {
		logger.Error("Failed to handle chat message", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}
