package middleware

import (
	"errors"
	"net/http"

	"smartShop/pkg/logger"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Message string `json:"message"`
}

// ErrorHandler renders every unhandled error as {"message": ...}. Internal details of
// non-HTTP errors are logged but not returned to the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else {
		logger.Error("unhandled request error", err, "path", c.Path(), "request_id", RequestIDFrom(c))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorBody{Message: message})
	}
	if err != nil {
		logger.Error("failed to write error response", err)
	}
}
