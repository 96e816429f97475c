package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/spsina/bookStore/internal/logging"
	"github.com/spsina/bookStore/internal/middleware"
	"github.com/spsina/bookStore/internal/usecase"
	"github.com/spsina/bookStore/internal/validator"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// writeError renders usecase errors; anything else is a 500.
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	logger := logging.FromContext(c.Request().Context())

	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.Int("status", he.Status), zap.String("error", he.Message))
		} else {
			logger.Warn("request rejected", zap.Int("status", he.Status), zap.String("error", he.Message))
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Details: he.Details})
	}

	//500
	logger.Error("unexpected error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// bindAndValidate decodes the body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		if errors.Is(err, echo.ErrValidatorNotRegistered) {
			return err
		}
		details := make(map[string]any)
		for field, msgs := range validator.FieldErrors(err) {
			details[field] = msgs
		}
		return &usecase.HTTPError{Status: http.StatusBadRequest, Message: "validation error", Details: details}
	}
	return nil
}

func getUserProfileIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserProfileIDKey)
	id, ok := v.(int64)
	return id, ok && id > 0
}
