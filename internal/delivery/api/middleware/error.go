package middleware

import (
	"log/slog"
	"net/http"

	"greenhood/internal/delivery/api/response"
	"greenhood/internal/delivery/ui"
	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/domain/service"
	"greenhood/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware renders every handler error as a JSON envelope.
// Errors are classified the same way the console runner classifies task failures.
type ErrorMiddleware struct {
	logger    *slog.Logger
	localizer service.Localizer
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger, localizer service.Localizer) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger:    logger,
		localizer: localizer,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	switch ui.Classify(err) {
	case ui.KindValidation:
		failure, _ := domainerrors.IsValidationFailure(err)
		_ = response.Error(c, failure.HTTPCode(), failure.ErrorCode(), m.localizer.Get(failure.Key, failure.Args...), failure.Key)

		return
	case ui.KindConnectivity:
		m.log(c, "Store unreachable", err)
		unavailable := domainerrors.ErrServiceUnavailable
		_ = response.Error(c, unavailable.HTTPCode(), unavailable.ErrorCode(), m.localizer.Get(domainerrors.KeyNetworkWarning), nil)

		return
	case ui.KindStore:
		m.log(c, "Store rejected the request", err)
		_ = response.Error(c, http.StatusInternalServerError, "DATABASE_EXECUTE_FAILED", m.localizer.Get(domainerrors.KeyErrorDB), nil)

		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())

		return
	}

	if httpErr, ok := errors.AsType[*echo.HTTPError](err); ok {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)

		return
	}

	m.log(c, "Unhandled error", err)
	internal := domainerrors.ErrInternalError
	_ = response.Error(c, internal.HTTPCode(), internal.ErrorCode(), m.localizer.Get(domainerrors.KeyErrorUnexpected), nil)
}

func (m *ErrorMiddleware) log(c echo.Context, msg string, err error) {
	m.logger.Error(msg,
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
}
