package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/formkit/pkg/binder"
	"github.com/dmitrymomot/formkit/pkg/environment"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Error codes for request binding failures.
const (
	CodeInvalidRequest       = "invalid_request"
	CodeUnsupportedMediaType = "unsupported_media_type"
	CodeRequestTooLarge      = "request_entity_too_large"
)

// ErrorHandlerConfig configures the default error handler
type ErrorHandlerConfig struct {
	// Message returns a human readable message for an error code, typically
	// from the i18n catalog in the request language. An empty result keeps
	// the default message.
	Message func(r *http.Request, code string) string

	// Debug reports whether 5xx responses may carry the internal error text
	// under details.error. Defaults to requests served in development.
	Debug func(r *http.Request) bool
}

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Detail     *ErrorDetail
	LogLevel   slog.Level
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// ClassifyError maps an error to its status code and envelope detail.
// Validation and binder failures are client errors; unknown errors are 500
// and never leak their text to the client.
func ClassifyError(err error) ErrorInfo {
	status := http.StatusInternalServerError
	var detail *ErrorDetail

	switch {
	case validator.IsValidationError(err):
		status = http.StatusUnprocessableEntity
		detail = validationDetail(err)
	case errors.Is(err, binder.ErrBodyTooLarge):
		status = http.StatusRequestEntityTooLarge
		detail = &ErrorDetail{Code: CodeRequestTooLarge, Message: http.StatusText(status)}
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		status = http.StatusUnsupportedMediaType
		detail = &ErrorDetail{Code: CodeUnsupportedMediaType, Message: http.StatusText(status)}
	case errors.Is(err, binder.ErrFailedToParseJSON), errors.Is(err, binder.ErrFailedToParsePath):
		status = http.StatusBadRequest
		detail = &ErrorDetail{Code: CodeInvalidRequest, Message: err.Error()}
	default:
		detail, status = errorToDetail(err)
		if status >= http.StatusInternalServerError {
			detail.Message = http.StatusText(status)
		}
	}

	return ErrorInfo{
		StatusCode: status,
		Detail:     detail,
		LogLevel:   determineLogLevel(status),
	}
}

func logError(log *slog.Logger, ctx Context, err error, info ErrorInfo) {
	r := ctx.Request()
	log.LogAttrs(r.Context(), info.LogLevel, "request error",
		logger.Error(err),
		slog.Int("status_code", info.StatusCode),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Component("error_handler"),
	)
}

// NewErrorHandler creates the default error handler. It logs the error with
// request details and renders the JSON error envelope.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Debug == nil {
		cfg.Debug = func(r *http.Request) bool {
			return environment.IsDevelopment(r.Context())
		}
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		info := ClassifyError(err)
		logError(log, ctx, err, info)

		if cfg.Message != nil {
			if msg := cfg.Message(r, info.Detail.Code); msg != "" {
				info.Detail.Message = msg
			}
		}
		if info.StatusCode >= http.StatusInternalServerError && cfg.Debug(r) {
			info.Detail.Details = map[string][]string{"error": {err.Error()}}
		}

		resp := JSONError(info.Detail, WithJSONStatus(info.StatusCode))
		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response",
				logger.Error(renderErr),
				logger.Component("error_handler"),
			)
		}
	}
}
