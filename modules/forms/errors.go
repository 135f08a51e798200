package forms

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/formkit/handler"
	"github.com/dmitrymomot/formkit/pkg/form"
)

// Error codes of the JSON envelope. Each is also looked up as
// "errors.<code>" in the i18n catalog.
const (
	CodeFormNotFound       = "form_not_found"
	CodeSessionNotFound    = "session_not_found"
	CodeValidationFailed   = handler.CodeValidationFailed
	CodeServiceUnavailable = "service_unavailable"
	CodeTooManyRequests    = "too_many_requests"
)

var (
	ErrFormNotFound       = handler.NewHTTPError(http.StatusNotFound, CodeFormNotFound)
	ErrSessionNotFound    = handler.NewHTTPError(http.StatusNotFound, CodeSessionNotFound)
	ErrServiceUnavailable = handler.NewHTTPError(http.StatusServiceUnavailable, CodeServiceUnavailable)
	ErrTooManyRequests    = handler.NewHTTPError(http.StatusTooManyRequests, CodeTooManyRequests)
)

// storeError maps session store failures onto HTTP errors, keeping the
// original error in the chain for logging.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, form.ErrSessionNotFound):
		return fmt.Errorf("%w: %w", ErrSessionNotFound, err)
	case errors.Is(err, form.ErrStoreUnavailable):
		return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	return err
}
