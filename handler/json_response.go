package handler

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"

	"github.com/dmitrymomot/formkit/pkg/validator"
)

// JSONResponse is the envelope of every API response.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail is the error part of the envelope. Details maps field names
// to messages.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// Error codes used when the error carries no key of its own.
const (
	CodeInternalError    = "internal_error"
	CodeValidationFailed = "validation_failed"
)

type jsonResponse struct {
	status int
	body   JSONResponse
}

// Render encodes the envelope before writing anything, so an encoding
// failure leaves w untouched for the error handler.
func (j *jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	payload, err := json.Marshal(j.body)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	_, err = w.Write(append(payload, '\n'))
	return err
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithJSONStatus sets the status code.
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) { r.status = status }
}

// WithJSONMeta merges meta into the envelope meta.
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		if len(meta) == 0 {
			return
		}
		if r.body.Meta == nil {
			r.body.Meta = make(map[string]any, len(meta))
		}
		maps.Copy(r.body.Meta, meta)
	}
}

// JSON answers 200 with v as data. A JSONResponse is sent as the whole
// envelope.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK}
	if env, ok := v.(JSONResponse); ok {
		r.body = env
	} else {
		r.body.Data = v
	}
	return r.apply(opts)
}

// JSONError answers with an error envelope. err is an error or an
// *ErrorDetail; the status follows the error unless set by an option.
func JSONError(err any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusInternalServerError}
	switch e := err.(type) {
	case *ErrorDetail:
		r.body.Error = e
	case error:
		r.body.Error, r.status = errorToDetail(e)
	default:
		r.body.Error = &ErrorDetail{Code: CodeInternalError, Message: http.StatusText(r.status)}
	}
	return r.apply(opts)
}

func (r *jsonResponse) apply(opts []JSONOption) *jsonResponse {
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// errorToDetail maps validation errors to 422 and HTTPError values to their
// own status; anything else is a 500.
func errorToDetail(err error) (*ErrorDetail, int) {
	if validator.IsValidationError(err) {
		return validationDetail(err), http.StatusUnprocessableEntity
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return &ErrorDetail{Code: httpErr.Key, Message: http.StatusText(httpErr.Code)}, httpErr.Code
	}

	return &ErrorDetail{Code: CodeInternalError, Message: err.Error()}, http.StatusInternalServerError
}

// validationDetail lists the field messages of err under details.
func validationDetail(err error) *ErrorDetail {
	detail := &ErrorDetail{Code: CodeValidationFailed, Message: "Validation failed"}
	if verrs := validator.ExtractValidationErrors(err); len(verrs) > 0 {
		detail.Details = verrs.Map()
	}
	return detail
}
