package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/handler"
	"github.com/dmitrymomot/formkit/pkg/binder"
)

type greetRequest struct {
	Name  string `path:"name"`
	Greet string `json:"greet"`
}

func pathValue(r *http.Request, name string) string {
	return r.PathValue(name)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var got handler.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

func TestWrap(t *testing.T) {
	t.Parallel()

	greet := func(ctx handler.Context, req greetRequest) handler.Response {
		return handler.JSON(map[string]string{"message": req.Greet + ", " + req.Name})
	}

	newMux := func(opts ...handler.Option) *http.ServeMux {
		opts = append([]handler.Option{
			handler.WithBinders(binder.Path(pathValue), binder.JSON()),
		}, opts...)
		mux := http.NewServeMux()
		mux.Handle("POST /greet/{name}", handler.Wrap(greet, opts...))
		return mux
	}

	t.Run("binds path and body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/greet/alice", strings.NewReader(`{"greet":"hello"}`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		newMux().ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		got := decodeEnvelope(t, w)
		assert.Equal(t, map[string]any{"message": "hello, alice"}, got.Data)
	})

	t.Run("binding failure renders invalid_request", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/greet/alice", strings.NewReader(`{"greet":`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		newMux().ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		got := decodeEnvelope(t, w)
		require.NotNil(t, got.Error)
		assert.Equal(t, handler.CodeInvalidRequest, got.Error.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()
		var captured error
		r := httptest.NewRequest(http.MethodPost, "/greet/alice", strings.NewReader(`not json`))
		r.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()

		newMux(handler.WithErrorHandler(func(ctx handler.Context, err error) {
			captured = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		})).ServeHTTP(w, r)

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.ErrorIs(t, captured, binder.ErrUnsupportedMediaType)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		trace := func(name string) handler.Decorator {
			return func(ctx handler.Context, next func() handler.Response) handler.Response {
				order = append(order, name+">")
				resp := next()
				order = append(order, "<"+name)
				return resp
			}
		}
		r := httptest.NewRequest(http.MethodPost, "/greet/bob", strings.NewReader(`{"greet":"hi"}`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		newMux(handler.WithDecorators(trace("outer"), trace("inner"))).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"outer>", "inner>", "<inner", "<outer"}, order)
	})

	t.Run("decorator replaces the response", func(t *testing.T) {
		t.Parallel()
		deny := func(ctx handler.Context, next func() handler.Response) handler.Response {
			return handler.JSONError(handler.ErrConflict)
		}
		r := httptest.NewRequest(http.MethodPost, "/greet/bob", strings.NewReader(`{"greet":"hi"}`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		newMux(handler.WithDecorators(deny)).ServeHTTP(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response { return nil })
		w := httptest.NewRecorder()

		h(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		got := decodeEnvelope(t, w)
		require.NotNil(t, got.Error)
		assert.Equal(t, handler.CodeInternalError, got.Error.Code)
		assert.NotContains(t, got.Error.Message, handler.ErrNilResponse.Error())
	})

	t.Run("context exposes request", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
			assert.Equal(t, "/ctx", ctx.Request().URL.Path)
			assert.NoError(t, ctx.Err())
			return handler.Empty()
		})
		w := httptest.NewRecorder()

		h(w, httptest.NewRequest(http.MethodGet, "/ctx", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("skips non-applicable binders", func(t *testing.T) {
		t.Parallel()
		skip := func(r *http.Request, v any) error { return binder.ErrBinderNotApplicable }
		fail := errors.New("boom")
		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
			return handler.EmptyWithStatus(http.StatusAccepted)
		}, handler.WithBinders(skip))
		w := httptest.NewRecorder()

		h(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusAccepted, w.Code)

		h = handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
			return handler.Empty()
		}, handler.WithBinders(func(*http.Request, any) error { return fail }))
		w = httptest.NewRecorder()

		h(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
