package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json at info by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		log.Info("hello")

		entry := decodeLine(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format and level", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithFormat(logger.FormatText),
			logger.WithLevel(slog.LevelDebug),
		)
		log.Debug("hello")
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test")))
		log.Info("msg")
		assert.Equal(t, "test", decodeLine(t, buf)["svc"])
	})

	t.Run("context extractors survive With and WithGroup", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
				v, ok := ctx.Value(key{}).(string)
				return slog.String("form", v), ok
			}),
		)
		ctx := context.WithValue(context.Background(), key{}, "signup")

		log.With(logger.Component("forms")).InfoContext(ctx, "first")
		entry := decodeLine(t, buf)
		assert.Equal(t, "signup", entry["form"])
		assert.Equal(t, "forms", entry["component"])

		buf.Reset()
		log.WithGroup("g").InfoContext(ctx, "second")
		entry = decodeLine(t, buf)
		assert.Equal(t, map[string]any{"form": "signup"}, entry["g"])

		buf.Reset()
		log.Info("no context value")
		assert.NotContains(t, decodeLine(t, buf), "form")
	})

	t.Run("source", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithSource()).Info("x")
		assert.Contains(t, decodeLine(t, buf), "source")
	})
}

func TestWithFormatPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestWithConfig(t *testing.T) {
	t.Parallel()

	t.Run("development defaults to debug text", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithConfig(logger.Config{Service: "svc", Env: "dev"}))
		log.Debug("msg")
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "service=svc")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("production with level override", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithConfig(logger.Config{Service: "formkit", Env: "production", Level: "warn"}),
		)
		log.Info("hidden")
		log.Warn("shown")

		entry := decodeLine(t, buf)
		assert.Equal(t, "shown", entry["msg"])
		assert.Equal(t, "formkit", entry["service"])
		assert.Equal(t, "production", entry["env"])
	})

	t.Run("format override", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithConfig(logger.Config{Service: "formkit", Env: "production", Format: "TEXT"}),
		)
		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("panics on bad values", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			logger.New(logger.WithConfig(logger.Config{Level: "loud"}))
		})
		assert.Panics(t, func() {
			logger.New(logger.WithConfig(logger.Config{Env: "moon"}))
		})
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := logger.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := logger.ParseLevel("verbose")
	assert.Error(t, err)
}
