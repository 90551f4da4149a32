package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates JSON logger", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test")))
		log.Info("msg")
		assert.Equal(t, "test", decode(t, buf)["svc"])
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("production", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("prod", "authserver"), logger.WithOutput(buf))
		log.Debug("hidden")
		log.Info("shown")
		entry := decode(t, buf)
		assert.Equal(t, "authserver", entry["service"])
		assert.Equal(t, "production", entry["env"])
	})

	t.Run("development", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("", "authserver"), logger.WithOutput(buf))
		log.Debug("msg")
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "service=authserver")
		assert.Contains(t, buf.String(), "env=development")
	})
}

func TestWithConfig(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithEnvironment("development", "svc"),
		logger.WithConfig(logger.Config{Level: "warn", Format: "json"}),
		logger.WithOutput(buf),
	)
	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Equal(t, "kept", decode(t, buf)["msg"])

	assert.Panics(t, func() {
		logger.New(logger.WithConfig(logger.Config{Level: "loud"}))
	})
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	type key struct{}
	get := func(ctx context.Context) string {
		v, _ := ctx.Value(key{}).(string)
		return v
	}

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(logger.StringExtractor("request_id", get), nil),
	)

	log.InfoContext(context.WithValue(context.Background(), key{}, "req-1"), "with id")
	assert.Equal(t, "req-1", decode(t, buf)["request_id"])

	buf.Reset()
	log.InfoContext(context.Background(), "without id")
	_, ok := decode(t, buf)["request_id"]
	assert.False(t, ok)

	buf.Reset()
	log.With(slog.String("a", "b")).WithGroup("g").InfoContext(
		context.WithValue(context.Background(), key{}, "req-2"), "grouped", slog.Int("n", 1))
	entry := decode(t, buf)
	assert.Equal(t, "b", entry["a"])
	assert.NotNil(t, entry["g"])
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { logger.Discard().Error("nothing") })
}
