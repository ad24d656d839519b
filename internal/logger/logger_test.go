package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T, level string) (*bytes.Buffer, func() map[string]interface{}) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	InitLoggerWithWriter(NewConfig(level, "JSON", "osulink-test", "1.2.3", "test", false), &buf)

	return &buf, func() map[string]interface{} {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		buf.Reset()
		return entry
	}
}

func TestJSONLogging_BaseAttributes(t *testing.T) {
	_, next := captureJSON(t, "info")

	slog.Info("link completed", "platform_id", "discord-1", "scopes", 3)
	entry := next()

	assert.Equal(t, "osulink-test", entry[AttrKeyService])
	assert.Equal(t, "1.2.3", entry[AttrKeyVersion])
	assert.Equal(t, "test", entry[AttrKeyEnvironment])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "link completed", entry["msg"])
	assert.Equal(t, "discord-1", entry["platform_id"])
	assert.Equal(t, float64(3), entry["scopes"])
}

func TestJSONLogging_RedactsSecrets(t *testing.T) {
	_, next := captureJSON(t, "debug")

	slog.Debug("token exchanged",
		"access_token", "eyJ.secret",
		"Refresh_Token", "r-secret",
		slog.Group("request", "code", "auth-code", "path", "/oauth/callback"),
		"platform_id", "discord-1",
	)
	entry := next()

	assert.Equal(t, RedactedValue, entry["access_token"])
	assert.Equal(t, RedactedValue, entry["Refresh_Token"])
	assert.Equal(t, "discord-1", entry["platform_id"])

	group, ok := entry["request"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, RedactedValue, group["code"])
	assert.Equal(t, "/oauth/callback", group["path"])
}

func TestLevelFiltering(t *testing.T) {
	buf, _ := captureJSON(t, "warn")

	slog.Info("dropped")
	assert.Zero(t, buf.Len())

	slog.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestConfig_LogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"Warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for level, want := range cases {
		assert.Equal(t, want, Config{Level: level}.LogLevel(), level)
	}
}

func TestNewConfig_DefaultsServiceName(t *testing.T) {
	assert.Equal(t, DefaultServiceName, NewConfig("info", "text", "", "dev", "dev", false).ServiceName)
}

func TestRequestIDContext(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = RequestIDFromContext(WithRequestID(context.Background(), ""))
	assert.False(t, ok, "empty ids are treated as absent")

	id := GenerateRequestID()
	ctx := WithRequestID(context.Background(), id)
	got, ok := RequestIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestFromContext_AddsRequestID(t *testing.T) {
	_, next := captureJSON(t, "info")

	FromContext(WithRequestID(context.Background(), "req-42")).Info("handled")
	assert.Equal(t, "req-42", next()[AttrKeyRequestID])

	FromContext(context.Background()).Info("handled")
	_, present := next()[AttrKeyRequestID]
	assert.False(t, present)
}
