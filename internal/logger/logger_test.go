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

type key struct{}

func requestID(ctx context.Context) (slog.Attr, bool) {
	v, ok := ctx.Value(key{}).(string)
	return slog.String("request_id", v), ok
}

func TestNew_InjectsContextAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "prod", requestID)

	ctx := context.WithValue(context.Background(), key{}, "req-1")
	log.With("component", "test").InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "test", rec["component"])
	assert.Equal(t, "hello", rec["msg"])
}

func TestNew_NoValueNoAttr(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewWithWriter(&buf, "prod", requestID).Info("plain")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.NotContains(t, rec, "request_id")
}

func TestNew_DevDebugLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewWithWriter(&buf, "dev").Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	NewWithWriter(&buf, "prod").Debug("hidden")
	assert.Empty(t, buf.String())
}
