package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext_Default(t *testing.T) {
	require.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "json", &buf)
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Debug("Compiled stage.", "stage", "vertex")
	require.Contains(t, buf.String(), `"msg":"Compiled stage."`)
	require.Contains(t, buf.String(), `"stage":"vertex"`)
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "text", &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "msg=shown")
}
