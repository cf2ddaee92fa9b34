package logtrace

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrite_AttachesCorrelationAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	ctx := CtxWithOrigin(CtxWithCorrelationID(context.Background(), "cid-1"), "cli")
	Info(ctx, "hello", Fields{FieldNetwork: "holesky"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "cid-1", fields[FieldCorrelationID])
	assert.Equal(t, "cli", fields[FieldOrigin])
	assert.Equal(t, "holesky", fields[FieldNetwork])
}

func TestWrite_RespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	Debug(context.Background(), "dropped", nil)
	Info(context.Background(), "dropped", nil)
	Warn(context.Background(), "kept", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.Equal(t, "unknown", logs.All()[0].ContextMap()[FieldCorrelationID])
}

func TestCtxWithCorrelationID_GeneratesWhenEmpty(t *testing.T) {
	ctx := CtxWithCorrelationID(context.Background(), "")
	id := extractCorrelationID(ctx)
	assert.NotEqual(t, "unknown", id)
	assert.Len(t, id, 36)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, zapcore.WarnLevel, toZapLevel(slog.LevelWarn))
}

func TestWithFields_DoesNotMutateBase(t *testing.T) {
	base := Fields{"a": 1}
	merged := WithFields(base, Fields{"b": 2})
	assert.Len(t, base, 1)
	assert.Equal(t, Fields{"a": 1, "b": 2}, merged)
}
