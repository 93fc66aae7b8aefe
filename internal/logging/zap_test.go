package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(t *testing.T) (*ZapLogger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return NewZapLogger(zap.New(core)), logs
}

func TestZapLogger_Levels(t *testing.T) {
	log, logs := newObservedLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.All()
	require.Len(t, entries, 4)
	require.Equal(t, "dbg", entries[0].Message)
	require.Equal(t, "inf", entries[1].Message)
	require.Equal(t, "wrn", entries[2].Message)
	require.Equal(t, "err", entries[3].Message)
	require.Equal(t, int64(2), entries[1].ContextMap()["b"])
}

func TestZapLogger_With_AddsAttributes(t *testing.T) {
	log, logs := newObservedLogger(t)

	child := log.With("device_id", "abc")
	child.Info(context.Background(), "hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "abc", entries[0].ContextMap()["device_id"])
}

func TestNewLogger_UnknownLevelFallsBack(t *testing.T) {
	l, err := NewLogger("definitely-not-a-level")
	require.NoError(t, err)
	require.NotNil(t, l)
}
