package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_ProvidesInstruments(t *testing.T) {
	var logs bytes.Buffer
	instruments, shutdown, err := Init(context.Background(), Settings{
		ServiceName: "cat-haven-test",
		LogLevel:    slog.LevelInfo,
		LogOutput:   &logs,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	require.NotNil(t, instruments.Tracer("test"))
	require.NotNil(t, instruments.Meter("test"))

	instruments.Logger.Info("hello")
	assert.Contains(t, logs.String(), `"service":"cat-haven-test"`)
}

func TestInstruments_NilSafe(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("x"))
	assert.NotNil(t, instruments.Meter("x"))
}
