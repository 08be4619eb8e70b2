package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitToFile(t *testing.T) {
	require.NoError(t, Close())
	path := filepath.Join(t.TempDir(), "logs", "costdb.log")

	require.NoError(t, Init(Config{Level: LevelDebug, OutputPath: path, Format: "json"}))
	require.Error(t, Init(Config{}), "second Init must fail")

	WithTable("orders").Debug("histograms built", zap.Int("columns", 3))
	require.NoError(t, Close())
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"table":"orders"`)
	require.Contains(t, string(data), `"columns":3`)
}

func TestGetLoggerLazyInit(t *testing.T) {
	require.NoError(t, Close())
	require.NotNil(t, GetLogger())
	require.NoError(t, Close())
}

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	InitWithLogger(zap.New(core))
	t.Cleanup(func() { _ = Close() })

	WithComponent("join-optimizer").Info("ordered")
	Warn("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "join-optimizer", entries[0].ContextMap()["component"])
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	require.Equal(t, zapcore.ErrorLevel, parseLevel(LevelError))
	require.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}
