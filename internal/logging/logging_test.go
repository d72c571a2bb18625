package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	L().Info("hello", zap.Int("frames", 3))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)

	SetLogger(nil)
	L().Info("dropped")
	assert.Equal(t, 1, logs.Len())
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flipbook.log")
	l, err := NewFile(path, false)
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("shown")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "shown")
	assert.NotContains(t, string(data), "hidden")
}
