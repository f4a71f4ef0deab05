package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledDiscards(t *testing.T) {
	var buf bytes.Buffer
	closeFn, err := Init(Options{Enabled: false, Stderr: &buf})
	require.NoError(t, err)
	defer closeFn()

	Info("hello")
	assert.Empty(t, buf.String())
}

func TestInit_TextToStderr(t *testing.T) {
	var buf bytes.Buffer
	closeFn, err := Init(Options{Enabled: true, Level: slog.LevelDebug, Stderr: &buf})
	require.NoError(t, err)
	defer closeFn()

	Debug("region", "size", 64)
	assert.Contains(t, buf.String(), "msg=region")
	assert.Contains(t, buf.String(), "size=64")
}

func TestInit_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ringctl.log")
	closeFn, err := Init(Options{Enabled: true, File: path})
	require.NoError(t, err)

	Debug("dropped")
	Warn("kept", "n", 1)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.NotContains(t, string(data), "dropped")

	_, err = Init(Options{})
	require.NoError(t, err)
}
