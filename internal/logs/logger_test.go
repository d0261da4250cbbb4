package logs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedock/oauthbridge/internal/config"
)

func TestSetup_ConsoleOnly(t *testing.T) {
	logger, err := Setup(&config.LogConfig{
		Level:         "debug",
		EnableConsole: true,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Debug("console logger works")
	_ = logger.Sync() // stderr sync can fail on some platforms
}

func TestSetup_FileOutput(t *testing.T) {
	dir := t.TempDir()
	logger, err := Setup(&config.LogConfig{
		Level:      "info",
		EnableFile: true,
		Filename:   "test.log",
		LogDir:     dir,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
	require.NoError(t, err)

	logger.Info("file logger works")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "file logger works")
}

func TestSetup_NoOutputs(t *testing.T) {
	_, err := Setup(&config.LogConfig{Level: "info"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no log outputs")
}

func TestSetup_NilConfig(t *testing.T) {
	_, err := Setup(nil)
	require.Error(t, err)
}
