package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFileLogger_Stderr(t *testing.T) {
	f, logger, err := FileLogger(logrus.DebugLevel, "")
	require.NoError(t, err)
	require.Nil(t, f)
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestFileLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	f, logger, err := FileLogger(logrus.InfoLevel, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	logger.WithField("unit", "A").Info("built")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"unit":"A"`)
}
