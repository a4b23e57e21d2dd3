package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_LevelFallback(t *testing.T) {
	require.NoError(t, Init("nonsense", ""))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())

	require.NoError(t, Init("debug", ""))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "credence.log")
	require.NoError(t, Init("info", path))

	Log.WithField("score", 56).Info("analysis complete")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "analysis complete"))
	assert.True(t, strings.Contains(string(data), "score=56"))
}
