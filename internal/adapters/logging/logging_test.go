package logging_test

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/logging"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/infrastructure/config"
)

func TestLogrusLogger_MapsLevelsAndFields(t *testing.T) {
	// Arrange
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	logger := logging.NewLogrusLoggerFrom(base).With(map[string]interface{}{"colony": "W1N1"})

	// Act
	logger.Log(common.LevelWarning, "No dropoff point", map[string]interface{}{"agent": "t1"})
	logger.Log(common.LevelDebug, "matched", nil)

	// Assert
	require.Len(t, hook.AllEntries(), 2)
	first := hook.AllEntries()[0]
	assert.Equal(t, logrus.WarnLevel, first.Level)
	assert.Equal(t, "No dropoff point", first.Message)
	assert.Equal(t, "t1", first.Data["agent"])
	assert.Equal(t, "W1N1", first.Data["colony"])
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
}

func TestLogTelemetry_KeysByColony(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	sink := logging.NewLogTelemetry(logging.NewLogrusLoggerFrom(base))

	logging.FanoutTelemetry{sink, nil}.Record("W1N1", "transportNetwork", "downtime", 0.25)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "colonies.W1N1.transportNetwork.downtime", hook.LastEntry().Data["key"])
	assert.Equal(t, 0.25, hook.LastEntry().Data["value"])
}

func TestNewLogrusLogger_FileOutput(t *testing.T) {
	path := t.TempDir() + "/daemon.log"

	logger, closer, err := logging.NewLogrusLogger(config.LoggingConfig{
		Level: "debug", Format: "json", Output: "file", FilePath: path,
	})

	require.NoError(t, err)
	logger.Log(common.LevelInfo, "started", nil)
	assert.NoError(t, closer.Close())
	assert.FileExists(t, path)
}

func TestNewLogrusLogger_StaticFields(t *testing.T) {
	path := t.TempDir() + "/daemon.log"

	logger, closer, err := logging.NewLogrusLogger(config.LoggingConfig{
		Level: "info", Format: "json", Output: "file", FilePath: path,
		Fields: map[string]string{"shard": "shard3"},
	})
	require.NoError(t, err)
	logger.Log(common.LevelInfo, "started", nil)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"shard":"shard3"`)
}
