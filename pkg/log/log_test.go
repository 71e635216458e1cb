package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DevelopmentUsesTextFormatter(t *testing.T) {
	Init(Config{
		Level: logrus.DebugLevel,
		Env:   "development",
	})

	logger := GetLogger()
	require.NotNil(t, logger)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestInit_ProductionUsesJSONFormatter(t *testing.T) {
	Init(Config{
		Level: logrus.InfoLevel,
		Env:   "production",
	})

	logger := GetLogger()
	require.NotNil(t, logger)
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestGetLogger_DefaultsWhenUninitialized(t *testing.T) {
	log = nil

	logger := GetLogger()
	require.NotNil(t, logger)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
