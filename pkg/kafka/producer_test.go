package kafka

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithMetricsHandler_SetsHandler(t *testing.T) {
	var seen []string
	p := &kafkaProducer{}
	WithMetricsHandler(func(status string) {
		seen = append(seen, status)
	})(p)

	require.NotNil(t, p.metricsHandler)
	p.metricsHandler("success")
	assert.Equal(t, []string{"success"}, seen)
}

func TestObservePublish_ReportsStatusPerOutcome(t *testing.T) {
	var seen []string
	p := &kafkaProducer{
		metricsHandler: func(status string) {
			seen = append(seen, status)
		},
	}

	p.observePublish(nil)
	p.observePublish(errors.New("broker down"))

	assert.Equal(t, []string{statusSuccess, statusFailure}, seen)
}

func TestObservePublish_NoHandlerIsSafe(t *testing.T) {
	p := &kafkaProducer{}
	p.observePublish(nil)
	p.observePublish(errors.New("broker down"))
}
