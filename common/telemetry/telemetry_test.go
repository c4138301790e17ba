package telemetry

import (
	"context"
	"testing"

	"lucy-college/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	log := logger.Discard()

	tel, err := Init(context.Background(), Options{ServiceName: "lucy-college", ServiceVersion: "test"}, log)
	require.NoError(t, err)

	assert.Nil(t, tel.MeterProvider)
	assert.Nil(t, tel.TracerProvider)
	require.NotNil(t, tel.Metrics)
	assert.NotNil(t, tel.Metrics.Database)
	assert.NoError(t, tel.Shutdown(context.Background(), log))
}
