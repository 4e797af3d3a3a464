package telemetry_test

import (
	"sync"
	"testing"

	"github.com/agencyos/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: false}, zap.NewNop())

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_ValidatesConfig(t *testing.T) {
	t.Run("missing server address", func(t *testing.T) {
		_, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
			Enabled:         true,
			ApplicationName: "portal-backend",
		}, zap.NewNop())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "server address is required")
	})

	t.Run("missing application name", func(t *testing.T) {
		_, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
			Enabled:       true,
			ServerAddress: "http://localhost:4040",
		}, zap.NewNop())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "application name is required")
	})
}

func TestProfiler_StopIsIdempotent(t *testing.T) {
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	for range 3 {
		assert.NoError(t, p.Stop())
	}
}

func TestProfiler_StopConcurrent(t *testing.T) {
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Stop()
		}()
	}
	wg.Wait()
}

func TestNewProfiler_AgainstLiveServer(t *testing.T) {
	// Needs a Pyroscope server on localhost:4040.
	if testing.Short() {
		t.Skip("skipping profiler integration test in short mode")
	}

	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           true,
		ServerAddress:     "http://localhost:4040",
		ApplicationName:   "portal-backend",
		ProfileCPU:        true,
		ProfileMemory:     true,
		ProfileGoroutines: true,
	}, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
}
