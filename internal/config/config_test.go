package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.JSONLogs)
	assert.Equal(t, 1280, cfg.WindowWidth)
	assert.Equal(t, 860, cfg.WindowHeight)
	assert.Equal(t, time.Duration(0), cfg.RenderThrottle)
	assert.Equal(t, 30*time.Second, cfg.DecodeTimeout)
	assert.Equal(t, uint(480), cfg.ThumbnailSize)
	assert.Equal(t, 4, cfg.SurfacePoolSize)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("IMAGE_ADJUSTER_LOG_LEVEL", "debug")
	t.Setenv("IMAGE_ADJUSTER_JSON_LOGS", "true")
	t.Setenv("IMAGE_ADJUSTER_RENDER_THROTTLE", "40ms")
	t.Setenv("IMAGE_ADJUSTER_DECODE_TIMEOUT", "5s")
	t.Setenv("IMAGE_ADJUSTER_THUMBNAIL_SIZE", "256")
	t.Setenv("IMAGE_ADJUSTER_SURFACE_POOL_SIZE", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.JSONLogs)
	assert.Equal(t, 40*time.Millisecond, cfg.RenderThrottle)
	assert.Equal(t, 5*time.Second, cfg.DecodeTimeout)
	assert.Equal(t, uint(256), cfg.ThumbnailSize)
	assert.Equal(t, 2, cfg.SurfacePoolSize)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{name: "unknown log level", key: "log_level", value: "verbose"},
		{name: "window too narrow", key: "window_width", value: 100},
		{name: "zero decode timeout", key: "decode_timeout", value: "0s"},
		{name: "tiny thumbnail", key: "thumbnail_size", value: 8},
		{name: "empty surface pool", key: "surface_pool_size", value: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)

			_, err := LoadFrom(v)
			assert.Error(t, err)
		})
	}
}
