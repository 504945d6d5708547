package config

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable read by the application.
const EnvPrefix = "IMAGE_ADJUSTER"

// Config holds the runtime settings. There is no config file; values come from
// IMAGE_ADJUSTER_* environment variables on top of the struct defaults.
type Config struct {
	LogLevel string `mapstructure:"log_level" default:"info" validate:"oneof=debug info warn warning error"`
	JSONLogs bool   `mapstructure:"json_logs"`

	WindowWidth  int `mapstructure:"window_width" default:"1280" validate:"min=640"`
	WindowHeight int `mapstructure:"window_height" default:"860" validate:"min=480"`

	// RenderThrottle coalesces re-renders triggered by continuous controls.
	// Zero re-renders on every change.
	RenderThrottle time.Duration `mapstructure:"render_throttle" default:"0s" validate:"min=0"`
	DecodeTimeout  time.Duration `mapstructure:"decode_timeout" default:"30s" validate:"gt=0"`

	// ThumbnailSize bounds the longest edge of the original-image pane.
	ThumbnailSize uint `mapstructure:"thumbnail_size" default:"480" validate:"min=64,max=4096"`

	// SurfacePoolSize caps the released render surfaces kept per resolution.
	SurfacePoolSize int `mapstructure:"surface_pool_size" default:"4" validate:"min=1,max=32"`
}

var keys = []string{
	"log_level",
	"json_logs",
	"window_width",
	"window_height",
	"render_throttle",
	"decode_timeout",
	"thumbnail_size",
	"surface_pool_size",
}

var validate = validator.New()

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return LoadFrom(v)
}

// LoadFrom applies defaults, overlays whatever v resolves and validates the result.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to set config defaults: %w", err)
	}

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
