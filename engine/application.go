package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/spaghettifunk/fpsanim/engine/assets/loaders"
	"github.com/spaghettifunk/fpsanim/engine/core"
)

type ApplicationConfig struct {
	// The application name used in logs.
	Name string `toml:"name"`
	// One of debug, info, warn, error, fatal.
	LogLevel string `toml:"log_level"`
	// Frames per second Run aims for. Zero runs unthrottled.
	TargetFrameRate float64 `toml:"target_frame_rate"`
	// Run stops after this many frames. Zero runs until a quit event.
	MaxFrames uint64 `toml:"max_frames"`
	// Job system workers running the parallel layers.
	Workers      int `toml:"workers"`
	JobQueueSize int `toml:"job_queue_size"`
	// Root of the designer data. Empty disables the asset manager.
	AssetsDir string `toml:"assets_dir"`
	HotReload bool   `toml:"hot_reload"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:            "fpsanim",
		LogLevel:        "info",
		TargetFrameRate: 60,
		Workers:         2,
		JobQueueSize:    16,
		AssetsDir:       "assets",
	}
}

/**
 * @brief Reads the application configuration from path. Keys missing from the
 * file keep their default value and a missing file yields the defaults.
 */
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()
	if _, err := (&loaders.ConfigLoader{}).Load(path, config); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			core.LogWarn("no configuration at %s, using defaults", path)
			return config, nil
		}
		return nil, fmt.Errorf("application config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("application config: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("application config: %w", core.ErrNoWorkers)
	}
	if c.JobQueueSize < 0 {
		return fmt.Errorf("application config: %w", core.ErrNegativeChannelSize)
	}
	if c.TargetFrameRate < 0 {
		return fmt.Errorf("application config: negative target frame rate %f", c.TargetFrameRate)
	}
	return nil
}
