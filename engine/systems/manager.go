package systems

import (
	"errors"
	"fmt"
	"os"

	"github.com/spaghettifunk/fpsanim/engine/assets"
	"github.com/spaghettifunk/fpsanim/engine/core"
)

/** @brief The configuration of the engine systems. */
type SystemManagerConfig struct {
	/** @brief Number of job system workers. */
	NumWorkers int
	/** @brief Capacity of the job queue. */
	JobQueueSize int
	/** @brief Root directory of the designer data. Empty disables the asset manager. */
	AssetsDir string
	/** @brief Watches AssetsDir and reloads changed assets. */
	HotReload bool
}

type SystemManager struct {
	jobSystem    *JobSystem
	assetManager *assets.AssetManager
}

func NewSystemManager(config SystemManagerConfig) (*SystemManager, error) {
	js, err := NewJobSystem(config.NumWorkers, config.JobQueueSize)
	if err != nil {
		return nil, fmt.Errorf("system manager: %w", err)
	}

	sm := &SystemManager{jobSystem: js}
	if config.AssetsDir == "" {
		core.LogWarn("no assets directory configured, the asset manager is disabled")
		return sm, nil
	}

	if _, err := os.Stat(config.AssetsDir); errors.Is(err, os.ErrNotExist) {
		core.LogWarn("assets directory %s does not exist, the asset manager is disabled", config.AssetsDir)
		return sm, nil
	}

	am := assets.NewAssetManager()
	if err := am.Initialize(config.AssetsDir, config.HotReload); err != nil {
		_ = am.Shutdown()
		_ = js.Shutdown()
		return nil, fmt.Errorf("system manager: %w", err)
	}
	sm.assetManager = am
	return sm, nil
}

func (sm *SystemManager) JobSystem() *JobSystem {
	return sm.jobSystem
}

// AssetManager is nil when no assets directory was configured.
func (sm *SystemManager) AssetManager() *assets.AssetManager {
	return sm.assetManager
}

func (sm *SystemManager) Shutdown() error {
	if sm.assetManager != nil {
		if err := sm.assetManager.Shutdown(); err != nil {
			return err
		}
	}
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
