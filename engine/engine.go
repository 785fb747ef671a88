package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	systemManager *systems.SystemManager
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	frameCount    uint64
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.FnUpdate == nil {
		return nil, fmt.Errorf("engine: %w: game without update function", core.ErrNotInitialized)
	}
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	config := g.ApplicationConfig

	e := &Engine{
		currentStage: EngineStageBooting,
		gameInstance: g,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
	}

	if err := config.Validate(); err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	level, _ := core.ParseLogLevel(config.LogLevel)
	core.SetLogLevel(level)

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		NumWorkers:   config.Workers,
		JobQueueSize: config.JobQueueSize,
		AssetsDir:    config.AssetsDir,
		HotReload:    config.HotReload,
	})
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	e.systemManager = sm
	g.SystemManager = sm

	e.currentStage = EngineStageBootComplete
	return e, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBootComplete {
		return fmt.Errorf("engine: %w: initialize called in stage %d", core.ErrNotInitialized, e.currentStage)
	}
	e.currentStage = EngineStageInitializing

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	e.isRunning.Store(true)
	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized", e.gameInstance.ApplicationConfig.Name)
	return nil
}

/**
 * @brief Runs the frame loop until a quit event, Stop or the configured
 * frame limit. Frames are throttled to the target frame rate.
 */
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine: %w: run called in stage %d", core.ErrNotInitialized, e.currentStage)
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	config := e.gameInstance.ApplicationConfig
	var targetFrameSeconds float64
	if config.TargetFrameRate > 0 {
		targetFrameSeconds = 1.0 / config.TargetFrameRate
	}

	for e.isRunning.Load() {
		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := time.Now()

		if err := e.Tick(delta); err != nil {
			core.LogError("Game update failed, shutting down: %s", err)
			e.isRunning.Store(false)
			e.currentStage = EngineStageInitialized
			return err
		}

		if config.MaxFrames > 0 && e.frameCount >= config.MaxFrames {
			core.LogInfo("frame limit of %d reached", config.MaxFrames)
			e.isRunning.Store(false)
		}

		// If there is time left, give it back to the OS.
		remaining := targetFrameSeconds - time.Since(frameStartTime).Seconds()
		if remaining > 0 && e.isRunning.Load() {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}

		// Update last time
		e.lastTime = currentTime
	}

	e.currentStage = EngineStageInitialized
	return nil
}

/**
 * @brief Advances the application by one frame.
 * @param deltaTime Seconds since the previous frame.
 */
func (e *Engine) Tick(deltaTime float64) error {
	frameStart := time.Now()

	// Reloaded assets are announced on the frame goroutine, before any layer reads them.
	if am := e.systemManager.AssetManager(); am != nil {
		am.DrainReloaded()
	}

	animStart := time.Now()
	if err := e.gameInstance.FnUpdate(deltaTime); err != nil {
		return err
	}
	animElapsed := time.Since(animStart).Seconds()

	// NOTE: Input update/state copying should always be handled
	// after any input should be recorded; I.E. before this line.
	// As a safety, input is the last thing to be updated before
	// this frame ends.
	if err := core.InputUpdate(deltaTime); err != nil {
		return err
	}

	e.frameCount++
	e.metrics.Update(time.Since(frameStart).Seconds(), animElapsed)
	return nil
}

// Stop ends Run after the current frame. Safe to call from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	e.isRunning.Store(false)
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown failed: %s", err)
		}
	}

	core.EventUnregister(core.EVENT_CODE_APPLICATION_QUIT, e)
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}

	core.LogInfo("%s shut down after %d frames", e.gameInstance.ApplicationConfig.Name, e.frameCount)
	e.currentStage = EngineStageUninitialized
	return nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) FrameCount() uint64 {
	return e.frameCount
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) SystemManager() *systems.SystemManager {
	return e.systemManager
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}
