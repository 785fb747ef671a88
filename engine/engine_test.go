package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/fpsanim/engine/core"
)

func testConfig() *ApplicationConfig {
	config := DefaultApplicationConfig()
	config.Name = "test"
	config.LogLevel = "error"
	config.TargetFrameRate = 0
	config.Workers = 1
	config.AssetsDir = ""
	return config
}

func TestLoadApplicationConfig(t *testing.T) {
	dir := t.TempDir()

	config, err := LoadApplicationConfig(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if *config != *DefaultApplicationConfig() {
		t.Errorf("Expected the defaults, got %+v", config)
	}

	path := filepath.Join(dir, "config.toml")
	content := "name = \"demo\"\nworkers = 4\nmax_frames = 120\nhot_reload = true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	config, err = LoadApplicationConfig(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if config.Name != "demo" || config.Workers != 4 || config.MaxFrames != 120 || !config.HotReload {
		t.Errorf("Expected the file values, got %+v", config)
	}
	if config.TargetFrameRate != 60 || config.JobQueueSize != 16 || config.AssetsDir != "assets" {
		t.Errorf("Expected unset keys to keep their default, got %+v", config)
	}
}

func TestLoadApplicationConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{"unknown_key", "window_width = 800\n", nil},
		{"log_level", "log_level = \"loud\"\n", core.ErrInvalidLogLevel},
		{"workers", "workers = 0\n", core.ErrNoWorkers},
		{"queue", "job_queue_size = -1\n", core.ErrNegativeChannelSize},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name+".toml")
		if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		_, err := LoadApplicationConfig(path)
		if err == nil {
			t.Errorf("%s: expected an error", tt.name)
			continue
		}
		if tt.err != nil && !errors.Is(err, tt.err) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.err, err)
		}
	}
}

func TestNewValidatesGame(t *testing.T) {
	if _, err := New(&Game{ApplicationConfig: testConfig()}); !errors.Is(err, core.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}

	config := testConfig()
	config.Workers = 0
	update := func(float64) error { return nil }
	if _, err := New(&Game{ApplicationConfig: config, FnUpdate: update}); !errors.Is(err, core.ErrNoWorkers) {
		t.Errorf("Expected ErrNoWorkers, got %v", err)
	}

	e, err := New(&Game{ApplicationConfig: testConfig(), FnUpdate: update})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := e.Run(); !errors.Is(err, core.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized when running before Initialize, got %v", err)
	}
	if err := e.Shutdown(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestRunStopsAtMaxFrames(t *testing.T) {
	config := testConfig()
	config.MaxFrames = 5

	var initialized, shutdown bool
	updates := 0
	g := &Game{
		ApplicationConfig: config,
		FnInitialize:      func() error { initialized = true; return nil },
		FnUpdate:          func(float64) error { updates++; return nil },
		FnShutdown:        func() error { shutdown = true; return nil },
	}
	e, err := New(g)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if g.SystemManager == nil || g.SystemManager != e.SystemManager() {
		t.Errorf("Expected the game to receive the system manager")
	}
	if err := e.Initialize(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !initialized || e.Stage() != EngineStageInitialized {
		t.Errorf("Expected the game initialized, stage %d", e.Stage())
	}
	if err := e.Run(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updates != 5 || e.FrameCount() != 5 || e.Metrics().TotalFrames() != 5 {
		t.Errorf("Expected 5 frames, got %d updates and %d frames", updates, e.FrameCount())
	}
	if err := e.Shutdown(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if !shutdown || e.Stage() != EngineStageUninitialized {
		t.Errorf("Expected the game shut down, stage %d", e.Stage())
	}
}

func TestQuitEventStopsRun(t *testing.T) {
	updates := 0
	g := &Game{
		ApplicationConfig: testConfig(),
		FnUpdate: func(float64) error {
			updates++
			if updates == 3 {
				core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
			}
			return nil
		},
	}
	e, err := New(g)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer e.Shutdown()
	if err := e.Initialize(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := e.Run(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updates != 3 {
		t.Errorf("Expected 3 updates, got %d", updates)
	}
}

func TestUpdateErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")
	g := &Game{
		ApplicationConfig: testConfig(),
		FnUpdate:          func(float64) error { return boom },
	}
	e, err := New(g)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer e.Shutdown()
	if err := e.Initialize(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := e.Run(); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if e.FrameCount() != 0 {
		t.Errorf("Expected no completed frame, got %d", e.FrameCount())
	}
}

func TestTickUpdatesInputAfterGame(t *testing.T) {
	var triggered []bool
	g := &Game{
		ApplicationConfig: testConfig(),
		FnUpdate: func(float64) error {
			triggered = append(triggered, core.InputIsActionTriggered(core.ACTION_FIRE))
			return nil
		},
	}
	e, err := New(g)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer e.Shutdown()
	if err := e.Initialize(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	core.InputProcessAction(core.ACTION_FIRE, true)
	for i := 0; i < 2; i++ {
		if err := e.Tick(1.0 / 60); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}
	if len(triggered) != 2 || !triggered[0] || triggered[1] {
		t.Errorf("Expected the press triggered on the first frame only, got %v", triggered)
	}
	core.InputProcessAction(core.ACTION_FIRE, false)
}
