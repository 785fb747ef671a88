package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/resources"
)

func writeAsset(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return path
}

func newAssetsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeAsset(t, dir, "config.toml", "name = \"demo\"\n")
	writeAsset(t, dir, "weapons/rifle.toml", "name = \"rifle\"\n[free_aim]\nmax_value = 5.0\n")
	writeAsset(t, dir, "weapons/readme.md", "not an asset")
	writeAsset(t, dir, "aim_offsets/default.toml", "up = [{ bone = \"Spine\", angle = [90.0, 90.0] }]\n")
	writeAsset(t, dir, "ik_poses/sprint.toml", "blend_in_speed = 5.0\n")
	writeAsset(t, dir, "clips/idle.toml", "[[keys]]\nbone = \"Hips\"\ntime = 0.0\nposition = [0.0, 1.0, 0.0]\n")
	writeAsset(t, dir, "notes.txt", "not an asset")
	return dir
}

func TestDetermineAssetType(t *testing.T) {
	tests := []struct {
		path string
		want resources.ResourceType
	}{
		{"assets/config.toml", resources.ResourceTypeConfig},
		{"assets/weapons/rifle.toml", resources.ResourceTypeWeapon},
		{"assets/aim_offsets/default.toml", resources.ResourceTypeAimOffset},
		{"assets/ik_poses/prone.toml", resources.ResourceTypeIKPose},
		{"assets/clips/idle.toml", resources.ResourceTypeClip},
		{"assets/weapons/rifle.json", resources.ResourceTypeNone},
		{"assets/misc/rifle.toml", resources.ResourceTypeNone},
		{"assets/weapons/attachments/scope.toml", resources.ResourceTypeNone},
	}
	for _, tt := range tests {
		if got := determineAssetType(tt.path); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.path, tt.want, got)
		}
	}
}

func TestAssetManagerIndexesAndLoads(t *testing.T) {
	am := NewAssetManager()
	if err := am.Initialize(newAssetsDir(t), false); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer am.Shutdown()

	if got := am.Assets(resources.ResourceTypeWeapon); !reflect.DeepEqual(got, []string{"rifle"}) {
		t.Errorf("Expected [rifle], got %v", got)
	}
	if got := am.Assets(resources.ResourceTypeCustom); len(got) != 0 {
		t.Errorf("Expected no custom assets, got %v", got)
	}

	w, err := am.LoadWeapon("rifle")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if w.FreeAimSettings.MaxValue != 5 {
		t.Errorf("Expected free aim max 5, got %f", w.FreeAimSettings.MaxValue)
	}

	table, err := am.LoadAimOffsetTable("default")
	if err != nil || len(table.AimOffsetUp) != 1 {
		t.Errorf("Expected the default aim offset table, got %v", err)
	}
	pose, err := am.LoadIKPose("sprint")
	if err != nil || pose.BlendInSpeed != 5 {
		t.Errorf("Expected the sprint pose, got %v", err)
	}
	clip, err := am.LoadClip("idle")
	if err != nil || clip.Name != "idle" {
		t.Errorf("Expected the idle clip, got %v", err)
	}

	var cfg struct {
		Name string `toml:"name"`
	}
	if _, err := am.LoadAsset("config", resources.ResourceTypeConfig, &cfg); err != nil || cfg.Name != "demo" {
		t.Errorf("Expected the config decoded, got %v", err)
	}

	if _, err := am.LoadWeapon("pistol"); !errors.Is(err, core.ErrAssetNotFound) {
		t.Errorf("Expected ErrAssetNotFound, got %v", err)
	}
	if _, err := am.LoadAsset("rifle", resources.ResourceTypeNone, nil); !errors.Is(err, core.ErrUnknownAssetType) {
		t.Errorf("Expected ErrUnknownAssetType, got %v", err)
	}
	if _, err := am.LoadAsset("rifle", resources.ResourceType(42), nil); !errors.Is(err, core.ErrUnknownAssetType) {
		t.Errorf("Expected ErrUnknownAssetType, got %v", err)
	}

	r, err := am.LoadAsset("rifle", resources.ResourceTypeWeapon, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := am.UnloadAsset(r); err != nil || r.Data != nil {
		t.Errorf("Expected the resource released, got %v", err)
	}
}

func TestAssetManagerWithoutLoader(t *testing.T) {
	am := NewAssetManager()
	am.handleFileEvent(filepath.Join("assets", "clips", "idle.toml"))

	if _, err := am.LoadClip("idle"); !errors.Is(err, core.ErrNoLoader) {
		t.Errorf("Expected ErrNoLoader, got %v", err)
	}
	if err := am.UnloadAsset(&resources.Resource{Type: resources.ResourceTypeClip}); !errors.Is(err, core.ErrNoLoader) {
		t.Errorf("Expected ErrNoLoader, got %v", err)
	}

	am.removeAsset(filepath.Join("assets", "clips", "idle.toml"))
	if _, ok := am.Info("idle", resources.ResourceTypeClip); ok {
		t.Errorf("Expected the removed asset to leave the index")
	}
}

func TestAssetManagerShutdownTwice(t *testing.T) {
	am := NewAssetManager()
	if err := am.Shutdown(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := am.Shutdown(); !errors.Is(err, core.ErrAssetManagerClosed) {
		t.Errorf("Expected ErrAssetManagerClosed, got %v", err)
	}
	if err := am.Initialize(t.TempDir(), false); !errors.Is(err, core.ErrAssetManagerClosed) {
		t.Errorf("Expected ErrAssetManagerClosed, got %v", err)
	}
}

func TestDrainReloadedFiresOncePerFile(t *testing.T) {
	dir := newAssetsDir(t)
	am := NewAssetManager()
	if err := am.Initialize(dir, false); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer am.Shutdown()

	core.EventSystemInitialize()
	listener := &struct{ fired []core.AssetEvent }{}
	core.EventRegister(core.EVENT_CODE_ASSET_RELOADED, listener, func(ctx core.EventContext) bool {
		listener.fired = append(listener.fired, ctx.Data.(core.AssetEvent))
		return false
	})
	defer core.EventUnregister(core.EVENT_CODE_ASSET_RELOADED, listener)

	rifle := filepath.Join(dir, "weapons", "rifle.toml")
	am.queueReload(rifle)
	am.queueReload(filepath.Join(dir, "notes.txt"))
	am.queueReload(rifle)

	events := am.DrainReloaded()
	want := []core.AssetEvent{{Path: rifle, Name: "rifle"}}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("Expected %v, got %v", want, events)
	}
	if !reflect.DeepEqual(listener.fired, want) {
		t.Errorf("Expected the listener to see %v, got %v", want, listener.fired)
	}
	if events := am.DrainReloaded(); len(events) != 0 {
		t.Errorf("Expected an empty drain, got %v", events)
	}
}

func TestReloadQueueDropsOldest(t *testing.T) {
	am := NewAssetManager()
	total := reloadQueueSize + 6
	for i := 0; i < total; i++ {
		path := filepath.Join("assets", "clips", fmt.Sprintf("clip%d.toml", i))
		am.handleFileEvent(path)
		am.queueReload(path)
	}

	events := am.DrainReloaded()
	if len(events) != reloadQueueSize {
		t.Fatalf("Expected %d events, got %d", reloadQueueSize, len(events))
	}
	if events[0].Name != "clip6" || events[len(events)-1].Name != fmt.Sprintf("clip%d", total-1) {
		t.Errorf("Expected clip6 to clip%d, got %s to %s", total-1, events[0].Name, events[len(events)-1].Name)
	}
}

func TestWatcherQueuesChangedFiles(t *testing.T) {
	dir := newAssetsDir(t)
	am := NewAssetManager()
	if err := am.Initialize(dir, true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	writeAsset(t, dir, "ik_poses/prone.toml", "blend_in_speed = 2.0\n")

	found := false
	deadline := time.Now().Add(5 * time.Second)
	for !found && time.Now().Before(deadline) {
		for _, e := range am.DrainReloaded() {
			if e.Name == "prone" {
				found = true
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !found {
		t.Fatalf("Expected a reload event for prone")
	}
	if _, err := am.LoadIKPose("prone"); err != nil {
		t.Errorf("Expected the new pose indexed, got %v", err)
	}

	if err := am.Shutdown(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := am.Shutdown(); !errors.Is(err, core.ErrAssetManagerClosed) {
		t.Errorf("Expected ErrAssetManagerClosed, got %v", err)
	}
}
