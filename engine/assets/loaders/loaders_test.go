package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
)

const rifleFile = `
name = "rifle"
rotation_offset = [0.0, 0.0, 0.0]
ads_recoil_offset = [0.0, 0.0, -0.01]

[weapon_bone]
position = [0.0, 1.4, 0.3]

[aim_offset]
up = [{ bone = "Spine", angle = [10.0, 10.0] }, { bone = "Head", angle = [80.0, 80.0] }]
right = [{ bone = "Spine", angle = [90.0, 90.0] }]

[recoil]
pitch = [1.0, 2.0]
kick = [0.01, 0.02]
aim_scale = [0.5, 0.5]
decay_speed = 10.0

[recoil.smoothing.loc.x]
stiffness = 20.0
critical_damping = 0.4
speed = 10.0
max_value = 1.0

[overlay_pose]
blend_in = 0.2
blend_out = 0.3

[overlay_pose.bones.Spine]
position = [0.0, 0.0, 0.0]
rotation = [0.0, 0.0, 0.0]

[ads]
aim_speed = 4.0
point_aim_speed = 2.0
blend = { translation = [1.0, 1.0, 0.0], rotation = [0.0, 0.0, 0.0] }

[viewmodel.pose]
position = [0.0, -2.0, 10.0]

[free_aim]
max_value = 5.0
interpolation_speed = 8.0
input_scale = 0.1

[move_sway]
translation_scale = [1.0, 1.0, 1.0]
translation_damping = 0.5

[block]
weapon_length = 0.8
start_offset = 0.1
threshold = 0.2
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return path
}

func TestWeaponLoader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ak.toml", rifleFile)

	l := &WeaponLoader{}
	r, err := l.Load(path, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if r.Type != resources.ResourceTypeWeapon || r.Name != "rifle" || r.FullPath != path || r.DataSize == 0 {
		t.Errorf("Expected a weapon resource named rifle, got %+v", r)
	}

	w := r.Data.(*resources.WeaponAnimAsset)
	if w.WeaponBone.Position != math.NewVec3(0, 1.4, 0.3) {
		t.Errorf("Expected weapon bone (0, 1.4, 0.3), got %v", w.WeaponBone.Position)
	}
	if w.RotationOffset != math.NewQuatIdentity() {
		t.Errorf("Expected identity rotation offset, got %v", w.RotationOffset)
	}
	if w.AdsRecoilOffset != math.NewVec3(0, 0, -0.01) {
		t.Errorf("Expected ads recoil offset (0, 0, -0.01), got %v", w.AdsRecoilOffset)
	}

	if w.AimOffsetTable == nil || len(w.AimOffsetTable.AimOffsetUp) != 2 || len(w.AimOffsetTable.AimOffsetRight) != 1 {
		t.Fatalf("Expected 2 up and 1 right aim offset entries, got %+v", w.AimOffsetTable)
	}
	if w.AimOffsetTable.Name != "rifle" || w.AimOffsetTable.AimOffsetUp[1].Bone != "Head" {
		t.Errorf("Expected the inline table named after the weapon, got %+v", w.AimOffsetTable)
	}

	if w.RecoilData == nil {
		t.Fatalf("Expected recoil data")
	}
	if w.RecoilData.Pitch != math.NewVec2(1, 2) || w.RecoilData.DecaySpeed != 10 {
		t.Errorf("Expected pitch (1, 2) and decay 10, got %v and %f", w.RecoilData.Pitch, w.RecoilData.DecaySpeed)
	}
	if w.RecoilData.Smoothing.Loc.X.Stiffness != 20 || w.RecoilData.Smoothing.Loc.X.MaxValue != 1 {
		t.Errorf("Expected the x spring read, got %+v", w.RecoilData.Smoothing.Loc.X)
	}
	if w.RecoilData.Smoothing.Loc.Scale != math.NewVec3One() {
		t.Errorf("Expected an unset spring scale to default to one, got %v", w.RecoilData.Smoothing.Loc.Scale)
	}

	if w.OverlayPose == nil || w.OverlayPose.Clip == nil {
		t.Fatalf("Expected an overlay pose")
	}
	if w.OverlayPose.BlendTime.BlendInTime != 0.2 || w.OverlayPose.BlendTime.BlendOutTime != 0.3 || w.OverlayPose.BlendTime.RateScale != 1 {
		t.Errorf("Expected blend 0.2/0.3 at rate 1, got %+v", w.OverlayPose.BlendTime)
	}
	if tracks := w.OverlayPose.Clip.Tracks(); len(tracks) != 1 || tracks[0].Bone != "Spine" {
		t.Errorf("Expected a single Spine track, got %d tracks", len(tracks))
	}

	if w.AdsData.AimSpeed != 4 || w.AdsData.ChangeSightSpeed != 4 || w.AdsData.PointAimSpeed != 2 {
		t.Errorf("Expected ads speeds 4/4/2, got %+v", w.AdsData)
	}
	if w.AdsData.AdsTranslationBlend != (resources.AdsBlend{X: 1, Y: 1}) {
		t.Errorf("Expected translation blend (1, 1, 0), got %+v", w.AdsData.AdsTranslationBlend)
	}
	if w.ViewmodelOffset.PoseOffset.Position != math.NewVec3(0, -2, 10) {
		t.Errorf("Expected viewmodel offset (0, -2, 10), got %v", w.ViewmodelOffset.PoseOffset.Position)
	}
	if w.FreeAimSettings != (resources.FreeAimData{MaxValue: 5, InterpolationSpeed: 8, InputScale: 0.1}) {
		t.Errorf("Expected free aim 5/8/0.1, got %+v", w.FreeAimSettings)
	}
	if w.MoveSwaySettings.TranslationDampingFactor != 0.5 || w.MoveSwaySettings.PositionSpringSettings.Scale != math.NewVec3One() {
		t.Errorf("Expected move sway damping 0.5 with unit scale, got %+v", w.MoveSwaySettings)
	}
	if w.BlockData.WeaponLength != 0.8 || w.BlockData.RestPose.Rotation != math.NewQuatIdentity() {
		t.Errorf("Expected block data read, got %+v", w.BlockData)
	}

	if err := l.Unload(r); err != nil || r.Data != nil {
		t.Errorf("Expected the resource data released, got %v", err)
	}
}

func TestWeaponLoaderNamesFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pistol.toml", "[free_aim]\nmax_value = 2.0\n")
	r, err := (&WeaponLoader{}).Load(path, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	w := r.Data.(*resources.WeaponAnimAsset)
	if r.Name != "pistol" || w.Name != "pistol" {
		t.Errorf("Expected pistol, got %s and %s", r.Name, w.Name)
	}
	if w.RecoilData != nil || w.OverlayPose != nil || w.AimOffsetTable != nil {
		t.Errorf("Expected optional sections to stay empty")
	}
	if w.AdsData.AimSpeed != 1 {
		t.Errorf("Expected the default aim speed 1, got %f", w.AdsData.AimSpeed)
	}
}

func TestLoaderRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		loader interface {
			Load(string, interface{}) (*resources.Resource, error)
		}
		content string
	}{
		{"weapon", &WeaponLoader{}, "name = \"rifle\"\nrecoill = 1.0\n"},
		{"aim_offset", &AimOffsetLoader{}, "up = [{ bone = \"Spine\", angel = [1.0, 1.0] }]\n"},
		{"ik_pose", &IKPoseLoader{}, "blend_speed = 1.0\n"},
		{"clip", &ClipLoader{}, "length = 1.0\nfps = 30\n"},
		{"syntax", &ClipLoader{}, "length = \n"},
	}
	for _, tt := range tests {
		path := writeFile(t, dir, tt.name+".toml", tt.content)
		if _, err := tt.loader.Load(path, nil); err == nil {
			t.Errorf("%s: expected a decode error", tt.name)
		}
	}

	if _, err := (&ClipLoader{}).Load(filepath.Join(dir, "missing.toml"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}

func TestAimOffsetLoader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "default.toml", `
up = [
  { bone = "Spine", angle = [30.0, 30.0] },
  { bone = "Spine1", angle = [30.0, 30.0] },
  { bone = "Head", angle = [30.0, 30.0] },
]
`)
	r, err := (&AimOffsetLoader{}).Load(path, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	table := r.Data.(*resources.AimOffsetTable)
	if r.Type != resources.ResourceTypeAimOffset || table.Name != "default" {
		t.Errorf("Expected an aim offset named default, got %s %s", r.Type, table.Name)
	}
	if len(table.AimOffsetUp) != 3 || len(table.AimOffsetRight) != 0 {
		t.Errorf("Expected 3 up and 0 right entries, got %d and %d", len(table.AimOffsetUp), len(table.AimOffsetRight))
	}
	if table.AimOffsetUp[1] != (resources.BoneAngle{Bone: "Spine1", Angle: math.NewVec2(30, 30)}) {
		t.Errorf("Expected Spine1 at (30, 30), got %+v", table.AimOffsetUp[1])
	}
}

func TestIKPoseLoader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sprint.toml", `
name = "Sprint"
blend_in_speed = 5.0
blend_out_speed = 3.0

[pose]
position = [0.0, -0.1, 0.0]
`)
	r, err := (&IKPoseLoader{}).Load(path, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pose := r.Data.(*resources.IKPose)
	if r.Name != "Sprint" || pose.BlendInSpeed != 5 || pose.BlendOutSpeed != 3 {
		t.Errorf("Expected Sprint blending 5/3, got %+v", pose)
	}
	if pose.Pose.Position != math.NewVec3(0, -0.1, 0) || pose.Pose.Rotation != math.NewQuatIdentity() {
		t.Errorf("Expected position (0, -0.1, 0) and no rotation, got %+v", pose.Pose)
	}
}

func TestClipLoader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "reload.toml", `
length = 1.0
loop = true

[[keys]]
bone = "RightHand"
time = 0.0
position = [0.0, 0.0, 0.0]

[[keys]]
bone = "RightHand"
time = 0.5
position = [0.0, 0.1, 0.0]

[[curves]]
name = "Overlay"
time = 0.0
value = 0.0

[[curves]]
name = "Overlay"
time = 0.5
value = 1.0
`)
	r, err := (&ClipLoader{}).Load(path, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	clip := r.Data.(*graph.Clip)
	if clip.Name != "reload" || clip.Length != 1 || !clip.Loop {
		t.Errorf("Expected a looping 1s clip named reload, got %s %f %t", clip.Name, clip.Length, clip.Loop)
	}
	if tracks := clip.Tracks(); len(tracks) != 1 || len(tracks[0].Keys) != 2 {
		t.Fatalf("Expected a single track with 2 keys")
	}
	if v, ok := clip.SampleCurve(graph.CurveOverlay, 0.25); !ok || !math.Approximately(v, 0.5) {
		t.Errorf("Expected Overlay 0.5 at 0.25s, got %f", v)
	}
	p := clip.Tracks()[0].Sample(0.25)
	if !math.Vec3Equals(p.Position, math.NewVec3(0, 0.05, 0), 1e-6) {
		t.Errorf("Expected (0, 0.05, 0), got %v", p.Position)
	}
}

func TestClipLoaderRejectsEmptyClips(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"empty":    "loop = false\n",
		"negative": "length = -1.0\n",
		"nobone":   "[[keys]]\ntime = 0.5\n",
		"nocurve":  "length = 1.0\n[[curves]]\ntime = -1.0\nname = \"x\"\n",
	}
	for name, content := range tests {
		path := writeFile(t, dir, name+".toml", content)
		if _, err := (&ClipLoader{}).Load(path, nil); !errors.Is(err, core.ErrInvalidClip) {
			t.Errorf("%s: expected ErrInvalidClip, got %v", name, err)
		}
	}
}

func TestConfigLoader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "name = \"demo\"\nworkers = 3\n")

	var cfg struct {
		Name    string `toml:"name"`
		Workers int    `toml:"workers"`
	}
	r, err := (&ConfigLoader{}).Load(path, &cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Name != "demo" || cfg.Workers != 3 {
		t.Errorf("Expected demo with 3 workers, got %+v", cfg)
	}
	if r.Type != resources.ResourceTypeConfig || r.Name != "config" {
		t.Errorf("Expected a config resource named config, got %s %s", r.Type, r.Name)
	}

	if _, err := (&ConfigLoader{}).Load(path, nil); err == nil {
		t.Errorf("Expected an error without destination")
	}
}
