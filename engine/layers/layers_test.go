package layers

import (
	"testing"

	"github.com/spaghettifunk/fpsanim/engine/animator"
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
	"github.com/spaghettifunk/fpsanim/engine/rig"
	"github.com/spaghettifunk/fpsanim/engine/systems"
)

const tolerance = 1e-4

type harness struct {
	c      *animator.Component
	s      *rig.Skeleton
	base   *graph.ClipController
	asset  *resources.WeaponAnimAsset
	weapon animator.WeaponTransformData
}

func newHarness(t *testing.T, js *systems.JobSystem) *harness {
	t.Helper()
	s, character := rig.BuildHumanoid()
	spine, _ := s.Find("Spine")

	base := graph.NewClipController("base")
	base.AddState("idle", graph.NewPoseClip("idle", map[string]math.Pose{
		"Hips": math.NewPose(math.NewVec3(0, 1, 0), math.NewQuatIdentity()),
	}))
	g := graph.NewCoreAnimGraph(s, graph.NewAvatarMaskFromBone("upper", s, spine), base, nil)

	c, err := animator.NewComponent(animator.ComponentConfig{
		Skeleton:  s,
		Character: character,
		Graph:     g,
		JobSystem: js,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return &harness{
		c:      c,
		s:      s,
		base:   base,
		asset:  resources.NewWeaponAnimAsset("rifle"),
		weapon: animator.NewWeaponTransformData(),
	}
}

func (h *harness) start(t *testing.T, layers ...animator.Layer) {
	t.Helper()
	for _, l := range layers {
		h.c.AddLayer(l)
	}
	if err := h.c.InitializeComponent(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	h.c.OnGunEquipped(h.asset, h.weapon)
}

func (h *harness) tick(n int, dt float32) {
	for i := 0; i < n; i++ {
		h.c.Tick(dt)
	}
}

func (h *harness) find(t *testing.T, name string) rig.BoneID {
	t.Helper()
	id, ok := h.s.Find(name)
	if !ok {
		t.Fatalf("Expected bone %s", name)
	}
	return id
}

func (h *harness) weaponPosition() math.Vec3 {
	return h.s.Position(h.c.RigData().WeaponBone)
}

func springs(stiffness, damping, speed, maxValue float32) math.VectorSpringData {
	s := math.NewVectorSpringData(stiffness, damping, speed)
	s.X.MaxValue, s.Y.MaxValue, s.Z.MaxValue = maxValue, maxValue, maxValue
	return s
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestLayerFadesOut(t *testing.T) {
	h := newHarness(t, nil)
	layer := NewRecoilLayer()
	layer.LerpSpeed = 10
	h.start(t, layer)

	h.tick(1, 0.05)
	if !math.Approximately(layer.SmoothLayerAlpha(), 1) {
		t.Errorf("Expected applied weight 1, got %f", layer.SmoothLayerAlpha())
	}

	layer.SetLayerAlpha(0)
	previous := layer.SmoothLayerAlpha()
	for i := 0; i < 200; i++ {
		h.tick(1, 0.05)
		if layer.SmoothLayerAlpha() > previous {
			t.Fatalf("Expected the weight to decrease, got %f after %f", layer.SmoothLayerAlpha(), previous)
		}
		previous = layer.SmoothLayerAlpha()
	}
	if !math.Approximately(layer.SmoothLayerAlpha(), 0) {
		t.Errorf("Expected applied weight 0, got %f", layer.SmoothLayerAlpha())
	}
	if layer.CanUpdate() {
		t.Errorf("Expected a faded out layer to stop updating")
	}
}

func TestLayerMaskedByControllerFloat(t *testing.T) {
	h := newHarness(t, nil)
	layer := NewRecoilLayer()
	layer.CurveName = "MaskRecoil"
	h.start(t, layer)

	h.base.SetFloat("MaskRecoil", 1)
	h.tick(1, 0.05)
	if layer.SmoothLayerAlpha() != 0 {
		t.Errorf("Expected a masked layer at 0, got %f", layer.SmoothLayerAlpha())
	}

	h.base.SetFloat("MaskRecoil", 0.25)
	h.tick(1, 0.05)
	if !math.Approximately(layer.SmoothLayerAlpha(), 0.75) {
		t.Errorf("Expected applied weight 0.75, got %f", layer.SmoothLayerAlpha())
	}
}

func TestFreeAimClamp(t *testing.T) {
	input := SwayLayerInputData{
		AimInput:        math.NewVec2(1, 3),
		FreeAimSettings: resources.FreeAimData{MaxValue: 2, InputScale: 1},
	}

	data := SwayLayerData{}
	ApplyFreeAim(&input, &data)
	if data.FreeAimTarget[0] != 2 || data.FreeAimTarget[1] != 1 {
		t.Errorf("Expected box clamp (2, 1), got %v", data.FreeAimTarget)
	}

	input.UseCircleMethod = true
	data = SwayLayerData{}
	ApplyFreeAim(&input, &data)
	if data.FreeAimTarget[0] != 2 || !math.Approximately(data.FreeAimTarget[1], 0) {
		t.Errorf("Expected circle clamp (2, 0), got %v", data.FreeAimTarget)
	}

	input.AimInput = math.NewVec2(-5, 0)
	data = SwayLayerData{FreeAimTarget: math.NewVec2(1, 0)}
	ApplyFreeAim(&input, &data)
	want := -math.Sqrt(3)
	if !math.Approximately(data.FreeAimTarget[1], want) {
		t.Errorf("Expected yaw clamped to %f, got %f", want, data.FreeAimTarget[1])
	}
}

func TestSwayIgnoresZeroDeltaTime(t *testing.T) {
	input := SwayLayerInputData{
		AimInput:        math.NewVec2(4, 4),
		MoveInput:       math.NewVec2(1, 1),
		AimSwaySettings: math.LocRotSpringData{Loc: springs(10, 0.5, 10, 1), Rot: springs(10, 0.5, 10, 1)},
	}
	data := SwayLayerData{}
	ApplySway(&input, &data)
	ApplyMoveSway(&input, &data)
	if data.AimSwayPositionResult != math.NewVec3Zero() || data.MoveSwayPositionResult != math.NewVec3Zero() {
		t.Errorf("Expected no sway without time, got %v and %v", data.AimSwayPositionResult, data.MoveSwayPositionResult)
	}
}

func swayAsset(asset *resources.WeaponAnimAsset) {
	asset.AimSwaySettings = math.LocRotSpringData{
		Loc: springs(20, 0.4, 12, 0.05),
		Rot: springs(20, 0.4, 12, 5),
	}
	asset.FreeAimSettings = resources.FreeAimData{MaxValue: 5, InterpolationSpeed: 10, InputScale: 0.5}
	asset.MoveSwaySettings = resources.MoveSwayData{
		TranslationScale:         math.NewVec3(0.01, 0.01, 0.01),
		RotationScale:            math.NewVec3(2, 2, 2),
		PositionSpringSettings:   springs(15, 0.5, 10, 0.05),
		RotationSpringSettings:   springs(15, 0.5, 10, 5),
		TranslationDampingFactor: 5,
		RotationDampingFactor:    5,
	}
}

func TestSwayParallelMatchesInline(t *testing.T) {
	js, err := systems.NewJobSystem(2, 8)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer js.Shutdown()

	parallel := newHarness(t, js)
	inline := newHarness(t, nil)
	swayAsset(parallel.asset)
	swayAsset(inline.asset)

	parallelSway := NewSwayLayer()
	inlineSway := NewSwayLayer()
	inlineSway.Parallel = false
	parallel.start(t, parallelSway)
	inline.start(t, inlineSway)

	for i := 0; i < 60; i++ {
		aim := math.NewVec2(2, 1)
		if i > 30 {
			aim = math.NewVec2(-1, 0)
		}
		for _, h := range []*harness{parallel, inline} {
			h.c.CharData().AddAimInput(aim)
			h.c.CharData().MoveInput = math.NewVec2(1, 0.5)
			h.tick(1, 1.0/60)
		}

		a := parallel.s.WorldPose(parallel.c.RigData().MasterDynamic.Obj)
		b := inline.s.WorldPose(inline.c.RigData().MasterDynamic.Obj)
		if !math.Vec3Equals(a.Position, b.Position, 1e-5) || math.QuatAngle(a.Rotation, b.Rotation) > 0.1 {
			t.Fatalf("Frame %d: expected equal master poses, got %v and %v", i, a, b)
		}
	}

	state := parallelSway.State()
	if math.Approximately(state.FreeAimTarget[0], 0) || math.Approximately(state.FreeAimTarget[1], 0) {
		t.Errorf("Expected free aim to accumulate, got %v", state.FreeAimTarget)
	}
	if state.FreeAimTarget != inlineSway.State().FreeAimTarget {
		t.Errorf("Expected equal free aim, got %v and %v", state.FreeAimTarget, inlineSway.State().FreeAimTarget)
	}
}

func TestAdsAlignsSights(t *testing.T) {
	h := newHarness(t, nil)
	r := h.c.RigData()
	target := h.s.AddBone(AimTargetName, r.Head, math.NewPose(math.NewVec3(0, 0.05, 0.2), math.NewQuatIdentity()))
	aimPoint := h.s.AddBone("AimPoint", r.WeaponBone, math.NewPose(math.NewVec3(0, 0.04, 0.25), math.NewQuatIdentity()))
	h.weapon.AimPoint = aimPoint
	h.asset.AdsData = resources.NewAdsData(2)

	ads := NewAdsLayer()
	h.start(t, ads)
	if ads.AimTarget != target {
		t.Fatalf("Expected the aim target to be found by name")
	}

	h.tick(1, 0.1)
	ads.SetAds(true)
	h.tick(6, 0.1)

	if !math.Approximately(ads.AdsProgress(), 1) {
		t.Errorf("Expected full aim progress, got %f", ads.AdsProgress())
	}
	if abs(h.c.AimWeight()-1) > tolerance {
		t.Errorf("Expected aim weight 1, got %f", h.c.AimWeight())
	}
	if got, want := h.s.Position(aimPoint), h.s.Position(target); !math.Vec3Equals(got, want, 1e-3) {
		t.Errorf("Expected the sights at %v, got %v", want, got)
	}

	ads.SetAds(false)
	h.tick(6, 0.1)
	if ads.AdsProgress() != 0 || abs(h.c.AimWeight()) > tolerance {
		t.Errorf("Expected hip fire, got progress %f and weight %f", ads.AdsProgress(), h.c.AimWeight())
	}
}

func TestLookAutoDistribution(t *testing.T) {
	l := NewLookLayer()
	l.AutoDistribution = true
	l.LookUpOffset.Bones = []AimOffsetBone{
		{Bone: 1, MaxAngle: math.NewVec2(30, 30)},
		{Bone: 2, MaxAngle: math.NewVec2(30, 30)},
		{Bone: 3, MaxAngle: math.NewVec2(30, 30)},
	}
	l.Validate()

	l.LookUpOffset.Bones[0].MaxAngle = math.NewVec2(40, 50)
	l.Validate()

	want := []math.Vec2{{40, 50}, {25, 20}, {25, 20}}
	for i, w := range want {
		got := l.LookUpOffset.Bones[i].MaxAngle
		if !math.Approximately(got[0], w[0]) || !math.Approximately(got[1], w[1]) {
			t.Errorf("Bone %d: expected %v, got %v", i, w, got)
		}
	}
}

func spineOffset(h *harness, t *testing.T) AimOffset {
	return AimOffset{Bones: []AimOffsetBone{
		{Bone: h.find(t, "Spine"), MaxAngle: math.NewVec2(30, 30)},
		{Bone: h.find(t, "Spine1"), MaxAngle: math.NewVec2(30, 30)},
		{Bone: h.find(t, "Spine2"), MaxAngle: math.NewVec2(30, 30)},
	}}
}

func TestLookPitchesSpine(t *testing.T) {
	h := newHarness(t, nil)
	look := NewLookLayer()
	look.LookUpOffset = spineOffset(h, t)
	h.start(t, look)

	h.c.CharData().SetAimInput(math.NewVec2(0, 45))
	h.tick(1, 0.016)

	spine2 := h.find(t, "Spine2")
	if got := math.QuatAngle(h.s.Rotation(spine2), math.NewQuatIdentity()); abs(got-45) > 0.5 {
		t.Errorf("Expected the top of the spine pitched 45 degrees, got %f", got)
	}
	hips := h.find(t, "Hips")
	if got := math.QuatAngle(h.s.Rotation(hips), math.NewQuatIdentity()); got > 0.1 {
		t.Errorf("Expected the pelvis untouched, got %f degrees", got)
	}
}

func TestPoseBlendingRestoresSampledPose(t *testing.T) {
	h := newHarness(t, nil)
	look := NewLookLayer()
	look.LookUpOffset = spineOffset(h, t)
	blending := NewPoseBlending()
	blending.PoseBlends = []*PoseBlend{{Bones: []string{"Spine2"}}}
	h.start(t, look, blending)

	h.c.CharData().SetAimInput(math.NewVec2(0, 45))
	h.tick(1, 0.016)

	spine1 := h.find(t, "Spine1")
	spine2 := h.find(t, "Spine2")
	if got := math.QuatAngle(h.s.Rotation(spine1), math.NewQuatIdentity()); abs(got-30) > 0.5 {
		t.Errorf("Expected the look layer on Spine1, got %f degrees", got)
	}
	if got := math.QuatAngle(h.s.Rotation(spine2), math.NewQuatIdentity()); got > 0.5 {
		t.Errorf("Expected Spine2 back at its sampled pose, got %f degrees", got)
	}
}

func TestLocomotionIKPoseBlend(t *testing.T) {
	h := newHarness(t, nil)
	locomotion := NewLocomotionLayer()
	h.start(t, locomotion)

	pose := &resources.IKPose{
		Name:          "sprint",
		Pose:          math.NewPose(math.NewVec3(0, -0.1, 0), math.NewQuatIdentity()),
		BlendOutSpeed: 5,
	}
	locomotion.BlendInIkPose(pose)
	h.tick(1, 0.1)
	if got := locomotion.IKPose().Position; !math.Vec3Equals(got, pose.Pose.Position, tolerance) {
		t.Errorf("Expected the IK pose snapped in, got %v", got)
	}

	locomotion.BlendOutIkPose(0)
	h.tick(1, 0.1)
	// 1 - exp(-0.5) of the way back to rest.
	want := math.NewVec3(0, -0.1*0.60653, 0)
	if got := locomotion.IKPose().Position; !math.Vec3Equals(got, want, tolerance) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestLocomotionGraphWeight(t *testing.T) {
	h := newHarness(t, nil)
	locomotion := NewLocomotionLayer()
	locomotion.CurveName = "MaskLocomotion"
	h.start(t, locomotion)

	h.base.SetFloat("MaskLocomotion", 1)
	h.tick(1, 0.016)
	if got := h.c.GraphWeight(); !math.Approximately(got, 1) {
		t.Errorf("Expected the overlay to own the upper body, got %f", got)
	}

	h.base.SetFloat("MaskLocomotion", 0)
	h.tick(1, 0.016)
	if got := locomotion.GraphWeight(); !math.Approximately(got, 0) {
		t.Errorf("Expected the locomotion to own the upper body, got %f", got)
	}
}

func TestRecoilOffsetsWeapon(t *testing.T) {
	h := newHarness(t, nil)
	recoil := NewRecoilLayer()
	recoil.UseMeshSpace = true
	h.start(t, recoil)

	h.tick(1, 0.016)
	rest := h.weaponPosition()

	kick := math.NewVec3(0, 0.01, -0.05)
	h.c.CharData().RecoilAnim = math.NewPose(kick, math.NewQuatIdentity())
	h.tick(1, 0.016)
	if got := h.weaponPosition().Sub(rest); !math.Vec3Equals(got, kick, 1e-5) {
		t.Errorf("Expected the weapon kicked by %v, got %v", kick, got)
	}
}

func TestViewmodelOffsetInCentimeters(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t, NewViewmodelLayer())

	h.tick(1, 0.016)
	rest := h.weaponPosition()

	h.asset.ViewmodelOffset.PoseOffset.Position = math.NewVec3(0, -2, 10)
	h.tick(1, 0.016)
	want := math.NewVec3(0, -0.02, 0.1)
	if got := h.weaponPosition().Sub(rest); !math.Vec3Equals(got, want, 1e-5) {
		t.Errorf("Expected the weapon moved by %v, got %v", want, got)
	}
}

func TestLeftHandFollowsWeapon(t *testing.T) {
	h := newHarness(t, nil)
	leftHand := NewLeftHandIKLayer()
	h.start(t, NewViewmodelLayer(), leftHand)

	r := h.c.RigData()
	h.tick(1, 0.016)
	if got, want := h.s.Position(r.LeftHand.Obj), h.s.Position(r.LeftHand.Target); !math.Vec3Equals(got, want, 1e-4) {
		t.Errorf("Expected the hand IK on the hand, got %v and %v", got, want)
	}

	h.asset.ViewmodelOffset.PoseOffset.Position = math.NewVec3(0, 0, 10)
	h.tick(1, 0.016)
	want := h.s.Position(r.LeftHand.Target).Add(math.NewVec3(0, 0, 0.1))
	if got := h.s.Position(r.LeftHand.Obj); !math.Vec3Equals(got, want, 1e-4) {
		t.Errorf("Expected the hand IK to follow the weapon to %v, got %v", want, got)
	}
}

func TestFadedSwayLeavesNoPendingJob(t *testing.T) {
	js, err := systems.NewJobSystem(2, 8)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer js.Shutdown()

	h := newHarness(t, js)
	swayAsset(h.asset)
	sway := NewSwayLayer()
	sway.SetLayerAlpha(0)
	h.start(t, sway)

	for i := 0; i < 3; i++ {
		h.c.CharData().AddAimInput(math.NewVec2(2, 1))
		h.tick(1, 1.0/60)
		if sway.CanUpdate() {
			t.Fatalf("Frame %d: expected a faded out layer", i)
		}
		if sway.jobHandle != nil {
			t.Errorf("Frame %d: expected no pending sway job after the frame", i)
		}
	}
	if state := sway.State(); state.FreeAimTarget != (math.Vec2{}) {
		t.Errorf("Expected a faded out layer to keep its state, got %v", state.FreeAimTarget)
	}
}

func TestComponentShutdownJoinsSwayJob(t *testing.T) {
	js, err := systems.NewJobSystem(2, 8)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer js.Shutdown()

	h := newHarness(t, js)
	swayAsset(h.asset)
	sway := NewSwayLayer()
	h.start(t, sway)

	h.tick(1, 1.0/60)
	// Update schedules the job, LateUpdate would join it.
	h.c.Update(1.0 / 60)
	if sway.jobHandle == nil {
		t.Fatalf("Expected a scheduled sway job")
	}
	h.c.Shutdown()
	if sway.jobHandle != nil {
		t.Errorf("Expected Shutdown to join the sway job")
	}
}

func TestBlockingPullsWeaponToRestPose(t *testing.T) {
	h := newHarness(t, nil)
	rest := math.NewVec3(0, -0.05, -0.1)
	h.asset.BlockData = resources.GunBlockData{
		WeaponLength: 0.8,
		Threshold:    0.2,
		RestPose:     math.NewPose(rest, math.NewQuatIdentity()),
	}
	blocking := NewBlockingLayer()
	blocking.BlendSpeed = 0
	h.start(t, blocking)

	h.tick(1, 0.016)
	free := h.weaponPosition()
	if blocking.BlockWeight() != 0 {
		t.Errorf("Expected no block without a hit, got %f", blocking.BlockWeight())
	}

	tests := []struct {
		distance float32
		weight   float32
	}{
		{0.9, 0},
		{0.7, 0.5},
		{0.3, 1},
		{-1, 0},
	}
	for _, tt := range tests {
		h.c.CharData().ObstacleDistance = tt.distance
		h.tick(1, 0.016)
		if !math.Approximately(blocking.BlockWeight(), tt.weight) {
			t.Errorf("Distance %f: expected block weight %f, got %f", tt.distance, tt.weight, blocking.BlockWeight())
		}
		want := rest.Mul(tt.weight)
		if got := h.weaponPosition().Sub(free); !math.Vec3Equals(got, want, 1e-5) {
			t.Errorf("Distance %f: expected the weapon moved by %v, got %v", tt.distance, want, got)
		}
	}
}

func TestRightHandIKOffsetsHand(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t, NewRightHandIK())

	r := h.c.RigData()
	h.tick(1, 0.016)
	rest := h.s.Position(r.RightHand.Obj)

	offset := math.NewVec3(0.01, 0, 0)
	h.asset.ViewmodelOffset.RightHandOffset.Position = offset
	h.tick(1, 0.016)
	want := math.MoveInBoneSpace(h.s.Rotation(r.MasterDynamic.Obj), offset)
	if got := h.s.Position(r.RightHand.Obj).Sub(rest); !math.Vec3Equals(got, want, 1e-5) {
		t.Errorf("Expected the right hand moved by %v, got %v", want, got)
	}
}
