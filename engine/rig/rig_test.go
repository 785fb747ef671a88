package rig

import (
	"testing"

	"github.com/spaghettifunk/fpsanim/engine/math"
)

const tolerance = 1e-4

func TestSkeletonWorldPoseFollowsParents(t *testing.T) {
	s := NewSkeleton()
	root := s.AddBone("root", NoBone, math.NewPose(math.NewVec3(0, 1, 0), math.QuatFromEuler(0, 90, 0)))
	child := s.AddBone("child", root, math.NewPose(math.NewVec3(0, 0, 1), math.NewQuatIdentity()))

	if p := s.Position(child); !math.Vec3Equals(p, math.NewVec3(1, 1, 0), tolerance) {
		t.Errorf("Expected child at (1, 1, 0), got %v", p)
	}

	s.SetPosition(root, math.NewVec3(0, 2, 0))
	if p := s.Position(child); !math.Vec3Equals(p, math.NewVec3(1, 2, 0), tolerance) {
		t.Errorf("Expected child to follow its parent, got %v", p)
	}

	target := math.NewPose(math.NewVec3(5, 5, 5), math.QuatFromEuler(10, 20, 30))
	s.SetWorldPose(child, target)
	if got := s.WorldPose(child); !got.Equals(target, tolerance) {
		t.Errorf("Expected %v, got %v", target, got)
	}
	if got := s.WorldPose(NoBone); !got.Equals(math.NewPoseIdentity(), 0) {
		t.Errorf("Expected identity for a missing bone, got %v", got)
	}
}

func TestSkeletonSetParentKeepsWorld(t *testing.T) {
	s := NewSkeleton()
	a := s.AddBone("a", NoBone, math.NewPose(math.NewVec3(1, 0, 0), math.NewQuatIdentity()))
	b := s.AddBone("b", NoBone, math.NewPose(math.NewVec3(0, 3, 0), math.QuatFromEuler(0, 45, 0)))
	before := s.WorldPose(b)

	s.SetParent(b, a, true)
	if s.Parent(b) != a || len(s.Children(a)) != 1 {
		t.Fatalf("Expected b to be parented to a")
	}
	if got := s.WorldPose(b); !got.Equals(before, tolerance) {
		t.Errorf("Expected world pose to be kept, got %v", got)
	}

	// Cycles are rejected.
	s.SetParent(a, b, true)
	if s.Parent(a) != NoBone {
		t.Errorf("Expected re-parenting into a descendant to be ignored")
	}
}

func TestSkeletonSnapshotRestore(t *testing.T) {
	s, _ := BuildHumanoid()
	snap := s.Snapshot()
	hips, _ := s.Find("Hips")
	s.SetLocalPosition(hips, math.NewVec3(4, 4, 4))
	s.Restore(snap)
	if p := s.LocalPose(hips).Position; !math.Vec3Equals(p, math.NewVec3(0, 1, 0), 0) {
		t.Errorf("Expected restored hips position, got %v", p)
	}
}

func TestSetupBonesOnHumanoid(t *testing.T) {
	s, character := BuildHumanoid()
	r := SetupBones(s, character)
	if !r.Complete() {
		t.Fatalf("Expected every bone to be found")
	}

	expect := map[string]BoneID{
		"Hips":         r.Pelvis,
		"Spine":        r.SpineRoot,
		"Head":         r.Head,
		"RightHand":    r.RightHand.Target,
		"RightForeArm": r.RightHand.HintTarget,
		"LeftHand":     r.LeftHand.Target,
		"LeftForeArm":  r.LeftHand.HintTarget,
		"RightFoot":    r.RightFoot.Target,
		"RightLeg":     r.RightFoot.HintTarget,
		"LeftFoot":     r.LeftFoot.Target,
		"LeftLeg":      r.LeftFoot.HintTarget,
	}
	for name, id := range expect {
		if s.Name(id) != name {
			t.Errorf("Expected %s, got %s", name, s.Name(id))
		}
	}

	if s.Parent(r.MasterDynamic.Obj) != r.Head || r.MasterDynamic.Target != r.WeaponBone {
		t.Errorf("Expected MasterIK under the head targeting the weapon bone")
	}
	if s.Parent(r.RightHand.Obj) != r.MasterDynamic.Obj || s.Parent(r.LeftHand.HintObj) != r.MasterDynamic.Obj {
		t.Errorf("Expected hand IK objects under MasterIK")
	}
	if s.Parent(r.WeaponBoneRight) != r.RightHand.Target || s.Parent(r.WeaponBoneLeft) != r.LeftHand.Target {
		t.Errorf("Expected hand weapon anchors under the hands")
	}

	count := s.Len()
	again := SetupBones(s, character)
	if s.Len() != count {
		t.Errorf("Expected a second setup to reuse the proxies, bones grew from %d to %d", count, s.Len())
	}
	if again.RightHand.Obj != r.RightHand.Obj {
		t.Errorf("Expected the same right hand IK object")
	}
}

func TestSetupBonesReportsMissingBones(t *testing.T) {
	s := NewSkeleton()
	character := s.AddBone("Character", NoBone, math.NewPoseIdentity())
	s.AddBone("Hips", character, math.NewPoseIdentity())
	r := SetupBones(s, character)
	if r.Complete() {
		t.Errorf("Expected setup to be incomplete")
	}
	if r.MasterDynamic.Obj != NoBone {
		t.Errorf("Expected no MasterIK without a head")
	}

	// Inert features must not panic.
	r.RetargetHandBones()
	r.UpdateWeaponParent()
	r.AlignWeaponBone(math.NewVec3(0, 0, 1))
	r.Retarget()
}

func TestDynamicBoneRetargetAndOffsets(t *testing.T) {
	s, character := BuildHumanoid()
	r := SetupBones(s, character)
	hand := &r.RightHand

	hand.Retarget(s)
	if !s.WorldPose(hand.Obj).Equals(s.WorldPose(hand.Target), tolerance) {
		t.Errorf("Expected IK object on the hand")
	}
	if !s.WorldPose(hand.HintObj).Equals(s.WorldPose(hand.HintTarget), tolerance) {
		t.Errorf("Expected hint object on the elbow")
	}

	before := s.Position(hand.Obj)
	hand.OffsetPosition(s, NoBone, math.NewVec3(0, 0.1, 0), 0.5)
	if p := s.Position(hand.Obj); !math.Vec3Equals(p, before.Add(math.NewVec3(0, 0.05, 0)), tolerance) {
		t.Errorf("Expected half the offset applied, got %v", p)
	}

	hand.OverridePosition(s, NoBone, math.NewVec3(1, 1, 1), 1)
	if p := s.Position(hand.Obj); !math.Vec3Equals(p, math.NewVec3(1, 1, 1), tolerance) {
		t.Errorf("Expected absolute override, got %v", p)
	}

	rot := math.QuatFromEuler(0, 30, 0)
	hand.OverrideRotation(s, NoBone, rot, 1)
	hand.OffsetLocalRotation(s, math.QuatFromEuler(0, 15, 0), 1)
	if got := s.Rotation(hand.Obj); !math.QuatEquals(got, math.QuatFromEuler(0, 45, 0), tolerance) {
		t.Errorf("Expected 45 degrees of yaw, got %v", math.ToEuler(got))
	}
}

func TestDynamicBoneHintBlend(t *testing.T) {
	s, character := BuildHumanoid()
	r := SetupBones(s, character)
	hand := &r.LeftHand
	hand.Retarget(s)

	cached := s.WorldPose(hand.HintObj)
	hand.CacheHintTransform(s)
	s.SetPosition(hand.HintObj, cached.Position.Add(math.NewVec3(0, 1, 0)))

	hand.BlendHintCachedTransform(s, 0)
	if got := s.WorldPose(hand.HintObj); !got.Equals(cached, tolerance) {
		t.Errorf("Expected alpha 0 to restore the cached hint, got %v", got)
	}
}

func TestRigDataWeaponParent(t *testing.T) {
	s, character := BuildHumanoid()
	r := SetupBones(s, character)
	s.SetLocalPose(r.WeaponBone, math.NewPose(math.NewVec3(0.2, 1.4, 0.4), math.QuatFromEuler(0, 5, 0)))

	r.RetargetHandBones()
	weapon := s.WorldPose(r.WeaponBone)
	if !s.WorldPose(r.WeaponBoneRight).Equals(weapon, tolerance) || !s.WorldPose(r.WeaponBoneLeft).Equals(weapon, tolerance) {
		t.Errorf("Expected hand anchors on the weapon bone")
	}

	r.MasterDynamic.Retarget(s)
	r.WeaponBoneWeight = 0
	r.UpdateWeaponParent()
	if !s.WorldPose(r.MasterDynamic.Obj).Equals(s.WorldPose(r.WeaponBoneRight), tolerance) {
		t.Errorf("Expected zero weight to use the default anchor")
	}

	r.AlignWeaponBone(math.NewVec3(0, 0, 0.1))
	if !s.WorldPose(r.WeaponBone).Equals(s.WorldPose(r.MasterDynamic.Obj), tolerance) {
		t.Errorf("Expected the weapon bone aligned to MasterIK")
	}

	r.WeaponTransform = math.NewPose(math.NewVec3(0, 1.5, 0.3), math.NewQuatIdentity())
	r.RetargetWeaponBone()
	if p := s.Position(r.WeaponBone); !math.Vec3Equals(p, math.NewVec3(0, 1.5, 0.3), tolerance) {
		t.Errorf("Expected weapon bone at the designer pose, got %v", p)
	}

	pelvis := r.PelvisMS()
	if !math.QuatEquals(pelvis, math.NewQuatIdentity(), tolerance) {
		t.Errorf("Expected identity pelvis in mesh space, got %v", pelvis)
	}
}
