package rig

import (
	"github.com/spaghettifunk/fpsanim/engine/math"
)

// DynamicBone pairs a skeleton bone with a free moving IK object. Layers
// move the object; the IK pass then pulls the real bone chain onto it.
type DynamicBone struct {
	// Skeleton bone driven by IK.
	Target BoneID
	// Elbow or knee skeleton bone.
	HintTarget BoneID
	// IK object for the target.
	Obj BoneID
	// IK object for the hint.
	HintObj BoneID

	cachedHint math.Pose
}

func NewDynamicBone() DynamicBone {
	return DynamicBone{
		Target:     NoBone,
		HintTarget: NoBone,
		Obj:        NoBone,
		HintObj:    NoBone,
		cachedHint: math.NewPoseIdentity(),
	}
}

func (b *DynamicBone) HasHint() bool {
	return b.HintObj != NoBone
}

func (b *DynamicBone) CacheHintTransform(s *Skeleton) {
	if !s.Valid(b.HintObj) {
		return
	}
	b.cachedHint = s.WorldPose(b.HintObj)
}

// BlendHintCachedTransform blends the hint object from the cached pose to its
// current pose. Alpha 0 discards whatever moved the hint since the cache.
func (b *DynamicBone) BlendHintCachedTransform(s *Skeleton, alpha float32) {
	if !s.Valid(b.HintObj) {
		return
	}
	current := s.WorldPose(b.HintObj)
	s.SetWorldPose(b.HintObj, math.PoseLerp(b.cachedHint, current, alpha))
}

// Retarget snaps the IK objects onto their skeleton bones.
func (b *DynamicBone) Retarget(s *Skeleton) {
	if !s.Valid(b.Target) || !s.Valid(b.Obj) {
		return
	}
	s.SetWorldPose(b.Obj, s.WorldPose(b.Target))

	if !s.Valid(b.HintObj) || !s.Valid(b.HintTarget) {
		return
	}
	s.SetWorldPose(b.HintObj, s.WorldPose(b.HintTarget))
}

// OffsetRotation rotates the object by rotation expressed in the parent space.
func (b *DynamicBone) OffsetRotation(s *Skeleton, parent math.Quat, rotation math.Quat, alpha float32) {
	s.RotateInBoneSpace(parent, b.Obj, rotation, alpha)
}

// OffsetLocalRotation rotates the object in its own space.
func (b *DynamicBone) OffsetLocalRotation(s *Skeleton, rotation math.Quat, alpha float32) {
	s.RotateInBoneSpace(s.Rotation(b.Obj), b.Obj, rotation, alpha)
}

// OffsetPosition moves the object by offset expressed in the space of parent.
func (b *DynamicBone) OffsetPosition(s *Skeleton, parent BoneID, offset math.Vec3, alpha float32) {
	s.MoveInBoneSpace(parent, b.Obj, offset, alpha)
}

// OffsetLocalPosition moves the object in its own space.
func (b *DynamicBone) OffsetLocalPosition(s *Skeleton, offset math.Vec3, alpha float32) {
	s.MoveInBoneSpace(b.Obj, b.Obj, offset, alpha)
}

// OverridePosition blends the object toward an absolute position, expressed in
// the space bone or in world space when space is NoBone.
func (b *DynamicBone) OverridePosition(s *Skeleton, space BoneID, position math.Vec3, alpha float32) {
	if !s.Valid(b.Obj) {
		return
	}
	if s.Valid(space) {
		position = s.TransformPoint(space, position)
	}
	s.SetPosition(b.Obj, math.Vec3Lerp(s.Position(b.Obj), position, alpha))
}

// OverrideRotation blends the object toward an absolute rotation, expressed in
// the space bone or in world space when space is NoBone.
func (b *DynamicBone) OverrideRotation(s *Skeleton, space BoneID, rotation math.Quat, alpha float32) {
	if !s.Valid(b.Obj) {
		return
	}
	if s.Valid(space) {
		rotation = s.Rotation(space).Mul(rotation)
	}
	s.SetRotation(b.Obj, math.Slerp(s.Rotation(b.Obj), rotation, alpha))
}

func (b *DynamicBone) OverridePose(s *Skeleton, space BoneID, pose math.Pose, alpha float32) {
	b.OverridePosition(s, space, pose.Position, alpha)
	b.OverrideRotation(s, space, pose.Rotation, alpha)
}
