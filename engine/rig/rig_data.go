package rig

import (
	"github.com/spaghettifunk/fpsanim/engine/math"
)

// RigData holds every bone reference the layers need, plus the weapon bone
// state shared between the orchestrator and the layers. One per character.
type RigData struct {
	Skeleton *Skeleton

	// Transform of the whole character.
	Character BoneID
	Pelvis    BoneID
	// Used for mesh space calculations of the upper body.
	SpineRoot BoneID
	RootBone  BoneID
	Head      BoneID

	WeaponBone         BoneID
	WeaponBoneAdditive BoneID
	WeaponBoneRight    BoneID
	WeaponBoneLeft     BoneID

	// 0 keeps the weapon on the weapon bone, positive values move it toward
	// the right hand and negative ones toward the left hand.
	WeaponBoneWeight float32
	// Designer weapon pose in root bone space.
	WeaponTransform math.Pose
	// Written by the ADS layer, read by gameplay.
	AimWeight float32

	MasterDynamic DynamicBone
	RightHand     DynamicBone
	LeftHand      DynamicBone
	RightFoot     DynamicBone
	LeftFoot      DynamicBone

	complete bool
}

func newRigData(s *Skeleton) *RigData {
	return &RigData{
		Skeleton:           s,
		Character:          NoBone,
		Pelvis:             NoBone,
		SpineRoot:          NoBone,
		RootBone:           NoBone,
		Head:               NoBone,
		WeaponBone:         NoBone,
		WeaponBoneAdditive: NoBone,
		WeaponBoneRight:    NoBone,
		WeaponBoneLeft:     NoBone,
		WeaponTransform:    math.NewPoseIdentity(),
		MasterDynamic:      NewDynamicBone(),
		RightHand:          NewDynamicBone(),
		LeftHand:           NewDynamicBone(),
		RightFoot:          NewDynamicBone(),
		LeftFoot:           NewDynamicBone(),
	}
}

// Complete reports whether bone setup found every required bone.
func (r *RigData) Complete() bool {
	return r.complete
}

// PelvisMS returns the pelvis rotation relative to the root bone.
func (r *RigData) PelvisMS() math.Quat {
	return r.Skeleton.Rotation(r.RootBone).Inverse().Mul(r.Skeleton.Rotation(r.Pelvis))
}

// RetargetHandBones snaps the hand weapon anchors onto the weapon bone.
func (r *RigData) RetargetHandBones() {
	s := r.Skeleton
	if !s.Valid(r.WeaponBone) {
		return
	}
	weapon := s.WorldPose(r.WeaponBone)
	s.SetWorldPose(r.WeaponBoneRight, weapon)
	s.SetWorldPose(r.WeaponBoneLeft, weapon)
}

// RetargetWeaponBone places the weapon bone at the designer weapon pose.
func (r *RigData) RetargetWeaponBone() {
	s := r.Skeleton
	root := s.WorldPose(r.RootBone)
	s.SetWorldPose(r.WeaponBone, r.WeaponTransform.FromSpace(root))
}

// UpdateWeaponParent blends the master IK object between the default weapon
// anchor and the hand anchors according to WeaponBoneWeight.
func (r *RigData) UpdateWeaponParent() {
	s := r.Skeleton
	if !s.Valid(r.MasterDynamic.Obj) || !s.Valid(r.WeaponBoneRight) {
		return
	}
	boneDefault := s.WorldPose(r.WeaponBoneRight)
	boneRight := s.WorldPose(r.MasterDynamic.Obj)
	boneLeft := boneDefault
	if s.Valid(r.WeaponBoneLeft) {
		boneLeft = s.WorldPose(r.WeaponBoneLeft)
	}

	var result math.Pose
	if r.WeaponBoneWeight >= 0 {
		result = math.PoseLerp(boneDefault, boneRight, r.WeaponBoneWeight)
	} else {
		result = math.PoseLerp(boneDefault, boneLeft, -r.WeaponBoneWeight)
	}
	s.SetWorldPose(r.MasterDynamic.Obj, result)
}

// AlignWeaponBone moves the master IK object by offset in its own space and
// snaps the weapon bone onto it.
func (r *RigData) AlignWeaponBone(offset math.Vec3) {
	s := r.Skeleton
	if !s.Valid(r.MasterDynamic.Obj) {
		return
	}
	r.MasterDynamic.OffsetLocalPosition(s, offset, 1)
	s.SetWorldPose(r.WeaponBone, s.WorldPose(r.MasterDynamic.Obj))
}

// Retarget snaps the foot IK objects onto the feet.
func (r *RigData) Retarget() {
	r.RightFoot.Retarget(r.Skeleton)
	r.LeftFoot.Retarget(r.Skeleton)
}
