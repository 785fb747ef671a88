package rig

import (
	"github.com/spaghettifunk/fpsanim/engine/math"
)

type boneDef struct {
	name   string
	parent string
	offset math.Vec3
}

// Reference humanoid in meters, facing +Z with +X to its right. Elbows and
// knees carry a small bend so IK chains start with a defined bend plane.
var humanoidDefs = []boneDef{
	{"Hips", "", math.Vec3{0, 1.0, 0}},
	{"Spine", "Hips", math.Vec3{0, 0.1, 0}},
	{"Spine1", "Spine", math.Vec3{0, 0.12, 0}},
	{"Spine2", "Spine1", math.Vec3{0, 0.12, 0}},
	{"Neck", "Spine2", math.Vec3{0, 0.15, 0}},
	{"Head", "Neck", math.Vec3{0, 0.1, 0}},
	{"HeadTop_End", "Head", math.Vec3{0, 0.18, 0}},
	{"RightShoulder", "Spine2", math.Vec3{0.07, 0.1, 0}},
	{"RightArm", "RightShoulder", math.Vec3{0.12, 0, 0}},
	{"RightForeArm", "RightArm", math.Vec3{0.27, 0, -0.02}},
	{"RightHand", "RightForeArm", math.Vec3{0.25, 0, 0.02}},
	{"RightHandIndex1", "RightHand", math.Vec3{0.08, 0, 0.02}},
	{"RightHandIndex2", "RightHandIndex1", math.Vec3{0.03, 0, 0}},
	{"LeftShoulder", "Spine2", math.Vec3{-0.07, 0.1, 0}},
	{"LeftArm", "LeftShoulder", math.Vec3{-0.12, 0, 0}},
	{"LeftForeArm", "LeftArm", math.Vec3{-0.27, 0, -0.02}},
	{"LeftHand", "LeftForeArm", math.Vec3{-0.25, 0, 0.02}},
	{"LeftHandIndex1", "LeftHand", math.Vec3{-0.08, 0, 0.02}},
	{"LeftHandIndex2", "LeftHandIndex1", math.Vec3{-0.03, 0, 0}},
	{"RightUpLeg", "Hips", math.Vec3{0.09, -0.05, 0}},
	{"RightLeg", "RightUpLeg", math.Vec3{0, -0.42, 0.02}},
	{"RightFoot", "RightLeg", math.Vec3{0, -0.42, -0.02}},
	{"RightToeBase", "RightFoot", math.Vec3{0, -0.05, 0.12}},
	{"LeftUpLeg", "Hips", math.Vec3{-0.09, -0.05, 0}},
	{"LeftLeg", "LeftUpLeg", math.Vec3{0, -0.42, 0.02}},
	{"LeftFoot", "LeftLeg", math.Vec3{0, -0.42, -0.02}},
	{"LeftToeBase", "LeftFoot", math.Vec3{0, -0.05, 0.12}},
}

// BuildHumanoid creates the reference humanoid skeleton under a "Character"
// root placed at the origin and returns the root id.
func BuildHumanoid() (*Skeleton, BoneID) {
	s := NewSkeleton()
	character := s.AddBone("Character", NoBone, math.NewPoseIdentity())
	for _, d := range humanoidDefs {
		parent := character
		if d.parent != "" {
			parent, _ = s.Find(d.parent)
		}
		s.AddBone(d.name, parent, math.NewPose(d.offset, math.NewQuatIdentity()))
	}
	return s, character
}
