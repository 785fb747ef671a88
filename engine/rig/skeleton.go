package rig

import (
	"github.com/spaghettifunk/fpsanim/engine/math"
)

// BoneID indexes a bone inside its Skeleton.
type BoneID int

// NoBone marks a missing or optional bone reference.
const NoBone BoneID = -1

// Valid reports whether the id can reference a bone at all.
func (id BoneID) Valid() bool {
	return id >= 0
}

type Bone struct {
	Name   string
	Parent BoneID
	// Pose relative to the parent bone, or world pose for roots.
	Local math.Pose
}

// Skeleton is a transform hierarchy. Local poses are the source of truth and
// world poses are resolved through the parent chain, so moving a bone always
// carries its children along. Parents are always added before their children.
type Skeleton struct {
	bones    []Bone
	children [][]BoneID
	byName   map[string]BoneID
}

func NewSkeleton() *Skeleton {
	return &Skeleton{
		byName: make(map[string]BoneID),
	}
}

// AddBone appends a bone under parent (NoBone for a root) and returns its id.
func (s *Skeleton) AddBone(name string, parent BoneID, local math.Pose) BoneID {
	if parent != NoBone && !s.Valid(parent) {
		parent = NoBone
	}
	id := BoneID(len(s.bones))
	s.bones = append(s.bones, Bone{Name: name, Parent: parent, Local: local})
	s.children = append(s.children, nil)
	if parent != NoBone {
		s.children[parent] = append(s.children[parent], id)
	}
	if _, exists := s.byName[name]; !exists {
		s.byName[name] = id
	}
	return id
}

func (s *Skeleton) Len() int {
	return len(s.bones)
}

func (s *Skeleton) Valid(id BoneID) bool {
	return id >= 0 && int(id) < len(s.bones)
}

func (s *Skeleton) Name(id BoneID) string {
	if !s.Valid(id) {
		return ""
	}
	return s.bones[id].Name
}

func (s *Skeleton) Parent(id BoneID) BoneID {
	if !s.Valid(id) {
		return NoBone
	}
	return s.bones[id].Parent
}

func (s *Skeleton) Children(id BoneID) []BoneID {
	if !s.Valid(id) {
		return nil
	}
	return s.children[id]
}

// Find returns the first bone added with the given name.
func (s *Skeleton) Find(name string) (BoneID, bool) {
	id, ok := s.byName[name]
	if !ok {
		return NoBone, false
	}
	return id, true
}

// FindChild looks for a direct child of parent with the given name.
func (s *Skeleton) FindChild(parent BoneID, name string) (BoneID, bool) {
	if !s.Valid(parent) {
		return NoBone, false
	}
	for _, c := range s.children[parent] {
		if s.bones[c].Name == name {
			return c, true
		}
	}
	return NoBone, false
}

// IsAncestor reports whether ancestor is somewhere above id in the hierarchy.
func (s *Skeleton) IsAncestor(ancestor, id BoneID) bool {
	for p := s.Parent(id); p != NoBone; p = s.Parent(p) {
		if p == ancestor {
			return true
		}
	}
	return false
}

func (s *Skeleton) LocalPose(id BoneID) math.Pose {
	if !s.Valid(id) {
		return math.NewPoseIdentity()
	}
	return s.bones[id].Local
}

func (s *Skeleton) SetLocalPose(id BoneID, pose math.Pose) {
	if !s.Valid(id) {
		return
	}
	s.bones[id].Local = pose
}

func (s *Skeleton) SetLocalPosition(id BoneID, position math.Vec3) {
	if !s.Valid(id) {
		return
	}
	s.bones[id].Local.Position = position
}

func (s *Skeleton) SetLocalRotation(id BoneID, rotation math.Quat) {
	if !s.Valid(id) {
		return
	}
	s.bones[id].Local.Rotation = rotation
}

// WorldPose resolves the bone's pose through its parent chain. Missing bones
// resolve to the identity.
func (s *Skeleton) WorldPose(id BoneID) math.Pose {
	if !s.Valid(id) {
		return math.NewPoseIdentity()
	}
	pose := s.bones[id].Local
	for p := s.bones[id].Parent; p != NoBone; p = s.bones[p].Parent {
		pose = pose.FromSpace(s.bones[p].Local)
	}
	return pose
}

func (s *Skeleton) Position(id BoneID) math.Vec3 {
	return s.WorldPose(id).Position
}

func (s *Skeleton) Rotation(id BoneID) math.Quat {
	return s.WorldPose(id).Rotation
}

// SetWorldPose moves the bone so it ends at the given world pose. Children
// keep their local pose and follow.
func (s *Skeleton) SetWorldPose(id BoneID, pose math.Pose) {
	if !s.Valid(id) {
		return
	}
	parent := s.bones[id].Parent
	if parent == NoBone {
		s.bones[id].Local = pose
		return
	}
	s.bones[id].Local = pose.ToSpace(s.WorldPose(parent))
}

func (s *Skeleton) SetPosition(id BoneID, position math.Vec3) {
	pose := s.WorldPose(id)
	pose.Position = position
	s.SetWorldPose(id, pose)
}

func (s *Skeleton) SetRotation(id BoneID, rotation math.Quat) {
	pose := s.WorldPose(id)
	pose.Rotation = rotation
	s.SetWorldPose(id, pose)
}

// TransformPoint takes a point from the bone's space into world space.
func (s *Skeleton) TransformPoint(id BoneID, point math.Vec3) math.Vec3 {
	return s.WorldPose(id).TransformPoint(point)
}

// InverseTransformPoint takes a world point into the bone's space.
func (s *Skeleton) InverseTransformPoint(id BoneID, point math.Vec3) math.Vec3 {
	return s.WorldPose(id).InverseTransformPoint(point)
}

// SetParent re-parents a bone. With keepWorld the bone stays where it is in
// world space, otherwise its local pose is kept.
func (s *Skeleton) SetParent(id, parent BoneID, keepWorld bool) {
	if !s.Valid(id) || id == parent || s.IsAncestor(id, parent) {
		return
	}
	world := s.WorldPose(id)
	old := s.bones[id].Parent
	if old != NoBone {
		siblings := s.children[old]
		for i, c := range siblings {
			if c == id {
				s.children[old] = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	if !s.Valid(parent) {
		parent = NoBone
	}
	s.bones[id].Parent = parent
	if parent != NoBone {
		s.children[parent] = append(s.children[parent], id)
	}
	if keepWorld {
		s.SetWorldPose(id, world)
	}
}

// RotateInBoneSpace rotates bone by rotation expressed in the space of parent,
// blended by alpha.
func (s *Skeleton) RotateInBoneSpace(parent math.Quat, bone BoneID, rotation math.Quat, alpha float32) {
	if !s.Valid(bone) {
		return
	}
	current := s.Rotation(bone)
	outRot := rotation.Mul(parent.Inverse().Mul(current))
	s.SetRotation(bone, math.Slerp(current, parent.Mul(outRot), alpha))
}

// MoveInBoneSpace translates bone by offset expressed in the space of parent,
// scaled by alpha.
func (s *Skeleton) MoveInBoneSpace(parent BoneID, bone BoneID, offset math.Vec3, alpha float32) {
	if !s.Valid(bone) {
		return
	}
	finalOffset := math.MoveInBoneSpace(s.Rotation(parent), offset)
	s.SetPosition(bone, s.Position(bone).Add(finalOffset.Mul(alpha)))
}

// Snapshot copies every local pose.
func (s *Skeleton) Snapshot() []math.Pose {
	poses := make([]math.Pose, len(s.bones))
	for i := range s.bones {
		poses[i] = s.bones[i].Local
	}
	return poses
}

// Restore writes back local poses taken with Snapshot. Bones added after the
// snapshot are left alone.
func (s *Skeleton) Restore(poses []math.Pose) {
	n := len(poses)
	if n > len(s.bones) {
		n = len(s.bones)
	}
	for i := 0; i < n; i++ {
		s.bones[i].Local = poses[i]
	}
}
