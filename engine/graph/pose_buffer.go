package graph

import (
	"github.com/spaghettifunk/fpsanim/engine/math"
)

// PoseBuffer holds bone local poses keyed by bone name plus the curve values
// sampled alongside them. A bone missing from Poses is not animated.
type PoseBuffer struct {
	Poses  map[string]math.Pose
	Curves map[string]float32
}

func NewPoseBuffer() *PoseBuffer {
	return &PoseBuffer{
		Poses:  make(map[string]math.Pose),
		Curves: make(map[string]float32),
	}
}

// Reset empties the buffer, keeping the allocated maps.
func (b *PoseBuffer) Reset() {
	for k := range b.Poses {
		delete(b.Poses, k)
	}
	for k := range b.Curves {
		delete(b.Curves, k)
	}
}

func (b *PoseBuffer) Set(bone string, pose math.Pose) {
	b.Poses[bone] = pose
}

func (b *PoseBuffer) Get(bone string) (math.Pose, bool) {
	p, ok := b.Poses[bone]
	return p, ok
}

func (b *PoseBuffer) SetCurve(name string, value float32) {
	b.Curves[name] = value
}

// Curve returns the curve value, 0 when the curve was not sampled.
func (b *PoseBuffer) Curve(name string) float32 {
	return b.Curves[name]
}

// CopyFrom replaces the content of b with the content of other.
func (b *PoseBuffer) CopyFrom(other *PoseBuffer) {
	b.Reset()
	if other == nil {
		return
	}
	for k, v := range other.Poses {
		b.Poses[k] = v
	}
	for k, v := range other.Curves {
		b.Curves[k] = v
	}
}

// BlendOverride blends the animated bones of src into b by weight. Bones
// outside the mask are left untouched; a nil mask lets everything through.
// Bones b does not animate yet are taken from src as they are.
func (b *PoseBuffer) BlendOverride(src *PoseBuffer, mask *AvatarMask, weight float32) {
	if weight <= 0 {
		return
	}
	for bone, pose := range src.Poses {
		if !mask.Has(bone) {
			continue
		}
		current, ok := b.Poses[bone]
		if !ok {
			b.Poses[bone] = pose
			continue
		}
		b.Poses[bone] = math.PoseLerp(current, pose, weight)
	}
}

// BlendAdditive adds the delta of src from its reference pose onto b.
func (b *PoseBuffer) BlendAdditive(src *PoseBuffer, reference *PoseBuffer, mask *AvatarMask, weight float32) {
	if weight <= 0 {
		return
	}
	for bone, pose := range src.Poses {
		if !mask.Has(bone) {
			continue
		}
		current, ok := b.Poses[bone]
		if !ok {
			continue
		}
		ref, ok := reference.Poses[bone]
		if !ok {
			ref = math.NewPoseIdentity()
		}
		deltaPos := pose.Position.Sub(ref.Position).Mul(weight)
		deltaRot := math.Slerp(math.NewQuatIdentity(), ref.Rotation.Inverse().Mul(pose.Rotation), weight)
		b.Poses[bone] = math.Pose{
			Position: current.Position.Add(deltaPos),
			Rotation: current.Rotation.Mul(deltaRot).Normalize(),
		}
	}
}

// BlendCurves accumulates the curves of src into b scaled by weight.
func (b *PoseBuffer) BlendCurves(src *PoseBuffer, weight float32) {
	for name, value := range src.Curves {
		b.Curves[name] = math.LerpUnclamped(b.Curves[name], value, weight)
	}
}
