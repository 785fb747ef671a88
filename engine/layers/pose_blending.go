package layers

import (
	"github.com/spaghettifunk/fpsanim/engine/animator"
	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/rig"
)

/**
 * @brief A set of bones pulled back toward their sampled pose. Rotations are
 * kept relative to the pelvis and the spine root, so the bones follow the
 * body while holding the pose they had when it was sampled.
 */
type PoseBlend struct {
	// Base controller float weighting this blend; empty means always on.
	CurveName string
	Bones     []string

	bones     []rig.BoneID
	basePose  []math.Quat
	cachePose []math.Quat
	sampled   bool
}

func (p *PoseBlend) initialize(s *rig.Skeleton) {
	p.bones = p.bones[:0]
	for _, name := range p.Bones {
		id, ok := s.Find(name)
		if !ok {
			core.LogWarnOnce("poseblend.bone."+name, "pose blending: %v: %s", core.ErrBoneNotFound, name)
			continue
		}
		p.bones = append(p.bones, id)
	}
	p.sampled = false
	p.basePose = make([]math.Quat, len(p.bones))
	p.cachePose = make([]math.Quat, len(p.bones))
	for i := range p.bones {
		p.basePose[i] = math.NewQuatIdentity()
		p.cachePose[i] = math.NewQuatIdentity()
	}
}

// updateBasePose stores the sampled rotations in the space of the body; the
// previous ones become the blend source.
func (p *PoseBlend) updateBasePose(s *rig.Skeleton, space math.Quat) {
	inv := space.Inverse()
	for i, bone := range p.bones {
		p.basePose[i], p.cachePose[i] = inv.Mul(s.Rotation(bone)), p.basePose[i]
		if !p.sampled {
			p.cachePose[i] = p.basePose[i]
		}
	}
	p.sampled = true
}

func (p *PoseBlend) blend(s *rig.Skeleton, space math.Quat, weight, progress float32) {
	if !p.sampled {
		return
	}
	for i, bone := range p.bones {
		base := math.Slerp(p.cachePose[i], p.basePose[i], progress)
		s.SetRotation(bone, math.Slerp(s.Rotation(bone), space.Mul(base), weight))
	}
}

// PoseBlending blends bones in mesh space toward the sampled pose, undoing
// what the layers before it and the locomotion did to them.
type PoseBlending struct {
	BaseLayer

	PoseBlends []*PoseBlend

	blendAlpha float32
	spineRoot  math.Quat
}

func NewPoseBlending() *PoseBlending {
	return &PoseBlending{BaseLayer: NewBaseLayer()}
}

func (l *PoseBlending) InitializeLayer(c animator.Core) {
	l.BaseLayer.InitializeLayer(c)
	l.blendAlpha = 1
	for _, p := range l.PoseBlends {
		if p != nil {
			p.initialize(l.skeleton())
		}
	}
	l.spineRoot = l.skeleton().LocalPose(l.rigData().SpineRoot).Rotation
}

// PreUpdateLayer fades the layer out with the base controller curve unless a
// slot animation brings it back with its Overlay curve.
func (l *PoseBlending) PreUpdateLayer(deltaTime float32) {
	if l.core == nil {
		return
	}
	target := 1 - math.Clamp01(l.animatorFloat(l.CurveName))
	target = math.Lerp(target, 1, l.curveValue(graph.CurveOverlay))
	l.blendAlpha = math.InterpLayer(l.blendAlpha, target, l.LerpSpeed, deltaTime)
	l.smoothLayerAlpha = l.blendAlpha * l.LayerAlpha

	l.spineRoot = l.skeleton().LocalPose(l.rigData().SpineRoot).Rotation
}

func (l *PoseBlending) space() math.Quat {
	s := l.skeleton()
	return s.Rotation(l.pelvis()).Mul(l.spineRoot)
}

func (l *PoseBlending) UpdateLayer(deltaTime float32) {
	s := l.skeleton()
	progress := l.animGraph().GetPoseProgress()
	space := l.space()

	for _, p := range l.PoseBlends {
		if p == nil {
			continue
		}
		curveBlend := float32(1)
		if p.CurveName != "" {
			curveBlend = l.animatorFloat(p.CurveName)
		}
		if math.Approximately(curveBlend, 0) {
			continue
		}
		p.blend(s, space, l.smoothLayerAlpha*curveBlend, progress)
	}
}

func (l *PoseBlending) OnPoseSampled() {
	if l.core == nil {
		return
	}
	s := l.skeleton()
	space := s.Rotation(l.pelvis()).Mul(s.LocalPose(l.rigData().SpineRoot).Rotation)
	for _, p := range l.PoseBlends {
		if p != nil {
			p.updateBasePose(s, space)
		}
	}
}
