package layers

import (
	"github.com/spaghettifunk/fpsanim/engine/animator"
	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/rig"
)

type boneRef struct {
	bone     rig.BoneID
	rotation math.Quat
}

/**
 * @brief Keeps the left hand on the weapon. The hand pose is captured relative
 * to the weapon pivot when a pose is sampled and replayed relative to the
 * master pivot, so the hand follows every procedural offset of the weapon.
 * The fingers of the mask can be locked to their sampled local rotations.
 */
type LeftHandIKLayer struct {
	BaseLayer

	// Slot curve masking the hand override out.
	MaskCurveName string
	LeftHandMask  *graph.AvatarMask
	// Locks the finger chain to the sampled pose.
	UsePoseOverride bool
	// Reads the left hand target of the weapon every frame instead of only
	// when a pose is sampled.
	ForceLeftHandUpdate bool

	leftHandPose      math.Pose
	leftHandPoseCache math.Pose
	leftHandChain     []boneRef
	handAlpha         float32
	sampled           bool
}

func NewLeftHandIKLayer() *LeftHandIKLayer {
	return &LeftHandIKLayer{
		BaseLayer:           NewBaseLayer(),
		UsePoseOverride:     true,
		ForceLeftHandUpdate: true,
		leftHandPose:        math.NewPoseIdentity(),
		leftHandPoseCache:   math.NewPoseIdentity(),
	}
}

func (l *LeftHandIKLayer) InitializeLayer(c animator.Core) {
	l.BaseLayer.InitializeLayer(c)
	l.handAlpha = l.smoothLayerAlpha
	if l.LeftHandMask == nil {
		core.LogWarnOnce("lefthand.mask", "left hand IK layer: no mask for the left hand assigned")
		return
	}

	s := l.skeleton()
	hand := l.leftHandIK().Target
	l.leftHandChain = l.leftHandChain[:0]
	for _, name := range l.LeftHandMask.Bones() {
		id, ok := s.Find(name)
		// The mask root is the hand itself, driven by IK.
		if !ok || id == hand {
			continue
		}
		l.leftHandChain = append(l.leftHandChain, boneRef{bone: id, rotation: math.NewQuatIdentity()})
	}
}

// weaponPivot is the pivot point of the weapon computed from the weapon bone,
// before any layer moved the master IK.
func (l *LeftHandIKLayer) weaponPivot() math.Pose {
	s := l.skeleton()
	rotOffset := math.NewQuatIdentity()
	if asset := l.gunAsset(); asset != nil {
		rotOffset = asset.RotationOffset
	}
	pivot := s.WorldPose(l.rigData().WeaponBone)
	pivot.Rotation = pivot.Rotation.Mul(rotOffset)

	local := l.pivotLocal()
	pivot.Position = pivot.Position.Add(pivot.Rotation.Rotate(local.Position))
	pivot.Rotation = pivot.Rotation.Mul(local.Rotation)
	return pivot
}

func (l *LeftHandIKLayer) handTarget() rig.BoneID {
	return l.core.WeaponTransforms().LeftHandTarget
}

func (l *LeftHandIKLayer) OnPoseSampled() {
	if l.core == nil {
		return
	}
	s := l.skeleton()
	l.leftHandPoseCache = l.leftHandPose

	if s.Valid(l.handTarget()) {
		l.leftHandPose = s.WorldPose(l.handTarget()).ToSpace(l.pivotWorld())
	} else {
		l.leftHandPose = s.WorldPose(l.leftHandIK().Target).ToSpace(l.weaponPivot())
	}
	if !l.sampled {
		l.leftHandPoseCache = l.leftHandPose
		l.sampled = true
	}

	if !l.UsePoseOverride {
		return
	}
	for i := range l.leftHandChain {
		l.leftHandChain[i].rotation = s.LocalPose(l.leftHandChain[i].bone).Rotation
	}
}

func (l *LeftHandIKLayer) overrideLeftHand(weight float32) {
	weight = math.Clamp01(weight)
	if math.Approximately(weight, 0) {
		return
	}
	s := l.skeleton()
	for _, b := range l.leftHandChain {
		local := s.LocalPose(b.bone).Rotation
		s.SetLocalRotation(b.bone, math.Slerp(local, b.rotation, weight))
	}
}

func (l *LeftHandIKLayer) PreUpdateLayer(deltaTime float32) {
	l.BaseLayer.PreUpdateLayer(deltaTime)
	if l.core == nil {
		return
	}
	l.handAlpha = l.smoothLayerAlpha * (1 - l.curveValue(l.MaskCurveName))
}

func (l *LeftHandIKLayer) UpdateLayer(deltaTime float32) {
	if !l.sampled {
		return
	}
	s := l.skeleton()
	if l.ForceLeftHandUpdate && s.Valid(l.handTarget()) {
		l.leftHandPose = s.WorldPose(l.handTarget()).ToSpace(l.pivotWorld())
	}
	if l.UsePoseOverride {
		l.overrideLeftHand(l.handAlpha)
	}

	progress := l.animGraph().GetPoseProgress()
	blended := math.PoseLerp(l.leftHandPoseCache, l.leftHandPose, progress)
	blended = blended.FromSpace(s.WorldPose(l.masterPivot()))
	l.leftHandIK().OverridePose(s, rig.NoBone, blended, l.handAlpha)
}
