package layers

import (
	"github.com/spaghettifunk/fpsanim/engine/animator"
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
	"github.com/spaghettifunk/fpsanim/engine/rig"
)

/**
 * @brief Common state of every layer: the designer weight and the smoothed
 * weight the layer is actually applied with. Embed it and override the hooks
 * the layer needs.
 */
type BaseLayer struct {
	/** @brief Target weight of the layer in [0, 1]. */
	LayerAlpha float32
	/** @brief Speed the applied weight follows LayerAlpha with. Zero snaps. */
	LerpSpeed float32
	/** @brief Base controller float masking the layer out, 1 masks it fully. */
	CurveName string

	elbowsWeight     float32
	smoothLayerAlpha float32
	core             animator.Core
}

func NewBaseLayer() BaseLayer {
	return BaseLayer{LayerAlpha: 1}
}

func (l *BaseLayer) InitializeLayer(core animator.Core) {
	l.core = core
	l.smoothLayerAlpha = l.LayerAlpha
}

/**
 * @brief Moves the applied weight toward LayerAlpha scaled down by the mask
 * curve of the base controller.
 */
func (l *BaseLayer) PreUpdateLayer(deltaTime float32) {
	if l.core == nil {
		return
	}
	target := l.LayerAlpha * (1 - math.Clamp01(l.animatorFloat(l.CurveName)))
	l.smoothLayerAlpha = math.InterpLayer(l.smoothLayerAlpha, target, l.LerpSpeed, deltaTime)
}

func (l *BaseLayer) UpdateLayer(deltaTime float32) {}

func (l *BaseLayer) OnPoseSampled() {}

// CanUpdate stays true while the layer is fading out.
func (l *BaseLayer) CanUpdate() bool {
	return l.core != nil && (l.LayerAlpha > 0 || !math.Approximately(l.smoothLayerAlpha, 0))
}

func (l *BaseLayer) ElbowsWeight() float32 {
	return l.elbowsWeight
}

func (l *BaseLayer) SetLayerAlpha(alpha float32) {
	l.LayerAlpha = math.Clamp01(alpha)
}

func (l *BaseLayer) SmoothLayerAlpha() float32 {
	return l.smoothLayerAlpha
}

func (l *BaseLayer) rigData() *rig.RigData {
	return l.core.RigData()
}

func (l *BaseLayer) skeleton() *rig.Skeleton {
	return l.core.RigData().Skeleton
}

func (l *BaseLayer) animGraph() *graph.CoreAnimGraph {
	return l.core.Graph()
}

func (l *BaseLayer) charData() *animator.CharAnimData {
	return l.core.CharData()
}

func (l *BaseLayer) gunAsset() *resources.WeaponAnimAsset {
	return l.core.WeaponAsset()
}

func (l *BaseLayer) rootBone() rig.BoneID {
	return l.core.RigData().RootBone
}

func (l *BaseLayer) pelvis() rig.BoneID {
	return l.core.RigData().Pelvis
}

func (l *BaseLayer) masterIK() *rig.DynamicBone {
	return &l.core.RigData().MasterDynamic
}

// masterPivot is the bone the weapon pivots around once the pivot offset is
// applied.
func (l *BaseLayer) masterPivot() rig.BoneID {
	return l.core.RigData().MasterDynamic.Obj
}

func (l *BaseLayer) rightHandIK() *rig.DynamicBone {
	return &l.core.RigData().RightHand
}

func (l *BaseLayer) leftHandIK() *rig.DynamicBone {
	return &l.core.RigData().LeftHand
}

func (l *BaseLayer) pivotPoint() rig.BoneID {
	return l.core.WeaponTransforms().PivotPoint
}

func (l *BaseLayer) aimPoint() rig.BoneID {
	return l.core.WeaponTransforms().AimPoint
}

// pivotLocal is the pivot point relative to the weapon bone, identity when
// the weapon has no pivot.
func (l *BaseLayer) pivotLocal() math.Pose {
	s := l.skeleton()
	if !s.Valid(l.pivotPoint()) {
		return math.NewPoseIdentity()
	}
	return s.LocalPose(l.pivotPoint())
}

// pivotWorld falls back to the master pivot when the weapon has no pivot.
func (l *BaseLayer) pivotWorld() math.Pose {
	s := l.skeleton()
	if !s.Valid(l.pivotPoint()) {
		return s.WorldPose(l.masterPivot())
	}
	return s.WorldPose(l.pivotPoint())
}

func (l *BaseLayer) curveValue(name string) float32 {
	if name == "" {
		return 0
	}
	return l.core.Graph().GetCurveValue(name)
}

func (l *BaseLayer) animatorFloat(name string) float32 {
	return l.core.Graph().GetFloat(name)
}

func (l *BaseLayer) curveVec3(x, y, z string) math.Vec3 {
	return math.NewVec3(l.curveValue(x), l.curveValue(y), l.curveValue(z))
}

// offsetPosition and offsetRotation move the IK object in the space of bone.
func offsetPosition(s *rig.Skeleton, ik *rig.DynamicBone, space rig.BoneID, offset math.Vec3, alpha float32) {
	ik.OffsetPosition(s, space, offset, alpha)
}

func offsetRotation(s *rig.Skeleton, ik *rig.DynamicBone, space rig.BoneID, rotation math.Quat, alpha float32) {
	ik.OffsetRotation(s, s.Rotation(space), rotation, alpha)
}
