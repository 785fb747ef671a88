package layers

import (
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
)

/**
 * @brief Hands the upper body between the locomotion and the overlay pose and
 * applies the IK poses (sprint, prone) and the additive IK curves to the
 * weapon.
 *
 * The applied layer weight is how much the base locomotion owns the upper
 * body: the graph weight becomes 1 - weight * (1 - Overlay), so the Overlay
 * curve of a slot animation brings the overlay back.
 */
type LocomotionLayer struct {
	BaseLayer

	// Speed the additive weapon bone is followed with. Zero snaps.
	IKInterpolation float32

	ikAdditive   math.Pose
	ikPose       *resources.IKPose
	outIKPose    math.Pose
	cachedIKPose math.Pose
	playback     float32
	blendSpeed   float32
	graphWeight  float32
}

func NewLocomotionLayer() *LocomotionLayer {
	return &LocomotionLayer{
		BaseLayer:    NewBaseLayer(),
		ikAdditive:   math.NewPoseIdentity(),
		outIKPose:    math.NewPoseIdentity(),
		cachedIKPose: math.NewPoseIdentity(),
		playback:     1,
	}
}

func (l *LocomotionLayer) PreUpdateLayer(deltaTime float32) {
	l.BaseLayer.PreUpdateLayer(deltaTime)
	if l.core == nil {
		return
	}
	l.graphWeight = 1 - l.smoothLayerAlpha*(1-l.curveValue(graph.CurveOverlay))
	l.animGraph().SetGraphWeight(l.graphWeight)
	l.rigData().WeaponBoneWeight = l.curveValue(graph.CurveWeaponBone)
}

// GraphWeight is the overlay weight written to the graph this frame.
func (l *LocomotionLayer) GraphWeight() float32 {
	return l.graphWeight
}

// BlendInIkPose starts a crossfade from the current IK pose to pose.
func (l *LocomotionLayer) BlendInIkPose(pose *resources.IKPose) {
	if pose == nil {
		return
	}
	l.ikPose = pose
	l.blendSpeed = pose.BlendInSpeed
	l.cachedIKPose = l.outIKPose
	l.playback = 0
}

// BlendOutIkPose fades the IK pose out with its own blend out speed, or
// blendOutSpeed when no pose is active.
func (l *LocomotionLayer) BlendOutIkPose(blendOutSpeed float32) {
	l.blendSpeed = blendOutSpeed
	if l.ikPose != nil {
		l.blendSpeed = l.ikPose.BlendOutSpeed
	}
	l.ikPose = nil
	l.cachedIKPose = l.outIKPose
	l.playback = 0
}

func (l *LocomotionLayer) IKPose() math.Pose {
	return l.outIKPose
}

func (l *LocomotionLayer) updateIKPose(deltaTime float32) {
	l.playback = math.InterpLayer(l.playback, 1, l.blendSpeed, deltaTime)
	target := math.NewPoseIdentity()
	if l.ikPose != nil {
		target = l.ikPose.Pose
	}
	l.outIKPose = math.PoseLerp(l.cachedIKPose, target, l.playback)
}

func (l *LocomotionLayer) updateIKAdditive(deltaTime float32) {
	s := l.skeleton()
	additive := l.rigData().WeaponBoneAdditive
	if !s.Valid(additive) {
		return
	}

	alpha := float32(1)
	if !math.Approximately(l.IKInterpolation, 0) {
		alpha = math.ExpDecay(l.IKInterpolation, deltaTime)
	}
	l.ikAdditive = math.PoseLerp(l.ikAdditive, s.LocalPose(additive), alpha)

	offset := l.curveVec3(graph.CurveIKLeftHandX, graph.CurveIKLeftHandY, graph.CurveIKLeftHandZ)
	offsetPosition(s, l.leftHandIK(), l.masterPivot(), offset, 1)

	offset = l.curveVec3(graph.CurveIKX, graph.CurveIKY, graph.CurveIKZ)
	offsetPosition(s, l.masterIK(), l.rootBone(), offset, 1)
}

func (l *LocomotionLayer) UpdateLayer(deltaTime float32) {
	l.updateIKPose(deltaTime)
	l.updateIKAdditive(deltaTime)

	s := l.skeleton()
	position := l.outIKPose.Position.Add(l.ikAdditive.Position)
	rotation := l.outIKPose.Rotation.Mul(l.ikAdditive.Rotation)
	offsetPosition(s, l.masterIK(), l.rootBone(), position, l.LayerAlpha)
	offsetRotation(s, l.masterIK(), l.rootBone(), rotation, l.LayerAlpha)
}
