package layers

import (
	"github.com/spaghettifunk/fpsanim/engine/animator"
	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/rig"
)

// AimTargetName is the bone the sights are aligned to when AdsLayer.AimTarget
// is not set.
const AimTargetName = "AimTarget"

/**
 * @brief Aim down sights. Aligns the aim point of the weapon with the aim
 * target in front of the eyes, blending per axis between an absolute
 * alignment and an additive one computed from the sampled pose. Also applies
 * point aiming, the crouch pose and the view offset of the weapon.
 */
type AdsLayer struct {
	BaseLayer

	AdsEaseMode      math.EaseMode
	PointAimEaseMode math.EaseMode
	AimTarget        rig.BoneID
	CrouchPose       math.Pose
	// Base controller float driving the crouch pose.
	CrouchPoseCurve string

	ads              bool
	adsProgress      float32
	pointAim         bool
	pointAimProgress float32
	adsWeight        float32
	pointAimWeight   float32

	interpAimPoint  math.Pose
	targetAimPoint  math.Pose
	viewOffsetCache math.Pose
	additiveAds     math.Pose
	absoluteAds     math.Pose
}

func NewAdsLayer() *AdsLayer {
	return &AdsLayer{
		BaseLayer:        NewBaseLayer(),
		AdsEaseMode:      math.EaseInOutSine,
		PointAimEaseMode: math.EaseInOutSine,
		AimTarget:        rig.NoBone,
		CrouchPose:       math.NewPoseIdentity(),
		interpAimPoint:   math.NewPoseIdentity(),
		targetAimPoint:   math.NewPoseIdentity(),
		viewOffsetCache:  math.NewPoseIdentity(),
		additiveAds:      math.NewPoseIdentity(),
		absoluteAds:      math.NewPoseIdentity(),
	}
}

func (l *AdsLayer) InitializeLayer(c animator.Core) {
	l.BaseLayer.InitializeLayer(c)
	if l.skeleton().Valid(l.AimTarget) {
		return
	}
	if id, ok := l.skeleton().Find(AimTargetName); ok {
		l.AimTarget = id
		return
	}
	core.LogWarnOnce("ads.aimtarget", "ads layer: %v: %s, sights will not be aligned", core.ErrBoneNotFound, AimTargetName)
}

func (l *AdsLayer) SetAds(aiming bool) {
	l.ads = aiming
	l.UpdateAimPoint()
	if l.ads {
		l.interpAimPoint = l.targetAimPoint
	}
}

func (l *AdsLayer) SetPointAim(aiming bool) {
	l.pointAim = aiming
}

// UpdateAimPoint retargets the sights, e.g. after the sight changed.
func (l *AdsLayer) UpdateAimPoint() {
	l.targetAimPoint = l.adsOffset()
}

func (l *AdsLayer) IsAiming() bool {
	return l.ads
}

// AdsProgress is the linear aim progress in [0, 1] before easing.
func (l *AdsLayer) AdsProgress() float32 {
	return l.adsProgress
}

func (l *AdsLayer) PointAimProgress() float32 {
	return l.pointAimProgress
}

func (l *AdsLayer) canAlign() bool {
	s := l.skeleton()
	return s.Valid(l.aimPoint()) && s.Valid(l.AimTarget)
}

// OnPoseSampled computes the additive aim offset: the delta between the hip
// pivot of the sampled pose and the same pivot snapped to the aim target.
func (l *AdsLayer) OnPoseSampled() {
	asset := l.gunAsset()
	if asset == nil || l.core == nil {
		return
	}
	l.viewOffsetCache = asset.ViewOffset
	if !l.skeleton().Valid(l.AimTarget) {
		return
	}

	s := l.skeleton()
	pivot := l.masterPivot()
	root := l.rootBone()

	weaponBone := s.WorldPose(l.rigData().WeaponBone)
	weaponBone.Rotation = weaponBone.Rotation.Mul(asset.RotationOffset)
	s.SetWorldPose(pivot, weaponBone)

	local := l.pivotLocal()
	l.masterIK().OffsetLocalPosition(s, local.Position, 1)
	l.masterIK().OffsetLocalRotation(s, local.Rotation, 1)
	masterCache := s.WorldPose(pivot)

	s.SetWorldPose(pivot, math.NewPose(s.Position(l.AimTarget), s.Rotation(root)))

	rootPose := s.WorldPose(root)
	masterMS := s.WorldPose(pivot).ToSpace(rootPose)
	pivotMS := masterCache.ToSpace(rootPose)
	l.additiveAds.Position = masterMS.Position.Sub(pivotMS.Position)
	l.additiveAds.Rotation = pivotMS.Rotation.Inverse().Mul(masterMS.Rotation)

	s.SetWorldPose(pivot, masterCache)
}

func (l *AdsLayer) UpdateLayer(deltaTime float32) {
	if l.gunAsset() == nil {
		return
	}
	if !l.canAlign() {
		l.offsetViewModel(1)
		return
	}
	l.updateAimWeights(deltaTime)
	l.applyCrouchPose()
	l.applyPointAiming()
	l.applyAiming(deltaTime)
}

func (l *AdsLayer) updateAimWeights(deltaTime float32) {
	adsData := l.gunAsset().AdsData

	l.adsWeight = math.Ease(0, 1, l.adsProgress, l.AdsEaseMode)
	l.pointAimWeight = math.Ease(0, 1, l.pointAimProgress, l.PointAimEaseMode)

	l.adsProgress += deltaTime * signed(adsData.AimSpeed, l.ads)
	l.pointAimProgress += deltaTime * signed(adsData.PointAimSpeed, l.pointAim)
	l.adsProgress = math.Clamp01(l.adsProgress)
	l.pointAimProgress = math.Clamp01(l.pointAimProgress)

	l.rigData().AimWeight = l.adsWeight
}

func signed(rate float32, positive bool) float32 {
	if positive {
		return rate
	}
	return -rate
}

// adsOffset is the aim point in pivot space, inverted.
func (l *AdsLayer) adsOffset() math.Pose {
	offset := math.NewPoseIdentity()
	if l.core == nil || !l.skeleton().Valid(l.aimPoint()) {
		return offset
	}
	s := l.skeleton()
	pivot := l.pivotWorld()
	offset.Rotation = pivot.Rotation.Inverse().Mul(s.Rotation(l.aimPoint()))
	offset.Position = pivot.InverseTransformPoint(s.Position(l.aimPoint())).Mul(-1)
	return offset
}

func (l *AdsLayer) alignSights(weight float32) {
	if math.Approximately(weight, 0) {
		return
	}
	s := l.skeleton()
	root := l.rootBone()
	adsData := l.gunAsset().AdsData

	l.absoluteAds = l.computeAbsoluteOffset()

	posBlend := adsData.AdsTranslationBlend
	rotBlend := adsData.AdsRotationBlend

	position := math.NewVec3(
		math.Lerp(l.absoluteAds.Position[0], l.additiveAds.Position[0], posBlend.X),
		math.Lerp(l.absoluteAds.Position[1], l.additiveAds.Position[1], posBlend.Y),
		math.Lerp(l.absoluteAds.Position[2], l.additiveAds.Position[2], posBlend.Z),
	)

	eulerAbsolute := math.ToEuler(l.absoluteAds.Rotation)
	eulerAdditive := math.ToEuler(l.additiveAds.Rotation)
	eulerAbsolute[0] = math.Lerp(eulerAbsolute[0], eulerAdditive[0], rotBlend.X)
	eulerAbsolute[1] = math.Lerp(eulerAbsolute[1], eulerAdditive[1], rotBlend.Y)
	eulerAbsolute[2] = math.Lerp(eulerAbsolute[2], eulerAdditive[2], rotBlend.Z)
	rotation := math.QuatFromEulerVec(eulerAbsolute)

	offsetRotation(s, l.masterIK(), root, rotation, weight)
	offsetPosition(s, l.masterIK(), root, position, weight)

	offsetPosition(s, l.masterIK(), root, l.interpAimPoint.Rotation.Rotate(l.interpAimPoint.Position), weight)
	offsetRotation(s, l.masterIK(), root, l.interpAimPoint.Rotation, weight)
}

func (l *AdsLayer) applyAiming(deltaTime float32) {
	l.interpAimPoint = math.InterpPose(l.interpAimPoint, l.targetAimPoint, l.gunAsset().AdsData.ChangeSightSpeed, deltaTime)
	aimWeight := math.Clamp01(l.adsWeight - l.pointAimWeight)
	l.offsetViewModel(1 - aimWeight)
	l.alignSights(aimWeight)
}

func (l *AdsLayer) applyCrouchPose() {
	alpha := l.animatorFloat(l.CrouchPoseCurve) * (1 - l.adsWeight)
	if math.Approximately(alpha, 0) {
		return
	}
	s := l.skeleton()
	offsetPosition(s, l.masterIK(), l.rootBone(), l.CrouchPose.Position, alpha)
	offsetRotation(s, l.masterIK(), l.rootBone(), l.CrouchPose.Rotation, alpha)
}

func (l *AdsLayer) applyPointAiming() {
	if math.Approximately(l.pointAimWeight, 0) {
		return
	}
	s := l.skeleton()
	offset := l.gunAsset().AdsData.PointAimOffset
	offsetPosition(s, l.masterIK(), l.rootBone(), offset.Position, l.pointAimWeight)
	offsetRotation(s, l.masterIK(), l.rootBone(), offset.Rotation, l.pointAimWeight)
}

// offsetViewModel applies the view offset of the weapon, crossfaded from the
// previous weapon by the pose progress.
func (l *AdsLayer) offsetViewModel(weight float32) {
	if math.Approximately(weight, 0) {
		return
	}
	s := l.skeleton()
	progress := l.animGraph().GetPoseProgress()
	viewOffset := math.PoseLerp(l.viewOffsetCache, l.gunAsset().ViewOffset, progress)
	offsetPosition(s, l.masterIK(), l.rootBone(), viewOffset.Position, weight)
	offsetRotation(s, l.masterIK(), l.rootBone(), viewOffset.Rotation, weight)
}

// computeAbsoluteOffset moves the pivot onto the aim target and cancels its
// rotation in root space, ignoring the animation.
func (l *AdsLayer) computeAbsoluteOffset() math.Pose {
	s := l.skeleton()
	rootPose := s.WorldPose(l.rootBone())
	pivotMS := s.WorldPose(l.masterPivot()).ToSpace(rootPose)

	return math.NewPose(
		rootPose.InverseTransformPoint(s.Position(l.AimTarget)).Sub(pivotMS.Position),
		pivotMS.Rotation.Inverse(),
	)
}
