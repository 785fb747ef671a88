package layers

import (
	"github.com/spaghettifunk/fpsanim/engine/animator"
	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
	"github.com/spaghettifunk/fpsanim/engine/rig"
)

// Total angle an aim offset chain distributes across its bones.
const aimOffsetBudget = 90

// AimOffsetBone is a spine bone and the share of the aim it takes, x for the
// negative direction and y for the positive one.
type AimOffsetBone struct {
	Bone     rig.BoneID
	MaxAngle math.Vec2
}

// AimOffset is the chain of bones rotated to look around.
type AimOffset struct {
	Bones []AimOffsetBone
	// Trailing bones ignored by the auto distribution.
	IndexOffset int

	angles []math.Vec2
}

// Init snapshots the current max angles, the reference the auto distribution
// detects edits against.
func (o *AimOffset) Init() {
	o.angles = o.angles[:0]
	for _, b := range o.Bones {
		o.angles = append(o.angles, b.MaxAngle)
	}
}

func (o *AimOffset) IsValid() bool {
	return o.Bones != nil && o.angles != nil
}

func (o *AimOffset) IsChanged() bool {
	return len(o.Bones) != len(o.angles)
}

// distribute keeps the chain summing to the aim budget: the bones after the
// first edited one share what is left of it evenly.
func (o *AimOffset) distribute() {
	count := len(o.Bones) - o.IndexOffset
	if count <= 0 {
		return
	}

	axis := func(get func(math.Vec2) float32, set func(*math.Vec2, float32)) {
		enable := false
		divider := 1
		var sum float32
		for i := 0; i < count; i++ {
			if enable {
				set(&o.Bones[i].MaxAngle, (aimOffsetBudget-sum)/float32(divider))
				continue
			}
			if !math.Approximately(get(o.Bones[i].MaxAngle), get(o.angles[i])) {
				divider = count - (i + 1)
				enable = true
				if divider <= 0 {
					divider = 1
				}
			}
			sum += get(o.Bones[i].MaxAngle)
		}
	}
	axis(func(v math.Vec2) float32 { return v[0] }, func(v *math.Vec2, f float32) { v[0] = f })
	axis(func(v math.Vec2) float32 { return v[1] }, func(v *math.Vec2, f float32) { v[1] = f })

	for i := 0; i < count; i++ {
		o.angles[i] = o.Bones[i].MaxAngle
	}
}

// LookLayer rotates the spine toward the aim input and leans the upper body.
// The aim is split across the spine bones by their max angles.
type LookLayer struct {
	BaseLayer

	PelvisLayerAlpha float32
	PelvisLerpSpeed  float32
	PelvisOffset     math.Vec3

	// When set the chains are built from the table instead of the designer
	// offsets below.
	AimOffsetTable  *resources.AimOffsetTable
	LookUpOffset    AimOffset
	LookRightOffset AimOffset

	AutoDistribution bool
	// Aim lag speed, zero disables the lag.
	SmoothAim float32

	LeanAmount float32
	// Share of the lean applied as a sideways pelvis shift.
	PelvisLean     float32
	LeanSpeed      float32
	UseRightOffset bool

	interpPelvis      float32
	targetUpOffset    AimOffset
	targetRightOffset AimOffset
	aimUp             float32
	aimRight          float32
	leanInput         float32
	lerpedAim         math.Vec2
}

func NewLookLayer() *LookLayer {
	return &LookLayer{
		BaseLayer:        NewBaseLayer(),
		PelvisLayerAlpha: 1,
		LeanAmount:       45,
		UseRightOffset:   true,
	}
}

func (l *LookLayer) InitializeLayer(c animator.Core) {
	l.BaseLayer.InitializeLayer(c)
	l.elbowsWeight = 1

	l.LookUpOffset.Init()
	l.LookRightOffset.Init()

	if l.AimOffsetTable == nil {
		l.targetUpOffset.Bones = append([]AimOffsetBone(nil), l.LookUpOffset.Bones...)
		l.targetRightOffset.Bones = append([]AimOffsetBone(nil), l.LookRightOffset.Bones...)
		return
	}

	l.targetUpOffset.Bones = l.resolve(l.AimOffsetTable.AimOffsetUp)
	l.targetRightOffset.Bones = l.resolve(l.AimOffsetTable.AimOffsetRight)
	l.LookUpOffset.Bones = append([]AimOffsetBone(nil), l.targetUpOffset.Bones...)
	l.LookRightOffset.Bones = append([]AimOffsetBone(nil), l.targetRightOffset.Bones...)
	l.LookUpOffset.Init()
	l.LookRightOffset.Init()
}

func (l *LookLayer) resolve(angles []resources.BoneAngle) []AimOffsetBone {
	bones := make([]AimOffsetBone, 0, len(angles))
	for _, a := range angles {
		id, ok := l.skeleton().Find(a.Bone)
		if !ok {
			core.LogWarnOnce("look.bone."+a.Bone, "look layer: %v: %s", core.ErrBoneNotFound, a.Bone)
			id = rig.NoBone
		}
		bones = append(bones, AimOffsetBone{Bone: id, MaxAngle: a.Angle})
	}
	return bones
}

/**
 * @brief Swaps the aim offset table. The angles of the previous table are
 * kept as the blend source and the switch follows the pose progress, so it
 * lands together with the new weapon pose.
 */
func (l *LookLayer) SetAimOffsetTable(table *resources.AimOffsetTable) {
	if table == nil || l.core == nil {
		return
	}
	alpha := l.animGraph().GetPoseProgress()
	cacheAngles(&l.LookUpOffset, &l.targetUpOffset, alpha)
	cacheAngles(&l.LookRightOffset, &l.targetRightOffset, alpha)

	l.AimOffsetTable = table
	l.targetUpOffset.Bones = l.resolve(table.AimOffsetUp)
	l.targetRightOffset.Bones = l.resolve(table.AimOffsetRight)
	matchLength(&l.LookUpOffset, &l.targetUpOffset)
	matchLength(&l.LookRightOffset, &l.targetRightOffset)
}

func cacheAngles(look, target *AimOffset, alpha float32) {
	for i := range target.Bones {
		if i >= len(look.Bones) {
			break
		}
		look.Bones[i].MaxAngle = math.Vec2Lerp(look.Bones[i].MaxAngle, target.Bones[i].MaxAngle, alpha)
	}
}

// matchLength resizes the cached chain to the new table. New bones start at
// their target angles.
func matchLength(look, target *AimOffset) {
	if len(look.Bones) > len(target.Bones) {
		look.Bones = look.Bones[:len(target.Bones)]
	}
	for i := len(look.Bones); i < len(target.Bones); i++ {
		look.Bones = append(look.Bones, target.Bones[i])
	}
	for i := range look.Bones {
		look.Bones[i].Bone = target.Bones[i].Bone
	}
	look.Init()
}

func (l *LookLayer) SetPelvisWeight(weight float32) {
	l.PelvisLayerAlpha = math.Clamp01(weight)
}

// Validate rebuilds the angle snapshots after the chains were edited and runs
// the auto distribution when enabled.
func (l *LookLayer) Validate() {
	if !l.LookUpOffset.IsValid() || l.LookUpOffset.IsChanged() {
		l.LookUpOffset.Init()
	}
	if !l.LookRightOffset.IsValid() || l.LookRightOffset.IsChanged() {
		l.LookRightOffset.Init()
	}
	if !l.AutoDistribution {
		return
	}
	if len(l.LookUpOffset.Bones) > 0 {
		l.LookUpOffset.distribute()
	}
	if len(l.LookRightOffset.Bones) > 0 {
		l.LookRightOffset.distribute()
	}
}

func (l *LookLayer) PreUpdateLayer(deltaTime float32) {
	l.BaseLayer.PreUpdateLayer(deltaTime)
	if l.core == nil {
		return
	}
	l.updateSpineBlending(deltaTime)
}

func (l *LookLayer) UpdateLayer(deltaTime float32) {
	l.rotateSpine()
}

func (l *LookLayer) updateSpineBlending(deltaTime float32) {
	l.interpPelvis = math.Interp(l.interpPelvis, l.PelvisLayerAlpha*l.smoothLayerAlpha, l.PelvisLerpSpeed, deltaTime)

	data := l.charData()
	l.aimUp = data.TotalAimInput[1]
	l.aimRight = data.TotalAimInput[0]
	if len(l.LookRightOffset.Bones) == 0 || !l.UseRightOffset {
		l.aimRight = 0
	}
	l.leanInput = math.Interp(l.leanInput, l.LeanAmount*data.LeanDirection, l.LeanSpeed, deltaTime)

	l.lerpedAim[1] = math.InterpLayer(l.lerpedAim[1], l.aimUp, l.SmoothAim, deltaTime)
	l.lerpedAim[0] = math.InterpLayer(l.lerpedAim[0], l.aimRight, l.SmoothAim, deltaTime)
}

func (l *LookLayer) offsetPelvis() {
	var normalLean float32
	if !math.Approximately(l.LeanAmount, 0) {
		normalLean = l.PelvisLean * -l.leanInput / l.LeanAmount
	}
	additive := l.PelvisOffset.Mul(l.interpPelvis).Add(math.NewVec3(normalLean, 0, 0))
	l.skeleton().MoveInBoneSpace(l.rootBone(), l.pelvis(), additive, 1)
}

// rotateSpine applies the lean around z, then the yaw around y and last the
// pitch around x in the space of the already yawed root.
func (l *LookLayer) rotateSpine() {
	l.offsetPelvis()

	s := l.skeleton()
	alpha := l.smoothLayerAlpha * (1 - l.curveValue(graph.CurveMaskLookLayer))
	aimOffsetAlpha := l.animGraph().GetPoseProgress()

	rootRot := s.Rotation(l.rootBone())
	invRootRot := rootRot.Inverse()

	apply := func(bone rig.BoneID, offset math.Quat) {
		offset = offset.Mul(invRootRot.Mul(s.Rotation(bone)))
		s.SetRotation(bone, rootRot.Mul(offset))
	}

	fraction := alpha * l.leanInput / aimOffsetBudget
	if !math.Approximately(fraction, 0) {
		for i := range l.LookRightOffset.Bones {
			if i >= len(l.targetRightOffset.Bones) {
				break
			}
			bone := l.targetRightOffset.Bones[i].Bone
			if !s.Valid(bone) {
				continue
			}
			angle := math.Lerp(l.LookRightOffset.Bones[i].MaxAngle[0], l.targetRightOffset.Bones[i].MaxAngle[0], aimOffsetAlpha)
			apply(bone, math.QuatFromEuler(0, 0, fraction*angle))
		}
	}

	fraction = alpha * l.lerpedAim[0] / aimOffsetBudget
	useY := l.lerpedAim[0] >= 0
	if !math.Approximately(fraction, 0) {
		for i := range l.LookRightOffset.Bones {
			if i >= len(l.targetRightOffset.Bones) {
				break
			}
			bone := l.targetRightOffset.Bones[i].Bone
			if !s.Valid(bone) {
				continue
			}
			angle := math.Vec2Lerp(l.LookRightOffset.Bones[i].MaxAngle, l.targetRightOffset.Bones[i].MaxAngle, aimOffsetAlpha)
			apply(bone, math.QuatFromEuler(0, fraction*pick(angle, useY), 0))
		}
	}

	fraction = alpha * l.lerpedAim[1] / aimOffsetBudget
	if math.Approximately(fraction, 0) {
		return
	}

	rootRot = rootRot.Mul(math.QuatFromEuler(0, l.lerpedAim[0], 0))
	invRootRot = rootRot.Inverse()
	useY = l.lerpedAim[1] >= 0

	for i := range l.LookUpOffset.Bones {
		if i >= len(l.targetUpOffset.Bones) {
			break
		}
		bone := l.targetUpOffset.Bones[i].Bone
		if !s.Valid(bone) {
			continue
		}
		angle := math.Vec2Lerp(l.LookUpOffset.Bones[i].MaxAngle, l.targetUpOffset.Bones[i].MaxAngle, aimOffsetAlpha)
		apply(bone, math.QuatFromEuler(fraction*pick(angle, useY), 0, 0))
	}
}

func pick(v math.Vec2, useY bool) float32 {
	if useY {
		return v[1]
	}
	return v[0]
}
