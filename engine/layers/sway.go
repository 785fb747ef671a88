package layers

import (
	"github.com/spaghettifunk/fpsanim/engine/animator"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
	"github.com/spaghettifunk/fpsanim/engine/rig"
	"github.com/spaghettifunk/fpsanim/engine/systems"
)

// SwayLayerData is the sway state carried between frames.
type SwayLayerData struct {
	FreeAimTarget math.Vec2
	FreeAimResult math.Vec2

	AimSwayTarget         math.Vec2
	AimSwayPositionSpring math.VectorSpringState
	AimSwayRotationSpring math.VectorSpringState
	AimSwayPositionResult math.Vec3
	AimSwayRotationResult math.Vec3

	MoveSwayRotationTarget math.Vec3
	MoveSwayPositionTarget math.Vec3
	MoveSwayPositionSpring math.VectorSpringState
	MoveSwayRotationSpring math.VectorSpringState
	MoveSwayPositionResult math.Vec3
	MoveSwayRotationResult math.Vec3
}

// SwayLayerInputData is everything the sway math reads. It is copied by
// value into the job, so the job never touches the rig.
type SwayLayerInputData struct {
	DeltaTime       float32
	UseCircleMethod bool
	AimInput        math.Vec2
	MoveInput       math.Vec2

	FreeAimSettings  resources.FreeAimData
	MoveSwaySettings resources.MoveSwayData
	AimSwaySettings  math.LocRotSpringData
}

// ApplyFreeAim accumulates the aim input into the free aim target, clamped
// to a circle or a box of radius MaxValue.
func ApplyFreeAim(input *SwayLayerInputData, data *SwayLayerData) {
	settings := input.FreeAimSettings
	data.FreeAimTarget[0] += input.AimInput[1] * settings.InputScale
	data.FreeAimTarget[1] += input.AimInput[0] * settings.InputScale

	maxValue := settings.MaxValue
	data.FreeAimTarget[0] = math.Clamp(data.FreeAimTarget[0], -maxValue, maxValue)
	if input.UseCircleMethod {
		maxY := math.Sqrt(maxValue*maxValue - data.FreeAimTarget[0]*data.FreeAimTarget[0])
		data.FreeAimTarget[1] = math.Clamp(data.FreeAimTarget[1], -maxY, maxY)
		return
	}
	data.FreeAimTarget[1] = math.Clamp(data.FreeAimTarget[1], -maxValue, maxValue)
}

// ApplySway turns the aim speed into a decaying target and springs the aim
// sway toward it.
func ApplySway(input *SwayLayerInputData, data *SwayLayerData) {
	dt := input.DeltaTime
	if dt <= 0 {
		return
	}
	deltaRight := input.AimInput[0] / dt
	deltaUp := input.AimInput[1] / dt

	data.AimSwayTarget = data.AimSwayTarget.Add(math.NewVec2(deltaRight, deltaUp).Mul(0.01))
	data.AimSwayTarget[0] = math.InterpLayer(data.AimSwayTarget[0]*0.01, 0, 5, dt)
	data.AimSwayTarget[1] = math.InterpLayer(data.AimSwayTarget[1]*0.01, 0, 5, dt)

	targetLoc := math.NewVec3(data.AimSwayTarget[0], data.AimSwayTarget[1], 0)
	targetRot := math.NewVec3(data.AimSwayTarget[1], data.AimSwayTarget[0], data.AimSwayTarget[0])

	data.AimSwayPositionResult = math.SpringInterpVec3(data.AimSwayPositionResult, targetLoc,
		input.AimSwaySettings.Loc, &data.AimSwayPositionSpring, dt)
	data.AimSwayRotationResult = math.SpringInterpVec3(data.AimSwayRotationResult, targetRot,
		input.AimSwaySettings.Rot, &data.AimSwayRotationSpring, dt)
}

// ApplyMoveSway springs the weapon against the movement input.
func ApplyMoveSway(input *SwayLayerInputData, data *SwayLayerData) {
	dt := input.DeltaTime
	if dt <= 0 {
		return
	}
	settings := input.MoveSwaySettings
	move := input.MoveInput

	rotTarget := math.NewVec3(
		move[1]*settings.RotationScale[0],
		move[0]*settings.RotationScale[1],
		move[0]*settings.RotationScale[2],
	)
	locTarget := math.NewVec3(
		move[0]*settings.TranslationScale[0],
		move[1]*settings.TranslationScale[1],
		move[1]*settings.TranslationScale[2],
	)

	data.MoveSwayRotationTarget = math.InterpVec3(data.MoveSwayRotationTarget, rotTarget, settings.RotationDampingFactor, dt)
	data.MoveSwayPositionTarget = math.InterpVec3(data.MoveSwayPositionTarget, locTarget, settings.TranslationDampingFactor, dt)

	data.MoveSwayRotationResult = math.SpringInterpVec3(data.MoveSwayRotationResult, data.MoveSwayRotationTarget,
		settings.RotationSpringSettings, &data.MoveSwayRotationSpring, dt)
	data.MoveSwayPositionResult = math.SpringInterpVec3(data.MoveSwayPositionResult, data.MoveSwayPositionTarget,
		settings.PositionSpringSettings, &data.MoveSwayPositionSpring, dt)
}

func stepSway(input *SwayLayerInputData, data *SwayLayerData) {
	ApplySway(input, data)
	ApplyMoveSway(input, data)
	ApplyFreeAim(input, data)
}

// SwayLayer adds free aim, aim sway and move sway to the master IK. The
// springs can run on a worker: the job gets copies of the input and the
// state and the result is applied on the main thread.
type SwayLayer struct {
	BaseLayer

	// Free aim rotates around this bone, defaults to the head.
	HeadBone        rig.BoneID
	FreeAim         bool
	UseCircleMethod bool
	Parallel        bool

	layerInput SwayLayerInputData
	layerData  SwayLayerData

	jobInput  SwayLayerInputData
	jobData   SwayLayerData
	jobHandle *systems.JobHandle
}

func NewSwayLayer() *SwayLayer {
	return &SwayLayer{
		BaseLayer: NewBaseLayer(),
		HeadBone:  rig.NoBone,
		FreeAim:   true,
		Parallel:  true,
	}
}

func (l *SwayLayer) SetFreeAimEnable(enable bool) {
	l.FreeAim = enable
}

func (l *SwayLayer) InitializeLayer(core animator.Core) {
	l.BaseLayer.InitializeLayer(core)
	if !l.skeleton().Valid(l.HeadBone) {
		l.HeadBone = l.rigData().Head
	}
}

// OnPoseSampled restarts the springs with the settings of the new weapon.
func (l *SwayLayer) OnPoseSampled() {
	l.layerData.AimSwayPositionSpring.Reset()
	l.layerData.AimSwayRotationSpring.Reset()
	l.layerData.MoveSwayPositionSpring.Reset()
	l.layerData.MoveSwayRotationSpring.Reset()

	if asset := l.gunAsset(); asset != nil {
		l.layerInput.FreeAimSettings = asset.FreeAimSettings
		l.layerInput.MoveSwaySettings = asset.MoveSwaySettings
		l.layerInput.AimSwaySettings = asset.AimSwaySettings
	}

	l.layerData.AimSwayTarget = math.Vec2{}
	l.layerData.MoveSwayPositionResult = math.NewVec3Zero()
	l.layerData.MoveSwayRotationResult = math.NewVec3Zero()
	l.layerData.MoveSwayPositionTarget = math.NewVec3Zero()
	l.layerData.MoveSwayRotationTarget = math.NewVec3Zero()
}

func (l *SwayLayer) PreUpdateLayer(deltaTime float32) {
	l.BaseLayer.PreUpdateLayer(deltaTime)
	if l.core == nil {
		return
	}
	data := l.charData()
	l.layerInput.DeltaTime = deltaTime
	l.layerInput.AimInput = data.DeltaAimInput
	l.layerInput.MoveInput = data.MoveInput
	l.layerInput.UseCircleMethod = l.UseCircleMethod
}

func (l *SwayLayer) CanUseParallelExecution() bool {
	return l.Parallel
}

// ScheduleJobs starts the spring step on a worker.
func (l *SwayLayer) ScheduleJobs(js *systems.JobSystem) {
	l.JoinJobs()

	l.jobInput = l.layerInput
	l.jobData = l.layerData
	l.jobHandle = js.Schedule(func() {
		stepSway(&l.jobInput, &l.jobData)
	})
}

func (l *SwayLayer) CompleteJobs() {
	if l.jobHandle == nil {
		l.UpdateLayer(l.layerInput.DeltaTime)
		return
	}
	l.jobHandle.Complete()
	l.jobHandle = nil
	l.layerData = l.jobData
	l.applyTransforms()
}

func (l *SwayLayer) JoinJobs() {
	l.jobHandle.Complete()
	l.jobHandle = nil
}

func (l *SwayLayer) UpdateLayer(deltaTime float32) {
	stepSway(&l.layerInput, &l.layerData)
	l.applyTransforms()
}

func (l *SwayLayer) State() SwayLayerData {
	return l.layerData
}

func (l *SwayLayer) applyTransforms() {
	asset := l.gunAsset()
	if asset == nil {
		return
	}
	s := l.skeleton()
	root := l.rootBone()

	alpha := math.ExpDecay(asset.FreeAimSettings.InterpolationSpeed, l.layerInput.DeltaTime)
	if !l.FreeAim {
		l.layerData.FreeAimTarget = math.Vec2{}
	}
	l.layerData.FreeAimResult = math.Vec2Lerp(l.layerData.FreeAimResult, l.layerData.FreeAimTarget, alpha)

	q := math.QuatFromEuler(l.layerData.FreeAimResult[0], l.layerData.FreeAimResult[1], 0).Normalize()

	headMS := s.InverseTransformPoint(root, s.Position(l.HeadBone))
	masterMS := s.InverseTransformPoint(root, s.Position(l.masterPivot()))
	offset := headMS.Sub(masterMS)
	offset = q.Rotate(offset).Sub(offset)

	position := offset.Mul(-1)
	rotation := q

	aimSwayRotation := math.QuatFromEulerVec(l.layerData.AimSwayRotationResult)
	aimSwayPosition := l.layerData.AimSwayPositionResult
	swayOffset := asset.AdsSwayOffset.Mul(l.rigData().AimWeight)
	swayOffset = aimSwayRotation.Rotate(swayOffset).Sub(swayOffset)
	aimSwayPosition = aimSwayPosition.Add(swayOffset)

	position = position.Add(aimSwayPosition).Add(l.layerData.MoveSwayPositionResult)
	rotation = rotation.Mul(aimSwayRotation).Mul(math.QuatFromEulerVec(l.layerData.MoveSwayRotationResult))

	offsetPosition(s, l.masterIK(), root, position, l.smoothLayerAlpha)
	offsetRotation(s, l.masterIK(), root, rotation, l.smoothLayerAlpha)
}
