package animator

import (
	"github.com/spaghettifunk/fpsanim/engine/math"
)

const maxAimAngle = 90

// CharAnimData is the per frame input the layers read: aim and move input
// from the controller and the recoil pose from the recoil animation.
type CharAnimData struct {
	// Aim delta of the current frame in degrees, x right and y up.
	DeltaAimInput math.Vec2
	// Accumulated aim, clamped to [-90, 90] per axis.
	TotalAimInput math.Vec2
	// Movement axis in [-1, 1].
	MoveInput math.Vec2
	// Lean in [-1, 1], negative leans left.
	LeanDirection float32
	RecoilAnim    math.Pose
	// Hit distance of the weapon block trace, negative when nothing was hit.
	ObstacleDistance float32
}

func NewCharAnimData() CharAnimData {
	return CharAnimData{RecoilAnim: math.NewPoseIdentity(), ObstacleDistance: -1}
}

func (d *CharAnimData) AddDeltaInput(aimInput math.Vec2) {
	d.DeltaAimInput = aimInput
}

func (d *CharAnimData) AddAimInput(aimInput math.Vec2) {
	d.DeltaAimInput = aimInput
	d.TotalAimInput = d.TotalAimInput.Add(aimInput)
	d.TotalAimInput[0] = math.Clamp[float32](d.TotalAimInput[0], -maxAimAngle, maxAimAngle)
	d.TotalAimInput[1] = math.Clamp[float32](d.TotalAimInput[1], -maxAimAngle, maxAimAngle)
}

func (d *CharAnimData) SetAimInput(aimInput math.Vec2) {
	d.DeltaAimInput = aimInput.Sub(d.TotalAimInput)
	d.TotalAimInput[0] = math.Clamp[float32](aimInput[0], -maxAimAngle, maxAimAngle)
	d.TotalAimInput[1] = math.Clamp[float32](aimInput[1], -maxAimAngle, maxAimAngle)
}

func (d *CharAnimData) SetLeanInput(direction float32) {
	d.LeanDirection = math.Clamp[float32](direction, -1, 1)
}

func (d *CharAnimData) AddLeanInput(direction float32) {
	d.LeanDirection = math.Clamp[float32](d.LeanDirection+direction, -1, 1)
}
