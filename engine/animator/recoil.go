package animator

import (
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
)

// RecoilAnimation turns shots into the recoil pose fed to CharAnimData. Every
// shot pushes a random kick onto the target; springs chase the target while
// it decays back to rest.
type RecoilAnimation struct {
	data *resources.RecoilAnimData

	targetRot math.Vec3
	targetLoc math.Vec3
	outRot    math.Vec3
	outLoc    math.Vec3

	rotSpring math.VectorSpringState
	locSpring math.VectorSpringState
}

func NewRecoilAnimation(data *resources.RecoilAnimData) *RecoilAnimation {
	return &RecoilAnimation{data: data}
}

// Init swaps the recoil data, usually on weapon change, and resets the motion.
func (a *RecoilAnimation) Init(data *resources.RecoilAnimData) {
	a.data = data
	a.targetRot, a.targetLoc = math.NewVec3Zero(), math.NewVec3Zero()
	a.outRot, a.outLoc = math.NewVec3Zero(), math.NewVec3Zero()
	a.rotSpring.Reset()
	a.locSpring.Reset()
}

func random(r math.Vec2) float32 {
	return math.RandomInRange(r[0], r[1])
}

// Play adds one shot. aimWeight scales the kick down while aiming.
func (a *RecoilAnimation) Play(aimWeight float32) {
	if a.data == nil {
		return
	}
	d := a.data
	rotScale := math.Lerp(1, d.AimScale[0], aimWeight)
	locScale := math.Lerp(1, d.AimScale[1], aimWeight)

	a.targetRot = a.targetRot.Add(math.NewVec3(-random(d.Pitch), random(d.Yaw), random(d.Roll)).Mul(rotScale))
	a.targetLoc = a.targetLoc.Add(math.NewVec3(random(d.KickRight), random(d.KickUp), -random(d.Kick)).Mul(locScale))
}

func (a *RecoilAnimation) Update(deltaTime float32) {
	if a.data == nil {
		return
	}
	d := a.data
	a.targetRot = math.InterpVec3(a.targetRot, math.NewVec3Zero(), d.DecaySpeed, deltaTime)
	a.targetLoc = math.InterpVec3(a.targetLoc, math.NewVec3Zero(), d.DecaySpeed, deltaTime)

	a.outRot = math.SpringInterpVec3(a.outRot, a.targetRot, d.Smoothing.Rot, &a.rotSpring, deltaTime)
	a.outLoc = math.SpringInterpVec3(a.outLoc, a.targetLoc, d.Smoothing.Loc, &a.locSpring, deltaTime)
}

// Output is the recoil pose, position in meters and rotation as pitch, yaw, roll.
func (a *RecoilAnimation) Output() math.Pose {
	return math.NewPose(a.outLoc, math.QuatFromEulerVec(a.outRot))
}
