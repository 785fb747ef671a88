package graph

import (
	"fmt"

	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/rig"
	"github.com/tanema/gween/ease"
)

const (
	maxPoseCount = 3
	maxAnimCount = 3
)

// CoreAnimGraph mixes the base controller with the first person system:
//
//	master[0] = base controller
//	master[1] = dynamic, upper body mask, weight = graph weight
//	dynamic   = overlay pose -> slot -> override, then first person controller
//
// The result is written into the skeleton local poses by Evaluate.
type CoreAnimGraph struct {
	skeleton      *rig.Skeleton
	upperBodyMask *AvatarMask

	baseController        Controller
	firstPersonController Controller

	overlayPoseMixer *Mixer
	slotMixer        *Mixer
	overrideMixer    *Mixer

	graphWeight  float32
	poseProgress float32
	playing      bool

	outSpineRot    math.Quat
	targetSpineRot math.Quat
	cacheSpineRot  math.Quat

	baseBuffer    *PoseBuffer
	overlayBuffer *PoseBuffer
	slotBuffer    *PoseBuffer
	dynamicBuffer *PoseBuffer
	fpBuffer      *PoseBuffer
	bones         map[string]rig.BoneID
}

func NewCoreAnimGraph(skeleton *rig.Skeleton, upperBodyMask *AvatarMask, base Controller, firstPerson Controller) *CoreAnimGraph {
	return &CoreAnimGraph{
		skeleton:              skeleton,
		upperBodyMask:         upperBodyMask,
		baseController:        base,
		firstPersonController: firstPerson,
		outSpineRot:           math.NewQuatIdentity(),
		targetSpineRot:        math.NewQuatIdentity(),
		cacheSpineRot:         math.NewQuatIdentity(),
		baseBuffer:            NewPoseBuffer(),
		overlayBuffer:         NewPoseBuffer(),
		slotBuffer:            NewPoseBuffer(),
		dynamicBuffer:         NewPoseBuffer(),
		fpBuffer:              NewPoseBuffer(),
		bones:                 make(map[string]rig.BoneID),
	}
}

// InitPlayableGraph builds the mixer chain. Calling it again rebuilds the
// graph from scratch.
func (g *CoreAnimGraph) InitPlayableGraph() error {
	g.playing = false
	if g.skeleton == nil {
		return fmt.Errorf("anim graph: %w: no skeleton", core.ErrNotInitialized)
	}
	if g.baseController == nil {
		core.LogWarn("CoreAnimGraph: base controller is nil!")
		return fmt.Errorf("anim graph: %w: no base controller", core.ErrNotInitialized)
	}
	if g.firstPersonController == nil {
		core.LogWarn("CoreAnimGraph: first person controller is nil!")
	}

	g.overlayPoseMixer = NewMixer("overlay", maxPoseCount, ease.InOutSine)
	g.slotMixer = NewMixer("slot", maxAnimCount, ease.InOutSine)
	g.overrideMixer = NewMixer("override", maxAnimCount, ease.InOutSine)

	g.graphWeight = 1
	g.poseProgress = g.overlayPoseMixer.BlendInWeight()
	g.outSpineRot = math.NewQuatIdentity()
	g.targetSpineRot = math.NewQuatIdentity()
	g.cacheSpineRot = math.NewQuatIdentity()

	for k := range g.bones {
		delete(g.bones, k)
	}
	for i := 0; i < g.skeleton.Len(); i++ {
		id := rig.BoneID(i)
		g.bones[g.skeleton.Name(id)] = id
	}

	g.playing = true
	return nil
}

func (g *CoreAnimGraph) GetBaseAnimator() Controller {
	return g.baseController
}

func (g *CoreAnimGraph) GetFirstPersonAnimator() Controller {
	return g.firstPersonController
}

// UpdateGraph advances controllers and mixers and refreshes the blend scalars
// the layers read this frame.
func (g *CoreAnimGraph) UpdateGraph(deltaTime float32) {
	if !g.playing {
		return
	}
	g.baseController.Update(deltaTime)
	if g.firstPersonController != nil {
		g.firstPersonController.Update(deltaTime)
	}

	g.overlayPoseMixer.Update(deltaTime)
	g.slotMixer.Update(deltaTime)
	g.overrideMixer.Update(deltaTime)

	g.poseProgress = g.overlayPoseMixer.BlendInWeight()

	g.outSpineRot = math.Slerp(g.cacheSpineRot, g.targetSpineRot, g.slotMixer.BlendInWeight())
	g.outSpineRot = math.Slerp(g.outSpineRot, math.NewQuatIdentity(), g.slotMixer.BlendOutWeight())
}

// Evaluate mixes the graph and writes the animated bones into the skeleton.
func (g *CoreAnimGraph) Evaluate() {
	if !g.playing {
		return
	}
	g.baseBuffer.Reset()
	g.baseController.Sample(g.baseBuffer)

	g.overlayPoseMixer.Evaluate(nil, g.overlayBuffer)
	g.slotMixer.Evaluate(g.overlayBuffer, g.slotBuffer)
	g.overrideMixer.Evaluate(g.slotBuffer, g.dynamicBuffer)

	if g.firstPersonController != nil {
		g.fpBuffer.Reset()
		g.firstPersonController.Sample(g.fpBuffer)
		g.dynamicBuffer.BlendOverride(g.fpBuffer, nil, 1)
	}

	g.baseBuffer.BlendOverride(g.dynamicBuffer, g.upperBodyMask, g.graphWeight)
	g.write(g.baseBuffer)
}

func (g *CoreAnimGraph) write(buffer *PoseBuffer) {
	for name, pose := range buffer.Poses {
		if id, ok := g.bones[name]; ok {
			g.skeleton.SetLocalPose(id, pose)
		}
	}
}

// GetSpineOffset is the spine rotation of the slot animation blended by the
// slot weights.
func (g *CoreAnimGraph) GetSpineOffset() math.Quat {
	return g.outSpineRot
}

// GetCurveValue reads a curve exported by the slot animations.
func (g *CoreAnimGraph) GetCurveValue(name string) float32 {
	if g.slotMixer == nil {
		return 0
	}
	return g.slotMixer.GetCurveValue(name)
}

// GetFloat reads a parameter or curve of the base controller.
func (g *CoreAnimGraph) GetFloat(name string) float32 {
	if g.baseController == nil || name == "" {
		return 0
	}
	return g.baseController.GetFloat(name)
}

// GetPoseProgress is the blend in weight of the last static pose, 1 when no
// pose change is in flight.
func (g *CoreAnimGraph) GetPoseProgress() float32 {
	return g.poseProgress
}

func (g *CoreAnimGraph) GetGraphWeight() float32 {
	if !g.playing {
		return 0
	}
	return g.graphWeight
}

func (g *CoreAnimGraph) SetGraphWeight(weight float32) {
	if !g.playing {
		return
	}
	g.graphWeight = math.Clamp01(weight)
}

// PlayPose blends in a static overlay pose and samples it right away.
func (g *CoreAnimGraph) PlayPose(motion *AnimSequence) {
	if !g.playing || motion == nil || motion.Clip == nil {
		return
	}
	p := NewPlayable(motion.Clip, nil)
	p.BlendTime = motion.BlendTime
	p.AutoBlendOut = false
	p.SetTime(0)
	p.SetSpeed(1)
	g.overlayPoseMixer.Play(p, g.upperBodyMask, false)

	g.SamplePose(motion.Clip)
}

// PlayAnimation plays a one shot on the slot, and on the override slot when
// the sequence carries an override mask. Replaying restarts the blend in.
func (g *CoreAnimGraph) PlayAnimation(motion *AnimSequence, startTime float32) {
	if !g.playing || motion == nil || motion.Clip == nil {
		return
	}

	g.cacheSpineRot = g.outSpineRot
	g.targetSpineRot = motion.SpineRotation

	blendTime := motion.BlendTime
	blendTime.StartTime = startTime
	if blendTime.RateScale == 0 {
		blendTime.RateScale = 1
	}

	p := NewPlayable(motion.Clip, motion.Curves)
	p.BlendTime = blendTime
	p.AutoBlendOut = true
	p.SetTime(startTime)
	p.SetSpeed(blendTime.RateScale)

	mask := motion.Mask
	if mask == nil {
		mask = g.upperBodyMask
	}
	g.slotMixer.Play(p, mask, motion.IsAdditive)

	if motion.OverrideMask == nil {
		return
	}
	o := NewPlayable(motion.Clip, nil)
	o.BlendTime = blendTime
	o.AutoBlendOut = true
	o.SetTime(startTime)
	o.SetSpeed(blendTime.RateScale)
	g.overrideMixer.Play(o, motion.OverrideMask, false)
}

// StopAnimation blends the slots out over blendTime seconds.
func (g *CoreAnimGraph) StopAnimation(blendTime float32) {
	if !g.playing {
		return
	}
	g.slotMixer.Stop(blendTime)
	g.overrideMixer.Stop(blendTime)
}

func (g *CoreAnimGraph) IsPlaying() bool {
	return g.playing
}

// SamplePose writes the first frame of clip into the skeleton immediately.
func (g *CoreAnimGraph) SamplePose(clip *Clip) {
	if clip == nil {
		return
	}
	buffer := NewPoseBuffer()
	clip.Sample(0, buffer)
	g.write(buffer)
}

func (g *CoreAnimGraph) GetUpperBodyMask() *AvatarMask {
	return g.upperBodyMask
}

// SlotMixer exposes the one shot mixer for inspection.
func (g *CoreAnimGraph) SlotMixer() *Mixer {
	return g.slotMixer
}

func (g *CoreAnimGraph) Shutdown() {
	g.playing = false
}
