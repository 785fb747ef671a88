package animator

import (
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/rig"
	"github.com/spaghettifunk/fpsanim/engine/systems"
)

// IKWeights are the effector and hint weights of one limb, both in [0, 1].
type IKWeights struct {
	Effector float32
	Hint     float32
}

const (
	ikRightHand = iota
	ikLeftHand
	ikRightFoot
	ikLeftFoot
	ikChainCount
)

// twoBoneIKJob solves the four limbs on copies of their bone poses. The
// skeleton is only read in schedule and only written in complete.
type twoBoneIKJob struct {
	data   [ikChainCount]math.TwoBoneIKData
	valid  [ikChainCount]bool
	handle *systems.JobHandle
}

func chainOf(s *rig.Skeleton, tip rig.BoneID) (root, mid rig.BoneID, ok bool) {
	if !s.Valid(tip) {
		return rig.NoBone, rig.NoBone, false
	}
	mid = s.Parent(tip)
	if !s.Valid(mid) {
		return rig.NoBone, rig.NoBone, false
	}
	root = s.Parent(mid)
	return root, mid, s.Valid(root)
}

func (j *twoBoneIKJob) snapshot(s *rig.Skeleton, index int, bone *rig.DynamicBone, weights IKWeights) {
	root, mid, ok := chainOf(s, bone.Target)
	j.valid[index] = ok && s.Valid(bone.Obj)
	if !j.valid[index] {
		return
	}

	d := math.TwoBoneIKData{
		Root:           s.WorldPose(root),
		Mid:            s.WorldPose(mid),
		Tip:            s.WorldPose(bone.Target),
		Target:         s.WorldPose(bone.Obj),
		HasHint:        s.Valid(bone.HintObj),
		EffectorWeight: weights.Effector,
		HintWeight:     weights.Hint,
	}
	if d.HasHint {
		d.Hint = s.Position(bone.HintObj)
	}
	j.data[index] = d
}

func (j *twoBoneIKJob) schedule(js *systems.JobSystem, r *rig.RigData, weights *[ikChainCount]IKWeights) {
	s := r.Skeleton
	j.snapshot(s, ikRightHand, &r.RightHand, weights[ikRightHand])
	j.snapshot(s, ikLeftHand, &r.LeftHand, weights[ikLeftHand])
	j.snapshot(s, ikRightFoot, &r.RightFoot, weights[ikRightFoot])
	j.snapshot(s, ikLeftFoot, &r.LeftFoot, weights[ikLeftFoot])

	j.handle = js.ScheduleParallelFor(ikChainCount, func(i int) {
		if j.valid[i] {
			math.SolveTwoBoneIK(&j.data[i])
		}
	})
}

func (j *twoBoneIKJob) apply(s *rig.Skeleton, index int, bone *rig.DynamicBone) {
	if !j.valid[index] {
		return
	}
	root, mid, _ := chainOf(s, bone.Target)
	d := &j.data[index]
	s.SetWorldPose(root, d.Root)
	s.SetWorldPose(mid, d.Mid)
	s.SetWorldPose(bone.Target, d.Tip)
}

// complete joins the solve and writes the limbs back root to tip.
func (j *twoBoneIKJob) complete(r *rig.RigData) {
	if j.handle == nil {
		return
	}
	j.handle.Complete()
	j.handle = nil

	s := r.Skeleton
	j.apply(s, ikRightHand, &r.RightHand)
	j.apply(s, ikLeftHand, &r.LeftHand)
	j.apply(s, ikRightFoot, &r.RightFoot)
	j.apply(s, ikLeftFoot, &r.LeftFoot)
}
