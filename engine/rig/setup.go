package rig

import (
	"strings"

	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/math"
)

// Bone names of the proxies created by SetupBones.
const (
	RootBoneName           = "rootBone"
	WeaponBoneName         = "WeaponBone"
	WeaponBoneAdditiveName = "WeaponBoneAdditive"
	WeaponBoneRightName    = "WeaponBoneRight"
	WeaponBoneLeftName     = "WeaponBoneLeft"
	MasterIKName           = "MasterIK"
	RightHandIKName        = "RightHandIK"
	RightElbowIKName       = "RightElbowIK"
	LeftHandIKName         = "LeftHandIK"
	LeftElbowIKName        = "LeftElbowIK"
	RightFootIKName        = "RightFootIK"
	LeftFootIKName         = "LeftFootIK"
)

var (
	pelvisPatterns    = []string{"hips", "pelvis"}
	spinePatterns     = []string{"spine"}
	leftHandPatterns  = []string{"lefthand", "hand_l", "l_hand", "hand l", "l hand", "l.hand", "hand.l", "hand_left", "left_hand"}
	rightHandPatterns = []string{"righthand", "hand_r", "r_hand", "hand r", "r hand", "r.hand", "hand.r", "hand_right", "right_hand"}
	rightFootPatterns = []string{"rightfoot", "foot_r", "r_foot", "foot_right", "right_foot", "foot r", "r foot", "r.foot", "foot.r"}
	leftFootPatterns  = []string{"leftfoot", "foot_l", "l_foot", "foot l", "foot_left", "left_foot", "l foot", "l.foot", "foot.l"}
	headPatterns      = []string{"head"}
)

func matches(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

func findOrAdd(s *Skeleton, parent BoneID, name string) BoneID {
	if id, ok := s.FindChild(parent, name); ok {
		return id
	}
	return s.AddBone(name, parent, math.NewPoseIdentity())
}

// SetupBones discovers the humanoid bones of the skeleton by name and creates
// the proxy bones the animation layers drive. Running it twice reuses the
// proxies created the first time. When a required bone is missing a warning
// is logged once and RigData.Complete reports false; the features depending
// on the missing bones stay inert.
func SetupBones(s *Skeleton, character BoneID) *RigData {
	r := newRigData(s)
	r.Character = character

	r.RootBone = findOrAdd(s, character, RootBoneName)
	r.WeaponBone = findOrAdd(s, r.RootBone, WeaponBoneName)
	r.WeaponBoneAdditive = findOrAdd(s, r.RootBone, WeaponBoneAdditiveName)
	r.RightFoot.Obj = findOrAdd(s, character, RightFootIKName)
	r.LeftFoot.Obj = findOrAdd(s, character, LeftFootIKName)

	var foundPelvis, foundSpine, foundLeftHand, foundRightHand, foundRightFoot, foundLeftFoot, foundHead bool

	count := s.Len()
	for i := 0; i < count; i++ {
		id := BoneID(i)
		name := strings.ToLower(s.Name(id))
		if strings.Contains(name, "ik") || id == character || id == r.RootBone || s.IsAncestor(r.RootBone, id) {
			continue
		}

		if !foundPelvis && matches(name, pelvisPatterns) {
			r.Pelvis = id
			foundPelvis = true
			continue
		}

		if !foundSpine && matches(name, spinePatterns) {
			r.SpineRoot = id
			foundSpine = true
			continue
		}

		if !foundLeftHand && matches(name, leftHandPatterns) {
			r.LeftHand.Target = id
			r.LeftHand.HintTarget = s.Parent(id)
			foundLeftHand = true
			continue
		}

		if !foundRightHand && matches(name, rightHandPatterns) {
			r.RightHand.Target = id
			r.RightHand.HintTarget = s.Parent(id)
			foundRightHand = true
			continue
		}

		if !foundRightFoot && matches(name, rightFootPatterns) {
			r.RightFoot.Target = id
			r.RightFoot.HintTarget = s.Parent(id)
			foundRightFoot = true
			continue
		}

		if !foundLeftFoot && matches(name, leftFootPatterns) {
			r.LeftFoot.Target = id
			r.LeftFoot.HintTarget = s.Parent(id)
			foundLeftFoot = true
			continue
		}

		if !foundHead && matches(name, headPatterns) {
			r.Head = id
			foundHead = true
		}
	}

	if foundHead {
		setupIKBones(r)
	}
	setupWeaponBones(r)

	r.complete = foundPelvis && foundSpine && foundLeftHand && foundRightHand && foundRightFoot && foundLeftFoot && foundHead
	if r.complete {
		core.LogDebug("All bones are found!")
	} else {
		core.LogWarnOnce("rig.setup", "Some bones are missing! pelvis=%t spine=%t hands=%t/%t feet=%t/%t head=%t",
			foundPelvis, foundSpine, foundLeftHand, foundRightHand, foundLeftFoot, foundRightFoot, foundHead)
	}
	return r
}

func setupIKBones(r *RigData) {
	s := r.Skeleton
	r.MasterDynamic.Obj = findOrAdd(s, r.Head, MasterIKName)
	r.MasterDynamic.Target = r.WeaponBone

	r.RightHand.Obj = findOrAdd(s, r.MasterDynamic.Obj, RightHandIKName)
	r.RightHand.HintObj = findOrAdd(s, r.MasterDynamic.Obj, RightElbowIKName)
	r.LeftHand.Obj = findOrAdd(s, r.MasterDynamic.Obj, LeftHandIKName)
	r.LeftHand.HintObj = findOrAdd(s, r.MasterDynamic.Obj, LeftElbowIKName)
}

func setupWeaponBones(r *RigData) {
	s := r.Skeleton
	if s.Valid(r.RightHand.Target) {
		r.WeaponBoneRight = findOrAdd(s, r.RightHand.Target, WeaponBoneRightName)
	}
	if s.Valid(r.LeftHand.Target) {
		r.WeaponBoneLeft = findOrAdd(s, r.LeftHand.Target, WeaponBoneLeftName)
	}
}
