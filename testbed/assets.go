package testbed

import (
	"github.com/spaghettifunk/fpsanim/engine/assets"
	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
)

// The loaders below fall back to built-in data so the demo also runs
// without an assets directory.

func loadWeapon(am *assets.AssetManager, name string) *resources.WeaponAnimAsset {
	if am != nil {
		weapon, err := am.LoadWeapon(name)
		if err == nil {
			return weapon
		}
		core.LogWarn("using the built-in %s: %s", name, err)
	}
	return defaultWeapon(name)
}

func loadAimOffset(am *assets.AssetManager, name string) *resources.AimOffsetTable {
	if am != nil {
		table, err := am.LoadAimOffsetTable(name)
		if err == nil {
			return table
		}
		core.LogWarn("using the built-in aim offsets: %s", err)
	}
	return &resources.AimOffsetTable{
		Name: name,
		AimOffsetUp: []resources.BoneAngle{
			{Bone: "Spine", Angle: math.NewVec2(15, 15)},
			{Bone: "Spine1", Angle: math.NewVec2(15, 15)},
			{Bone: "Spine2", Angle: math.NewVec2(20, 20)},
			{Bone: "Neck", Angle: math.NewVec2(20, 20)},
			{Bone: "Head", Angle: math.NewVec2(20, 20)},
		},
		AimOffsetRight: []resources.BoneAngle{
			{Bone: "Spine", Angle: math.NewVec2(30, 30)},
			{Bone: "Spine1", Angle: math.NewVec2(30, 30)},
			{Bone: "Spine2", Angle: math.NewVec2(30, 30)},
		},
	}
}

func loadIKPose(am *assets.AssetManager, name string, fallback math.Pose) *resources.IKPose {
	if am != nil {
		pose, err := am.LoadIKPose(name)
		if err == nil {
			return pose
		}
		core.LogWarn("using the built-in %s pose: %s", name, err)
	}
	return &resources.IKPose{
		Name:          name,
		Pose:          fallback,
		BlendInSpeed:  8,
		BlendOutSpeed: 6,
	}
}

func loadClip(am *assets.AssetManager, name string) *graph.Clip {
	if am != nil {
		clip, err := am.LoadClip(name)
		if err == nil {
			return clip
		}
		core.LogWarn("using the built-in %s clip: %s", name, err)
	}
	return graph.NewPoseClip(name, map[string]math.Pose{
		"Hips": math.NewPose(math.NewVec3(0, 1, 0), math.NewQuatIdentity()),
	})
}

func defaultWeapon(name string) *resources.WeaponAnimAsset {
	w := resources.NewWeaponAnimAsset(name)
	w.WeaponBone = math.NewPose(math.NewVec3(0.12, 1.35, 0.35), math.NewQuatIdentity())
	w.AdsData = resources.NewAdsData(6)

	w.RecoilData = &resources.RecoilAnimData{
		Pitch:      math.NewVec2(1.5, 2.5),
		Yaw:        math.NewVec2(-0.8, 0.8),
		Roll:       math.NewVec2(-1, 1),
		Kick:       math.NewVec2(0.01, 0.02),
		KickRight:  math.NewVec2(-0.002, 0.002),
		KickUp:     math.NewVec2(0, 0.003),
		AimScale:   math.NewVec2(0.5, 0.4),
		DecaySpeed: 12,
		Smoothing:  springs(20, 0.4, 10, 15),
	}

	w.AimSwaySettings = springs(12, 0.6, 8, 4)
	w.FreeAimSettings = resources.FreeAimData{MaxValue: 6, InterpolationSpeed: 10, InputScale: 0.1}
	w.MoveSwaySettings = resources.MoveSwayData{
		TranslationScale:         math.NewVec3(0.01, 0.005, 0.01),
		RotationScale:            math.NewVec3(2, 2, 3),
		PositionSpringSettings:   springs(15, 0.5, 10, 1).Loc,
		RotationSpringSettings:   springs(15, 0.5, 10, 10).Rot,
		TranslationDampingFactor: 0.5,
		RotationDampingFactor:    0.5,
	}
	w.BlockData = resources.GunBlockData{
		WeaponLength: 0.8,
		StartOffset:  0.1,
		Threshold:    0.2,
		RestPose:     math.NewPose(math.NewVec3(0, -0.05, -0.1), math.QuatFromEuler(30, 0, 0)),
	}
	return w
}

func springs(stiffness, damping, speed, maxValue float32) math.LocRotSpringData {
	s := math.NewLocRotSpringData(stiffness, damping, speed)
	for _, v := range []*math.VectorSpringData{&s.Loc, &s.Rot} {
		v.X.MaxValue, v.Y.MaxValue, v.Z.MaxValue = maxValue, maxValue, maxValue
	}
	return s
}
