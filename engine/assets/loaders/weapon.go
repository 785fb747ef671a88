package loaders

import (
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
)

type recoilFile struct {
	Pitch      math.Vec2             `toml:"pitch"`
	Yaw        math.Vec2             `toml:"yaw"`
	Roll       math.Vec2             `toml:"roll"`
	Kick       math.Vec2             `toml:"kick"`
	KickRight  math.Vec2             `toml:"kick_right"`
	KickUp     math.Vec2             `toml:"kick_up"`
	AimScale   math.Vec2             `toml:"aim_scale"`
	DecaySpeed float32               `toml:"decay_speed"`
	Smoothing  math.LocRotSpringData `toml:"smoothing"`
}

type overlayFile struct {
	BlendIn  float32             `toml:"blend_in"`
	BlendOut float32             `toml:"blend_out"`
	Bones    map[string]poseFile `toml:"bones"`
}

type adsBlendFile struct {
	Translation math.Vec3 `toml:"translation"`
	Rotation    math.Vec3 `toml:"rotation"`
}

type adsFile struct {
	Blend            adsBlendFile `toml:"blend"`
	PointAimOffset   *poseFile    `toml:"point_aim_offset"`
	AimSpeed         float32      `toml:"aim_speed"`
	ChangeSightSpeed float32      `toml:"change_sight_speed"`
	PointAimSpeed    float32      `toml:"point_aim_speed"`
}

type viewmodelFile struct {
	Pose      poseFile `toml:"pose"`
	RightHand poseFile `toml:"right_hand"`
	LeftHand  poseFile `toml:"left_hand"`
}

type freeAimFile struct {
	MaxValue           float32 `toml:"max_value"`
	InterpolationSpeed float32 `toml:"interpolation_speed"`
	InputScale         float32 `toml:"input_scale"`
}

type moveSwayFile struct {
	TranslationScale         math.Vec3             `toml:"translation_scale"`
	RotationScale            math.Vec3             `toml:"rotation_scale"`
	Position                 math.VectorSpringData `toml:"position"`
	Rotation                 math.VectorSpringData `toml:"rotation"`
	TranslationDampingFactor float32               `toml:"translation_damping"`
	RotationDampingFactor    float32               `toml:"rotation_damping"`
}

type blockFile struct {
	WeaponLength float32  `toml:"weapon_length"`
	StartOffset  float32  `toml:"start_offset"`
	Threshold    float32  `toml:"threshold"`
	RestPose     poseFile `toml:"rest_pose"`
}

type weaponFile struct {
	Name            string                `toml:"name"`
	RotationOffset  math.Vec3             `toml:"rotation_offset"`
	WeaponBone      poseFile              `toml:"weapon_bone"`
	ViewOffset      poseFile              `toml:"view_offset"`
	AdsRecoilOffset math.Vec3             `toml:"ads_recoil_offset"`
	AdsSwayOffset   math.Vec3             `toml:"ads_sway_offset"`
	AimOffset       *aimOffsetFile        `toml:"aim_offset"`
	Recoil          *recoilFile           `toml:"recoil"`
	OverlayPose     *overlayFile          `toml:"overlay_pose"`
	Ads             *adsFile              `toml:"ads"`
	Viewmodel       viewmodelFile         `toml:"viewmodel"`
	AimSway         math.LocRotSpringData `toml:"aim_sway"`
	FreeAim         freeAimFile           `toml:"free_aim"`
	MoveSway        moveSwayFile          `toml:"move_sway"`
	Block           *blockFile            `toml:"block"`
}

type WeaponLoader struct{}

func (l *WeaponLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	var file weaponFile
	size, err := decodeFile(path, &file)
	if err != nil {
		return nil, err
	}

	name := file.Name
	if name == "" {
		name = nameOf(path)
	}
	asset := resources.NewWeaponAnimAsset(name)
	asset.RotationOffset = math.QuatFromEulerVec(file.RotationOffset)
	asset.WeaponBone = file.WeaponBone.pose()
	asset.ViewOffset = file.ViewOffset.pose()
	asset.AdsRecoilOffset = file.AdsRecoilOffset
	asset.AdsSwayOffset = file.AdsSwayOffset

	if file.AimOffset != nil {
		asset.AimOffsetTable = file.AimOffset.table(name)
	}

	if r := file.Recoil; r != nil {
		springScale(&r.Smoothing.Loc)
		springScale(&r.Smoothing.Rot)
		asset.RecoilData = &resources.RecoilAnimData{
			Pitch:      r.Pitch,
			Yaw:        r.Yaw,
			Roll:       r.Roll,
			Kick:       r.Kick,
			KickRight:  r.KickRight,
			KickUp:     r.KickUp,
			AimScale:   r.AimScale,
			DecaySpeed: r.DecaySpeed,
			Smoothing:  r.Smoothing,
		}
	}

	if o := file.OverlayPose; o != nil {
		poses := make(map[string]math.Pose, len(o.Bones))
		for bone, p := range o.Bones {
			poses[bone] = p.pose()
		}
		blend := graph.NewBlendTime(o.BlendIn, o.BlendOut)
		asset.OverlayPose = graph.NewAnimSequence(graph.NewPoseClip(name+"_overlay", poses), blend)
	}

	if a := file.Ads; a != nil {
		ads := resources.NewAdsData(a.AimSpeed)
		ads.AdsTranslationBlend = resources.AdsBlend{X: a.Blend.Translation[0], Y: a.Blend.Translation[1], Z: a.Blend.Translation[2]}
		ads.AdsRotationBlend = resources.AdsBlend{X: a.Blend.Rotation[0], Y: a.Blend.Rotation[1], Z: a.Blend.Rotation[2]}
		if a.ChangeSightSpeed > 0 {
			ads.ChangeSightSpeed = a.ChangeSightSpeed
		}
		if a.PointAimSpeed > 0 {
			ads.PointAimSpeed = a.PointAimSpeed
		}
		if a.PointAimOffset != nil {
			ads.PointAimOffset = a.PointAimOffset.pose()
		}
		asset.AdsData = ads
	}

	asset.ViewmodelOffset = resources.ViewmodelOffset{
		PoseOffset:      file.Viewmodel.Pose.pose(),
		RightHandOffset: file.Viewmodel.RightHand.pose(),
		LeftHandOffset:  file.Viewmodel.LeftHand.pose(),
	}

	springScale(&file.AimSway.Loc)
	springScale(&file.AimSway.Rot)
	asset.AimSwaySettings = file.AimSway

	asset.FreeAimSettings = resources.FreeAimData{
		MaxValue:           file.FreeAim.MaxValue,
		InterpolationSpeed: file.FreeAim.InterpolationSpeed,
		InputScale:         file.FreeAim.InputScale,
	}

	springScale(&file.MoveSway.Position)
	springScale(&file.MoveSway.Rotation)
	asset.MoveSwaySettings = resources.MoveSwayData{
		TranslationScale:         file.MoveSway.TranslationScale,
		RotationScale:            file.MoveSway.RotationScale,
		PositionSpringSettings:   file.MoveSway.Position,
		RotationSpringSettings:   file.MoveSway.Rotation,
		TranslationDampingFactor: file.MoveSway.TranslationDampingFactor,
		RotationDampingFactor:    file.MoveSway.RotationDampingFactor,
	}

	if b := file.Block; b != nil {
		asset.BlockData = resources.GunBlockData{
			WeaponLength: b.WeaponLength,
			StartOffset:  b.StartOffset,
			Threshold:    b.Threshold,
			RestPose:     b.RestPose.pose(),
		}
	}

	return newResource(path, resources.ResourceTypeWeapon, name, size, asset), nil
}

func (l *WeaponLoader) Unload(resource *resources.Resource) error {
	return unload(resource)
}
