package resources

import (
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
)

/** @brief Max look angle a single bone takes, x for the negative and y for the positive direction. */
type BoneAngle struct {
	Bone  string
	Angle math.Vec2
}

/**
 * @brief Distribution of the aim pitch and yaw across the spine. Every entry
 * is a bone and the share of the 90 degrees budget it takes.
 */
type AimOffsetTable struct {
	Name           string
	AimOffsetUp    []BoneAngle
	AimOffsetRight []BoneAngle
}

/** @brief Weapon pose offset blended in and out by the locomotion layer (prone, sprint). */
type IKPose struct {
	Name          string
	Pose          math.Pose
	BlendInSpeed  float32
	BlendOutSpeed float32
}

/**
 * @brief Designer data of the procedural recoil. Ranges are [min, max], angles
 * in degrees and kicks in meters.
 */
type RecoilAnimData struct {
	Pitch     math.Vec2
	Yaw       math.Vec2
	Roll      math.Vec2
	Kick      math.Vec2
	KickRight math.Vec2
	KickUp    math.Vec2
	// Multipliers applied while aiming: x for rotation, y for translation.
	AimScale math.Vec2
	// Speed the recoil target returns to rest.
	DecaySpeed float32
	Smoothing  math.LocRotSpringData
}

/** @brief Per axis ratio between absolute (0) and additive (1) aiming. */
type AdsBlend struct {
	X, Y, Z float32
}

type AdsData struct {
	AdsTranslationBlend AdsBlend
	AdsRotationBlend    AdsBlend
	PointAimOffset      math.Pose
	AimSpeed            float32
	ChangeSightSpeed    float32
	PointAimSpeed       float32
}

func NewAdsData(speed float32) AdsData {
	return AdsData{
		PointAimOffset:   math.NewPoseIdentity(),
		AimSpeed:         speed,
		ChangeSightSpeed: speed,
		PointAimSpeed:    speed,
	}
}

type FreeAimData struct {
	MaxValue           float32
	InterpolationSpeed float32
	InputScale         float32
}

type MoveSwayData struct {
	TranslationScale         math.Vec3
	RotationScale            math.Vec3
	PositionSpringSettings   math.VectorSpringData
	RotationSpringSettings   math.VectorSpringData
	TranslationDampingFactor float32
	RotationDampingFactor    float32
}

/** @brief Weapon collision settings. */
type GunBlockData struct {
	WeaponLength float32
	StartOffset  float32
	Threshold    float32
	RestPose     math.Pose
}

/** @brief Arms offsets, positions in centimeters. */
type ViewmodelOffset struct {
	PoseOffset      math.Pose
	RightHandOffset math.Pose
	LeftHandOffset  math.Pose
}

/**
 * @brief Static animation settings of one weapon. Read only at runtime and
 * swapped as a whole when the equipped weapon changes.
 */
type WeaponAnimAsset struct {
	Name string

	// Adjusts weapon model rotation.
	RotationOffset math.Quat
	AimOffsetTable *AimOffsetTable
	RecoilData     *RecoilAnimData
	OverlayPose    *graph.AnimSequence
	// Weapon default pose in root bone space.
	WeaponBone math.Pose

	AdsData         AdsData
	ViewmodelOffset ViewmodelOffset
	ViewOffset      math.Pose

	AimSwaySettings  math.LocRotSpringData
	FreeAimSettings  FreeAimData
	MoveSwaySettings MoveSwayData

	BlockData GunBlockData

	AdsRecoilOffset math.Vec3
	AdsSwayOffset   math.Vec3
}

func NewWeaponAnimAsset(name string) *WeaponAnimAsset {
	return &WeaponAnimAsset{
		Name:           name,
		RotationOffset: math.NewQuatIdentity(),
		WeaponBone:     math.NewPoseIdentity(),
		AdsData:        NewAdsData(1),
		ViewmodelOffset: ViewmodelOffset{
			PoseOffset:      math.NewPoseIdentity(),
			RightHandOffset: math.NewPoseIdentity(),
			LeftHandOffset:  math.NewPoseIdentity(),
		},
		ViewOffset: math.NewPoseIdentity(),
		BlockData:  GunBlockData{RestPose: math.NewPoseIdentity()},
	}
}
