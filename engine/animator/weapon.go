package animator

import (
	"github.com/spaghettifunk/fpsanim/engine/rig"
)

// WeaponTransformData points at the bones of the equipped weapon model. Any
// of them may be rig.NoBone.
type WeaponTransformData struct {
	// Rotation pivot of the weapon, child of the weapon bone.
	PivotPoint rig.BoneID
	// Sight the ADS layer aligns with the camera.
	AimPoint rig.BoneID
	// Grip the left hand is pinned to.
	LeftHandTarget rig.BoneID
}

func NewWeaponTransformData() WeaponTransformData {
	return WeaponTransformData{
		PivotPoint:     rig.NoBone,
		AimPoint:       rig.NoBone,
		LeftHandTarget: rig.NoBone,
	}
}
