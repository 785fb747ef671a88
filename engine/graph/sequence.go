package graph

import (
	"github.com/spaghettifunk/fpsanim/engine/math"
)

// BlendTime controls how a sequence fades in and out of a mixer.
type BlendTime struct {
	BlendInTime  float32 `toml:"blend_in"`
	BlendOutTime float32 `toml:"blend_out"`
	StartTime    float32 `toml:"start_time"`
	RateScale    float32 `toml:"rate_scale"`
}

func NewBlendTime(blendIn, blendOut float32) BlendTime {
	return BlendTime{
		BlendInTime:  blendIn,
		BlendOutTime: blendOut,
		RateScale:    1,
	}
}

// AnimSequence is a clip with the settings needed to play it on the graph.
type AnimSequence struct {
	Clip      *Clip
	BlendTime BlendTime
	// Spine rotation applied while the sequence plays on the slot.
	SpineRotation math.Quat
	// Curves exported to the layers. Empty exports every clip curve.
	Curves       []string
	Mask         *AvatarMask
	OverrideMask *AvatarMask
	IsAdditive   bool
}

func NewAnimSequence(clip *Clip, blendTime BlendTime) *AnimSequence {
	return &AnimSequence{
		Clip:          clip,
		BlendTime:     blendTime,
		SpineRotation: math.NewQuatIdentity(),
	}
}
