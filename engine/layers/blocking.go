package layers

import (
	"github.com/spaghettifunk/fpsanim/engine/math"
)

/**
 * @brief Pulls the weapon into the rest pose of the weapon when an obstacle
 * is closer than the weapon length. The trace itself belongs to gameplay:
 * it starts StartOffset behind the weapon bone, runs WeaponLength forward and
 * its hit distance arrives in CharAnimData.ObstacleDistance.
 */
type BlockingLayer struct {
	BaseLayer
	/** @brief Speed the block weight follows the trace with. Zero snaps. */
	BlendSpeed float32

	blockWeight float32
}

func NewBlockingLayer() *BlockingLayer {
	return &BlockingLayer{BaseLayer: NewBaseLayer(), BlendSpeed: 10}
}

// BlockWeight is how far the weapon is pulled into the rest pose.
func (l *BlockingLayer) BlockWeight() float32 {
	return l.blockWeight
}

func (l *BlockingLayer) OnPoseSampled() {
	l.blockWeight = 0
}

func (l *BlockingLayer) UpdateLayer(deltaTime float32) {
	asset := l.gunAsset()
	if asset == nil || asset.BlockData.WeaponLength <= 0 {
		l.blockWeight = 0
		return
	}
	block := asset.BlockData

	target := float32(0)
	if distance := l.charData().ObstacleDistance; distance >= 0 {
		// Threshold is the penetration that blocks the weapon fully.
		penetration := block.WeaponLength - distance
		switch {
		case penetration <= 0:
		case block.Threshold <= 0:
			target = 1
		default:
			target = math.Clamp01(penetration / block.Threshold)
		}
	}
	l.blockWeight = math.InterpLayer(l.blockWeight, target, l.BlendSpeed, deltaTime)

	weight := l.blockWeight * l.smoothLayerAlpha
	if math.Approximately(weight, 0) {
		return
	}
	s := l.skeleton()
	offsetPosition(s, l.masterIK(), l.rootBone(), block.RestPose.Position, weight)
	offsetRotation(s, l.masterIK(), l.rootBone(), block.RestPose.Rotation, weight)
}
