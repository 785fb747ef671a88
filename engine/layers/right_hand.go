package layers

import (
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
)

// RightHandIK offsets the right hand from the weapon by the designer offset
// plus the right hand curves of the slot animations. ViewmodelLayer applies
// the same offset, register one of the two.
type RightHandIK struct {
	BaseLayer
}

func NewRightHandIK() *RightHandIK {
	return &RightHandIK{BaseLayer: NewBaseLayer()}
}

func (l *RightHandIK) UpdateLayer(deltaTime float32) {
	offset := math.NewPoseIdentity()
	if asset := l.gunAsset(); asset != nil {
		offset = asset.ViewmodelOffset.RightHandOffset
	}
	offset.Position = offset.Position.Add(l.curveVec3(graph.CurveIKRightHandX, graph.CurveIKRightHandY, graph.CurveIKRightHandZ))

	s := l.skeleton()
	offsetPosition(s, l.rightHandIK(), l.masterPivot(), offset.Position, l.smoothLayerAlpha)
	offsetRotation(s, l.rightHandIK(), l.masterPivot(), offset.Rotation, l.smoothLayerAlpha)
}
