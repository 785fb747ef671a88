package layers

import (
	"github.com/spaghettifunk/fpsanim/engine/graph"
)

// Viewmodel offsets are authored in centimeters.
const viewmodelScale = 100

// ViewmodelLayer applies the arms offsets of the weapon: the weapon pose in
// root space and both hands relative to the weapon. It replaces RightHandIK.
type ViewmodelLayer struct {
	BaseLayer
}

func NewViewmodelLayer() *ViewmodelLayer {
	return &ViewmodelLayer{BaseLayer: NewBaseLayer()}
}

func (l *ViewmodelLayer) UpdateLayer(deltaTime float32) {
	asset := l.gunAsset()
	if asset == nil {
		return
	}
	s := l.skeleton()
	master := l.masterIK()
	pivot := l.masterPivot()

	offset := asset.ViewmodelOffset.PoseOffset
	offsetPosition(s, master, l.rootBone(), offset.Position.Mul(1.0/viewmodelScale), 1)
	offsetRotation(s, master, l.rootBone(), offset.Rotation, l.rigData().AimWeight)

	offset = asset.ViewmodelOffset.RightHandOffset
	offset.Position = offset.Position.Add(l.curveVec3(graph.CurveIKRightHandX, graph.CurveIKRightHandY, graph.CurveIKRightHandZ))
	offsetPosition(s, l.rightHandIK(), pivot, offset.Position.Mul(1.0/viewmodelScale), 1)
	offsetRotation(s, l.rightHandIK(), pivot, offset.Rotation, 1)

	offset = asset.ViewmodelOffset.LeftHandOffset
	offsetPosition(s, l.leftHandIK(), pivot, offset.Position.Mul(1.0/viewmodelScale), 1)
	offsetRotation(s, l.leftHandIK(), pivot, offset.Rotation, 1)
}
