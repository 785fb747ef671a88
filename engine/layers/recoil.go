package layers

// RecoilLayer applies the recoil pose of the character data to the master IK.
type RecoilLayer struct {
	BaseLayer

	// Offsets in root bone space instead of the space of the master IK.
	UseMeshSpace bool
}

func NewRecoilLayer() *RecoilLayer {
	return &RecoilLayer{BaseLayer: NewBaseLayer()}
}

func (l *RecoilLayer) UpdateLayer(deltaTime float32) {
	asset := l.gunAsset()
	if asset == nil {
		return
	}
	s := l.skeleton()
	recoil := l.charData().RecoilAnim

	// While aiming the recoil rotates around the sights rather than the pivot.
	pivotOffset := asset.AdsRecoilOffset.Mul(l.rigData().AimWeight)
	pivotOffset = recoil.Rotation.Rotate(pivotOffset).Sub(pivotOffset)
	recoil.Position = recoil.Position.Add(pivotOffset)

	if l.UseMeshSpace {
		offsetPosition(s, l.masterIK(), l.rootBone(), recoil.Position, l.smoothLayerAlpha)
		offsetRotation(s, l.masterIK(), l.rootBone(), recoil.Rotation, l.smoothLayerAlpha)
		return
	}
	l.masterIK().OffsetLocalPosition(s, recoil.Position, l.smoothLayerAlpha)
	l.masterIK().OffsetLocalRotation(s, recoil.Rotation, l.smoothLayerAlpha)
}
