package math

/**
 * @brief Value snapshot of a root, mid, tip chain and its goal. All poses are
 * in world space. The solver writes the new chain poses back in place.
 */
type TwoBoneIKData struct {
	Root   Pose
	Mid    Pose
	Tip    Pose
	Target Pose
	Hint   Vec3

	HasHint        bool
	EffectorWeight float32
	HintWeight     float32
}

/**
 * @brief Analytic two-bone IK on pose snapshots.
 *
 * The mid joint is bent so the root-tip distance matches the root-target
 * distance, the root then swings the chain onto the target and the hint, when
 * valid, twists the chain plane toward it. Degenerate inputs never produce NaN.
 */
func SolveTwoBoneIK(d *TwoBoneIKData) {
	midLocal := d.Mid.ToSpace(d.Root)
	tipLocal := d.Tip.ToSpace(d.Mid)

	aPosition := d.Root.Position
	bPosition := d.Mid.Position
	cPosition := d.Tip.Position
	tPosition := Vec3Lerp(cPosition, d.Target.Position, d.EffectorWeight)
	tRotation := Nlerp(d.Tip.Rotation, d.Target.Rotation, d.EffectorWeight)
	hasHint := d.HasHint && d.HintWeight > 0

	ab := bPosition.Sub(aPosition)
	bc := cPosition.Sub(bPosition)
	ac := cPosition.Sub(aPosition)
	at := tPosition.Sub(aPosition)

	abLen := ab.Len()
	bcLen := bc.Len()
	acLen := ac.Len()
	atLen := at.Len()

	oldAbcAngle := TriangleAngle(acLen, abLen, bcLen)
	newAbcAngle := TriangleAngle(atLen, abLen, bcLen)

	// Prefer the bend plane of the incoming pose, then the hint, then the
	// target direction and finally world up.
	axis := ab.Cross(bc)
	if Vec3LenSqr(axis) < K_SQR_EPSILON {
		axis = Vec3{}
		if hasHint {
			axis = d.Hint.Sub(aPosition).Cross(bc)
		}
		if Vec3LenSqr(axis) < K_SQR_EPSILON {
			axis = at.Cross(bc)
		}
		if Vec3LenSqr(axis) < K_SQR_EPSILON {
			axis = NewVec3Up()
		}
	}
	axis = Vec3Normalize(axis)

	a := 0.5 * (oldAbcAngle - newAbcAngle)
	sin := ksin(a)
	cos := kcos(a)
	deltaR := Quat{W: cos, V: axis.Mul(sin)}
	d.Mid.Rotation = deltaR.Mul(d.Mid.Rotation)
	d.Tip = tipLocal.FromSpace(d.Mid)
	midLocal = d.Mid.ToSpace(d.Root)

	cPosition = d.Tip.Position
	ac = cPosition.Sub(aPosition)
	d.Root.Rotation = FromToRotation(ac, at).Mul(d.Root.Rotation)
	d.Mid = midLocal.FromSpace(d.Root)
	d.Tip = tipLocal.FromSpace(d.Mid)

	if hasHint {
		acSqrMag := Vec3LenSqr(ac)
		if acSqrMag > 0 {
			bPosition = d.Mid.Position
			cPosition = d.Tip.Position
			ab = bPosition.Sub(aPosition)
			ac = cPosition.Sub(aPosition)

			acNorm := ac.Mul(1 / ksqrt(acSqrMag))
			ah := d.Hint.Sub(aPosition)
			abProj := ab.Sub(acNorm.Mul(ab.Dot(acNorm)))
			ahProj := ah.Sub(acNorm.Mul(ah.Dot(acNorm)))

			maxReach := abLen + bcLen
			if Vec3LenSqr(abProj) > maxReach*maxReach*0.001 && Vec3LenSqr(ahProj) > 0 {
				hintR := FromToRotation(abProj, ahProj)
				hintR.V = hintR.V.Mul(d.HintWeight)
				hintR = NormalizeSafe(hintR)
				d.Root.Rotation = hintR.Mul(d.Root.Rotation)
				d.Mid = midLocal.FromSpace(d.Root)
				d.Tip = tipLocal.FromSpace(d.Mid)
			}
		}
	}

	d.Tip.Rotation = tRotation
}
