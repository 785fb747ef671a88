package math

/**
 * @brief A position and a rotation. Whether a Pose is in world, mesh or bone
 * space depends on where it came from; conversions between spaces are always
 * explicit through ToSpace and FromSpace.
 */
type Pose struct {
	Position Vec3
	Rotation Quat
}

/** @brief The pose at the origin with no rotation. */
func NewPoseIdentity() Pose {
	return Pose{Rotation: NewQuatIdentity()}
}

/** @brief Creates a pose from the given position and rotation. */
func NewPose(position Vec3, rotation Quat) Pose {
	return Pose{Position: position, Rotation: rotation}
}

/**
 * @brief Expresses this pose relative to space.
 */
func (p Pose) ToSpace(space Pose) Pose {
	inv := space.Rotation.Inverse()
	return Pose{
		Position: inv.Rotate(p.Position.Sub(space.Position)),
		Rotation: inv.Mul(p.Rotation),
	}
}

/**
 * @brief Takes this pose, expressed relative to space, back into the space's parent.
 */
func (p Pose) FromSpace(space Pose) Pose {
	return Pose{
		Position: space.Rotation.Rotate(p.Position).Add(space.Position),
		Rotation: space.Rotation.Mul(p.Rotation),
	}
}

/**
 * @brief Transforms a point from this pose's local space.
 */
func (p Pose) TransformPoint(point Vec3) Vec3 {
	return p.Rotation.Rotate(point).Add(p.Position)
}

/**
 * @brief Transforms a point into this pose's local space.
 */
func (p Pose) InverseTransformPoint(point Vec3) Vec3 {
	return p.Rotation.Inverse().Rotate(point.Sub(p.Position))
}

/**
 * @brief Checks both components within the tolerance.
 */
func (p Pose) Equals(other Pose, tolerance float32) bool {
	return Vec3Equals(p.Position, other.Position, tolerance) && QuatEquals(p.Rotation, other.Rotation, tolerance)
}

/**
 * @brief Reports whether the pose holds no NaN or infinite values.
 */
func (p Pose) IsFinite() bool {
	return Vec3IsFinite(p.Position) && QuatIsFinite(p.Rotation)
}

/**
 * @brief Interpolates position linearly and rotation spherically.
 */
func PoseLerp(a, b Pose, alpha float32) Pose {
	return Pose{
		Position: Vec3Lerp(a.Position, b.Position, alpha),
		Rotation: Slerp(a.Rotation, b.Rotation, alpha),
	}
}
