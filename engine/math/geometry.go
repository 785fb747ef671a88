package math

/**
 * @brief Angle in radians opposite to side aLen in a triangle with sides
 * aLen, aLen1 and aLen2 (law of cosines). The cosine is clamped so degenerate
 * triangles never produce NaN.
 */
func TriangleAngle(aLen, aLen1, aLen2 float32) float32 {
	c := Clamp((aLen1*aLen1+aLen2*aLen2-aLen*aLen)/(aLen1*aLen2)/2.0, -1.0, 1.0)
	if c != c {
		// zero length sides
		c = 1
	}
	return kacos(c)
}

/**
 * @brief Applies offset to boneRotation in the space of parent.
 * @param parent The world rotation of the space.
 * @param boneRotation The world rotation of the bone.
 * @param offset The rotation to apply, expressed in parent space.
 * @return The new world rotation of the bone.
 */
func RotateInBoneSpace(parent, boneRotation, offset Quat) Quat {
	return parent.Mul(offset.Mul(parent.Inverse().Mul(boneRotation)))
}

/**
 * @brief Converts an offset expressed in parent space into a world space delta.
 */
func MoveInBoneSpace(parent Quat, offset Vec3) Vec3 {
	return parent.Rotate(offset)
}
