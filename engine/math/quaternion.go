package math

import (
	m "math"

	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief Creates a rotation of angle degrees around axis. The axis does not
 * need to be normalized; a zero axis yields the identity.
 */
func QuatAngleAxis(degrees float32, axis Vec3) Quat {
	n := Vec3Normalize(axis)
	if Vec3LenSqr(n) == 0 {
		return NewQuatIdentity()
	}
	return mgl32.QuatRotate(DegToRad(degrees), n)
}

/**
 * @brief Creates a rotation from euler angles in degrees. Rotations are applied
 * around Z, then X, then Y.
 */
func QuatFromEuler(x, y, z float32) Quat {
	qx := mgl32.QuatRotate(DegToRad(x), NewVec3Right())
	qy := mgl32.QuatRotate(DegToRad(y), NewVec3Up())
	qz := mgl32.QuatRotate(DegToRad(z), NewVec3Forward())
	return qy.Mul(qx).Mul(qz)
}

/**
 * @brief Same as QuatFromEuler taking a vector of degrees.
 */
func QuatFromEulerVec(euler Vec3) Quat {
	return QuatFromEuler(euler[0], euler[1], euler[2])
}

/**
 * @brief Converts a rotation into euler angles in degrees, each wrapped to
 * [-180, 180). Inverse of QuatFromEuler.
 */
func ToEuler(q Quat) Vec3 {
	q = q.Normalize()
	w, x, y, z := float64(q.W), float64(q.V[0]), float64(q.V[1]), float64(q.V[2])

	r12 := 2 * (y*z - w*x)
	var ex, ey, ez float64
	if r12 > 0.99999 || r12 < -0.99999 {
		// Looking straight up or down, roll folds into yaw.
		ex = -m.Copysign(m.Pi/2, r12)
		ey = m.Atan2(-2*(x*z-w*y), 1-2*(y*y+z*z))
		ez = 0
	} else {
		ex = m.Asin(-r12)
		ey = m.Atan2(2*(x*z+w*y), 1-2*(x*x+y*y))
		ez = m.Atan2(2*(x*y+w*z), 1-2*(x*x+z*z))
	}

	return Vec3{
		NormalizeAngle(float32(ex * 180 / m.Pi)),
		NormalizeAngle(float32(ey * 180 / m.Pi)),
		NormalizeAngle(float32(ez * 180 / m.Pi)),
	}
}

/**
 * @brief Spherical interpolation along the shortest path, t clamped to [0, 1].
 */
func Slerp(a, b Quat, t float32) Quat {
	return SlerpUnclamped(a, b, Clamp01(t))
}

/**
 * @brief Spherical interpolation along the shortest path.
 */
func SlerpUnclamped(a, b Quat, t float32) Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, t).Normalize()
}

/**
 * @brief Normalized linear interpolation along the shortest path, t clamped to [0, 1].
 */
func Nlerp(a, b Quat, t float32) Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return NormalizeSafe(mgl32.QuatNlerp(a, b, Clamp01(t)))
}

/**
 * @brief Normalizes q, returning the identity when q is too small to normalize.
 */
func NormalizeSafe(q Quat) Quat {
	dot := q.Dot(q)
	if dot > K_FLOAT_MIN {
		rsqrt := 1 / ksqrt(dot)
		return q.Scale(rsqrt)
	}
	return NewQuatIdentity()
}

/**
 * @brief The rotation that takes direction from onto direction to.
 */
func FromToRotation(from, to Vec3) Quat {
	// Zero vectors give no direction.
	if Vec3LenSqr(from) < K_SQR_EPSILON || Vec3LenSqr(to) < K_SQR_EPSILON {
		return NewQuatIdentity()
	}
	return NormalizeSafe(mgl32.QuatBetweenVectors(from, to))
}

/**
 * @brief Checks two rotations for equality within the tolerance, treating q
 * and -q as the same rotation.
 */
func QuatEquals(a, b Quat, tolerance float32) bool {
	return kabs(kabs(a.Normalize().Dot(b.Normalize()))-1) <= tolerance
}

/**
 * @brief Angle in degrees between two rotations.
 */
func QuatAngle(a, b Quat) float32 {
	dot := kabs(a.Normalize().Dot(b.Normalize()))
	return RadToDeg(2 * kacos(Clamp(dot, 0, 1)))
}

/**
 * @brief Reports whether all components are finite numbers.
 */
func QuatIsFinite(q Quat) bool {
	return !(q.W != q.W || q.W > 3.4e38 || q.W < -3.4e38) && Vec3IsFinite(q.V)
}
