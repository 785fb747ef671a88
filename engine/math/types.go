package math

import "github.com/go-gl/mathgl/mgl32"

// Vector and quaternion types come from mathgl. The engine works in a
// left-handed, Y up, Z forward space with angles expressed in degrees.
type (
	Vec2 = mgl32.Vec2
	Vec3 = mgl32.Vec3
	Quat = mgl32.Quat
)

/**
 * @brief Creates and returns a new 2-element vector using the supplied values.
 */
func NewVec2(x, y float32) Vec2 {
	return Vec2{x, y}
}

/**
 * @brief Creates and returns a new 3-element vector using the supplied values.
 */
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

/** @brief A 3-component vector with all components set to 0. */
func NewVec3Zero() Vec3 {
	return Vec3{}
}

/** @brief A 3-component vector with all components set to 1. */
func NewVec3One() Vec3 {
	return Vec3{1, 1, 1}
}

/** @brief A 3-component vector pointing up (0, 1, 0). */
func NewVec3Up() Vec3 {
	return Vec3{0, 1, 0}
}

/** @brief A 3-component vector pointing right (1, 0, 0). */
func NewVec3Right() Vec3 {
	return Vec3{1, 0, 0}
}

/** @brief A 3-component vector pointing forward (0, 0, 1). */
func NewVec3Forward() Vec3 {
	return Vec3{0, 0, 1}
}

/** @brief The identity rotation. */
func NewQuatIdentity() Quat {
	return mgl32.QuatIdent()
}

/**
 * @brief Returns the squared length of the vector.
 */
func Vec3LenSqr(v Vec3) float32 {
	return v.Dot(v)
}

/**
 * @brief Returns a unit vector in the direction of v, or the zero vector
 * when v is too short to be normalized.
 */
func Vec3Normalize(v Vec3) Vec3 {
	l := v.Len()
	if l < 1e-5 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

/**
 * @brief Multiplies two vectors component-wise.
 */
func Vec3Scale(a, b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

/**
 * @brief Linearly interpolates between two vectors, t clamped to [0, 1].
 */
func Vec3Lerp(a, b Vec3, t float32) Vec3 {
	return Vec3LerpUnclamped(a, b, Clamp01(t))
}

/**
 * @brief Linearly interpolates between two vectors without clamping t.
 */
func Vec3LerpUnclamped(a, b Vec3, t float32) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

/**
 * @brief Linearly interpolates between two 2D vectors, t clamped to [0, 1].
 */
func Vec2Lerp(a, b Vec2, t float32) Vec2 {
	t = Clamp01(t)
	return a.Add(b.Sub(a).Mul(t))
}

/**
 * @brief Checks the vectors for equality within the given tolerance.
 */
func Vec3Equals(a, b Vec3, tolerance float32) bool {
	return kabs(a[0]-b[0]) <= tolerance && kabs(a[1]-b[1]) <= tolerance && kabs(a[2]-b[2]) <= tolerance
}

/**
 * @brief Reports whether any component is NaN or infinite.
 */
func Vec3IsFinite(v Vec3) bool {
	for _, c := range v {
		if c != c || c > 3.4e38 || c < -3.4e38 {
			return false
		}
	}
	return true
}
