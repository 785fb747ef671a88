package math

import (
	m "math"
	"time"

	"golang.org/x/exp/rand"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief An approximate representation of PI multiplied by 2. */
	K_PI_2 float32 = 2.0 * K_PI
	/** @brief An approximate representation of PI divided by 2. */
	K_HALF_PI float32 = 0.5 * K_PI
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
	/** @brief Squared length under which a vector is treated as degenerate. */
	K_SQR_EPSILON float32 = 1e-8
	/** @brief Smallest quaternion squared length that can still be normalized. */
	K_FLOAT_MIN float32 = 1e-10
)

/**
 * Note that these are here in order to prevent converting to float64
 * at every call site.
 */
func ksin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func kcos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func kacos(x float32) float32 {
	return float32(m.Acos(float64(x)))
}

func ksqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func kabs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

func kexp(x float32) float32 {
	return float32(m.Exp(float64(x)))
}

func kmax(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

/**
 * @brief Compares two floats the way the animation code expects: a relative
 * tolerance for large values and a few epsilons around zero.
 */
func Approximately(a, b float32) bool {
	return kabs(b-a) < kmax(1e-6*kmax(kabs(a), kabs(b)), K_FLOAT_EPSILON*8)
}

/** @brief Clamps the value to [0, 1]. */
func Clamp01(value float32) float32 {
	return Clamp(value, 0, 1)
}

/** @brief Linear interpolation with t clamped to [0, 1]. */
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*Clamp01(t)
}

/** @brief Linear interpolation without clamping t. */
func LerpUnclamped(a, b, t float32) float32 {
	return a + (b-a)*t
}

/**
 * @brief Wraps an angle in degrees into [-180, 180).
 */
func NormalizeAngle(angle float32) float32 {
	for angle < -180 {
		angle += 360
	}
	for angle >= 180 {
		angle -= 360
	}
	return angle
}

/** @brief Square root, zero for negative input. */
func Sqrt(x float32) float32 {
	if x <= 0 {
		return 0
	}
	return ksqrt(x)
}

/** @brief Converts degrees to radians. */
func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

/** @brief Converts radians to degrees. */
func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}

var rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))

/** @brief Seeds the package random generator, used to make runs reproducible. */
func SeedRandom(seed uint64) {
	rng.Seed(seed)
}

/** @brief Returns a random float in [min, max). */
func RandomInRange(min, max float32) float32 {
	return min + rng.Float32()*(max-min)
}
