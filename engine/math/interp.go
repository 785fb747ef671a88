package math

// SpringState is the per-axis memory of a spring between ticks.
type SpringState struct {
	Error    float32
	Velocity float32
}

func (s *SpringState) Reset() {
	s.Error, s.Velocity = 0, 0
}

type VectorSpringState struct {
	X SpringState
	Y SpringState
	Z SpringState
}

func (s *VectorSpringState) Reset() {
	s.X.Reset()
	s.Y.Reset()
	s.Z.Reset()
}

// SpringData holds the designer tuning of a single axis spring.
type SpringData struct {
	Stiffness       float32 `toml:"stiffness"`
	CriticalDamping float32 `toml:"critical_damping"`
	Speed           float32 `toml:"speed"`
	MaxValue        float32 `toml:"max_value"`
}

func NewSpringData(stiffness, damping, speed float32) SpringData {
	return SpringData{
		Stiffness:       stiffness,
		CriticalDamping: damping,
		Speed:           speed,
	}
}

type VectorSpringData struct {
	X     SpringData `toml:"x"`
	Y     SpringData `toml:"y"`
	Z     SpringData `toml:"z"`
	Scale Vec3       `toml:"scale"`
}

func NewVectorSpringData(stiffness, damping, speed float32) VectorSpringData {
	s := NewSpringData(stiffness, damping, speed)
	return VectorSpringData{X: s, Y: s, Z: s, Scale: NewVec3One()}
}

type LocRotSpringData struct {
	Loc VectorSpringData `toml:"loc"`
	Rot VectorSpringData `toml:"rot"`
}

func NewLocRotSpringData(stiffness, damping, speed float32) LocRotSpringData {
	s := NewVectorSpringData(stiffness, damping, speed)
	return LocRotSpringData{Loc: s, Rot: s}
}

/**
 * @brief Advances a damped spring one step toward target.
 * @param current The current value.
 * @param target The rest value, clamped to [-MaxValue, MaxValue].
 * @param data The spring tuning.
 * @param state The spring memory, updated in place.
 * @param deltaTime Seconds since the previous step.
 * @return The new value. current is returned untouched when the step is zero.
 */
func SpringInterp(current, target float32, data SpringData, state *SpringState, deltaTime float32) float32 {
	interpSpeed := deltaTime * data.Speed
	if interpSpeed > 1 {
		interpSpeed = 1
	}
	target = Clamp(target, -data.MaxValue, data.MaxValue)

	if Approximately(interpSpeed, 0) {
		return current
	}

	damping := 2 * ksqrt(data.Stiffness) * data.CriticalDamping
	err := target - current
	errDeriv := err - state.Error
	state.Velocity += err*data.Stiffness*interpSpeed + errDeriv*damping
	state.Error = err

	return current + state.Velocity*interpSpeed
}

/**
 * @brief Per axis SpringInterp; the target is scaled by data.Scale first.
 */
func SpringInterpVec3(current, target Vec3, data VectorSpringData, state *VectorSpringState, deltaTime float32) Vec3 {
	return Vec3{
		SpringInterp(current[0], target[0]*data.Scale[0], data.X, &state.X, deltaTime),
		SpringInterp(current[1], target[1]*data.Scale[1], data.Y, &state.Y, deltaTime),
		SpringInterp(current[2], target[2]*data.Scale[2], data.Z, &state.Z, deltaTime),
	}
}

/**
 * @brief The fraction of the remaining distance covered in deltaTime by an
 * exponential decay with the given rate. Always in [0, 1).
 */
func ExpDecay(rate, deltaTime float32) float32 {
	return 1 - kexp(-rate*deltaTime)
}

/**
 * @brief Frame-rate independent interpolation.
 */
func Interp(a, b, speed, deltaTime float32) float32 {
	return Lerp(a, b, ExpDecay(speed, deltaTime))
}

/**
 * @brief Like Interp, but a zero speed snaps straight to b.
 */
func InterpLayer(a, b, speed, deltaTime float32) float32 {
	if Approximately(speed, 0) {
		return b
	}
	return Interp(a, b, speed, deltaTime)
}

func InterpVec2(a, b Vec2, speed, deltaTime float32) Vec2 {
	return Vec2Lerp(a, b, ExpDecay(speed, deltaTime))
}

func InterpVec3(a, b Vec3, speed, deltaTime float32) Vec3 {
	return Vec3Lerp(a, b, ExpDecay(speed, deltaTime))
}

func InterpQuat(a, b Quat, speed, deltaTime float32) Quat {
	return Slerp(a, b, ExpDecay(speed, deltaTime))
}

func InterpPose(a, b Pose, speed, deltaTime float32) Pose {
	return PoseLerp(a, b, ExpDecay(speed, deltaTime))
}
