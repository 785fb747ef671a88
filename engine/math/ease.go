package math

import (
	"strings"

	"github.com/tanema/gween/ease"
)

// EaseMode selects the easing curve applied to a normalized progress value.
type EaseMode struct {
	Name string
	Func ease.TweenFunc
}

var (
	EaseLinear    = EaseMode{Name: "linear", Func: ease.Linear}
	EaseInOutSine = EaseMode{Name: "sine", Func: ease.InOutSine}
	EaseInOutQuad = EaseMode{Name: "quad", Func: ease.InOutQuad}
	EaseInOutCube = EaseMode{Name: "cubic", Func: ease.InOutCubic}
	EaseOutQuad   = EaseMode{Name: "out_quad", Func: ease.OutQuad}
	EaseInQuad    = EaseMode{Name: "in_quad", Func: ease.InQuad}
)

var easeModes = map[string]EaseMode{
	EaseLinear.Name:    EaseLinear,
	EaseInOutSine.Name: EaseInOutSine,
	EaseInOutQuad.Name: EaseInOutQuad,
	EaseInOutCube.Name: EaseInOutCube,
	EaseOutQuad.Name:   EaseOutQuad,
	EaseInQuad.Name:    EaseInQuad,
}

/**
 * @brief Looks up an ease mode by name, falling back to linear.
 */
func EaseModeByName(name string) (EaseMode, bool) {
	mode, ok := easeModes[strings.ToLower(name)]
	if !ok {
		return EaseLinear, false
	}
	return mode, true
}

/**
 * @brief Eases t in [0, 1] through the mode's curve.
 */
func (e EaseMode) Evaluate(t float32) float32 {
	t = Clamp01(t)
	if e.Func == nil {
		return t
	}
	return e.Func(t, 0, 1, 1)
}

/**
 * @brief Interpolates from a to b with the eased progress t.
 */
func Ease(a, b, t float32, mode EaseMode) float32 {
	return LerpUnclamped(a, b, mode.Evaluate(t))
}
