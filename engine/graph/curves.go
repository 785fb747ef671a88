package graph

import "sort"

// Curve names read by the animation layers.
const (
	CurveOverlay       = "Overlay"
	CurveWeaponBone    = "WeaponBone"
	CurveMaskLookLayer = "MaskLookLayer"

	CurveIKX = "IK_X"
	CurveIKY = "IK_Y"
	CurveIKZ = "IK_Z"

	CurveIKLeftHandX = "IK_LeftHand_X"
	CurveIKLeftHandY = "IK_LeftHand_Y"
	CurveIKLeftHandZ = "IK_LeftHand_Z"

	CurveIKRightHandX = "IK_RightHand_X"
	CurveIKRightHandY = "IK_RightHand_Y"
	CurveIKRightHandZ = "IK_RightHand_Z"
)

type CurveKey struct {
	Time  float32 `toml:"time"`
	Value float32 `toml:"value"`
}

// Curve is a piecewise linear float track.
type Curve struct {
	Keys []CurveKey
}

// AddKey inserts a key keeping the keys sorted by time. A key at an existing
// time replaces it.
func (c *Curve) AddKey(time, value float32) {
	i := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time >= time })
	if i < len(c.Keys) && c.Keys[i].Time == time {
		c.Keys[i].Value = value
		return
	}
	c.Keys = append(c.Keys, CurveKey{})
	copy(c.Keys[i+1:], c.Keys[i:])
	c.Keys[i] = CurveKey{Time: time, Value: value}
}

// Evaluate samples the curve, holding the first and last values outside the
// key range. An empty curve evaluates to 0.
func (c *Curve) Evaluate(time float32) float32 {
	n := len(c.Keys)
	if n == 0 {
		return 0
	}
	if time <= c.Keys[0].Time {
		return c.Keys[0].Value
	}
	if time >= c.Keys[n-1].Time {
		return c.Keys[n-1].Value
	}
	i := sort.Search(n, func(i int) bool { return c.Keys[i].Time > time })
	a, b := c.Keys[i-1], c.Keys[i]
	t := (time - a.Time) / (b.Time - a.Time)
	return a.Value + (b.Value-a.Value)*t
}
