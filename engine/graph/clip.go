package graph

import (
	"sort"

	"github.com/spaghettifunk/fpsanim/engine/math"
)

// Keyframe is a bone local pose at a point in time.
type Keyframe struct {
	Time float32
	Pose math.Pose
}

// Track animates one bone.
type Track struct {
	Bone string
	Keys []Keyframe
}

func (t *Track) addKey(time float32, pose math.Pose) {
	i := sort.Search(len(t.Keys), func(i int) bool { return t.Keys[i].Time >= time })
	if i < len(t.Keys) && t.Keys[i].Time == time {
		t.Keys[i].Pose = pose
		return
	}
	t.Keys = append(t.Keys, Keyframe{})
	copy(t.Keys[i+1:], t.Keys[i:])
	t.Keys[i] = Keyframe{Time: time, Pose: pose}
}

// Sample interpolates the track at time, holding the end keys.
func (t *Track) Sample(time float32) math.Pose {
	n := len(t.Keys)
	if n == 0 {
		return math.NewPoseIdentity()
	}
	if time <= t.Keys[0].Time {
		return t.Keys[0].Pose
	}
	if time >= t.Keys[n-1].Time {
		return t.Keys[n-1].Pose
	}
	i := sort.Search(n, func(i int) bool { return t.Keys[i].Time > time })
	a, b := t.Keys[i-1], t.Keys[i]
	return math.PoseLerp(a.Pose, b.Pose, (time-a.Time)/(b.Time-a.Time))
}

// Clip is a named set of bone tracks and float curves.
type Clip struct {
	Name   string
	Length float32
	Loop   bool

	tracks []*Track
	byBone map[string]*Track
	curves map[string]*Curve
}

func NewClip(name string, length float32, loop bool) *Clip {
	return &Clip{
		Name:   name,
		Length: length,
		Loop:   loop,
		byBone: make(map[string]*Track),
		curves: make(map[string]*Curve),
	}
}

// NewPoseClip builds a single frame clip holding a static pose.
func NewPoseClip(name string, poses map[string]math.Pose) *Clip {
	c := NewClip(name, 0, false)
	bones := make([]string, 0, len(poses))
	for bone := range poses {
		bones = append(bones, bone)
	}
	sort.Strings(bones)
	for _, bone := range bones {
		c.AddKey(bone, 0, poses[bone])
	}
	return c
}

// AddKey adds a bone keyframe, growing the clip length when needed.
func (c *Clip) AddKey(bone string, time float32, pose math.Pose) {
	t, ok := c.byBone[bone]
	if !ok {
		t = &Track{Bone: bone}
		c.byBone[bone] = t
		c.tracks = append(c.tracks, t)
	}
	t.addKey(time, pose)
	if time > c.Length {
		c.Length = time
	}
}

// AddCurveKey adds a key to the named float curve.
func (c *Clip) AddCurveKey(name string, time, value float32) {
	curve, ok := c.curves[name]
	if !ok {
		curve = &Curve{}
		c.curves[name] = curve
	}
	curve.AddKey(time, value)
	if time > c.Length {
		c.Length = time
	}
}

func (c *Clip) Tracks() []*Track {
	return c.tracks
}

func (c *Clip) HasCurve(name string) bool {
	_, ok := c.curves[name]
	return ok
}

// CurveNames returns the curve names sorted.
func (c *Clip) CurveNames() []string {
	names := make([]string, 0, len(c.curves))
	for name := range c.curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LocalTime maps a playback time onto the clip, wrapping looping clips and
// clamping the others.
func (c *Clip) LocalTime(time float32) float32 {
	if c.Length <= 0 {
		return 0
	}
	if c.Loop {
		for time >= c.Length {
			time -= c.Length
		}
		for time < 0 {
			time += c.Length
		}
		return time
	}
	return math.Clamp(time, 0, c.Length)
}

// Sample writes every track and curve at time into out.
func (c *Clip) Sample(time float32, out *PoseBuffer) {
	t := c.LocalTime(time)
	for _, track := range c.tracks {
		out.Set(track.Bone, track.Sample(t))
	}
	for name, curve := range c.curves {
		out.SetCurve(name, curve.Evaluate(t))
	}
}

// SampleCurve evaluates a single curve at time.
func (c *Clip) SampleCurve(name string, time float32) (float32, bool) {
	curve, ok := c.curves[name]
	if !ok {
		return 0, false
	}
	return curve.Evaluate(c.LocalTime(time)), true
}

// ReferencePose returns the first frame of every track, used as the base of
// additive blending.
func (c *Clip) ReferencePose(out *PoseBuffer) {
	for _, track := range c.tracks {
		if len(track.Keys) > 0 {
			out.Set(track.Bone, track.Keys[0].Pose)
		}
	}
}
