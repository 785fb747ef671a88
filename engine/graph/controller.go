package graph

import (
	"fmt"

	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Controller produces a full body pose every frame and exposes float
// parameters, like an animator state machine.
type Controller interface {
	Update(deltaTime float32)
	Sample(out *PoseBuffer)
	// GetFloat returns a parameter, falling back to the curve of the same name
	// sampled from the playing state.
	GetFloat(name string) float32
	SetFloat(name string, value float32)
}

type clipState struct {
	name string
	clip *Clip
	time float32
}

// ClipController is a Controller playing one looping state at a time with a
// cross-fade between states.
type ClipController struct {
	Name string

	states   map[string]*Clip
	current  *clipState
	previous *clipState

	fade       *gween.Tween
	fadeWeight float32

	params  map[string]float32
	scratch *PoseBuffer
}

func NewClipController(name string) *ClipController {
	return &ClipController{
		Name:       name,
		states:     make(map[string]*Clip),
		fadeWeight: 1,
		params:     make(map[string]float32),
		scratch:    NewPoseBuffer(),
	}
}

// AddState registers a clip under a state name. The first state becomes the
// playing one.
func (c *ClipController) AddState(name string, clip *Clip) {
	c.states[name] = clip
	if c.current == nil {
		c.current = &clipState{name: name, clip: clip}
	}
}

// Play cross-fades into the state over fadeTime seconds.
func (c *ClipController) Play(state string, fadeTime float32) error {
	clip, ok := c.states[state]
	if !ok {
		return fmt.Errorf("controller %s: %w: %s", c.Name, core.ErrStateNotFound, state)
	}
	if c.current != nil && c.current.name == state {
		return nil
	}
	c.previous = c.current
	c.current = &clipState{name: state, clip: clip}
	if fadeTime <= 0 || c.previous == nil {
		c.previous = nil
		c.fade = nil
		c.fadeWeight = 1
		return nil
	}
	c.fade = gween.New(0, 1, fadeTime, ease.InOutQuad)
	c.fadeWeight = 0
	return nil
}

func (c *ClipController) CurrentState() string {
	if c.current == nil {
		return ""
	}
	return c.current.name
}

func (c *ClipController) Update(deltaTime float32) {
	if c.current != nil {
		c.current.time += deltaTime
	}
	if c.previous != nil {
		c.previous.time += deltaTime
	}
	if c.fade != nil {
		v, done := c.fade.Update(deltaTime)
		c.fadeWeight = v
		if done {
			c.fade = nil
			c.fadeWeight = 1
			c.previous = nil
		}
	}
}

func (c *ClipController) Sample(out *PoseBuffer) {
	if c.current == nil {
		return
	}
	if c.previous == nil {
		c.current.clip.Sample(c.current.time, out)
		return
	}
	c.previous.clip.Sample(c.previous.time, out)
	c.scratch.Reset()
	c.current.clip.Sample(c.current.time, c.scratch)
	out.BlendOverride(c.scratch, nil, c.fadeWeight)
	out.BlendCurves(c.scratch, c.fadeWeight)
}

func (c *ClipController) GetFloat(name string) float32 {
	if v, ok := c.params[name]; ok {
		return v
	}
	if c.current == nil {
		return 0
	}
	value, _ := c.current.clip.SampleCurve(name, c.current.time)
	if c.previous == nil {
		return value
	}
	prev, _ := c.previous.clip.SampleCurve(name, c.previous.time)
	return prev + (value-prev)*c.fadeWeight
}

func (c *ClipController) SetFloat(name string, value float32) {
	c.params[name] = value
}

// ClearFloat drops a parameter so the curve of the same name shows through.
func (c *ClipController) ClearFloat(name string) {
	delete(c.params, name)
}
