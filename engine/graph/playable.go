package graph

import (
	"github.com/google/uuid"
)

// Playable is one running instance of a clip inside a mixer.
type Playable struct {
	ID           string
	Clip         *Clip
	BlendTime    BlendTime
	AutoBlendOut bool
	Curves       []string

	time  float32
	speed float32
}

func NewPlayable(clip *Clip, curves []string) *Playable {
	return &Playable{
		ID:        uuid.NewString(),
		Clip:      clip,
		BlendTime: NewBlendTime(0, 0),
		Curves:    curves,
		speed:     1,
	}
}

func (p *Playable) SetTime(time float32) {
	p.time = time
}

func (p *Playable) Time() float32 {
	return p.time
}

func (p *Playable) SetSpeed(speed float32) {
	p.speed = speed
}

func (p *Playable) Update(deltaTime float32) {
	p.time += deltaTime * p.speed
}

// Remaining is the playback time left before a non looping clip ends.
func (p *Playable) Remaining() float32 {
	if p.Clip == nil {
		return 0
	}
	if p.Clip.Loop {
		return p.Clip.Length
	}
	return p.Clip.Length - p.time
}

// exports reports whether the curve is visible to the layers.
func (p *Playable) exports(name string) bool {
	if len(p.Curves) == 0 {
		return true
	}
	for _, c := range p.Curves {
		if c == name {
			return true
		}
	}
	return false
}

// SampleCurve evaluates an exported curve at the current time.
func (p *Playable) SampleCurve(name string) (float32, bool) {
	if p.Clip == nil || !p.exports(name) {
		return 0, false
	}
	return p.Clip.SampleCurve(name, p.time)
}

func (p *Playable) Sample(out *PoseBuffer) {
	if p.Clip == nil {
		return
	}
	p.Clip.Sample(p.time, out)
}
