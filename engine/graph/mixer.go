package graph

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type mixerInput struct {
	playable *Playable
	mask     *AvatarMask
	additive bool
	weight   float32
	// Weight at the moment a newer playable superseded this one.
	cached float32
}

// Mixer plays clips on top of an upstream pose. Playing a new clip fades the
// previous ones out from the weight they had at that moment, so restarting
// mid blend never pops. The blend in and blend out timers are shared by the
// whole mixer and drive BlendInWeight and BlendOutWeight.
type Mixer struct {
	Name     string
	maxCount int
	easing   ease.TweenFunc
	inputs   []*mixerInput

	blendIn        *gween.Tween
	blendOut       *gween.Tween
	blendInWeight  float32
	blendOutWeight float32

	scratch   *PoseBuffer
	reference *PoseBuffer
}

func NewMixer(name string, maxCount int, easing ease.TweenFunc) *Mixer {
	if maxCount < 1 {
		maxCount = 1
	}
	if easing == nil {
		easing = ease.Linear
	}
	return &Mixer{
		Name:          name,
		maxCount:      maxCount,
		easing:        easing,
		inputs:        make([]*mixerInput, 0, maxCount),
		blendInWeight: 1,
		scratch:       NewPoseBuffer(),
		reference:     NewPoseBuffer(),
	}
}

// Play starts p, restarting the blend in. The oldest playable is evicted
// when the mixer is full.
func (m *Mixer) Play(p *Playable, mask *AvatarMask, additive bool) {
	if p == nil || p.Clip == nil {
		return
	}
	for _, in := range m.inputs {
		in.cached = in.weight
	}
	if len(m.inputs) >= m.maxCount {
		m.inputs = append(m.inputs[:0], m.inputs[1:]...)
	}
	m.inputs = append(m.inputs, &mixerInput{
		playable: p,
		mask:     mask,
		additive: additive,
	})

	m.blendOut = nil
	m.blendOutWeight = 0
	if p.BlendTime.BlendInTime <= 0 {
		m.blendIn = nil
		m.blendInWeight = 1
	} else {
		m.blendIn = gween.New(0, 1, p.BlendTime.BlendInTime, m.easing)
		m.blendInWeight = 0
	}
	m.applyWeights()
}

// Stop fades everything out over blendOutTime, starting from the current
// blend out weight.
func (m *Mixer) Stop(blendOutTime float32) {
	if len(m.inputs) == 0 {
		return
	}
	if blendOutTime <= 0 {
		m.blendOut = nil
		m.blendOutWeight = 1
		m.inputs = m.inputs[:0]
		return
	}
	m.blendOut = gween.New(m.blendOutWeight, 1, blendOutTime, m.easing)
}

func (m *Mixer) Update(deltaTime float32) {
	for _, in := range m.inputs {
		in.playable.Update(deltaTime)
	}

	if m.blendIn != nil {
		v, done := m.blendIn.Update(deltaTime)
		m.blendInWeight = v
		if done {
			m.blendIn = nil
			m.blendInWeight = 1
		}
	}

	if active := m.Active(); active != nil && active.AutoBlendOut && m.blendOut == nil && !active.Clip.Loop {
		if active.Remaining() <= active.BlendTime.BlendOutTime {
			m.Stop(active.BlendTime.BlendOutTime)
		}
	}

	if m.blendOut != nil {
		v, done := m.blendOut.Update(deltaTime)
		m.blendOutWeight = v
		if done {
			m.blendOut = nil
			m.blendOutWeight = 1
			m.inputs = m.inputs[:0]
		}
	}

	m.applyWeights()

	// Superseded playables are gone once the newest one is fully in.
	if m.blendInWeight >= 1 && len(m.inputs) > 1 {
		m.inputs = append(m.inputs[:0], m.inputs[len(m.inputs)-1])
	}
}

func (m *Mixer) applyWeights() {
	n := len(m.inputs)
	if n == 0 {
		return
	}
	out := 1 - m.blendOutWeight
	for _, in := range m.inputs[:n-1] {
		in.weight = in.cached * (1 - m.blendInWeight) * out
	}
	m.inputs[n-1].weight = m.blendInWeight * out
}

// Evaluate blends the playables over upstream into out. A nil upstream
// starts from an empty pose.
func (m *Mixer) Evaluate(upstream *PoseBuffer, out *PoseBuffer) {
	out.CopyFrom(upstream)
	for _, in := range m.inputs {
		if in.weight <= 0 {
			continue
		}
		m.scratch.Reset()
		in.playable.Sample(m.scratch)
		if in.additive {
			m.reference.Reset()
			in.playable.Clip.ReferencePose(m.reference)
			out.BlendAdditive(m.scratch, m.reference, in.mask, in.weight)
			continue
		}
		out.BlendOverride(m.scratch, in.mask, in.weight)
	}
}

// GetCurveValue sums the exported curve of every playable scaled by its weight.
func (m *Mixer) GetCurveValue(name string) float32 {
	var value float32
	for _, in := range m.inputs {
		if v, ok := in.playable.SampleCurve(name); ok {
			value += v * in.weight
		}
	}
	return value
}

// Active returns the most recently played playable, nil when idle.
func (m *Mixer) Active() *Playable {
	if len(m.inputs) == 0 {
		return nil
	}
	return m.inputs[len(m.inputs)-1].playable
}

// Weight returns the current weight of the playable with the given id.
func (m *Mixer) Weight(id string) (float32, bool) {
	for _, in := range m.inputs {
		if in.playable.ID == id {
			return in.weight, true
		}
	}
	return 0, false
}

func (m *Mixer) BlendInWeight() float32 {
	return m.blendInWeight
}

func (m *Mixer) BlendOutWeight() float32 {
	return m.blendOutWeight
}

func (m *Mixer) IsBlendingOut() bool {
	return m.blendOut != nil
}

func (m *Mixer) Len() int {
	return len(m.inputs)
}
