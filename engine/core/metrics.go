package core

const AVG_COUNT uint8 = 30

// Metrics keeps a rolling average of frame times and the frames per second.
// The animation tick also reports its own cost so that layer work can be
// compared against the whole frame.
type Metrics struct {
	frameAVGCounter    uint8
	msTimes            [AVG_COUNT]float64
	msAVG              float64
	animTimes          [AVG_COUNT]float64
	animAVG            float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
	totalFrames        uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Update records one frame. Both durations are in seconds.
func (m *Metrics) Update(frameElapsedTime, animElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0
	m.msTimes[m.frameAVGCounter] = frameMS
	m.animTimes[m.frameAVGCounter] = animElapsedTime * 1000.0
	if m.frameAVGCounter == AVG_COUNT-1 {
		m.msAVG, m.animAVG = 0, 0
		for i := uint8(0); i < AVG_COUNT; i++ {
			m.msAVG += m.msTimes[i]
			m.animAVG += m.animTimes[i]
		}
		m.msAVG /= float64(AVG_COUNT)
		m.animAVG /= float64(AVG_COUNT)
	}
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT

	// Calculate frames per second.
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}

	m.frames++
	m.totalFrames++
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

// FrameTime is the averaged frame time in milliseconds.
func (m *Metrics) FrameTime() float64 {
	return m.msAVG
}

// AnimationTime is the averaged animation tick time in milliseconds.
func (m *Metrics) AnimationTime() float64 {
	return m.animAVG
}

func (m *Metrics) TotalFrames() uint64 {
	return m.totalFrames
}
