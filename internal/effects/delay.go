package effects

// MaxDelaySeconds bounds the delay tap; the buffer is sized for it once at
// construction so live time changes never reallocate.
const MaxDelaySeconds = 5.0

// SendDelay is the host graph's stereo feedback delay. Set moves the read
// tap and levels between blocks; Process runs per frame on the audio
// goroutine.
type SendDelay struct {
	bufL, bufR []float32
	pos        int
	delay      int
	feedback   float32
	wet        float32
	sampleRate float64
}

func NewSendDelay(sampleRate float64) *SendDelay {
	n := int(MaxDelaySeconds*sampleRate) + 1
	if n < 2 {
		n = 2
	}
	d := &SendDelay{
		bufL:       make([]float32, n),
		bufR:       make([]float32, n),
		sampleRate: sampleRate,
	}
	d.Set(0.3, 0.35, 0.35)
	return d
}

// Set adjusts tap time (seconds), feedback, and wet mix. Call from the
// audio goroutine between blocks; values are clamped to safe ranges.
func (d *SendDelay) Set(timeSec, feedback, wet float64) {
	n := int(timeSec * d.sampleRate)
	if n < 1 {
		n = 1
	}
	if n >= len(d.bufL) {
		n = len(d.bufL) - 1
	}
	d.delay = n
	d.feedback = float32(clamp64(feedback, 0, 0.99))
	d.wet = float32(clamp64(wet, 0, 1))
}

func (d *SendDelay) Process(l, r float32) (float32, float32) {
	read := d.pos - d.delay
	if read < 0 {
		read += len(d.bufL)
	}
	delL := d.bufL[read]
	delR := d.bufR[read]
	d.bufL[d.pos] = l + delL*d.feedback
	d.bufR[d.pos] = r + delR*d.feedback
	d.pos++
	if d.pos >= len(d.bufL) {
		d.pos = 0
	}
	return l*(1-d.wet) + delL*d.wet, r*(1-d.wet) + delR*d.wet
}

func (d *SendDelay) Reset() {
	for i := range d.bufL {
		d.bufL[i] = 0
		d.bufR[i] = 0
	}
	d.pos = 0
}
