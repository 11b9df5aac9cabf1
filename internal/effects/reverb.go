package effects

// SendReverb is a Schroeder-style reverb for the host chain: four parallel
// comb filters into two allpasses. Only the wet mix is adjustable at
// runtime; room size and decay are fixed at construction.
type SendReverb struct {
	combs   [4]combFilter
	allpass [2]allpassFilter
	wet     float32
}

type combFilter struct {
	buf []float32
	pos int
	fb  float32
}

type allpassFilter struct {
	buf []float32
	pos int
	fb  float32
}

func NewSendReverb(sampleRate float64) *SendReverb {
	const (
		roomSize = 0.5
		decay    = 0.7
	)
	base := int(sampleRate * roomSize * 0.05)
	if base < 10 {
		base = 10
	}
	r := &SendReverb{}
	r.SetWet(0.25)
	// Prime-ish length ratios to avoid stacked resonances.
	combLens := [4]int{base, base * 1117 / 1000, base * 1271 / 1000, base * 1437 / 1000}
	for i := range r.combs {
		r.combs[i] = combFilter{
			buf: make([]float32, combLens[i]),
			fb:  decay,
		}
	}
	apLens := [2]int{base * 347 / 1000, base * 213 / 1000}
	for i := range r.allpass {
		r.allpass[i] = allpassFilter{
			buf: make([]float32, maxInt(apLens[i], 1)),
			fb:  0.5,
		}
	}
	return r
}

// SetWet adjusts the wet mix. Call from the audio goroutine between blocks.
func (r *SendReverb) SetWet(wet float64) {
	r.wet = float32(clamp64(wet, 0, 1))
}

func (r *SendReverb) Process(l, r2 float32) (float32, float32) {
	if r.wet == 0 {
		return l, r2
	}
	mono := (l + r2) * 0.5
	var out float32
	for i := range r.combs {
		out += r.combs[i].process(mono)
	}
	out *= 0.25
	for i := range r.allpass {
		out = r.allpass[i].process(out)
	}
	return l*(1-r.wet) + out*r.wet, r2*(1-r.wet) + out*r.wet
}

func (r *SendReverb) Reset() {
	for i := range r.combs {
		for j := range r.combs[i].buf {
			r.combs[i].buf[j] = 0
		}
		r.combs[i].pos = 0
	}
	for i := range r.allpass {
		for j := range r.allpass[i].buf {
			r.allpass[i].buf[j] = 0
		}
		r.allpass[i].pos = 0
	}
}

func (c *combFilter) process(in float32) float32 {
	out := c.buf[c.pos]
	c.buf[c.pos] = in + out*c.fb
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (a *allpassFilter) process(in float32) float32 {
	bufOut := a.buf[a.pos]
	out := -in + bufOut
	a.buf[a.pos] = in + bufOut*a.fb
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
