package lfo

import (
	"math"

	"github.com/visheshc14/Aeon-Keys/internal/dsp"
)

// LFO is a low-frequency oscillator shared by every voice in an engine.
// It runs at block rate: one call to Block per render block returns the
// modulation value at the block start and advances the phase past the
// block, so modulation is constant within a block.
type LFO struct {
	rateHz float64
	amount float64
	kind   dsp.WaveKind
	phase  float64 // current phase [0,1)
	held   float64 // sample-and-hold value for WaveNoise
	rng    uint64
}

// Seed initializes the sample-and-hold random stream. Give each LFO in an
// engine a distinct seed so their random steps are uncorrelated.
func (l *LFO) Seed(seed uint64) {
	if seed == 0 {
		seed = 0x2545f4914f6cdd1d
	}
	l.rng = seed
}

// Set configures rate in Hz, amount in [0,1], and the waveform kind.
// WaveWavetable is not a control shape and falls back to sine.
func (l *LFO) Set(rateHz, amount float64, kind dsp.WaveKind) {
	l.rateHz = rateHz
	l.amount = amount
	if kind < dsp.WaveSine || kind > dsp.WaveNoise {
		kind = dsp.WaveSine
	}
	l.kind = kind
}

// Block returns the modulation value in [-amount, +amount] at the current
// phase, then advances the phase by frames samples. Returns 0 while the LFO
// is inactive.
func (l *LFO) Block(frames int, sampleRate float64) float64 {
	if !l.Active() || sampleRate <= 0 {
		return 0
	}
	var v float64
	if l.kind == dsp.WaveNoise {
		v = l.held
	} else {
		v = dsp.Shape(l.kind, l.phase)
	}
	l.phase += float64(frames) * l.rateHz / sampleRate
	if l.phase >= 1 {
		l.phase -= math.Floor(l.phase)
		l.held = l.nextRandom()
	}
	return v * l.amount
}

// Retrigger restarts the cycle, as at note-on. The sample-and-hold value is
// redrawn so a retriggered random LFO does not repeat its last step.
func (l *LFO) Retrigger() {
	l.phase = 0
	l.held = l.nextRandom()
}

// Active reports whether the LFO contributes any modulation.
func (l *LFO) Active() bool {
	return l.amount != 0 && l.rateHz != 0
}

func (l *LFO) Phase() float64 { return l.phase }

func (l *LFO) nextRandom() float64 {
	if l.rng == 0 {
		l.rng = 0x2545f4914f6cdd1d
	}
	l.rng ^= l.rng << 13
	l.rng ^= l.rng >> 7
	l.rng ^= l.rng << 17
	return float64(int64(l.rng)) / (1 << 63)
}
