package dsp

import "math"

// Cutoff bounds for the voice filter, in Hz.
const (
	MinCutoffHz = 20.0
	MaxCutoffHz = 20000.0
)

// minDamping keeps the filter from ringing unbounded at maximum resonance.
const minDamping = 0.01

// SVF is a Chamberlin state-variable filter used as the per-voice low-pass
// stage. Coefficients are computed once per render block by SetBlock;
// Process then runs per sample with multiply-adds only.
type SVF struct {
	f    float64
	damp float64
	low  float64
	band float64
}

// SetBlock fixes the coefficients for the coming block. cutoff is clamped
// to [MinCutoffHz, MaxCutoffHz] and held below Nyquist; resonance in [0,1)
// maps to damping 1-resonance.
func (s *SVF) SetBlock(cutoff, resonance, sampleRate float64) {
	cutoff = clamp(cutoff, MinCutoffHz, MaxCutoffHz)
	if limit := 0.49 * sampleRate; cutoff > limit {
		cutoff = limit
	}
	s.f = clamp(2*math.Sin(math.Pi*cutoff/sampleRate), 0, 1)
	s.damp = clamp(1-resonance, minDamping, 1)
}

// Reset clears the filter state. Called when a voice is allocated fresh, not
// on retrigger.
func (s *SVF) Reset() {
	s.low = 0
	s.band = 0
}

// Process filters one sample and returns the low-pass output.
func (s *SVF) Process(x float64) float64 {
	s.low += s.f * s.band
	high := x - s.low - s.damp*s.band
	s.band += s.f * high
	return s.low
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
