package synth

import (
	"github.com/visheshc14/Aeon-Keys/internal/dsp"
	"github.com/visheshc14/Aeon-Keys/internal/param"
)

// Sources are the modulation source values for one block. The LFO values
// are global; Env is the owning voice's envelope level at block start, so
// it differs per voice.
type Sources struct {
	LFO0 float64
	LFO1 float64
	Env  float64
}

// CutoffFor applies the modulation routes to the base cutoff:
// base*(1+sum(depth*source)), scaled by the envelope level when
// envelope-to-cutoff is enabled, then clamped to the filter's domain.
func CutoffFor(base float64, mod param.ModConfig, src Sources, envEnabled bool) float64 {
	offset := mod.LFO0ToCutoff*src.LFO0 + mod.LFO1ToCutoff*src.LFO1 + mod.EnvToCutoff*src.Env
	c := base * (1 + offset)
	if envEnabled {
		c *= src.Env
	}
	return clamp(c, dsp.MinCutoffHz, dsp.MaxCutoffHz)
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
