package synth

import (
	"math"
	"testing"

	"github.com/visheshc14/Aeon-Keys/internal/param"
)

func TestCutoffForAppliesRoutes(t *testing.T) {
	mod := param.ModConfig{LFO0ToCutoff: 0.4}
	got := CutoffFor(1000, mod, Sources{LFO0: 0.5}, false)
	if math.Abs(got-1200) > 1e-9 {
		t.Fatalf("cutoff = %g, want 1200", got)
	}

	mod = param.ModConfig{LFO0ToCutoff: 0.5, LFO1ToCutoff: -0.5, EnvToCutoff: 0.25}
	got = CutoffFor(2000, mod, Sources{LFO0: 1, LFO1: 1, Env: 1}, false)
	// 2000 * (1 + 0.5 - 0.5 + 0.25)
	if math.Abs(got-2500) > 1e-9 {
		t.Fatalf("cutoff = %g, want 2500", got)
	}
}

func TestCutoffForEnvelopeScaling(t *testing.T) {
	got := CutoffFor(8000, param.ModConfig{}, Sources{Env: 0.5}, true)
	if math.Abs(got-4000) > 1e-9 {
		t.Fatalf("cutoff = %g, want envelope-scaled 4000", got)
	}
	// Envelope at zero closes the filter down to the floor.
	got = CutoffFor(8000, param.ModConfig{}, Sources{Env: 0}, true)
	if got != 20 {
		t.Fatalf("cutoff = %g, want clamped 20", got)
	}
	// Disabled, the envelope level is ignored.
	got = CutoffFor(8000, param.ModConfig{}, Sources{Env: 0}, false)
	if got != 8000 {
		t.Fatalf("cutoff = %g, want unscaled 8000", got)
	}
}

func TestCutoffStaysInDomainForAllRouteCombinations(t *testing.T) {
	depths := []float64{-1, -0.5, 0, 0.5, 1}
	levels := []float64{-1, 0, 1}
	envs := []float64{0, 0.5, 1}
	bases := []float64{20, 440, 20000}
	for _, d0 := range depths {
		for _, d1 := range depths {
			for _, de := range depths {
				mod := param.ModConfig{LFO0ToCutoff: d0, LFO1ToCutoff: d1, EnvToCutoff: de}
				for _, l0 := range levels {
					for _, l1 := range levels {
						for _, env := range envs {
							for _, base := range bases {
								for _, enabled := range []bool{false, true} {
									src := Sources{LFO0: l0, LFO1: l1, Env: env}
									got := CutoffFor(base, mod, src, enabled)
									if got < 20 || got > 20000 {
										t.Fatalf("cutoff %g escaped [20,20000] (base=%g mod=%+v src=%+v enabled=%v)",
											got, base, mod, src, enabled)
									}
								}
							}
						}
					}
				}
			}
		}
	}
}
