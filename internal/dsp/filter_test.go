package dsp

import (
	"math"
	"testing"
)

const filterSR = 48000.0

func sineInto(dst []float64, freq float64) {
	for i := range dst {
		dst[i] = math.Sin(2 * math.Pi * freq * float64(i) / filterSR)
	}
}

func rms(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x * x
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func TestSVFPassesLowRejectsHigh(t *testing.T) {
	in := make([]float64, 48000)
	run := func(freq float64) float64 {
		var f SVF
		f.SetBlock(500, 0.2, filterSR)
		sineInto(in, freq)
		out := make([]float64, len(in))
		for i, x := range in {
			out[i] = f.Process(x)
		}
		return rms(out[8000:]) // skip the transient
	}
	low := run(100)
	high := run(8000)
	if low < 0.5 {
		t.Fatalf("100 Hz through 500 Hz low-pass has rms %g, want near unity", low)
	}
	if high > low/10 {
		t.Fatalf("8 kHz rms %g not well below 100 Hz rms %g", high, low)
	}
}

func TestSVFZeroInZeroOut(t *testing.T) {
	var f SVF
	f.SetBlock(1200, 0.6, filterSR)
	for i := 0; i < 100; i++ {
		if y := f.Process(0); y != 0 {
			t.Fatalf("zero input produced %g at sample %d", y, i)
		}
	}
}

func TestSVFTracksDC(t *testing.T) {
	var f SVF
	f.SetBlock(1000, 0, filterSR)
	var y float64
	for i := 0; i < 48000; i++ {
		y = f.Process(0.5)
	}
	if math.Abs(y-0.5) > 1e-3 {
		t.Fatalf("DC output settled at %g, want 0.5", y)
	}
}

func TestSVFStableAtExtremes(t *testing.T) {
	cases := []struct {
		name      string
		cutoff    float64
		resonance float64
	}{
		{"below range", 1, 0},
		{"above range", 90000, 0},
		{"max resonance", 12000, 0.999},
		{"min cutoff max resonance", 20, 0.999},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var f SVF
			f.SetBlock(c.cutoff, c.resonance, filterSR)
			var o Oscillator
			o.Init(0, 7)
			for i := 0; i < 20000; i++ {
				y := f.Process(o.Next(WaveNoise, 0, nil))
				if math.IsNaN(y) || math.Abs(y) > 100 {
					t.Fatalf("unstable output %g at sample %d", y, i)
				}
			}
		})
	}
}

func TestSVFResonanceBoostsNearCutoff(t *testing.T) {
	in := make([]float64, 48000)
	sineInto(in, 1000)
	run := func(res float64) float64 {
		var f SVF
		f.SetBlock(1000, res, filterSR)
		out := make([]float64, len(in))
		for i, x := range in {
			out[i] = f.Process(x)
		}
		return rms(out[8000:])
	}
	flat := run(0)
	peaked := run(0.9)
	if peaked <= flat {
		t.Fatalf("resonance 0.9 rms %g not above resonance 0 rms %g at cutoff", peaked, flat)
	}
}

func TestSVFResetClearsState(t *testing.T) {
	var f SVF
	f.SetBlock(2000, 0.5, filterSR)
	for i := 0; i < 64; i++ {
		f.Process(1)
	}
	f.Reset()
	if y := f.Process(0); y != 0 {
		t.Fatalf("first sample after Reset = %g, want 0", y)
	}
}
