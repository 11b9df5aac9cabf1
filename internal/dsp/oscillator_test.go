package dsp

import (
	"math"
	"testing"
)

func TestShapeValues(t *testing.T) {
	const eps = 1e-12
	cases := []struct {
		name  string
		kind  WaveKind
		phase float64
		want  float64
	}{
		{"sine zero", WaveSine, 0, 0},
		{"sine quarter", WaveSine, 0.25, 1},
		{"saw start", WaveSaw, 0, -1},
		{"saw mid", WaveSaw, 0.5, 0},
		{"saw late", WaveSaw, 0.75, 0.5},
		{"square first half", WaveSquare, 0.25, 1},
		{"square second half", WaveSquare, 0.75, -1},
		{"triangle peak", WaveTriangle, 0, 1},
		{"triangle falling", WaveTriangle, 0.25, 0},
		{"triangle trough", WaveTriangle, 0.5, -1},
		{"triangle rising", WaveTriangle, 0.75, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Shape(c.kind, c.phase)
			if math.Abs(got-c.want) > eps {
				t.Fatalf("Shape(%v, %g) = %g, want %g", c.kind, c.phase, got, c.want)
			}
		})
	}
}

func TestShapeStaysInRange(t *testing.T) {
	kinds := []WaveKind{WaveSine, WaveSaw, WaveSquare, WaveTriangle}
	for _, k := range kinds {
		for i := 0; i < 1000; i++ {
			p := float64(i) / 1000
			v := Shape(k, p)
			if v < -1 || v > 1 {
				t.Fatalf("Shape(%v, %g) = %g outside [-1,1]", k, p, v)
			}
		}
	}
}

func TestOscillatorPhaseWraps(t *testing.T) {
	var o Oscillator
	o.Init(0.9, 1)
	o.Next(WaveSine, 0.3, nil)
	got := o.Phase()
	want := 0.2
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("phase after wrap = %g, want %g", got, want)
	}
	for i := 0; i < 10000; i++ {
		o.Next(WaveSaw, 0.37, nil)
		p := o.Phase()
		if p < 0 || p >= 1 {
			t.Fatalf("phase %g escaped [0,1) at step %d", p, i)
		}
	}
}

func TestOscillatorSampleThenAdvance(t *testing.T) {
	var o Oscillator
	o.Init(0, 1)
	// The first sample is taken at the initial phase, before any advance.
	got := o.Next(WaveSaw, 0.25, nil)
	if got != -1 {
		t.Fatalf("first saw sample = %g, want -1", got)
	}
	got = o.Next(WaveSaw, 0.25, nil)
	if math.Abs(got-(-0.5)) > 1e-12 {
		t.Fatalf("second saw sample = %g, want -0.5", got)
	}
}

func TestTableLookupInterpolates(t *testing.T) {
	table := []float64{0, 1, 0, -1}
	cases := []struct {
		phase float64
		want  float64
	}{
		{0, 0},
		{0.25, 1},
		{0.125, 0.5},
		{0.875, -0.5}, // halfway from -1 back to table[0]
	}
	for _, c := range cases {
		got := TableLookup(table, c.phase)
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("TableLookup(phase=%g) = %g, want %g", c.phase, got, c.want)
		}
	}
}

func TestTableLookupEmptyTable(t *testing.T) {
	if got := TableLookup(nil, 0.5); got != 0 {
		t.Fatalf("lookup on empty table = %g, want 0", got)
	}
}

func TestNoiseBoundedAndVarying(t *testing.T) {
	var o Oscillator
	o.Init(0, 12345)
	seen := map[float64]bool{}
	for i := 0; i < 4096; i++ {
		v := o.Next(WaveNoise, 0.01, nil)
		if v < -1 || v >= 1 {
			t.Fatalf("noise sample %g outside [-1,1)", v)
		}
		seen[v] = true
	}
	if len(seen) < 4000 {
		t.Fatalf("noise produced only %d distinct values in 4096 samples", len(seen))
	}
}

func TestNoiseDeterministicPerSeed(t *testing.T) {
	var a, b Oscillator
	a.Init(0, 99)
	b.Init(0, 99)
	for i := 0; i < 64; i++ {
		if a.Next(WaveNoise, 0, nil) != b.Next(WaveNoise, 0, nil) {
			t.Fatal("same seed produced different noise streams")
		}
	}
}

func TestDetuneRatio(t *testing.T) {
	cases := []struct {
		cents float64
		want  float64
	}{
		{0, 1},
		{1200, 2},
		{-1200, 0.5},
		{700, math.Pow(2, 700.0/1200)},
	}
	for _, c := range cases {
		got := DetuneRatio(c.cents)
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("DetuneRatio(%g) = %g, want %g", c.cents, got, c.want)
		}
	}
}

func TestMIDIToFreq(t *testing.T) {
	if f := MIDIToFreq(69); math.Abs(f-440) > 1e-9 {
		t.Errorf("A4 = %g, want 440", f)
	}
	if f := MIDIToFreq(81); math.Abs(f-880) > 1e-9 {
		t.Errorf("A5 = %g, want 880", f)
	}
	if f := MIDIToFreq(60); math.Abs(f-261.6255653005986) > 1e-9 {
		t.Errorf("C4 = %g, want 261.6256", f)
	}
}
