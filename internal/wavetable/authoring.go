package wavetable

import (
	"errors"
	"fmt"
	"math"
)

// MaxHarmonics caps the additive series.
const MaxHarmonics = 32

// ErrAuthoring reports rejected authoring input.
var ErrAuthoring = errors.New("invalid authoring input")

// FromAdditive builds a table from harmonic amplitudes a1..aN, N at most
// MaxHarmonics, each in [0,1]: table[i] = sum over n of a_n*sin(2*pi*n*i/Size),
// peak-normalized to [-1,1]. An all-zero amplitude list yields a silent
// table.
func FromAdditive(amps []float64) (*Table, error) {
	if len(amps) == 0 {
		return nil, fmt.Errorf("%w: no harmonic amplitudes", ErrAuthoring)
	}
	if len(amps) > MaxHarmonics {
		return nil, fmt.Errorf("%w: %d harmonics, max %d", ErrAuthoring, len(amps), MaxHarmonics)
	}
	var t Table
	for n, a := range amps {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, fmt.Errorf("%w: non-finite amplitude for harmonic %d", ErrAuthoring, n+1)
		}
		a = clamp(a, 0, 1)
		if a == 0 {
			continue
		}
		k := float64(n + 1)
		for i := range t.samples {
			t.samples[i] += a * math.Sin(2*math.Pi*k*float64(i)/Size)
		}
	}
	peak := 0.0
	for _, v := range t.samples {
		if av := math.Abs(v); av > peak {
			peak = av
		}
	}
	if peak > 0 {
		inv := 1 / peak
		for i := range t.samples {
			t.samples[i] *= inv
		}
	}
	return &t, nil
}

// Point is one freehand sample over the drawing surface. X is a horizontal
// position binned by integer part, Y a level in [-1,1].
type Point struct {
	X, Y float64
}

// FromFreehand builds a table from freehand-drawn points over a surface of
// the given width. Points sharing an integer x bin are averaged, unsampled
// bins are linearly interpolated from their nearest sampled neighbors (edge
// bins extend flat), and the width-wide buffer is then resampled to Size by
// linear interpolation with both endpoints pinned.
func FromFreehand(points []Point, width int) (*Table, error) {
	if width < 2 {
		return nil, fmt.Errorf("%w: surface width %d, need at least 2", ErrAuthoring, width)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrAuthoring)
	}

	sum := make([]float64, width)
	cnt := make([]int, width)
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return nil, fmt.Errorf("%w: non-finite point", ErrAuthoring)
		}
		x := int(p.X)
		if x < 0 {
			x = 0
		}
		if x >= width {
			x = width - 1
		}
		sum[x] += p.Y
		cnt[x]++
	}

	buf := make([]float64, width)
	prev := -1
	for x := 0; x < width; x++ {
		if cnt[x] == 0 {
			continue
		}
		v := clamp(sum[x]/float64(cnt[x]), -1, 1)
		buf[x] = v
		switch {
		case prev < 0:
			for j := 0; j < x; j++ {
				buf[j] = v
			}
		default:
			span := float64(x - prev)
			for j := prev + 1; j < x; j++ {
				f := float64(j-prev) / span
				buf[j] = buf[prev]*(1-f) + v*f
			}
		}
		prev = x
	}
	for j := prev + 1; j < width; j++ {
		buf[j] = buf[prev]
	}

	var t Table
	scale := float64(width-1) / float64(Size-1)
	for i := range t.samples {
		pos := float64(i) * scale
		i0 := int(pos)
		i1 := i0 + 1
		if i1 >= width {
			i1 = width - 1
		}
		frac := pos - float64(i0)
		t.samples[i] = buf[i0]*(1-frac) + buf[i1]*frac
	}
	return &t, nil
}
