// Package wavetable builds and publishes the cyclic sample tables the
// oscillators read. Tables are immutable once built; replacement goes
// through a Slot so the render actor always observes a complete table.
package wavetable

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// Size is the fixed table length. Power of two, so interpolated lookup can
// mask instead of mod.
const Size = 2048

// ErrShape reports a rejected table: wrong length or non-finite samples.
var ErrShape = errors.New("invalid wavetable shape")

// Table is one cycle of a waveform, Size samples in [-1,1]. Never mutated
// after construction.
type Table struct {
	samples [Size]float64
}

// New copies samples into a fresh table. The input must be exactly Size
// samples and finite throughout; values outside [-1,1] are clamped.
func New(samples []float64) (*Table, error) {
	if len(samples) != Size {
		return nil, fmt.Errorf("%w: got %d samples, want %d", ErrShape, len(samples), Size)
	}
	var t Table
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite sample at index %d", ErrShape, i)
		}
		t.samples[i] = clamp(v, -1, 1)
	}
	return &t, nil
}

// Sine returns the default table, one cycle of a unit sine.
func Sine() *Table {
	var t Table
	for i := range t.samples {
		t.samples[i] = math.Sin(2 * math.Pi * float64(i) / Size)
	}
	return &t
}

// Samples exposes the raw table for lookup and serialization. Callers must
// treat it as read-only.
func (t *Table) Samples() []float64 {
	return t.samples[:]
}

// Slot is the published table reference for one oscillator slot. Store
// swaps atomically, so readers never see a partially written table.
type Slot struct {
	p atomic.Pointer[Table]
}

func (s *Slot) Load() *Table {
	return s.p.Load()
}

func (s *Slot) Store(t *Table) {
	if t != nil {
		s.p.Store(t)
	}
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
