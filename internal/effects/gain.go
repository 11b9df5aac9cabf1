package effects

import (
	"math"
	"sync/atomic"
)

// Gain scales both channels by a level stored atomically, so the control
// actor can adjust it without synchronizing with the audio goroutine.
type Gain struct {
	bits atomic.Uint64
}

func NewGain(level float64) *Gain {
	g := &Gain{}
	g.SetLevel(level)
	return g
}

func (g *Gain) SetLevel(level float64) {
	g.bits.Store(math.Float64bits(clamp64(level, 0, 2)))
}

func (g *Gain) Level() float64 {
	return math.Float64frombits(g.bits.Load())
}

func (g *Gain) Process(l, r float32) (float32, float32) {
	lvl := float32(g.Level())
	return l * lvl, r * lvl
}

func (g *Gain) Reset() {}
