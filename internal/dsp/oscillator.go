package dsp

import "math"

// WaveKind selects an oscillator waveform.
type WaveKind int

const (
	WaveSine WaveKind = iota
	WaveSaw
	WaveSquare
	WaveTriangle
	WaveNoise
	WaveWavetable

	NumWaveKinds = 6
)

func (k WaveKind) String() string {
	switch k {
	case WaveSine:
		return "sine"
	case WaveSaw:
		return "saw"
	case WaveSquare:
		return "square"
	case WaveTriangle:
		return "triangle"
	case WaveNoise:
		return "noise"
	case WaveWavetable:
		return "wavetable"
	default:
		return "unknown"
	}
}

// Shape evaluates an analytic waveform at a phase in [0,1). WaveNoise and
// WaveWavetable are not analytic; callers handle those kinds themselves.
func Shape(kind WaveKind, phase float64) float64 {
	switch kind {
	case WaveSaw:
		return 2*phase - 1
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveTriangle:
		return 2*math.Abs(2*phase-1) - 1
	default: // sine
		return math.Sin(2 * math.Pi * phase)
	}
}

// Oscillator generates one voice's waveform from a phase accumulator in
// [0,1). The accumulator is advanced by freq/sampleRate per sample and must
// stay continuous for the lifetime of the voice; only Init may jump it.
type Oscillator struct {
	phase float64
	rng   uint64
}

// Init places the oscillator at the given phase and seeds its noise source.
func (o *Oscillator) Init(phase float64, seed uint64) {
	o.phase = phase - math.Floor(phase)
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	o.rng = seed
}

func (o *Oscillator) Phase() float64 { return o.phase }

// Next produces one sample at the current phase, then advances the phase by
// inc wrapped into [0,1). table is consulted only for WaveWavetable and must
// have a power-of-two length.
func (o *Oscillator) Next(kind WaveKind, inc float64, table []float64) float64 {
	p := o.phase
	o.phase += inc
	o.phase -= math.Floor(o.phase)
	switch kind {
	case WaveNoise:
		return o.noise()
	case WaveWavetable:
		return TableLookup(table, p)
	default:
		return Shape(kind, p)
	}
}

// noise is a xorshift64 uniform generator in [-1,1). No shared state, so the
// render path never touches a lock.
func (o *Oscillator) noise() float64 {
	o.rng ^= o.rng << 13
	o.rng ^= o.rng >> 7
	o.rng ^= o.rng << 17
	return float64(int64(o.rng)) / (1 << 63)
}

// TableLookup linearly interpolates the two nearest entries of a
// power-of-two length table at index phase*len(table).
func TableLookup(table []float64, phase float64) float64 {
	n := len(table)
	if n == 0 {
		return 0
	}
	x := phase * float64(n)
	i0 := int(x) & (n - 1)
	i1 := (i0 + 1) & (n - 1)
	frac := x - math.Floor(x)
	return table[i0]*(1-frac) + table[i1]*frac
}

// DetuneRatio converts a detune in cents to a frequency multiplier.
func DetuneRatio(cents float64) float64 {
	if cents == 0 {
		return 1
	}
	return math.Pow(2, cents/1200)
}

// MIDIToFreq converts a MIDI note number to a frequency in Hz (A4 = 440).
func MIDIToFreq(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}
