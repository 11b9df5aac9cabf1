// Package aeonkeys is a real-time polyphonic synthesizer: two
// wavetable-capable oscillators per voice through a state-variable
// low-pass filter, an ADSR envelope, two block-rate LFOs, and a small
// modulation matrix, all controlled through a flat named-parameter
// surface. The package root wires the engine to audio output, preset
// persistence, and offline rendering; the DSP lives under internal/.
package aeonkeys

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	intparam "github.com/visheshc14/Aeon-Keys/internal/param"
	intpreset "github.com/visheshc14/Aeon-Keys/internal/preset"
	intsynth "github.com/visheshc14/Aeon-Keys/internal/synth"
	intwt "github.com/visheshc14/Aeon-Keys/internal/wavetable"
)

const (
	// NumWavetableSlots is the number of independently swappable tables.
	NumWavetableSlots = intsynth.NumSlots
	// WavetableSize is the fixed length of every table.
	WavetableSize = intwt.Size
)

// FreehandPoint is one sampled input point of a hand-drawn waveform, in
// editor coordinates: X in [0, width), Y in [-1, 1].
type FreehandPoint struct {
	X, Y float64
}

// Engine is the public control surface around the voice core. Control
// methods serialize on an internal mutex; RenderAudio never touches that
// mutex and may run concurrently with all of them.
type Engine struct {
	mu   sync.Mutex
	core *intsynth.Engine
	log  *logrus.Entry
}

func New(sampleRate float64) (*Engine, error) {
	core, err := intsynth.New(sampleRate, intparam.NewStore())
	if err != nil {
		return nil, err
	}
	return &Engine{
		core: core,
		log:  logrus.WithField("component", "engine"),
	}, nil
}

func (e *Engine) SampleRate() float64 { return e.core.SampleRate() }

// SetParameter applies a named parameter change. Unknown names and
// out-of-domain values are ignored so stale or overreaching callers
// cannot corrupt the running patch; rejections are logged at debug level.
func (e *Engine) SetParameter(name string, value float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.core.Params().SetNamed(name, value); err != nil {
		e.log.WithFields(logrus.Fields{
			"param": name,
			"value": value,
		}).WithError(err).Debug("parameter rejected")
	}
}

// Parameter reports the current value of a named parameter.
func (e *Engine) Parameter(name string) (float64, bool) {
	id, ok := intparam.Lookup(name)
	if !ok {
		return 0, false
	}
	return e.core.Params().Get(id), true
}

// NoteOn queues a key press. Velocity outside [0, 1] is clamped; notes
// outside [0, 127] are rejected.
func (e *Engine) NoteOn(note int, velocity float64) error {
	return e.core.NoteOn(note, velocity)
}

// NoteOff queues a key release for every sounding voice of the note.
func (e *Engine) NoteOff(note int) error {
	return e.core.NoteOff(note)
}

// RenderAudio fills dst with mono samples. It always fills every frame
// and is safe to call concurrently with every other method.
func (e *Engine) RenderAudio(dst []float32) {
	e.core.Render(dst)
}

// SetWavetable validates samples (exactly WavetableSize values in
// [-1, 1]) and publishes them to a slot. Voices reading the slot switch
// tables between blocks, never inside one.
func (e *Engine) SetWavetable(slot int, samples []float64) error {
	t, err := intwt.New(samples)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.core.SetTable(slot, t)
}

// AuthorAdditive builds a table from up to 32 harmonic amplitudes,
// peak-normalizes it, and publishes it to the slot.
func (e *Engine) AuthorAdditive(slot int, amps []float64) error {
	t, err := intwt.FromAdditive(amps)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.core.SetTable(slot, t)
}

// AuthorFreehand builds a table from hand-drawn points over a width-pixel
// editor (binning, gap interpolation, resampling) and publishes it to the
// slot.
func (e *Engine) AuthorFreehand(slot int, points []FreehandPoint, width int) error {
	pts := make([]intwt.Point, len(points))
	for i, p := range points {
		pts[i] = intwt.Point{X: p.X, Y: p.Y}
	}
	t, err := intwt.FromFreehand(pts, width)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.core.SetTable(slot, t)
}

// Wavetable returns a copy of the slot's current samples.
func (e *Engine) Wavetable(slot int) ([]float64, error) {
	t := e.core.Table(slot)
	if t == nil {
		return nil, fmt.Errorf("%w: %d", intsynth.ErrSlotRange, slot)
	}
	out := make([]float64, WavetableSize)
	copy(out, t.Samples())
	return out, nil
}

// TableSpectrum returns the normalized magnitude spectrum of a slot's
// table, reduced to the requested number of bins. Display helper.
func (e *Engine) TableSpectrum(slot, bins int) ([]float64, error) {
	t := e.core.Table(slot)
	if t == nil {
		return nil, fmt.Errorf("%w: %d", intsynth.ErrSlotRange, slot)
	}
	return t.Spectrum(bins), nil
}

// ExportPreset serializes the full parameter state and both wavetables
// as deterministic JSON text.
func (e *Engine) ExportPreset() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var tables [NumWavetableSlots]*intwt.Table
	for i := range tables {
		tables[i] = e.core.Table(i)
	}
	return intpreset.Encode(e.core.Params().Export(), tables)
}

// ImportPreset replaces the engine state with a previously exported
// preset. The import is all-or-nothing: on any validation failure the
// running state is untouched and ImportPreset returns false.
func (e *Engine) ImportPreset(text string) bool {
	st, err := intpreset.Decode(text)
	if err != nil {
		e.log.WithError(err).Warn("preset rejected")
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.core.Params().Replace(st.Snapshot)
	// Decode guarantees one validated table per slot, so SetTable cannot
	// reject.
	for i, t := range st.Tables {
		_ = e.core.SetTable(i, t)
	}
	return true
}

// ActiveVoices reports the sounding voice count as of the last block.
func (e *Engine) ActiveVoices() int { return e.core.ActiveVoices() }

// Faults counts render passes that degraded to silence instead of
// propagating a panic.
func (e *Engine) Faults() uint64 { return e.core.Faults() }

// LastFault describes the most recent render fault, empty if none.
func (e *Engine) LastFault() string { return e.core.LastFault() }

// DroppedEvents counts note events discarded on a full queue.
func (e *Engine) DroppedEvents() uint64 { return e.core.DroppedEvents() }
