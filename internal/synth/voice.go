package synth

import (
	"github.com/visheshc14/Aeon-Keys/internal/dsp"
)

// Voice is one sounding note's complete signal chain: two oscillators, an
// ADSR envelope, and a resonant low-pass filter. Voices live in the
// engine's fixed pool and are touched only by the render actor.
type Voice struct {
	active   bool
	note     int
	velocity float64
	age      uint64 // allocation order, lower is older
	freq     float64
	osc      [2]dsp.Oscillator
	env      dsp.Envelope
	filter   dsp.SVF
}

// start initializes a freshly allocated voice. Oscillator phases begin at
// zero and the envelope attacks from silence.
func (v *Voice) start(note int, velocity float64, age, seed0, seed1 uint64) {
	v.active = true
	v.note = note
	v.velocity = velocity
	v.age = age
	v.freq = dsp.MIDIToFreq(note)
	v.osc[0].Init(0, seed0)
	v.osc[1].Init(0, seed1)
	v.env.Reset()
	v.env.Trigger()
	v.filter.Reset()
}

// retrigger restarts a voice that is already sounding. Phases, filter
// state, and the current envelope level are all preserved; only the attack
// restarts, so there is no click.
func (v *Voice) retrigger(velocity float64, age uint64) {
	v.velocity = velocity
	v.age = age
	v.env.Trigger()
}

// steal repurposes a sounding voice for a new note. Like retrigger it keeps
// the envelope level and filter state so the hand-off does not click, but
// the pitch and phases restart for the new note.
func (v *Voice) steal(note int, velocity float64, age, seed0, seed1 uint64) {
	v.note = note
	v.velocity = velocity
	v.age = age
	v.freq = dsp.MIDIToFreq(note)
	v.osc[0].Init(0, seed0)
	v.osc[1].Init(0, seed1)
	v.env.Trigger()
}

// release transitions the voice toward reclamation at the envelope's pace.
func (v *Voice) release() {
	v.env.Release()
	if v.env.Idle() {
		v.active = false
	}
}

// releasing reports whether the voice is in its release tail.
func (v *Voice) releasing() bool {
	return v.env.Stage() == dsp.StageRelease
}
