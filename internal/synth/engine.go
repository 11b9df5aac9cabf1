// Package synth is the real-time synthesis core: a fixed pool of voices,
// two wavetable slots, two global LFOs, and the block renderer that ties
// them together. Control-side calls queue work; the render side applies it
// at block boundaries and never blocks, locks, or allocates.
package synth

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/visheshc14/Aeon-Keys/internal/dsp"
	"github.com/visheshc14/Aeon-Keys/internal/lfo"
	"github.com/visheshc14/Aeon-Keys/internal/param"
	"github.com/visheshc14/Aeon-Keys/internal/wavetable"
)

const (
	// MaxVoices is the polyphony cap. Exceeding it never errors; the
	// engine steals instead.
	MaxVoices = 16
	// NumSlots is the number of wavetable slots, one per oscillator.
	NumSlots = 2
	// NumLFOs is the number of global modulation LFOs.
	NumLFOs = 2
	// maxBlockFrames caps one internal render pass; longer requests are
	// chunked by Render.
	maxBlockFrames = 8192
)

var (
	ErrNoteRange = errors.New("note outside MIDI range")
	ErrVelocity  = errors.New("non-finite velocity")
	ErrSlotRange = errors.New("wavetable slot out of range")
	ErrQueueFull = errors.New("event queue full")
)

// Engine owns all render-actor state. The control actor talks to it only
// through the event queue, the parameter store, and the atomic wavetable
// slots.
type Engine struct {
	sampleRate float64
	store      *param.Store
	slots      [NumSlots]wavetable.Slot
	lfos       [NumLFOs]lfo.LFO
	queue      eventQueue
	voices     [MaxVoices]Voice
	nextAge    uint64
	rng        uint64
	mix        []float64 // preallocated block scratch

	active    atomic.Int32
	faults    atomic.Uint64
	lastFault atomic.Value // string
}

// New constructs an engine at the given sample rate. Both wavetable slots
// start as a unit sine. A nil store gets a fresh one holding defaults.
func New(sampleRate float64, store *param.Store) (*Engine, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate %g out of range", sampleRate)
	}
	if store == nil {
		store = param.NewStore()
	}
	e := &Engine{
		sampleRate: sampleRate,
		store:      store,
		mix:        make([]float64, maxBlockFrames),
		rng:        0x243f6a8885a308d3,
	}
	for i := range e.slots {
		e.slots[i].Store(wavetable.Sine())
	}
	e.lfos[0].Seed(0x9e3779b97f4a7c15)
	e.lfos[1].Seed(0xbf58476d1ce4e5b9)
	return e, nil
}

func (e *Engine) SampleRate() float64 { return e.sampleRate }

// Params is the store the engine renders from.
func (e *Engine) Params() *param.Store { return e.store }

// NoteOn queues a note start for the next block. Velocity is clamped to
// [0,1]. The queue never blocks; when full the event is dropped and an
// error returned.
func (e *Engine) NoteOn(note int, velocity float64) error {
	if note < 0 || note > 127 {
		return fmt.Errorf("%w: %d", ErrNoteRange, note)
	}
	if math.IsNaN(velocity) || math.IsInf(velocity, 0) {
		return fmt.Errorf("%w: %g", ErrVelocity, velocity)
	}
	ev := event{kind: evNoteOn, note: int32(note), velocity: clamp(velocity, 0, 1)}
	if !e.queue.push(ev) {
		return fmt.Errorf("%w: note %d dropped", ErrQueueFull, note)
	}
	return nil
}

// NoteOff queues a release for every sounding voice on the note.
func (e *Engine) NoteOff(note int) error {
	if note < 0 || note > 127 {
		return fmt.Errorf("%w: %d", ErrNoteRange, note)
	}
	if !e.queue.push(event{kind: evNoteOff, note: int32(note)}) {
		return fmt.Errorf("%w: note %d release dropped", ErrQueueFull, note)
	}
	return nil
}

// SetTable publishes a new wavetable for a slot. The swap is atomic; a
// render pass sees either the old or the new table, never a mix.
func (e *Engine) SetTable(slot int, t *wavetable.Table) error {
	if slot < 0 || slot >= NumSlots {
		return fmt.Errorf("%w: %d", ErrSlotRange, slot)
	}
	if t == nil {
		return fmt.Errorf("%w: nil table", wavetable.ErrShape)
	}
	e.slots[slot].Store(t)
	return nil
}

// Table returns the currently published table for a slot, nil if the slot
// index is invalid.
func (e *Engine) Table(slot int) *wavetable.Table {
	if slot < 0 || slot >= NumSlots {
		return nil
	}
	return e.slots[slot].Load()
}

// ActiveVoices reports the voice count as of the end of the last block.
func (e *Engine) ActiveVoices() int { return int(e.active.Load()) }

// Faults counts render passes that degraded to silence.
func (e *Engine) Faults() uint64 { return e.faults.Load() }

// LastFault describes the most recent render fault, empty if none.
func (e *Engine) LastFault() string {
	s, _ := e.lastFault.Load().(string)
	return s
}

// DroppedEvents counts note events discarded on a full queue.
func (e *Engine) DroppedEvents() uint64 { return e.queue.dropped.Load() }

// Render fills dst with mono samples. It always fills every frame: an
// internal fault silences the rest of its block and is counted, never
// propagated. Requests longer than the internal block cap are rendered in
// chunks.
func (e *Engine) Render(dst []float32) {
	for len(dst) > 0 {
		n := len(dst)
		if n > maxBlockFrames {
			n = maxBlockFrames
		}
		e.renderBlock(dst[:n])
		dst = dst[n:]
	}
}

func (e *Engine) renderBlock(dst []float32) {
	defer func() {
		if r := recover(); r != nil {
			for i := range dst {
				dst[i] = 0
			}
			e.faults.Add(1)
			e.lastFault.Store(fmt.Sprint(r))
		}
	}()

	snap := e.store.Snapshot()
	e.applyEvents(snap)

	for i := range e.lfos {
		cfg := snap.LFO[i]
		e.lfos[i].Set(cfg.RateHz, cfg.Amount, cfg.Kind)
	}

	frames := len(dst)
	mix := e.mix[:frames]
	clear(mix)

	src := Sources{
		LFO0: e.lfos[0].Block(frames, e.sampleRate),
		LFO1: e.lfos[1].Block(frames, e.sampleRate),
	}

	var tables [NumSlots][]float64
	for i := range e.slots {
		if t := e.slots[i].Load(); t != nil {
			tables[i] = t.Samples()
		}
	}

	detune := [2]float64{
		dsp.DetuneRatio(snap.Osc[0].DetuneCents),
		dsp.DetuneRatio(snap.Osc[1].DetuneCents),
	}
	dt := 1 / e.sampleRate

	alive := int32(0)
	for vi := range e.voices {
		v := &e.voices[vi]
		if !v.active {
			continue
		}

		src.Env = v.env.Level()
		cut := CutoffFor(snap.Filter.CutoffHz, snap.Mod, src, snap.Filter.EnvEnabled)
		v.filter.SetBlock(cut, snap.Filter.Resonance, e.sampleRate)

		inc0 := v.freq * detune[0] * dt
		inc1 := v.freq * detune[1] * dt
		g0 := snap.Osc[0].Gain
		g1 := snap.Osc[1].Gain

		for i := 0; i < frames; i++ {
			s := v.osc[0].Next(snap.Osc[0].Kind, inc0, tables[0]) * g0
			s += v.osc[1].Next(snap.Osc[1].Kind, inc1, tables[1]) * g1
			lvl := v.env.Tick(snap.Env, dt)
			mix[i] += v.filter.Process(s * lvl * v.velocity)
			if v.env.Idle() {
				v.active = false
				break
			}
		}
		if v.active {
			alive++
		}
	}
	e.active.Store(alive)

	for i := range dst {
		dst[i] = float32(clamp(mix[i], -1, 1))
	}
}

// applyEvents drains the queue at block start so every event lands on a
// block boundary, never mid-buffer.
func (e *Engine) applyEvents(snap *param.Snapshot) {
	for {
		ev, ok := e.queue.pop()
		if !ok {
			return
		}
		switch ev.kind {
		case evNoteOn:
			e.startNote(int(ev.note), ev.velocity, snap)
		case evNoteOff:
			e.stopNote(int(ev.note))
		}
	}
}

func (e *Engine) startNote(note int, velocity float64, snap *param.Snapshot) {
	// A note that is already sounding retriggers its newest voice instead
	// of stacking a second one.
	var again *Voice
	for i := range e.voices {
		v := &e.voices[i]
		if v.active && v.note == note && (again == nil || v.age > again.age) {
			again = v
		}
	}
	age := e.nextAge
	e.nextAge++
	if again != nil {
		again.retrigger(velocity, age)
	} else {
		v, fresh := e.allocVoice()
		if fresh {
			v.start(note, velocity, age, e.nextRand(), e.nextRand())
		} else {
			v.steal(note, velocity, age, e.nextRand(), e.nextRand())
		}
	}
	for i := range e.lfos {
		if snap.LFO[i].Retrigger {
			e.lfos[i].Retrigger()
		}
	}
}

func (e *Engine) stopNote(note int) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.active && v.note == note {
			v.release()
		}
	}
}

// allocVoice returns a free voice when one exists (fresh=true); otherwise
// it picks a victim to steal: the oldest releasing voice, else the oldest
// voice outright.
func (e *Engine) allocVoice() (v *Voice, fresh bool) {
	for i := range e.voices {
		if !e.voices[i].active {
			return &e.voices[i], true
		}
	}
	var victim *Voice
	for i := range e.voices {
		cand := &e.voices[i]
		if !cand.releasing() {
			continue
		}
		if victim == nil || cand.age < victim.age {
			victim = cand
		}
	}
	if victim == nil {
		victim = &e.voices[0]
		for i := 1; i < len(e.voices); i++ {
			if e.voices[i].age < victim.age {
				victim = &e.voices[i]
			}
		}
	}
	return victim, false
}

func (e *Engine) nextRand() uint64 {
	e.rng ^= e.rng << 13
	e.rng ^= e.rng >> 7
	e.rng ^= e.rng << 17
	return e.rng
}
