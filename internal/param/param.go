// Package param is the named-parameter registry bridging the control and
// render actors. The identifier set is closed: external strings are
// translated to dense IDs once at the boundary, and everything inside
// dispatches on the ID.
package param

import (
	"errors"
	"fmt"
	"math"

	"github.com/visheshc14/Aeon-Keys/internal/dsp"
)

// ID indexes one parameter in the closed set.
type ID int

const (
	Osc0Waveform ID = iota
	Osc0Detune
	Osc0Gain
	Osc1Waveform
	Osc1Detune
	Osc1Gain
	EnvAttack
	EnvDecay
	EnvSustain
	EnvRelease
	FilterCutoff
	FilterResonance
	FilterEnvEnabled
	LFO0Waveform
	LFO0Rate
	LFO0Amount
	LFO0Retrigger
	LFO1Waveform
	LFO1Rate
	LFO1Amount
	LFO1Retrigger
	ModLFO0ToCutoff
	ModLFO1ToCutoff
	ModEnvToCutoff
	SendDelayTime
	SendDelayFeedback
	SendDelayWet
	SendReverbWet
	SendMasterGain

	NumParams
)

var (
	// ErrUnknown reports a name outside the closed identifier set.
	ErrUnknown = errors.New("unknown parameter")
	// ErrOutOfDomain reports a value outside its parameter's domain.
	ErrOutOfDomain = errors.New("parameter value out of domain")
)

var names = [NumParams]string{
	Osc0Waveform:      "osc0_waveform",
	Osc0Detune:        "osc0_detune",
	Osc0Gain:          "osc0_gain",
	Osc1Waveform:      "osc1_waveform",
	Osc1Detune:        "osc1_detune",
	Osc1Gain:          "osc1_gain",
	EnvAttack:         "env_attack",
	EnvDecay:          "env_decay",
	EnvSustain:        "env_sustain",
	EnvRelease:        "env_release",
	FilterCutoff:      "filter_cutoff",
	FilterResonance:   "filter_resonance",
	FilterEnvEnabled:  "filter_env_enabled",
	LFO0Waveform:      "lfo0_waveform",
	LFO0Rate:          "lfo0_rate",
	LFO0Amount:        "lfo0_amount",
	LFO0Retrigger:     "lfo0_retrigger",
	LFO1Waveform:      "lfo1_waveform",
	LFO1Rate:          "lfo1_rate",
	LFO1Amount:        "lfo1_amount",
	LFO1Retrigger:     "lfo1_retrigger",
	ModLFO0ToCutoff:   "lfo0_to_cutoff",
	ModLFO1ToCutoff:   "lfo1_to_cutoff",
	ModEnvToCutoff:    "env_to_cutoff",
	SendDelayTime:     "delay_time",
	SendDelayFeedback: "delay_feedback",
	SendDelayWet:      "delay_wet",
	SendReverbWet:     "reverb_wet",
	SendMasterGain:    "master_gain",
}

// aliases are alternate spellings kept for older hosts.
var aliases = map[string]ID{
	"osc0_volume":        Osc0Gain,
	"osc1_volume":        Osc1Gain,
	"filter_env":         FilterEnvEnabled,
	"mod_lfo0_to_cutoff": ModLFO0ToCutoff,
	"mod_lfo1_to_cutoff": ModLFO1ToCutoff,
	"mod_env_to_cutoff":  ModEnvToCutoff,
	"fx_delay_time":      SendDelayTime,
	"fx_delay_feedback":  SendDelayFeedback,
	"fx_delay_wet":       SendDelayWet,
	"fx_reverb_wet":      SendReverbWet,
	"master_volume":      SendMasterGain,
}

var byName map[string]ID

func init() {
	byName = make(map[string]ID, int(NumParams)+len(aliases))
	for id := ID(0); id < NumParams; id++ {
		byName[names[id]] = id
	}
	for name, id := range aliases {
		byName[name] = id
	}
}

func (id ID) String() string {
	if id < 0 || id >= NumParams {
		return fmt.Sprintf("param(%d)", int(id))
	}
	return names[id]
}

// Lookup translates an external parameter name to its ID.
func Lookup(name string) (ID, bool) {
	id, ok := byName[name]
	return id, ok
}

type domain struct {
	lo, hi float64
	openHi bool
}

func (d domain) String() string {
	if d.openHi {
		return fmt.Sprintf("[%g,%g)", d.lo, d.hi)
	}
	return fmt.Sprintf("[%g,%g]", d.lo, d.hi)
}

var domains = [NumParams]domain{
	Osc0Waveform:      {0, float64(dsp.NumWaveKinds), true},
	Osc0Detune:        {-1200, 1200, false},
	Osc0Gain:          {0, 1, false},
	Osc1Waveform:      {0, float64(dsp.NumWaveKinds), true},
	Osc1Detune:        {-1200, 1200, false},
	Osc1Gain:          {0, 1, false},
	EnvAttack:         {0, math.Inf(1), true},
	EnvDecay:          {0, math.Inf(1), true},
	EnvSustain:        {0, 1, false},
	EnvRelease:        {0, math.Inf(1), true},
	FilterCutoff:      {dsp.MinCutoffHz, dsp.MaxCutoffHz, false},
	FilterResonance:   {0, 1, true},
	FilterEnvEnabled:  {0, 1, false},
	LFO0Waveform:      {0, float64(dsp.WaveNoise) + 1, true},
	LFO0Rate:          {0, 10, false},
	LFO0Amount:        {0, 1, false},
	LFO0Retrigger:     {0, 1, false},
	LFO1Waveform:      {0, float64(dsp.WaveNoise) + 1, true},
	LFO1Rate:          {0, 10, false},
	LFO1Amount:        {0, 1, false},
	LFO1Retrigger:     {0, 1, false},
	ModLFO0ToCutoff:   {-1, 1, false},
	ModLFO1ToCutoff:   {-1, 1, false},
	ModEnvToCutoff:    {-1, 1, false},
	SendDelayTime:     {0, 5, false},
	SendDelayFeedback: {0, 0.99, false},
	SendDelayWet:      {0, 1, false},
	SendReverbWet:     {0, 1, false},
	SendMasterGain:    {0, 2, false},
}

// Validate checks v against id's domain. Non-finite values always fail.
func Validate(id ID, v float64) error {
	if id < 0 || id >= NumParams {
		return fmt.Errorf("%w: id %d", ErrUnknown, int(id))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s: non-finite value", ErrOutOfDomain, names[id])
	}
	d := domains[id]
	if v < d.lo || v > d.hi || (d.openHi && v == d.hi) {
		return fmt.Errorf("%w: %s: %g outside %s", ErrOutOfDomain, names[id], v, d)
	}
	return nil
}

// OscConfig is one oscillator's per-block view.
type OscConfig struct {
	Kind        dsp.WaveKind
	DetuneCents float64
	Gain        float64
}

// FilterConfig is the voice filter's per-block view.
type FilterConfig struct {
	CutoffHz   float64
	Resonance  float64
	EnvEnabled bool
}

// LFOConfig is one LFO's per-block view.
type LFOConfig struct {
	Kind      dsp.WaveKind
	RateHz    float64
	Amount    float64
	Retrigger bool
}

// ModConfig holds the modulation route depths, all targeting filter cutoff.
type ModConfig struct {
	LFO0ToCutoff float64
	LFO1ToCutoff float64
	EnvToCutoff  float64
}

// SendConfig carries pass-through hints for the host effect graph. The
// engine core never consumes these.
type SendConfig struct {
	DelayTime     float64
	DelayFeedback float64
	DelayWet      float64
	ReverbWet     float64
	MasterGain    float64
}

// Snapshot is the full parameter state the render actor reads once per
// block. Value semantics; a published snapshot is never mutated.
type Snapshot struct {
	Osc    [2]OscConfig
	Env    dsp.EnvConfig
	Filter FilterConfig
	LFO    [2]LFOConfig
	Mod    ModConfig
	Send   SendConfig
}

// Defaults is the freshly initialized engine state.
func Defaults() Snapshot {
	return Snapshot{
		Osc: [2]OscConfig{
			{Kind: dsp.WaveSaw, Gain: 0.8},
			{Kind: dsp.WaveSaw, Gain: 0.8},
		},
		Env:    dsp.EnvConfig{Attack: 0.01, Decay: 0.2, Sustain: 0.8, Release: 0.3},
		Filter: FilterConfig{CutoffHz: 1200, Resonance: 0.6, EnvEnabled: true},
		LFO: [2]LFOConfig{
			{Kind: dsp.WaveSine, RateHz: 2.5, Amount: 0.5},
			{Kind: dsp.WaveSine, RateHz: 3.5, Amount: 0},
		},
		Mod: ModConfig{LFO0ToCutoff: 0.3},
		Send: SendConfig{
			DelayTime:     0.3,
			DelayFeedback: 0.35,
			DelayWet:      0.35,
			ReverbWet:     0.25,
			MasterGain:    0.9,
		},
	}
}

// Apply validates v and sets it on a snapshot the caller owns. The preset
// codec uses this to stage a whole state before anything goes live.
func Apply(s *Snapshot, id ID, v float64) error {
	if err := Validate(id, v); err != nil {
		return err
	}
	apply(s, id, v)
	return nil
}

func apply(s *Snapshot, id ID, v float64) {
	switch id {
	case Osc0Waveform:
		s.Osc[0].Kind = dsp.WaveKind(int(v))
	case Osc0Detune:
		s.Osc[0].DetuneCents = v
	case Osc0Gain:
		s.Osc[0].Gain = v
	case Osc1Waveform:
		s.Osc[1].Kind = dsp.WaveKind(int(v))
	case Osc1Detune:
		s.Osc[1].DetuneCents = v
	case Osc1Gain:
		s.Osc[1].Gain = v
	case EnvAttack:
		s.Env.Attack = v
	case EnvDecay:
		s.Env.Decay = v
	case EnvSustain:
		s.Env.Sustain = v
	case EnvRelease:
		s.Env.Release = v
	case FilterCutoff:
		s.Filter.CutoffHz = v
	case FilterResonance:
		s.Filter.Resonance = v
	case FilterEnvEnabled:
		s.Filter.EnvEnabled = v >= 0.5
	case LFO0Waveform:
		s.LFO[0].Kind = dsp.WaveKind(int(v))
	case LFO0Rate:
		s.LFO[0].RateHz = v
	case LFO0Amount:
		s.LFO[0].Amount = v
	case LFO0Retrigger:
		s.LFO[0].Retrigger = v >= 0.5
	case LFO1Waveform:
		s.LFO[1].Kind = dsp.WaveKind(int(v))
	case LFO1Rate:
		s.LFO[1].RateHz = v
	case LFO1Amount:
		s.LFO[1].Amount = v
	case LFO1Retrigger:
		s.LFO[1].Retrigger = v >= 0.5
	case ModLFO0ToCutoff:
		s.Mod.LFO0ToCutoff = v
	case ModLFO1ToCutoff:
		s.Mod.LFO1ToCutoff = v
	case ModEnvToCutoff:
		s.Mod.EnvToCutoff = v
	case SendDelayTime:
		s.Send.DelayTime = v
	case SendDelayFeedback:
		s.Send.DelayFeedback = v
	case SendDelayWet:
		s.Send.DelayWet = v
	case SendReverbWet:
		s.Send.ReverbWet = v
	case SendMasterGain:
		s.Send.MasterGain = v
	}
}

func read(s *Snapshot, id ID) float64 {
	switch id {
	case Osc0Waveform:
		return float64(s.Osc[0].Kind)
	case Osc0Detune:
		return s.Osc[0].DetuneCents
	case Osc0Gain:
		return s.Osc[0].Gain
	case Osc1Waveform:
		return float64(s.Osc[1].Kind)
	case Osc1Detune:
		return s.Osc[1].DetuneCents
	case Osc1Gain:
		return s.Osc[1].Gain
	case EnvAttack:
		return s.Env.Attack
	case EnvDecay:
		return s.Env.Decay
	case EnvSustain:
		return s.Env.Sustain
	case EnvRelease:
		return s.Env.Release
	case FilterCutoff:
		return s.Filter.CutoffHz
	case FilterResonance:
		return s.Filter.Resonance
	case FilterEnvEnabled:
		return boolVal(s.Filter.EnvEnabled)
	case LFO0Waveform:
		return float64(s.LFO[0].Kind)
	case LFO0Rate:
		return s.LFO[0].RateHz
	case LFO0Amount:
		return s.LFO[0].Amount
	case LFO0Retrigger:
		return boolVal(s.LFO[0].Retrigger)
	case LFO1Waveform:
		return float64(s.LFO[1].Kind)
	case LFO1Rate:
		return s.LFO[1].RateHz
	case LFO1Amount:
		return s.LFO[1].Amount
	case LFO1Retrigger:
		return boolVal(s.LFO[1].Retrigger)
	case ModLFO0ToCutoff:
		return s.Mod.LFO0ToCutoff
	case ModLFO1ToCutoff:
		return s.Mod.LFO1ToCutoff
	case ModEnvToCutoff:
		return s.Mod.EnvToCutoff
	case SendDelayTime:
		return s.Send.DelayTime
	case SendDelayFeedback:
		return s.Send.DelayFeedback
	case SendDelayWet:
		return s.Send.DelayWet
	case SendReverbWet:
		return s.Send.ReverbWet
	case SendMasterGain:
		return s.Send.MasterGain
	default:
		return 0
	}
}

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
