package dsp

// EnvStage identifies a position in the ADSR state machine.
type EnvStage int

const (
	StageIdle EnvStage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

func (s EnvStage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "unknown"
	}
}

// EnvConfig holds ADSR timing. Times are in seconds, Sustain is a level in
// [0,1].
type EnvConfig struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// minEnvTime guards the per-sample step against zero-length segments.
const minEnvTime = 1e-4

// Envelope is a per-voice ADSR generator. The stage sequence is
// Idle, Attack, Decay, Sustain, Release, Idle. Trigger during any sounding
// stage restarts the attack from the current level so retriggers never
// click.
type Envelope struct {
	stage       EnvStage
	level       float64
	releaseFrom float64
}

// Reset silences the envelope immediately. Only call on a voice that is not
// sounding; a sounding voice should go through Release.
func (e *Envelope) Reset() {
	e.stage = StageIdle
	e.level = 0
	e.releaseFrom = 0
}

// Trigger starts (or restarts) the attack segment. The current level is
// kept, so a retrigger resumes the ramp rather than snapping to zero.
func (e *Envelope) Trigger() {
	e.stage = StageAttack
}

// Release begins the release ramp from the current level.
func (e *Envelope) Release() {
	if e.stage == StageIdle {
		return
	}
	if e.level <= 0 {
		e.stage = StageIdle
		return
	}
	e.releaseFrom = e.level
	e.stage = StageRelease
}

func (e *Envelope) Stage() EnvStage { return e.stage }
func (e *Envelope) Level() float64  { return e.level }
func (e *Envelope) Idle() bool      { return e.stage == StageIdle }

// Tick advances the envelope by one sample period dt and returns the new
// level. The release ramp spans cfg.Release seconds from the level Release
// was called at, whatever that level was.
func (e *Envelope) Tick(cfg EnvConfig, dt float64) float64 {
	switch e.stage {
	case StageAttack:
		e.level += dt / max(cfg.Attack, minEnvTime)
		if e.level >= 1 {
			e.level = 1
			e.stage = StageDecay
		}
	case StageDecay:
		e.level -= dt * (1 - cfg.Sustain) / max(cfg.Decay, minEnvTime)
		if e.level <= cfg.Sustain {
			e.level = cfg.Sustain
			e.stage = StageSustain
		}
	case StageSustain:
		e.level = cfg.Sustain
	case StageRelease:
		e.level -= dt * e.releaseFrom / max(cfg.Release, minEnvTime)
		if e.level <= 0 {
			e.level = 0
			e.stage = StageIdle
		}
	}
	return e.level
}
