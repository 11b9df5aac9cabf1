package dsp

import (
	"math"
	"testing"
)

const envDT = 1.0 / 1000 // 1 kHz keeps tick counts small and exact enough

func tickN(e *Envelope, cfg EnvConfig, n int) {
	for i := 0; i < n; i++ {
		e.Tick(cfg, envDT)
	}
}

func TestEnvelopeReachesSustainAndHolds(t *testing.T) {
	cfg := EnvConfig{Attack: 0.01, Decay: 0.1, Sustain: 0.3, Release: 0.2}
	var e Envelope
	e.Trigger()
	tickN(&e, cfg, 500) // well past attack+decay
	if e.Stage() != StageSustain {
		t.Fatalf("stage = %v, want sustain", e.Stage())
	}
	if math.Abs(e.Level()-0.3) > 1e-9 {
		t.Fatalf("sustain level = %g, want 0.3", e.Level())
	}
	tickN(&e, cfg, 1000)
	if math.Abs(e.Level()-0.3) > 1e-9 {
		t.Fatalf("level drifted to %g while sustaining", e.Level())
	}
}

func TestEnvelopeStageOrder(t *testing.T) {
	cfg := EnvConfig{Attack: 0.02, Decay: 0.02, Sustain: 0.5, Release: 0.02}
	var e Envelope
	e.Trigger()
	order := map[EnvStage]int{
		StageAttack: 0, StageDecay: 1, StageSustain: 2, StageRelease: 3, StageIdle: 4,
	}
	last := -1
	released := false
	for i := 0; i < 200; i++ {
		if e.Stage() == StageSustain && !released {
			e.Release()
			released = true
		}
		e.Tick(cfg, envDT)
		cur := order[e.Stage()]
		if cur < last {
			t.Fatalf("stage went backwards: %v after index %d", e.Stage(), last)
		}
		last = cur
	}
	if !e.Idle() {
		t.Fatalf("envelope never reached idle, stuck in %v", e.Stage())
	}
}

func TestRetriggerResumesFromCurrentLevel(t *testing.T) {
	cfg := EnvConfig{Attack: 0.1, Decay: 0.1, Sustain: 0.5, Release: 0.5}
	var e Envelope
	e.Trigger()
	tickN(&e, cfg, 50) // halfway up the attack
	e.Release()
	tickN(&e, cfg, 100)
	before := e.Level()
	if before <= 0 || before >= 0.5 {
		t.Fatalf("setup: level %g not midway through release", before)
	}
	e.Trigger()
	if e.Level() != before {
		t.Fatalf("Trigger changed level from %g to %g", before, e.Level())
	}
	e.Tick(cfg, envDT)
	if e.Level() <= before {
		t.Fatalf("level %g did not rise after retrigger from %g", e.Level(), before)
	}
	if e.Stage() != StageAttack {
		t.Fatalf("stage = %v after retrigger, want attack", e.Stage())
	}
}

func TestReleaseDurationIndependentOfStartLevel(t *testing.T) {
	// The release ramp spans Release seconds from whatever level it starts
	// at, so a quiet voice and a loud voice finish together.
	cfg := EnvConfig{Attack: 0.1, Decay: 10, Sustain: 0, Release: 0.5}
	for _, attackTicks := range []int{20, 80} {
		var e Envelope
		e.Trigger()
		tickN(&e, cfg, attackTicks)
		e.Release()
		tickN(&e, cfg, 480)
		if e.Idle() {
			t.Fatalf("attackTicks=%d: released early, level should last ~500 ticks", attackTicks)
		}
		tickN(&e, cfg, 40)
		if !e.Idle() {
			t.Fatalf("attackTicks=%d: still %v after full release time", attackTicks, e.Stage())
		}
	}
}

func TestZeroTimesDoNotStall(t *testing.T) {
	cfg := EnvConfig{Attack: 0, Decay: 0, Sustain: 0.4, Release: 0}
	var e Envelope
	e.Trigger()
	tickN(&e, cfg, 10)
	if e.Stage() != StageSustain {
		t.Fatalf("stage = %v, want sustain after zero-length attack+decay", e.Stage())
	}
	e.Release()
	tickN(&e, cfg, 10)
	if !e.Idle() {
		t.Fatalf("stage = %v, want idle after zero-length release", e.Stage())
	}
}

func TestReleaseFromZeroGoesStraightToIdle(t *testing.T) {
	var e Envelope
	e.Trigger() // level still 0
	e.Release()
	if !e.Idle() {
		t.Fatalf("stage = %v, want idle when releasing at level 0", e.Stage())
	}
}

func TestReleaseWhileIdleIsNoOp(t *testing.T) {
	var e Envelope
	e.Release()
	if !e.Idle() || e.Level() != 0 {
		t.Fatalf("idle envelope disturbed: stage=%v level=%g", e.Stage(), e.Level())
	}
}

func TestLevelStaysInUnitRange(t *testing.T) {
	cfg := EnvConfig{Attack: 0.003, Decay: 0.007, Sustain: 0.6, Release: 0.005}
	var e Envelope
	e.Trigger()
	for i := 0; i < 400; i++ {
		if i == 200 {
			e.Release()
		}
		lvl := e.Tick(cfg, envDT)
		if lvl < 0 || lvl > 1 {
			t.Fatalf("level %g outside [0,1] at tick %d", lvl, i)
		}
	}
}
