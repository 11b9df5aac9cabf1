package aeonkeys

import (
	"errors"
	"sync"
	"time"

	intaudio "github.com/visheshc14/Aeon-Keys/internal/audio"
	intfx "github.com/visheshc14/Aeon-Keys/internal/effects"
	intparam "github.com/visheshc14/Aeon-Keys/internal/param"
)

// Backend selects the platform audio stack for live playback.
type Backend int

const (
	// BackendOto streams straight to the device, no game loop required.
	BackendOto Backend = iota
	// BackendEbiten streams through the shared ebiten audio context, for
	// hosts that already run one.
	BackendEbiten
)

type PlayerOption func(*playerConfig)

type playerConfig struct {
	backend     Backend
	blockFrames int
	sampleTap   func([]float32)
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{backend: BackendOto}
}

// WithBackend selects the output backend. The default is oto.
func WithBackend(b Backend) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.backend = b
	}
}

// WithBlockFrames caps the frames rendered between send-parameter syncs,
// bounding control latency when the device pulls large buffers. Zero, the
// default, renders each pull in one pass.
func WithBlockFrames(n int) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.blockFrames = n
	}
}

// WithSampleTap installs a callback invoked with each generated stereo
// buffer. The callback runs on the audio thread; keep work brief and
// non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

// sendChain is the host-side effect graph driven by the engine's send
// parameters: feedback delay into reverb, then master gain. The engine
// itself stays dry; these run on whatever consumes its blocks.
type sendChain struct {
	delay  *intfx.SendDelay
	reverb *intfx.SendReverb
	master *intfx.Gain
	chain  *intfx.Chain
}

func newSendChain(sampleRate float64) *sendChain {
	c := &sendChain{
		delay:  intfx.NewSendDelay(sampleRate),
		reverb: intfx.NewSendReverb(sampleRate),
		master: intfx.NewGain(0.9),
	}
	c.chain = intfx.NewChain(c.delay, c.reverb, c.master)
	return c
}

// sync pulls the current send parameters. Call between blocks, on the
// goroutine that also calls chain.Process.
func (c *sendChain) sync(s *intparam.Snapshot) {
	c.delay.Set(s.Send.DelayTime, s.Send.DelayFeedback, s.Send.DelayWet)
	c.reverb.SetWet(s.Send.ReverbWet)
	c.master.SetLevel(s.Send.MasterGain)
}

// engineSource adapts the mono engine to the stereo stream: sync the send
// chain from the current snapshot, render a block, upmix through the
// effects.
type engineSource struct {
	eng   *Engine
	sends *sendChain
	tap   func([]float32)
	block int
	mono  []float32
}

func newEngineSource(engine *Engine, tap func([]float32), blockFrames int) *engineSource {
	return &engineSource{
		eng:   engine,
		sends: newSendChain(engine.SampleRate()),
		tap:   tap,
		block: blockFrames,
	}
}

func (s *engineSource) Process(dst []float32) {
	for len(dst) > 0 {
		frames := len(dst) / 2
		if frames == 0 {
			return
		}
		if s.block > 0 && frames > s.block {
			frames = s.block
		}
		s.render(dst[:2*frames])
		dst = dst[2*frames:]
	}
}

func (s *engineSource) render(dst []float32) {
	frames := len(dst) / 2
	if cap(s.mono) < frames {
		s.mono = make([]float32, frames)
	}
	mono := s.mono[:frames]
	s.sends.sync(s.eng.core.Params().Snapshot())
	s.eng.RenderAudio(mono)
	for i := 0; i < frames; i++ {
		l, r := s.sends.chain.Process(mono[i], mono[i])
		dst[2*i] = l
		dst[2*i+1] = r
	}
	if s.tap != nil {
		s.tap(dst)
	}
}

// Player streams a live engine to the audio device.
type Player struct {
	mu     sync.Mutex
	engine *Engine
	audio  intaudio.Output
}

// NewPlayer opens the audio device for engine and leaves it paused; call
// Start to begin streaming.
func NewPlayer(engine *Engine, opts ...PlayerOption) (*Player, error) {
	if engine == nil {
		return nil, errors.New("nil engine")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	source := newEngineSource(engine, cfg.sampleTap, cfg.blockFrames)
	out, err := intaudio.NewOutput(deviceBackend(cfg.backend), int(engine.SampleRate()), source)
	if err != nil {
		return nil, err
	}
	return &Player{engine: engine, audio: out}, nil
}

func deviceBackend(b Backend) intaudio.Backend {
	if b == BackendEbiten {
		return intaudio.BackendEbiten
	}
	return intaudio.BackendOto
}

func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audio != nil && p.audio.IsPlaying()
}

// Position reports how much audio the listener has heard since Start,
// device latency accounted for.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return 0
	}
	return p.audio.Position()
}

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return nil
	}
	err := p.audio.Close()
	p.audio = nil
	return err
}
