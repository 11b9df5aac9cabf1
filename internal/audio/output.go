package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// Backend selects the platform audio stack.
type Backend int

const (
	// BackendEbiten plays through the shared ebiten audio context.
	BackendEbiten Backend = iota
	// BackendOto plays through oto directly, with no game loop attached.
	BackendOto
)

func (b Backend) String() string {
	switch b {
	case BackendEbiten:
		return "ebiten"
	case BackendOto:
		return "oto"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// Output is a running device player bound to one stream.
type Output interface {
	Play()
	Pause()
	IsPlaying() bool
	// Position reports how much audio the listener has heard, device
	// latency accounted for.
	Position() time.Duration
	Close() error
}

// NewOutput opens the requested backend at sampleRate and binds source to
// it. Each backend shares a process-wide device context; the first call
// fixes its sample rate for the life of the process.
func NewOutput(backend Backend, sampleRate int, source SampleSource) (Output, error) {
	switch backend {
	case BackendEbiten:
		return newEbitenOutput(sampleRate, source)
	case BackendOto:
		return newOtoOutput(sampleRate, source)
	}
	return nil, fmt.Errorf("unknown audio backend %d", int(backend))
}

func framesToDuration(frames int64, sampleRate int) time.Duration {
	if frames < 0 {
		frames = 0
	}
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

var (
	ebitenOnce sync.Once
	ebitenCtx  *ebitaudio.Context
	ebitenRate int
)

func sharedEbitenContext(sampleRate int) (*ebitaudio.Context, error) {
	ebitenOnce.Do(func() {
		ebitenRate = sampleRate
		ebitenCtx = ebitaudio.NewContext(sampleRate)
	})
	if ebitenRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", ebitenRate, sampleRate)
	}
	return ebitenCtx, nil
}

type ebitenOutput struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

func newEbitenOutput(sampleRate int, source SampleSource) (*ebitenOutput, error) {
	ctx, err := sharedEbitenContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &ebitenOutput{player: pl, reader: reader}, nil
}

func (o *ebitenOutput) Play()                   { o.player.Play() }
func (o *ebitenOutput) Pause()                  { o.player.Pause() }
func (o *ebitenOutput) IsPlaying() bool         { return o.player.IsPlaying() }
func (o *ebitenOutput) Position() time.Duration { return o.player.Position() }

func (o *ebitenOutput) Close() error {
	o.player.Pause()
	o.player.Close()
	return o.reader.Close()
}

var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
	otoRate int
)

func sharedOtoContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		otoRate = sampleRate
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
		})
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx = ctx
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", otoRate, sampleRate)
	}
	return otoCtx, nil
}

type otoOutput struct {
	player *oto.Player
	reader *StreamReader
	rate   int
}

func newOtoOutput(sampleRate int, source SampleSource) (*otoOutput, error) {
	ctx, err := sharedOtoContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source)
	return &otoOutput{player: ctx.NewPlayer(reader), reader: reader, rate: sampleRate}, nil
}

func (o *otoOutput) Play()           { o.player.Play() }
func (o *otoOutput) Pause()          { o.player.Pause() }
func (o *otoOutput) IsPlaying() bool { return o.player.IsPlaying() }

// oto does not track time itself; frames pulled off the stream minus the
// bytes it still buffers is what has reached the listener.
func (o *otoOutput) Position() time.Duration {
	buffered := int64(o.player.BufferedSize()) / bytesPerFrame
	return framesToDuration(o.reader.FramesRead()-buffered, o.rate)
}

func (o *otoOutput) Close() error {
	o.player.Pause()
	if err := o.player.Close(); err != nil {
		return err
	}
	return o.reader.Close()
}
