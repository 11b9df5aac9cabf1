package aeonkeys

import (
	"encoding/binary"
	"math"

	intscore "github.com/visheshc14/Aeon-Keys/internal/score"
)

// ScoreOptions controls offline melody rendering. Zero values fall back
// to 120 BPM, a 0.9 gate, velocity 0.8, and a half-second release tail.
type ScoreOptions struct {
	BPM         float64
	Gate        float64
	Velocity    float64
	TailSeconds float64
}

// RenderScore parses melody text ("c4 e4 g4:0.5 r c4+e4+g4:2"), drives
// the engine with the scheduled note events, and renders the result as
// interleaved stereo through the send chain. The engine's current patch
// is used as it stands; voices left sounding from earlier use ring into
// the take.
func (e *Engine) RenderScore(text string, opts ScoreOptions) ([]float32, error) {
	sc, err := intscore.Parse(text, intscore.Config{
		BPM:      opts.BPM,
		Gate:     opts.Gate,
		Velocity: opts.Velocity,
	}, e.SampleRate())
	if err != nil {
		return nil, err
	}
	tail := opts.TailSeconds
	if tail <= 0 {
		tail = 0.5
	}
	total := sc.Frames + int(tail*e.SampleRate())

	sends := newSendChain(e.SampleRate())
	out := make([]float32, 2*total)
	const blockFrames = 512
	mono := make([]float32, blockFrames)

	idx := 0
	for frame := 0; frame < total; {
		for idx < len(sc.Events) && sc.Events[idx].Frame <= frame {
			ev := sc.Events[idx]
			switch ev.Kind {
			case intscore.NoteOn:
				_ = e.NoteOn(ev.Note, ev.Velocity)
			case intscore.NoteOff:
				_ = e.NoteOff(ev.Note)
			}
			idx++
		}
		n := blockFrames
		if rem := total - frame; rem < n {
			n = rem
		}
		// Stop the block at the next event so scheduling stays
		// sample-accurate.
		if idx < len(sc.Events) {
			if until := sc.Events[idx].Frame - frame; until < n {
				n = until
			}
		}
		sends.sync(e.core.Params().Snapshot())
		e.RenderAudio(mono[:n])
		for i := 0; i < n; i++ {
			l, r := sends.chain.Process(mono[i], mono[i])
			out[2*(frame+i)] = l
			out[2*(frame+i)+1] = r
		}
		frame += n
	}
	return out, nil
}

// EncodeWAVFloat32LE wraps samples in a 44-byte WAV header (format 3,
// IEEE float, 32 bits per sample).
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
