// Package audio bridges a block-rendering sample source to the platform
// audio backends. Sources produce interleaved stereo float32 frames; the
// stream layer encodes them little-endian for the device.
package audio

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
	"sync/atomic"
)

// SampleSource produces interleaved stereo float32 samples. Process must
// fill dst completely.
type SampleSource interface {
	Process(dst []float32)
}

// FinishingSource is a SampleSource with a defined end. When Finished
// reports true, the stream returns io.EOF alongside the final read.
type FinishingSource interface {
	SampleSource
	Finished() bool
}

const bytesPerFrame = 8 // 2 channels x 4-byte float32

type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
	frames atomic.Int64
}

func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.buf[i]))
	}
	n := frames * bytesPerFrame
	r.frames.Add(int64(frames))
	if fs, ok := r.source.(FinishingSource); ok && fs.Finished() {
		return n, io.EOF
	}
	return n, nil
}

// FramesRead reports how many stereo frames the device has pulled off the
// stream so far. Safe to call concurrently with Read.
func (r *StreamReader) FramesRead() int64 { return r.frames.Load() }

func (r *StreamReader) Close() error { return nil }
