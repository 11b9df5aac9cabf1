package synth

import "sync/atomic"

type eventKind uint8

const (
	evNoteOn eventKind = iota
	evNoteOff
)

type event struct {
	kind     eventKind
	note     int32
	velocity float64
}

// queueSize must be a power of two.
const queueSize = 256

// eventQueue hands note events from the control actor to the render actor.
// Single producer, single consumer, lock-free: the control side is
// serialized by the facade, the render side drains at block start. When the
// queue is full the newest event is dropped and counted; the render actor
// never waits.
type eventQueue struct {
	buf     [queueSize]event
	head    atomic.Uint64 // next slot to read, moved by the consumer
	tail    atomic.Uint64 // next slot to write, moved by the producer
	dropped atomic.Uint64
}

func (q *eventQueue) push(ev event) bool {
	t := q.tail.Load()
	if t-q.head.Load() >= queueSize {
		q.dropped.Add(1)
		return false
	}
	q.buf[t&(queueSize-1)] = ev
	q.tail.Store(t + 1)
	return true
}

func (q *eventQueue) pop() (event, bool) {
	h := q.head.Load()
	if h == q.tail.Load() {
		return event{}, false
	}
	ev := q.buf[h&(queueSize-1)]
	q.head.Store(h + 1)
	return ev, true
}

func (q *eventQueue) len() int {
	return int(q.tail.Load() - q.head.Load())
}
