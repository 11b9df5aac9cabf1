// Package score parses a compact melody notation into frame-accurate note
// events for offline rendering.
//
// The notation is whitespace-separated steps. A step is either a rest
// ("r", with an optional duration) or one or more notes joined by '+'
// (a chord). A note is a letter a-g, an optional '#' or 'b' accidental,
// and an octave number: "c4", "f#3", "bb2". A trailing ":N" sets the step
// duration in beats, fractions allowed; steps default to one beat.
//
//	c4 e4 g4:0.5 r:0.5 c4+e4+g4:2
package score

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

type EventKind int

const (
	NoteOn EventKind = iota
	NoteOff
)

// Event is one scheduled engine call. Frame is an offset in samples from
// the start of the rendering.
type Event struct {
	Frame    int
	Kind     EventKind
	Note     int
	Velocity float64
}

type Config struct {
	BPM      float64
	Gate     float64 // fraction of each step the notes are held
	Velocity float64
}

func DefaultConfig() Config {
	return Config{BPM: 120, Gate: 0.9, Velocity: 0.8}
}

// Score is a parsed melody. Events are sorted by frame; note offs sort
// before note ons at the same frame so back-to-back steps retrigger
// cleanly. Frames is the length of the scored material, release tails
// excluded.
type Score struct {
	Events []Event
	Frames int
}

var noteOffsets = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

func Parse(text string, cfg Config, sampleRate float64) (*Score, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("score: sample rate %g out of range", sampleRate)
	}
	bpm := cfg.BPM
	if bpm <= 0 {
		bpm = 120
	}
	gate := cfg.Gate
	if gate <= 0 || gate > 1 {
		gate = 0.9
	}
	vel := cfg.Velocity
	if vel <= 0 || vel > 1 {
		vel = 0.8
	}
	secPerBeat := 60.0 / bpm

	var events []Event
	beat := 0.0
	for idx, tok := range strings.Fields(text) {
		notes, durBeats, err := parseStep(tok)
		if err != nil {
			return nil, fmt.Errorf("score: step %d %q: %w", idx, tok, err)
		}
		start := int(math.Round(beat * secPerBeat * sampleRate))
		gateEnd := int(math.Round((beat + durBeats*gate) * secPerBeat * sampleRate))
		if gateEnd <= start {
			gateEnd = start + 1
		}
		for _, n := range notes {
			events = append(events, Event{Frame: start, Kind: NoteOn, Note: n, Velocity: vel})
			events = append(events, Event{Frame: gateEnd, Kind: NoteOff, Note: n})
		}
		beat += durBeats
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Frame < events[j].Frame })
	return &Score{
		Events: events,
		Frames: int(math.Round(beat * secPerBeat * sampleRate)),
	}, nil
}

func parseStep(tok string) (notes []int, beats float64, err error) {
	body := tok
	beats = 1.0
	if i := strings.IndexByte(tok, ':'); i >= 0 {
		body = tok[:i]
		beats, err = strconv.ParseFloat(tok[i+1:], 64)
		if err != nil || beats <= 0 || math.IsInf(beats, 0) {
			return nil, 0, fmt.Errorf("bad duration %q", tok[i:])
		}
	}
	if body == "" {
		return nil, 0, fmt.Errorf("missing note before %q", tok)
	}
	if len(body) == 1 && lower(body[0]) == 'r' {
		return nil, beats, nil
	}
	for _, part := range strings.Split(body, "+") {
		n, err := parseNote(part)
		if err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	return notes, beats, nil
}

func parseNote(s string) (int, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("bad note %q", s)
	}
	off, ok := noteOffsets[lower(s[0])]
	if !ok {
		return 0, fmt.Errorf("bad note letter in %q", s)
	}
	rest := s[1:]
	acc := 0
	switch rest[0] {
	case '#':
		acc, rest = 1, rest[1:]
	case 'b':
		acc, rest = -1, rest[1:]
	}
	oct, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("bad octave in %q", s)
	}
	n := 12*(oct+1) + off + acc
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("note %q outside MIDI range", s)
	}
	return n, nil
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
