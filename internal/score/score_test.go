package score

import "testing"

const testSR = 48000.0

// One beat at 120 BPM and 48 kHz.
const beatFrames = 24000

func notesOfKind(s *Score, kind EventKind) []Event {
	var out []Event
	for _, e := range s.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestParseSingleNote(t *testing.T) {
	s, err := Parse("c4", DefaultConfig(), testSR)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(s.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(s.Events))
	}
	on, off := s.Events[0], s.Events[1]
	if on.Kind != NoteOn || on.Note != 60 || on.Frame != 0 {
		t.Fatalf("bad note on: %+v", on)
	}
	if off.Kind != NoteOff || off.Note != 60 || off.Frame != 21600 {
		t.Fatalf("bad note off: %+v (want frame %d)", off, 21600)
	}
	if s.Frames != beatFrames {
		t.Fatalf("expected %d frames, got %d", beatFrames, s.Frames)
	}
}

func TestParseMelodyPitches(t *testing.T) {
	s, err := Parse("c4 d4 e4 f4 g4 a4 b4 c5", DefaultConfig(), testSR)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []int{60, 62, 64, 65, 67, 69, 71, 72}
	ons := notesOfKind(s, NoteOn)
	if len(ons) != len(want) {
		t.Fatalf("expected %d notes, got %d", len(want), len(ons))
	}
	for i, e := range ons {
		if e.Note != want[i] {
			t.Errorf("note %d = %d, want %d", i, e.Note, want[i])
		}
		if e.Frame != i*beatFrames {
			t.Errorf("note %d onset = %d, want %d", i, e.Frame, i*beatFrames)
		}
	}
}

func TestParseAccidentals(t *testing.T) {
	s, err := Parse("f#3 bb2 c#4", DefaultConfig(), testSR)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []int{54, 46, 61}
	ons := notesOfKind(s, NoteOn)
	for i, e := range ons {
		if e.Note != want[i] {
			t.Errorf("note %d = %d, want %d", i, e.Note, want[i])
		}
	}
}

func TestParseChordSharesOnset(t *testing.T) {
	s, err := Parse("c4+e4+g4:2", DefaultConfig(), testSR)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ons := notesOfKind(s, NoteOn)
	if len(ons) != 3 {
		t.Fatalf("expected 3 note ons, got %d", len(ons))
	}
	for _, e := range ons {
		if e.Frame != 0 {
			t.Errorf("chord onset = %d, want 0", e.Frame)
		}
	}
	offs := notesOfKind(s, NoteOff)
	for _, e := range offs {
		if e.Frame != 43200 {
			t.Errorf("chord off = %d, want 43200", e.Frame)
		}
	}
	if s.Frames != 2*beatFrames {
		t.Fatalf("expected %d frames, got %d", 2*beatFrames, s.Frames)
	}
}

func TestParseRestAdvancesTime(t *testing.T) {
	s, err := Parse("c4 r d4", DefaultConfig(), testSR)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ons := notesOfKind(s, NoteOn)
	if len(ons) != 2 {
		t.Fatalf("expected 2 note ons, got %d", len(ons))
	}
	if ons[1].Note != 62 || ons[1].Frame != 2*beatFrames {
		t.Fatalf("note after rest = %+v, want note 62 at frame %d", ons[1], 2*beatFrames)
	}
	if s.Frames != 3*beatFrames {
		t.Fatalf("expected %d frames, got %d", 3*beatFrames, s.Frames)
	}
}

func TestParseFractionalDurations(t *testing.T) {
	s, err := Parse("g3:0.25 r:0.5 g3:0.25", DefaultConfig(), testSR)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ons := notesOfKind(s, NoteOn)
	if len(ons) != 2 {
		t.Fatalf("expected 2 note ons, got %d", len(ons))
	}
	if ons[1].Frame != 18000 {
		t.Fatalf("second onset = %d, want 18000", ons[1].Frame)
	}
	if s.Frames != beatFrames {
		t.Fatalf("expected %d frames, got %d", beatFrames, s.Frames)
	}
}

func TestOffsSortBeforeOnsAtSameFrame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gate = 1.0
	s, err := Parse("c4 c4", cfg, testSR)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var atBoundary []EventKind
	for _, e := range s.Events {
		if e.Frame == beatFrames {
			atBoundary = append(atBoundary, e.Kind)
		}
	}
	if len(atBoundary) != 2 || atBoundary[0] != NoteOff || atBoundary[1] != NoteOn {
		t.Fatalf("boundary order = %v, want off then on", atBoundary)
	}
}

func TestParseTempoScalesFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BPM = 60
	s, err := Parse("c4", cfg, testSR)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if s.Frames != 48000 {
		t.Fatalf("expected 48000 frames at 60 BPM, got %d", s.Frames)
	}
}

func TestParseCarriesVelocity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Velocity = 0.5
	s, err := Parse("c4", cfg, testSR)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if s.Events[0].Velocity != 0.5 {
		t.Fatalf("velocity = %f, want 0.5", s.Events[0].Velocity)
	}
}

func TestZeroConfigFallsBackToDefaults(t *testing.T) {
	s, err := Parse("c4", Config{}, testSR)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if s.Frames != beatFrames {
		t.Fatalf("expected default tempo, got %d frames", s.Frames)
	}
	if s.Events[0].Velocity != 0.8 {
		t.Fatalf("expected default velocity, got %f", s.Events[0].Velocity)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	bad := []string{"h4", "c", "cb", "c4:x", "c4:0", "c4:-1", ":2", "c4+", "c99"}
	for _, in := range bad {
		if _, err := Parse(in, DefaultConfig(), testSR); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
	if _, err := Parse("c4", DefaultConfig(), 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}
