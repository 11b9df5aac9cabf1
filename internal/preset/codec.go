// Package preset serializes the full engine state, parameters plus both
// wavetables, to a self-describing textual blob and back. Decoding is
// all-or-nothing: a blob that fails any check yields no state at all.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/visheshc14/Aeon-Keys/internal/param"
	"github.com/visheshc14/Aeon-Keys/internal/synth"
	"github.com/visheshc14/Aeon-Keys/internal/wavetable"
)

const (
	// Format tags every blob this codec writes.
	Format = "aeonkeys-preset"
	// Version is bumped on breaking layout changes.
	Version = 1
)

// ErrMalformed reports an import blob that failed validation.
var ErrMalformed = errors.New("malformed preset")

type blob struct {
	Format     string             `json:"format"`
	Version    int                `json:"version"`
	Params     map[string]float64 `json:"params"`
	Wavetables [][]float64        `json:"wavetables"`
}

// State is a fully validated preset, ready to publish: a parameter
// snapshot and one table per oscillator slot.
type State struct {
	Snapshot param.Snapshot
	Tables   [synth.NumSlots]*wavetable.Table
}

// Encode serializes parameters and tables into one textual blob. Map
// iteration order does not matter; the JSON encoder sorts keys, so equal
// states encode to equal strings.
func Encode(params map[string]float64, tables [synth.NumSlots]*wavetable.Table) (string, error) {
	b := blob{
		Format:     Format,
		Version:    Version,
		Params:     params,
		Wavetables: make([][]float64, 0, len(tables)),
	}
	for i, t := range tables {
		if t == nil {
			return "", fmt.Errorf("encode preset: no table for slot %d", i)
		}
		b.Wavetables = append(b.Wavetables, t.Samples())
	}
	out, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode preset: %w", err)
	}
	return string(out), nil
}

// Decode parses and validates a blob. Parameters absent from the blob take
// their defaults; unknown parameters, out-of-domain values, and bad tables
// all reject the whole blob with ErrMalformed.
func Decode(text string) (*State, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	var b blob
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if b.Format != Format {
		return nil, fmt.Errorf("%w: format %q", ErrMalformed, b.Format)
	}
	if b.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, b.Version)
	}

	st := &State{Snapshot: param.Defaults()}
	for name, v := range b.Params {
		id, ok := param.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown parameter %q", ErrMalformed, name)
		}
		if err := param.Apply(&st.Snapshot, id, v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if len(b.Wavetables) != synth.NumSlots {
		return nil, fmt.Errorf("%w: %d wavetables, want %d", ErrMalformed, len(b.Wavetables), synth.NumSlots)
	}
	for i, samples := range b.Wavetables {
		t, err := wavetable.New(samples)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d: %v", ErrMalformed, i, err)
		}
		st.Tables[i] = t
	}
	return st, nil
}
