// Command aeonkeys-render renders a melody to a float32 WAV file without
// touching an audio device.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	aeonkeys "github.com/visheshc14/Aeon-Keys"
)

const defaultMelody = "c4 e4 g4 c5:2 r g4:0.5 e4:0.5 c4:2"

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		outPath    = flag.String("out", "out.wav", "output WAV path")
		scorePath  = flag.String("file", "", "path to a melody file")
		inline     = flag.String("melody", "", "inline melody text")
		presetPath = flag.String("preset", "", "preset JSON applied before rendering")
		bpm        = flag.Float64("bpm", 120, "beats per minute")
		gate       = flag.Float64("gate", 0.9, "fraction of each step the notes are held")
		velocity   = flag.Float64("velocity", 0.8, "note velocity (0-1]")
		tail       = flag.Float64("tail", 0.5, "release tail seconds")
	)
	flag.Parse()

	text, err := resolveMelody(*scorePath, *inline)
	if err != nil {
		logrus.Fatal(err)
	}
	eng, err := aeonkeys.New(float64(*sampleRate))
	if err != nil {
		logrus.WithError(err).Fatal("engine init failed")
	}
	if *presetPath != "" {
		data, err := os.ReadFile(*presetPath)
		if err != nil {
			logrus.WithError(err).Fatal("preset read failed")
		}
		if !eng.ImportPreset(string(data)) {
			logrus.WithField("path", *presetPath).Fatal("preset rejected")
		}
	}
	samples, err := eng.RenderScore(text, aeonkeys.ScoreOptions{
		BPM:         *bpm,
		Gate:        *gate,
		Velocity:    *velocity,
		TailSeconds: *tail,
	})
	if err != nil {
		logrus.WithError(err).Fatal("render failed")
	}
	wav := aeonkeys.EncodeWAVFloat32LE(samples, *sampleRate, 2)
	if err := os.WriteFile(*outPath, wav, 0o644); err != nil {
		logrus.WithError(err).Fatal("write failed")
	}
	seconds := float64(len(samples)/2) / float64(*sampleRate)
	fmt.Printf("wrote %s: %.2fs at %d Hz\n", *outPath, seconds, *sampleRate)
}

func resolveMelody(path, inline string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return defaultMelody, nil
}
