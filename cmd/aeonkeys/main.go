// Command aeonkeys runs the synthesizer live: musical typing on the
// terminal and optional MIDI input, streamed to the audio device.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/rtmididrv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	aeonkeys "github.com/visheshc14/Aeon-Keys"
)

var waveNames = []string{"sine", "saw", "square", "triangle", "noise", "wavetable"}

// Musical typing: two piano rows anchored at the current base octave.
var keyOffsets = map[byte]int{
	'a': 0, 'w': 1, 's': 2, 'e': 3, 'd': 4, 'f': 5, 't': 6,
	'g': 7, 'y': 8, 'h': 9, 'u': 10, 'j': 11, 'k': 12, 'o': 13, 'l': 14,
}

func main() {
	var (
		sampleRate   = flag.Int("sample-rate", 48000, "output sample rate")
		backendName  = flag.String("backend", "oto", "audio backend: oto|ebiten")
		presetPath   = flag.String("preset", "", "preset JSON to load at startup")
		waveName     = flag.String("wave", "", "osc0 waveform: sine|saw|square|triangle|noise|wavetable")
		useMIDI      = flag.Bool("midi", false, "attach a MIDI input")
		midiPort     = flag.Int("midi-port", 0, "MIDI input port index")
		gateMs       = flag.Int("gate", 350, "typed note hold time in milliseconds")
		showSpectrum = flag.Bool("spectrum", false, "print the slot 0 spectrum at startup")
		verbose      = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	backend, err := parseBackend(*backendName)
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
		logrus.WithField("path", *presetPath).Info("preset loaded")
	}
	if *waveName != "" {
		kind, err := parseWave(*waveName)
		if err != nil {
			logrus.Fatal(err)
		}
		eng.SetParameter("osc0_waveform", float64(kind))
	}
	if *showSpectrum {
		printSpectrum(eng, 0)
	}

	player, err := aeonkeys.NewPlayer(eng, aeonkeys.WithBackend(backend))
	if err != nil {
		logrus.WithError(err).Fatal("audio device failed")
	}
	defer player.Close()
	player.Start()
	logrus.WithFields(logrus.Fields{
		"backend":     *backendName,
		"sample_rate": *sampleRate,
	}).Info("audio running")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		cancel()
	}()

	printHelp()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return keyboardLoop(ctx, cancel, eng, time.Duration(*gateMs)*time.Millisecond)
	})
	if *useMIDI {
		g.Go(func() error {
			return midiLoop(ctx, eng, *midiPort)
		})
	}
	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("input loop failed")
	}
	logrus.WithField("played", player.Position().Round(time.Millisecond)).Info("stopping")
	if f := eng.Faults(); f > 0 {
		logrus.WithFields(logrus.Fields{
			"faults": f,
			"last":   eng.LastFault(),
		}).Warn("render faults occurred")
	}
}

func printHelp() {
	fmt.Println("keys: a w s e d f t g y h u j k o l play notes, z/x shift octave")
	fmt.Println("      1-6 set osc0 waveform, p save preset, q quit")
}

// keyboardLoop reads raw stdin one byte at a time. Terminals report no
// key-up, so every press schedules its own release after the gate time.
func keyboardLoop(ctx context.Context, cancel context.CancelFunc, eng *aeonkeys.Engine, gate time.Duration) error {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, old)
	if err := syscall.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("nonblocking stdin: %w", err)
	}
	defer syscall.SetNonblock(fd, false)

	octave := 4
	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		n, err := syscall.Read(fd, buf)
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		switch b := buf[0]; {
		case b == 'q' || b == 0x1b || b == 0x03:
			cancel()
			return nil
		case b == 'z':
			if octave > 0 {
				octave--
			}
			fmt.Printf("octave %d\r\n", octave)
		case b == 'x':
			if octave < 8 {
				octave++
			}
			fmt.Printf("octave %d\r\n", octave)
		case b >= '1' && b <= '6':
			kind := int(b - '1')
			eng.SetParameter("osc0_waveform", float64(kind))
			fmt.Printf("osc0 %s\r\n", waveNames[kind])
		case b == 'p':
			savePreset(eng)
		default:
			if off, ok := keyOffsets[b]; ok {
				note := 12*(octave+1) + off
				if err := eng.NoteOn(note, 0.8); err == nil {
					time.AfterFunc(gate, func() { eng.NoteOff(note) })
				}
			}
		}
	}
}

func midiLoop(ctx context.Context, eng *aeonkeys.Engine, port int) error {
	drv, err := rtmididrv.New()
	if err != nil {
		return fmt.Errorf("midi driver: %w", err)
	}
	defer drv.Close()
	ins, err := drv.Ins()
	if err != nil {
		return fmt.Errorf("midi inputs: %w", err)
	}
	if len(ins) == 0 {
		logrus.Warn("no MIDI inputs found")
		return nil
	}
	if port < 0 || port >= len(ins) {
		port = 0
	}
	in := ins[port]
	if err := in.Open(); err != nil {
		return fmt.Errorf("open %s: %w", in.String(), err)
	}
	defer in.Close()
	logrus.WithField("port", in.String()).Info("listening for MIDI")
	err = in.SetListener(func(data []byte, deltaMicroseconds int64) {
		if len(data) < 3 {
			return
		}
		note := int(data[1])
		switch {
		case data[0]>>4 == 8 || (data[0]>>4 == 9 && data[2] == 0):
			eng.NoteOff(note)
		case data[0]>>4 == 9:
			eng.NoteOn(note, float64(data[2])/127)
		}
	})
	if err != nil {
		return fmt.Errorf("midi listener: %w", err)
	}
	defer in.StopListening()
	<-ctx.Done()
	return nil
}

func savePreset(eng *aeonkeys.Engine) {
	text, err := eng.ExportPreset()
	if err != nil {
		logrus.WithError(err).Error("preset export failed")
		return
	}
	name := fmt.Sprintf("aeonkeys-%s.json", time.Now().Format("20060102-150405"))
	if err := os.WriteFile(name, []byte(text), 0o644); err != nil {
		logrus.WithError(err).Error("preset write failed")
		return
	}
	fmt.Printf("saved %s\r\n", name)
}

func printSpectrum(eng *aeonkeys.Engine, slot int) {
	sp, err := eng.TableSpectrum(slot, 32)
	if err != nil {
		return
	}
	fmt.Printf("slot %d spectrum\n", slot)
	for i, v := range sp {
		fmt.Printf("%3d |%s\n", i, strings.Repeat("#", int(v*48)))
	}
}

func parseBackend(name string) (aeonkeys.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "oto":
		return aeonkeys.BackendOto, nil
	case "ebiten":
		return aeonkeys.BackendEbiten, nil
	default:
		return 0, fmt.Errorf("invalid -backend %q (expected oto|ebiten)", name)
	}
}

func parseWave(name string) (int, error) {
	for i, n := range waveNames {
		if n == strings.ToLower(strings.TrimSpace(name)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid -wave %q (expected %s)", name, strings.Join(waveNames, "|"))
}
