// Command tonegen writes a deterministic mono 16-bit WAVE test signal: a
// sine, optionally mixed with a second sine and white noise.
//
// Usage:
//
//	tonegen [flags]
//
// Examples:
//
//	tonegen -output original.wav
//	tonegen -freq 440 -amp 10000 -freq2 50 -amp2 8000 -noise 300
//	tonegen -rate 44100 -duration 2.5 -freq 1000
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/quantize"
	"github.com/cwbudde/algo-voice/dsp/signal"
	"github.com/cwbudde/algo-voice/wavfile"
)

type toneConfig struct {
	output   string
	rate     int
	duration float64
	freq     float64
	amp      float64
	freq2    float64
	amp2     float64
	noise    float64
	seed     int64
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var cfg toneConfig
	fs := flag.NewFlagSet("tonegen", flag.ContinueOnError)
	fs.StringVar(&cfg.output, "output", "original.wav", "output WAVE file")
	fs.IntVar(&cfg.rate, "rate", core.DefaultSampleRate, "sample rate in Hz")
	fs.Float64Var(&cfg.duration, "duration", 1, "length in seconds")
	fs.Float64Var(&cfg.freq, "freq", 440, "tone frequency in Hz")
	fs.Float64Var(&cfg.amp, "amp", 10000, "tone amplitude in 16-bit units")
	fs.Float64Var(&cfg.freq2, "freq2", 0, "second tone frequency in Hz (0 disables)")
	fs.Float64Var(&cfg.amp2, "amp2", 0, "second tone amplitude")
	fs.Float64Var(&cfg.noise, "noise", 0, "white noise amplitude (0 disables)")
	fs.Int64Var(&cfg.seed, "seed", 1, "noise seed")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: tonegen [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Writes a deterministic mono 16-bit PCM test tone.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	raw, stats, err := generate(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tonegen: %v\n", err)
		return 1
	}
	if stats.Clipped() > 0 {
		fmt.Fprintf(os.Stderr, "tonegen: warning: %d samples clipped to 16-bit range\n", stats.Clipped())
	}
	if err := wavfile.Write(cfg.output, raw); err != nil {
		fmt.Fprintf(os.Stderr, "tonegen: %v\n", err)
		return 1
	}
	fmt.Printf("%s: %d frames at %d Hz, peak %d\n", cfg.output, raw.FrameCount(), raw.SampleRate, raw.Peak())
	return 0
}

func generate(cfg toneConfig) (signal.Raw, quantize.Stats, error) {
	if cfg.rate <= 0 {
		return signal.Raw{}, quantize.Stats{}, fmt.Errorf("sample rate must be > 0: %d", cfg.rate)
	}
	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(cfg.rate)},
		signal.WithSeed(cfg.seed),
	)
	n := gen.Frames(cfg.duration)

	mix, err := gen.Sine(cfg.freq, cfg.amp, n)
	if err != nil {
		return signal.Raw{}, quantize.Stats{}, err
	}
	if cfg.freq2 > 0 && cfg.amp2 != 0 {
		second, err := gen.Sine(cfg.freq2, cfg.amp2, n)
		if err != nil {
			return signal.Raw{}, quantize.Stats{}, err
		}
		if err := signal.Mix(mix, second); err != nil {
			return signal.Raw{}, quantize.Stats{}, err
		}
	}
	if cfg.noise > 0 {
		noise, err := gen.WhiteNoise(cfg.noise, n)
		if err != nil {
			return signal.Raw{}, quantize.Stats{}, err
		}
		if err := signal.Mix(mix, noise); err != nil {
			return signal.Raw{}, quantize.Stats{}, err
		}
	}

	q, err := quantize.New(
		quantize.WithBitDepth(core.DefaultBitDepth),
		quantize.WithRounding(quantize.RoundNearest),
	)
	if err != nil {
		return signal.Raw{}, quantize.Stats{}, err
	}
	samples, stats := q.Quantize(mix)
	return signal.Raw{SampleRate: cfg.rate, Samples: samples}, stats, nil
}
