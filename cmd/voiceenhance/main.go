// Command voiceenhance keeps the voice band of a mono 16-bit WAVE recording,
// removes everything outside it and amplifies what is left.
//
// Usage:
//
//	voiceenhance [flags]
//
// Examples:
//
//	voiceenhance
//	voiceenhance -input speech.wav -output speech-enhanced.wav
//	voiceenhance -low 300 -high 3400 -gain 3 -plots -plot-dir out
//	voiceenhance -config voice.yaml -log-level debug
//	voiceenhance -rounding nearest -dither 1 -dither-seed 7
//
// Values from -config are applied over the defaults; flags given on the
// command line win over both.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwbudde/algo-voice/diagnostics"
	"github.com/cwbudde/algo-voice/enhance"
	"github.com/cwbudde/algo-voice/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("voiceenhance", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: voiceenhance [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Band-pass filters and amplifies a mono 16-bit WAVE recording.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := flags.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "voiceenhance: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel.Level()}))
	slog.SetDefault(logger)

	opts, err := cfg.Options(logger)
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := enhance.Run(ctx, opts)
	if err != nil {
		slog.Error("enhancement failed", "kind", errorKind(err), "err", err)
		return 1
	}

	rep := res.Report
	if rep.Clipped() {
		slog.Warn("output clipped to 16-bit range",
			"clipped", rep.Saturation.Clipped(),
			"samples", rep.Saturation.Samples,
			"fraction", rep.Saturation.ClippedFraction(),
			"nan", rep.Saturation.NaN)
	}

	if cfg.Plots {
		if err := os.MkdirAll(cfg.PlotDir, 0o755); err != nil {
			slog.Error("create plot directory", "dir", cfg.PlotDir, "err", err)
			return 1
		}
		paths, err := diagnostics.Render(ctx, cfg.PlotDir, res.Normalized, res.Magnitude)
		switch {
		case errors.Is(err, diagnostics.ErrNoData):
			slog.Warn("skipped diagnostic plot", "err", err)
		case err != nil:
			slog.Error("render diagnostics", "err", err)
			return 1
		}
		for _, p := range paths {
			slog.Info("wrote plot", "path", p)
		}
	}

	slog.Info("done",
		"output", cfg.OutputPath,
		"frames", rep.Frames,
		"sample_rate", rep.SampleRate,
		"backend", rep.Backend,
		"level_gain_db", rep.LevelGainDB(),
		"elapsed", rep.Timings.Total())
	return 0
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, enhance.ErrInvalidOptions):
		return "config"
	case errors.Is(err, enhance.ErrFileAccess):
		return "file_access"
	case errors.Is(err, enhance.ErrFormat):
		return "format"
	case errors.Is(err, enhance.ErrEmptySignal):
		return "empty_signal"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}
