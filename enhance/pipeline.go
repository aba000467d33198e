package enhance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/quantize"
	"github.com/cwbudde/algo-voice/dsp/signal"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
	"github.com/cwbudde/algo-voice/stats/level"
	"github.com/cwbudde/algo-voice/wavfile"
)

// Result is the outcome of processing one signal.
type Result struct {
	// Output is the enhanced 16-bit signal.
	Output signal.Raw
	// Normalized is the peak-normalized input.
	Normalized signal.Normalized
	// Magnitude holds |X[k]| of the unmasked input spectrum, one value per bin.
	Magnitude []float64
	Report    Report
}

// Enhancer applies one validated configuration to any number of signals.
// Without dither it holds no per-signal state and is safe for concurrent
// use; with dither the noise source is shared and calls must not overlap.
type Enhancer struct {
	opts        Options
	log         *slog.Logger
	transformer *spectrum.Transformer
	quantizer   *quantize.Quantizer
}

// New validates opts and builds an Enhancer.
func New(opts Options) (*Enhancer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	kind, err := spectrum.ParseBackend(string(opts.Backend))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	transformer, err := spectrum.NewTransformer(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	qopts := []quantize.Option{
		quantize.WithBitDepth(core.DefaultBitDepth),
		quantize.WithRounding(opts.Rounding),
	}
	if opts.DitherLSB > 0 {
		qopts = append(qopts,
			quantize.WithTriangularDither(opts.DitherLSB),
			quantize.WithSeed(opts.DitherSeed))
	}
	quantizer, err := quantize.New(qopts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return &Enhancer{
		opts:        opts,
		log:         opts.logger(),
		transformer: transformer,
		quantizer:   quantizer,
	}, nil
}

// Options returns the configuration the Enhancer was built with.
func (e *Enhancer) Options() Options { return e.opts }

// Run reads opts.InputPath, enhances it and writes opts.OutputPath.
// Options are validated before either file is touched.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(true); err != nil {
		return nil, err
	}
	e, err := New(opts)
	if err != nil {
		return nil, err
	}
	return e.RunFile(ctx, opts.InputPath, opts.OutputPath)
}

// RunFile enhances the WAVE file at in and writes the result to out.
func (e *Enhancer) RunFile(ctx context.Context, in, out string) (*Result, error) {
	start := time.Now()
	raw, format, err := wavfile.Read(in)
	if err != nil {
		return nil, fmt.Errorf("enhance: read input: %w", err)
	}
	readTime := time.Since(start)
	e.log.Debug("read input",
		slog.String("path", in),
		slog.Int("sample_rate", format.SampleRate),
		slog.Int("frames", raw.FrameCount()),
		slog.Duration("elapsed", readTime))

	res, err := e.Process(ctx, raw)
	if err != nil {
		return nil, err
	}
	res.Report.Timings.Read = readTime

	if err := stageDone(ctx, "write"); err != nil {
		return nil, err
	}
	start = time.Now()
	if err := wavfile.Write(out, res.Output); err != nil {
		return nil, fmt.Errorf("enhance: write output: %w", err)
	}
	res.Report.Timings.Write = time.Since(start)
	e.log.Debug("wrote output", slog.String("path", out), slog.Duration("elapsed", res.Report.Timings.Write))

	e.log.Info("enhanced", slog.String("input", in), slog.String("output", out), slog.Any("report", res.Report))
	return res, nil
}

// Process enhances an in-memory signal. The input is not modified.
//
// The output has the input's sample rate and frame count. Samples that leave
// the 16-bit range saturate and are counted in Report.Saturation; that is
// not an error.
func (e *Enhancer) Process(ctx context.Context, raw signal.Raw) (*Result, error) {
	var timings Timings
	if err := raw.Validate(); err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}

	if err := stageDone(ctx, "normalize"); err != nil {
		return nil, err
	}
	start := time.Now()
	normalized, err := signal.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}
	timings.Normalize = time.Since(start)
	e.log.Debug("normalized", slog.Float64("peak", normalized.Peak), slog.Duration("elapsed", timings.Normalize))

	if err := stageDone(ctx, "forward transform"); err != nil {
		return nil, err
	}
	start = time.Now()
	sp, err := e.transformer.Forward(normalized)
	if err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}
	timings.Forward = time.Since(start)
	magnitude := spectrum.Magnitude(sp.Bins())
	passband := spectrum.BandEnergyFraction(sp, e.opts.Band.LowHz, e.opts.Band.HighHz)
	e.log.Debug("forward transform",
		slog.String("backend", string(sp.Backend())),
		slog.Int("bins", sp.Len()),
		slog.Float64("passband_energy", passband),
		slog.Duration("elapsed", timings.Forward))

	if err := stageDone(ctx, "mask"); err != nil {
		return nil, err
	}
	start = time.Now()
	maskStats, err := e.opts.Band.Apply(sp)
	if err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}
	timings.Mask = time.Since(start)
	e.log.Debug("band mask",
		slog.Int("kept", maskStats.Kept),
		slog.Int("zeroed", maskStats.Zeroed),
		slog.Int("gated", maskStats.Gated),
		slog.Float64("gain_db", e.opts.Band.GainDB()),
		slog.Duration("elapsed", timings.Mask))

	if err := stageDone(ctx, "inverse transform"); err != nil {
		return nil, err
	}
	backend := sp.Backend()
	start = time.Now()
	restored, err := e.transformer.Inverse(sp, normalized.Peak)
	if err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}
	timings.Inverse = time.Since(start)
	e.log.Debug("inverse transform", slog.Duration("elapsed", timings.Inverse))

	if err := stageDone(ctx, "quantize"); err != nil {
		return nil, err
	}
	start = time.Now()
	samples, sat := e.quantizer.Quantize(restored)
	timings.Quantize = time.Since(start)
	if sat.Saturated() {
		e.log.Warn("output saturated",
			slog.Int("clipped", sat.Clipped()),
			slog.Int("clipped_high", sat.ClippedHigh),
			slog.Int("clipped_low", sat.ClippedLow),
			slog.Int("nan", sat.NaN),
			slog.Float64("peak_before_clip", sat.Peak))
	}

	return &Result{
		Output:     signal.Raw{SampleRate: raw.SampleRate, Samples: samples},
		Normalized: normalized,
		Magnitude:  magnitude,
		Report: Report{
			SampleRate:     raw.SampleRate,
			Frames:         raw.FrameCount(),
			Peak:           normalized.Peak,
			Backend:        backend,
			Mask:           maskStats,
			PassbandEnergy: passband,
			Saturation:     sat,
			InputLevel:     level.MeasureInts(raw.Samples, level.FullScale16),
			OutputLevel:    level.MeasureInts(samples, level.FullScale16),
			Timings:        timings,
		},
	}, nil
}

func stageDone(ctx context.Context, next string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("enhance: stopped before %s: %w", next, err)
	}
	return nil
}
