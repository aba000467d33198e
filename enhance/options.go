package enhance

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-voice/dsp/quantize"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
)

const (
	// DefaultInputPath is read when no input path is configured.
	DefaultInputPath = "original.wav"
	// DefaultOutputPath is written when no output path is configured.
	DefaultOutputPath = "improved.wav"
)

// Options configures a pipeline run.
type Options struct {
	InputPath  string
	OutputPath string

	// Band holds the passband edges, the gain and the optional noise gate.
	Band spectrum.BandGain
	// Backend selects the transform implementation.
	Backend spectrum.BackendKind
	// Rounding selects how output samples are rounded before saturation.
	Rounding quantize.Rounding
	// DitherLSB is the peak amplitude of triangular dither added before
	// rounding, in output LSB. Zero disables dither.
	DitherLSB float64
	// DitherSeed makes dithered output reproducible.
	DitherSeed uint64

	// Logger receives per-stage records. Nil discards them.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the 130-4800 Hz, gain 6 configuration reading
// original.wav and writing improved.wav.
func DefaultOptions() Options {
	return Options{
		InputPath:  DefaultInputPath,
		OutputPath: DefaultOutputPath,
		Band:       spectrum.DefaultBandGain(),
		Backend:    spectrum.BackendAuto,
		Rounding:   quantize.RoundTruncate,
		DitherSeed: 1,
	}
}

// NewOptions applies opts over DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithInput sets the input WAVE path.
func WithInput(path string) Option {
	return func(o *Options) { o.InputPath = path }
}

// WithOutput sets the output WAVE path.
func WithOutput(path string) Option {
	return func(o *Options) { o.OutputPath = path }
}

// WithPassband sets the passband edges in Hz.
func WithPassband(lowHz, highHz float64) Option {
	return func(o *Options) {
		o.Band.LowHz = lowHz
		o.Band.HighHz = highHz
	}
}

// WithGain sets the linear passband gain.
func WithGain(gain float64) Option {
	return func(o *Options) { o.Band.Gain = gain }
}

// WithBackend selects the transform backend.
func WithBackend(kind spectrum.BackendKind) Option {
	return func(o *Options) { o.Backend = kind }
}

// WithNoiseGate enables the fixed noise gate: in-band bins below thresholdDB
// are zeroed after masking.
func WithNoiseGate(thresholdDB float64) Option {
	return func(o *Options) {
		o.Band.Gate = true
		o.Band.GateDB = thresholdDB
	}
}

// WithRounding sets the quantizer rounding mode.
func WithRounding(r quantize.Rounding) Option {
	return func(o *Options) { o.Rounding = r }
}

// WithDither enables triangular dither of amplitudeLSB before rounding,
// seeded with seed.
func WithDither(amplitudeLSB float64, seed uint64) Option {
	return func(o *Options) {
		o.DitherLSB = amplitudeLSB
		o.DitherSeed = seed
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Validate checks everything that does not depend on the input signal.
// Path checks only apply to Run; Process ignores the paths.
func (o Options) Validate() error {
	return o.validate(false)
}

func (o Options) validate(needPaths bool) error {
	var errs []error
	if needPaths {
		if o.InputPath == "" {
			errs = append(errs, errors.New("input path is empty"))
		}
		if o.OutputPath == "" {
			errs = append(errs, errors.New("output path is empty"))
		}
		if o.InputPath != "" && o.InputPath == o.OutputPath {
			errs = append(errs, fmt.Errorf("input and output are the same file: %q", o.InputPath))
		}
	}
	if err := o.Band.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := spectrum.ParseBackend(string(o.Backend)); err != nil {
		errs = append(errs, err)
	}
	if !o.Rounding.Valid() {
		errs = append(errs, fmt.Errorf("unknown rounding mode %d", o.Rounding))
	}
	if o.DitherLSB < 0 || math.IsNaN(o.DitherLSB) || math.IsInf(o.DitherLSB, 0) {
		errs = append(errs, fmt.Errorf("dither amplitude must be >= 0 and finite: %v", o.DitherLSB))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
