package quantize

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

const (
	defaultBitDepth = 16
	minBitDepth     = 2
	maxBitDepth     = 32
)

// Rounding selects how a float sample is mapped to an integer before
// saturation.
type Rounding int

const (
	// RoundTruncate drops the fractional part (toward zero), as an integer
	// cast does.
	RoundTruncate Rounding = iota
	// RoundNearest rounds half away from zero.
	RoundNearest
)

// String returns the configuration name of r.
func (r Rounding) String() string {
	switch r {
	case RoundTruncate:
		return "truncate"
	case RoundNearest:
		return "nearest"
	default:
		return fmt.Sprintf("Rounding(%d)", int(r))
	}
}

// Valid reports whether r is a known rounding mode.
func (r Rounding) Valid() bool {
	return r == RoundTruncate || r == RoundNearest
}

// ParseRounding converts a configuration string to a Rounding.
// The empty string selects RoundTruncate.
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "truncate":
		return RoundTruncate, nil
	case "nearest", "round":
		return RoundNearest, nil
	default:
		return 0, fmt.Errorf("quantize: unknown rounding mode %q", s)
	}
}

type config struct {
	bitDepth        int
	rounding        Rounding
	ditherAmplitude float64
	rng             *rand.Rand
}

func defaultConfig() config {
	return config{
		bitDepth: defaultBitDepth,
		rounding: RoundTruncate,
	}
}

// Option configures a [Quantizer].
type Option func(*config) error

// WithBitDepth sets the target bit depth (2-32, default 16).
func WithBitDepth(bits int) Option {
	return func(cfg *config) error {
		if bits < minBitDepth || bits > maxBitDepth {
			return fmt.Errorf("quantize: bit depth must be in [%d, %d]: %d", minBitDepth, maxBitDepth, bits)
		}
		cfg.bitDepth = bits
		return nil
	}
}

// WithRounding sets the rounding mode (default [RoundTruncate]).
func WithRounding(r Rounding) Option {
	return func(cfg *config) error {
		if !r.Valid() {
			return fmt.Errorf("quantize: invalid rounding mode: %d", r)
		}
		cfg.rounding = r
		return nil
	}
}

// WithTriangularDither adds triangular-PDF noise of the given peak amplitude
// in LSB before rounding. Zero (the default) disables dither.
func WithTriangularDither(amplitude float64) Option {
	return func(cfg *config) error {
		if amplitude < 0 || math.IsNaN(amplitude) || math.IsInf(amplitude, 0) {
			return fmt.Errorf("quantize: dither amplitude must be >= 0 and finite: %f", amplitude)
		}
		cfg.ditherAmplitude = amplitude
		return nil
	}
}

// WithSeed makes dither noise reproducible.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		return nil
	}
}
