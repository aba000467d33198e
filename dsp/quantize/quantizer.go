package quantize

import (
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-voice/dsp/core"
)

// Quantizer converts float samples already at integer scale (for 16-bit,
// roughly [-32768, 32767]) to fixed-width signed integers.
//
// Out-of-range values saturate at the representable edges; they never wrap.
// Every saturation is counted in [Stats].
type Quantizer struct {
	bitDepth        int
	rounding        Rounding
	ditherAmplitude float64
	rng             *rand.Rand

	lo, hi int
}

// Stats counts what happened while quantizing one buffer.
type Stats struct {
	Samples     int
	ClippedHigh int     // samples clamped to the maximum value
	ClippedLow  int     // samples clamped to the minimum value
	NaN         int     // NaN samples written as 0
	Peak        float64 // largest |value| seen before saturation
}

// Clipped returns the total number of saturated samples.
func (s Stats) Clipped() int { return s.ClippedHigh + s.ClippedLow }

// Saturated reports whether any sample was clipped or was NaN.
func (s Stats) Saturated() bool { return s.Clipped() > 0 || s.NaN > 0 }

// ClippedFraction returns Clipped()/Samples, or 0 for an empty buffer.
func (s Stats) ClippedFraction() float64 {
	if s.Samples == 0 {
		return 0
	}
	return float64(s.Clipped()) / float64(s.Samples)
}

// New creates a Quantizer. The default is 16-bit, truncating, no dither.
func New(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.ditherAmplitude > 0 && cfg.rng == nil {
		if err := WithSeed(1)(&cfg); err != nil {
			return nil, err
		}
	}

	q := &Quantizer{
		bitDepth:        cfg.bitDepth,
		rounding:        cfg.rounding,
		ditherAmplitude: cfg.ditherAmplitude,
		rng:             cfg.rng,
	}
	q.lo, q.hi = core.IntRange(q.bitDepth)
	return q, nil
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Rounding returns the rounding mode.
func (q *Quantizer) Rounding() Rounding { return q.rounding }

// Limits returns the inclusive representable range.
func (q *Quantizer) Limits() (lo, hi int) { return q.lo, q.hi }

// Quantize converts every sample of in and reports saturation.
func (q *Quantizer) Quantize(in []float64) ([]int, Stats) {
	out := make([]int, len(in))
	stats := Stats{Samples: len(in)}
	for i, v := range in {
		out[i] = q.sample(v, &stats)
	}
	return out, stats
}

func (q *Quantizer) sample(v float64, stats *Stats) int {
	if math.IsNaN(v) {
		stats.NaN++
		return 0
	}
	if av := math.Abs(v); av > stats.Peak {
		stats.Peak = av
	}

	if q.ditherAmplitude > 0 {
		v += q.ditherAmplitude * (q.rng.Float64() - q.rng.Float64())
	}

	switch q.rounding {
	case RoundNearest:
		v = math.Round(v)
	default:
		v = math.Trunc(v)
	}

	// Compare in float space so huge values and infinities never reach the
	// integer conversion.
	if v > float64(q.hi) {
		stats.ClippedHigh++
		return q.hi
	}
	if v < float64(q.lo) {
		stats.ClippedLow++
		return q.lo
	}
	return int(v)
}
