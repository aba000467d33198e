package spectrum

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-voice/dsp/core"
)

const (
	// DefaultLowHz is the default lower passband edge.
	DefaultLowHz = 130.0
	// DefaultHighHz is the default upper passband edge.
	DefaultHighHz = 4800.0
	// DefaultGain is the default linear passband gain (about +15.6 dB).
	DefaultGain = 6.0
)

// BandGain zeroes every bin whose nominal frequency lies outside
// [LowHz, HighHz] and multiplies the remaining bins by Gain.
//
// When Gate is set, bins inside the band whose magnitude is below GateDB
// (20*log10 of the unscaled bin magnitude) are zeroed as well.
type BandGain struct {
	LowHz  float64
	HighHz float64
	Gain   float64
	Gate   bool
	GateDB float64
}

// DefaultBandGain returns the 130-4800 Hz passband with a gain of 6.
func DefaultBandGain() BandGain {
	return BandGain{LowHz: DefaultLowHz, HighHz: DefaultHighHz, Gain: DefaultGain}
}

// MaskStats summarizes one BandGain.Apply call.
type MaskStats struct {
	Kept   int // bins inside the band, scaled by the gain
	Zeroed int // bins outside the band
	Gated  int // in-band bins removed by the noise gate
}

// Validate checks the band edges and the gain.
func (b BandGain) Validate() error {
	var errs []error
	if !core.IsFinite(b.LowHz) || b.LowHz < 0 {
		errs = append(errs, fmt.Errorf("passband low edge must be >= 0 and finite: %f", b.LowHz))
	}
	if !core.IsFinite(b.HighHz) || b.HighHz <= 0 {
		errs = append(errs, fmt.Errorf("passband high edge must be > 0 and finite: %f", b.HighHz))
	}
	if b.LowHz > b.HighHz {
		errs = append(errs, fmt.Errorf("passband low edge %f exceeds high edge %f", b.LowHz, b.HighHz))
	}
	if !core.IsFinite(b.Gain) || b.Gain <= 0 {
		errs = append(errs, fmt.Errorf("gain must be > 0 and finite: %f", b.Gain))
	}
	if b.Gate && math.IsNaN(b.GateDB) {
		errs = append(errs, errors.New("noise gate threshold must not be NaN"))
	}
	return errors.Join(errs...)
}

// GainDB returns the passband gain in dB.
func (b BandGain) GainDB() float64 {
	return core.LinearToDB(b.Gain)
}

// Apply masks and scales s in place.
//
// The band test uses BinFrequency(i) for every i in [0, N) without folding
// bins above N/2 onto the negative frequencies they alias. Their nominal
// frequency is above Nyquist, so with HighHz at or below sampleRate/2 the
// whole upper half of the spectrum is zeroed, and with a higher edge only the
// upper bins up to HighHz survive.
func (b BandGain) Apply(s *Spectrum) (MaskStats, error) {
	if s.Consumed() {
		return MaskStats{}, ErrConsumed
	}
	if err := b.Validate(); err != nil {
		return MaskStats{}, fmt.Errorf("spectrum: %w", err)
	}

	var stats MaskStats
	gain := complex(b.Gain, 0)
	for i := range s.bins {
		f := s.Frequency(i)
		if f < b.LowHz || f > b.HighHz {
			s.bins[i] = 0
			stats.Zeroed++
			continue
		}
		if b.Gate && core.LinearToDB(cmplx.Abs(s.bins[i])) < b.GateDB {
			s.bins[i] = 0
			stats.Gated++
			continue
		}
		s.bins[i] *= gain
		stats.Kept++
	}
	return stats, nil
}
