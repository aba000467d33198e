package signal

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptySignal reports a signal that cannot be normalized: it has no frames
// or every sample is zero.
var ErrEmptySignal = errors.New("empty signal")

// Raw is an integer PCM signal as read from a container.
//
// Samples hold fixed-width signed values; the bit depth is a property of the
// container and is not checked here.
type Raw struct {
	SampleRate int
	Samples    []int
}

// FrameCount returns the number of frames (one sample per frame for mono).
func (r Raw) FrameCount() int { return len(r.Samples) }

// Time returns the time of frame i in seconds.
func (r Raw) Time(i int) float64 { return frameTime(i, r.SampleRate) }

// Validate checks the sample rate and frame count.
func (r Raw) Validate() error {
	if r.SampleRate <= 0 {
		return fmt.Errorf("signal: sample rate must be > 0: %d", r.SampleRate)
	}
	if len(r.Samples) == 0 {
		return fmt.Errorf("signal: zero frames: %w", ErrEmptySignal)
	}
	return nil
}

// Peak returns the largest absolute sample value.
func (r Raw) Peak() int {
	peak := 0
	for _, v := range r.Samples {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}

// Normalized is a floating point signal with every |sample| <= 1, together
// with the peak magnitude that was divided out.
type Normalized struct {
	SampleRate int
	Samples    []float64
	Peak       float64
}

// FrameCount returns the number of frames.
func (n Normalized) FrameCount() int { return len(n.Samples) }

// Time returns the time of frame i in seconds.
func (n Normalized) Time(i int) float64 { return frameTime(i, n.SampleRate) }

// Times returns the time axis i/sampleRate for every frame.
func (n Normalized) Times() []float64 {
	out := make([]float64, len(n.Samples))
	for i := range out {
		out[i] = frameTime(i, n.SampleRate)
	}
	return out
}

// Denormalize multiplies every sample by Peak, the exact inverse of Normalize.
func (n Normalized) Denormalize() []float64 {
	return Scale(n.Samples, n.Peak)
}

// Normalize divides every raw sample by the peak absolute magnitude.
//
// Zero-frame and all-zero signals return ErrEmptySignal because division by
// a zero peak is undefined.
func Normalize(raw Raw) (Normalized, error) {
	if err := raw.Validate(); err != nil {
		return Normalized{}, err
	}

	peak := raw.Peak()
	if peak == 0 {
		return Normalized{}, fmt.Errorf("signal: all %d samples are zero: %w", len(raw.Samples), ErrEmptySignal)
	}

	p := float64(peak)
	out := make([]float64, len(raw.Samples))
	for i, v := range raw.Samples {
		out[i] = float64(v) / p
	}

	return Normalized{
		SampleRate: raw.SampleRate,
		Samples:    out,
		Peak:       p,
	}, nil
}

// Scale returns a new slice with every value multiplied by factor.
func Scale(data []float64, factor float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v * factor
	}
	return out
}

// Energy returns the sum of squared samples.
func Energy(data []float64) float64 {
	return floats.Dot(data, data)
}

// PeakAbs returns the largest absolute value in data, or 0 for empty input.
func PeakAbs(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Norm(data, math.Inf(1))
}

func frameTime(i, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(i) / float64(sampleRate)
}
