// Package level summarizes the loudness of a PCM signal relative to digital
// full scale.
package level

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-voice/dsp/core"
)

// FullScale16 is the magnitude of the most negative 16-bit sample.
const FullScale16 = 32768.0

// Summary holds level statistics of one signal.
//
// The dB fields are relative to the full scale passed to [Measure] (dBFS)
// and are -Inf for a silent signal.
type Summary struct {
	Frames        int
	Peak          float64
	RMS           float64
	DC            float64
	PeakDBFS      float64
	RMSDBFS       float64
	CrestFactorDB float64 // peak/RMS in dB, 0 when silent
	ZeroCrossings int
}

// Measure computes the summary of samples against fullScale.
func Measure(samples []float64, fullScale float64) Summary {
	n := len(samples)
	if n == 0 || fullScale <= 0 {
		return Summary{
			Frames:   n,
			PeakDBFS: math.Inf(-1),
			RMSDBFS:  math.Inf(-1),
		}
	}

	peak := floats.Norm(samples, math.Inf(1))
	rms := math.Sqrt(floats.Dot(samples, samples) / float64(n))

	crossings := 0
	for i := 1; i < n; i++ {
		if samples[i-1]*samples[i] < 0 {
			crossings++
		}
	}

	s := Summary{
		Frames:        n,
		Peak:          peak,
		RMS:           rms,
		DC:            floats.Sum(samples) / float64(n),
		PeakDBFS:      core.LinearToDB(peak / fullScale),
		RMSDBFS:       core.LinearToDB(rms / fullScale),
		ZeroCrossings: crossings,
	}
	if rms > 0 {
		s.CrestFactorDB = core.LinearToDB(peak / rms)
	}
	return s
}

// MeasureInts is [Measure] for integer PCM samples.
func MeasureInts(samples []int, fullScale float64) Summary {
	data := make([]float64, len(samples))
	for i, v := range samples {
		data[i] = float64(v)
	}
	return Measure(data, fullScale)
}

// GainDB returns the RMS level change from in to out in dB. It is NaN when
// in is silent.
func GainDB(in, out Summary) float64 {
	if in.RMS == 0 {
		return math.NaN()
	}
	return core.LinearToDB(out.RMS / in.RMS)
}
