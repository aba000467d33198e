package spectrum

import (
	"errors"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voice/dsp/core"
)

// ErrConsumed is returned when a Spectrum is used after the inverse
// transform has taken its bins.
var ErrConsumed = errors.New("spectrum: already consumed by inverse transform")

// Spectrum is the discrete Fourier transform of one normalized signal.
//
// The Spectrum owns its bins. [BandGain.Apply] mutates them in place and
// [Transformer.Inverse] releases them; callers must not keep the slice
// returned by Bins across either call.
type Spectrum struct {
	bins       []complex128
	sampleRate int
	backend    BackendKind
}

// New wraps bins as a Spectrum taking ownership of the slice.
func New(bins []complex128, sampleRate int) *Spectrum {
	return &Spectrum{bins: bins, sampleRate: sampleRate}
}

// Len returns the bin count, which equals the frame count of the source signal.
func (s *Spectrum) Len() int { return len(s.bins) }

// SampleRate returns the sample rate of the source signal in Hz.
func (s *Spectrum) SampleRate() int { return s.sampleRate }

// Backend returns the backend that produced the spectrum.
func (s *Spectrum) Backend() BackendKind { return s.backend }

// Consumed reports whether the inverse transform already took the bins.
func (s *Spectrum) Consumed() bool { return s == nil || s.bins == nil }

// Bins exposes the bins for read-only inspection.
func (s *Spectrum) Bins() []complex128 { return s.bins }

// At returns bin i.
func (s *Spectrum) At(i int) complex128 { return s.bins[i] }

// Frequency returns the nominal frequency of bin i in Hz.
func (s *Spectrum) Frequency(i int) float64 {
	return BinFrequency(i, s.sampleRate, len(s.bins))
}

// BinFrequency returns i*sampleRate/n, the nominal frequency of bin i of an
// n-point transform. It is a true positive frequency only for i <= n/2.
func BinFrequency(i, sampleRate, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(i) * float64(sampleRate) / float64(n)
}

// FrequencyAxis returns BinFrequency for the first count bins.
func FrequencyAxis(count, sampleRate, n int) []float64 {
	if count < 0 {
		count = 0
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = BinFrequency(i, sampleRate, n)
	}
	return out
}

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

func split(in []complex128, re, im []float64) {
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
}

// Magnitude returns |X[k]| for each bin.
//
// Scratch buffers are pooled, so in steady state this allocates only the
// output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	split(in, re, im)
	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// Power returns |X[k]|^2 for each bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	split(in, re, im)
	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// MagnitudeDB returns 20*log10(|X[k]|) for each bin. Empty bins map to -Inf.
func MagnitudeDB(in []complex128) []float64 {
	mag := Magnitude(in)
	for i, m := range mag {
		mag[i] = core.LinearToDB(m)
	}
	return mag
}

// BandEnergyFraction returns the share of positive-frequency energy (bins
// [0, N/2]) whose nominal frequency lies inside [lowHz, highHz].
// It returns 0 for an empty or silent spectrum.
func BandEnergyFraction(s *Spectrum, lowHz, highHz float64) float64 {
	if s.Consumed() || s.Len() == 0 {
		return 0
	}
	half := s.Len()/2 + 1
	pow := Power(s.bins[:half])

	total, inBand := 0.0, 0.0
	for i, p := range pow {
		total += p
		f := s.Frequency(i)
		if f >= lowHz && f <= highHz {
			inBand += p
		}
	}
	if total == 0 {
		return 0
	}
	return inBand / total
}
