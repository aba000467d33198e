package spectrum

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-voice/dsp/signal"
	"github.com/cwbudde/algo-voice/internal/testutil"
)

// naiveDFT is the O(N^2) reference transform.
func naiveDFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := range out {
		var sum complex128
		for j, v := range x {
			angle := -2 * math.Pi * float64(k) * float64(j) / float64(n)
			sum += complex(v, 0) * cmplx.Exp(complex(0, angle))
		}
		out[k] = sum
	}
	return out
}

func normalized(samples []float64, sampleRate int) signal.Normalized {
	return signal.Normalized{SampleRate: sampleRate, Samples: samples, Peak: 1}
}

func sizesFor(kind BackendKind) []int {
	if kind == BackendAlgoFFT {
		return []int{2, 8, 64, 1024, 4096}
	}
	return []int{1, 2, 3, 7, 8, 100, 1000, 1024, 8000}
}

func TestForwardMatchesNaiveDFT(t *testing.T) {
	for _, kind := range Backends {
		for _, n := range []int{4, 8, 16, 13, 30} {
			if kind == BackendAlgoFFT && n&(n-1) != 0 {
				continue
			}
			t.Run(fmt.Sprintf("%s/%d", kind, n), func(t *testing.T) {
				x := testutil.DeterministicNoise(int64(n), 1, n)
				tr, err := NewTransformer(kind)
				if err != nil {
					t.Fatalf("NewTransformer() error = %v", err)
				}
				s, err := tr.Forward(normalized(x, 8000))
				if err != nil {
					t.Fatalf("Forward() error = %v", err)
				}
				testutil.RequireComplexNearlyEqual(t, s.Bins(), naiveDFT(x), 1e-9)
			})
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, kind := range Backends {
		for _, n := range sizesFor(kind) {
			t.Run(fmt.Sprintf("%s/%d", kind, n), func(t *testing.T) {
				x := testutil.DeterministicNoise(int64(n)+11, 1, n)
				tr, err := NewTransformer(kind)
				if err != nil {
					t.Fatalf("NewTransformer() error = %v", err)
				}
				s, err := tr.Forward(normalized(x, 16000))
				if err != nil {
					t.Fatalf("Forward() error = %v", err)
				}
				if s.Len() != n {
					t.Fatalf("Len() = %d, want %d", s.Len(), n)
				}
				back, err := tr.Inverse(s, 1)
				if err != nil {
					t.Fatalf("Inverse() error = %v", err)
				}
				testutil.RequireSliceNearlyEqual(t, back, x, 1e-9)
			})
		}
	}
}

func TestInverseAppliesPeak(t *testing.T) {
	raw := signal.Raw{SampleRate: 8000, Samples: testutil.Int16Sine(440, 8000, 10000, 800)}
	n, err := signal.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	tr, _ := NewTransformer(BackendAuto)
	s, err := tr.Forward(n)
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	back, err := tr.Inverse(s, n.Peak)
	if err != nil {
		t.Fatalf("Inverse() error = %v", err)
	}
	want := make([]float64, len(raw.Samples))
	for i, v := range raw.Samples {
		want[i] = float64(v)
	}
	testutil.RequireSliceNearlyEqual(t, back, want, 1e-6)
}

func TestBackendsAgree(t *testing.T) {
	x := testutil.DeterministicNoise(5, 1, 2048)
	var ref []complex128
	for _, kind := range Backends {
		tr, _ := NewTransformer(kind)
		s, err := tr.Forward(normalized(x, 8000))
		if err != nil {
			t.Fatalf("%s: Forward() error = %v", kind, err)
		}
		if ref == nil {
			ref = s.Bins()
			continue
		}
		testutil.RequireComplexNearlyEqual(t, s.Bins(), ref, 1e-8)
	}
}

func TestAutoBackendSelection(t *testing.T) {
	tr, _ := NewTransformer(BackendAuto)
	pow2, err := tr.Forward(normalized(make([]float64, 256), 8000))
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if pow2.Backend() != BackendAlgoFFT {
		t.Fatalf("backend = %s, want %s", pow2.Backend(), BackendAlgoFFT)
	}
	other, err := tr.Forward(normalized(make([]float64, 300), 8000))
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if other.Backend() != BackendGoDSP {
		t.Fatalf("backend = %s, want %s", other.Backend(), BackendGoDSP)
	}
}

func TestAlgoFFTRejectsNonPowerOfTwo(t *testing.T) {
	tr, _ := NewTransformer(BackendAlgoFFT)
	if _, err := tr.Forward(normalized(make([]float64, 300), 8000)); err == nil {
		t.Fatal("expected error for non power-of-two size")
	}
}

func TestForwardEmptySignal(t *testing.T) {
	tr, _ := NewTransformer(BackendAuto)
	_, err := tr.Forward(signal.Normalized{SampleRate: 8000})
	if !errors.Is(err, signal.ErrEmptySignal) {
		t.Fatalf("err = %v, want ErrEmptySignal", err)
	}
	if _, err := tr.Forward(normalized([]float64{1}, 0)); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestInverseConsumesSpectrum(t *testing.T) {
	tr, _ := NewTransformer(BackendGoDSP)
	s, err := tr.Forward(normalized([]float64{1, 0, -1, 0}, 4))
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if _, err := tr.Inverse(s, 1); err != nil {
		t.Fatalf("Inverse() error = %v", err)
	}
	if !s.Consumed() {
		t.Fatal("spectrum should be consumed after Inverse")
	}
	if _, err := tr.Inverse(s, 1); !errors.Is(err, ErrConsumed) {
		t.Fatalf("second Inverse err = %v, want ErrConsumed", err)
	}
	if _, err := DefaultBandGain().Apply(s); !errors.Is(err, ErrConsumed) {
		t.Fatalf("Apply after Inverse err = %v, want ErrConsumed", err)
	}
}

func TestInverseRejectsBadPeak(t *testing.T) {
	tr, _ := NewTransformer(BackendGoDSP)
	for _, peak := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		s := New([]complex128{1, 0}, 2)
		if _, err := tr.Inverse(s, peak); err == nil {
			t.Fatalf("expected error for peak %v", peak)
		}
		if s.Consumed() {
			t.Fatalf("rejected Inverse must not consume the spectrum (peak %v)", peak)
		}
	}
}

func TestParseBackend(t *testing.T) {
	for _, kind := range Backends {
		got, err := ParseBackend(" " + string(kind) + " ")
		if err != nil || got != kind {
			t.Fatalf("ParseBackend(%q) = %q, %v", kind, got, err)
		}
	}
	if got, err := ParseBackend(""); err != nil || got != BackendAuto {
		t.Fatalf("ParseBackend(\"\") = %q, %v", got, err)
	}
	if _, err := ParseBackend("fftw"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := NewTransformer("fftw"); err == nil {
		t.Fatal("expected NewTransformer error for unknown backend")
	}
}

func TestBackendBufferMismatch(t *testing.T) {
	for _, kind := range []BackendKind{BackendAlgoFFT, BackendGoDSP, BackendGonum} {
		b, err := NewBackend(kind, 8)
		if err != nil {
			t.Fatalf("NewBackend(%s) error = %v", kind, err)
		}
		if b.Size() != 8 || b.Kind() != kind {
			t.Fatalf("backend reports size %d kind %s", b.Size(), b.Kind())
		}
		if err := b.Forward(make([]complex128, 8), make([]complex128, 4)); err == nil {
			t.Fatalf("%s: expected length mismatch error", kind)
		}
		if err := b.Inverse(make([]complex128, 2), make([]complex128, 8)); err == nil {
			t.Fatalf("%s: expected length mismatch error", kind)
		}
	}
	if _, err := NewBackend(BackendGoDSP, 0); err == nil {
		t.Fatal("expected error for zero size")
	}
}
