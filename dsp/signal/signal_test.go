package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

func TestNormalizeBounds(t *testing.T) {
	raw := Raw{SampleRate: 8000, Samples: testutil.Int16Sine(440, 8000, 10000, 8000)}
	n, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if n.FrameCount() != raw.FrameCount() {
		t.Fatalf("frame count = %d, want %d", n.FrameCount(), raw.FrameCount())
	}
	if n.Peak != float64(raw.Peak()) {
		t.Fatalf("peak = %v, want %v", n.Peak, raw.Peak())
	}
	sawUnit := false
	for i, v := range n.Samples {
		if v < -1 || v > 1 {
			t.Fatalf("sample %d = %v outside [-1, 1]", i, v)
		}
		if math.Abs(v) == 1 {
			sawUnit = true
		}
	}
	if !sawUnit {
		t.Fatal("expected the peak sample to normalize to magnitude 1")
	}
}

func TestNormalizeNegativePeak(t *testing.T) {
	n, err := Normalize(Raw{SampleRate: 100, Samples: []int{3, -32768, 16384}})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if n.Peak != 32768 {
		t.Fatalf("peak = %v, want 32768", n.Peak)
	}
	if n.Samples[1] != -1 || n.Samples[2] != 0.5 {
		t.Fatalf("unexpected samples %v", n.Samples)
	}
}

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	inputs := [][]int{
		{1},
		{-1, 0, 1},
		{32767, -32768, 12345, -4321, 0},
		testutil.Int16Noise(7, 30000, 1001),
	}
	for _, samples := range inputs {
		n, err := Normalize(Raw{SampleRate: 44100, Samples: samples})
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		back := n.Denormalize()
		want := make([]float64, len(samples))
		for i, v := range samples {
			want[i] = float64(v)
		}
		testutil.RequireSliceNearlyEqual(t, back, want, 1e-9)
	}
}

func TestNormalizeEmptySignal(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
	}{
		{"zero frames", Raw{SampleRate: 8000}},
		{"all zero", Raw{SampleRate: 8000, Samples: make([]int, 512)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Normalize(tt.raw)
			if !errors.Is(err, ErrEmptySignal) {
				t.Fatalf("err = %v, want ErrEmptySignal", err)
			}
			if n.Samples != nil {
				t.Fatalf("expected no samples on error, got %d", len(n.Samples))
			}
		})
	}
}

func TestNormalizeInvalidSampleRate(t *testing.T) {
	_, err := Normalize(Raw{SampleRate: 0, Samples: []int{1, 2}})
	if err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if errors.Is(err, ErrEmptySignal) {
		t.Fatal("sample rate error must not be reported as empty signal")
	}
}

func TestTimes(t *testing.T) {
	n := Normalized{SampleRate: 4, Samples: []float64{0, 0, 0, 0, 0}}
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	testutil.RequireSliceNearlyEqual(t, n.Times(), want, 1e-15)
	if n.Time(2) != 0.5 {
		t.Fatalf("Time(2) = %v, want 0.5", n.Time(2))
	}
}

func TestEnergyAndPeakAbs(t *testing.T) {
	data := []float64{3, -4, 0}
	if got := Energy(data); got != 25 {
		t.Fatalf("Energy() = %v, want 25", got)
	}
	if got := PeakAbs(data); got != 4 {
		t.Fatalf("PeakAbs() = %v, want 4", got)
	}
	if got := PeakAbs(nil); got != 0 {
		t.Fatalf("PeakAbs(nil) = %v, want 0", got)
	}
}
