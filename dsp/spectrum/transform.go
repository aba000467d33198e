package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/signal"
)

// Transformer runs forward and inverse transforms with a chosen backend.
// Backends are built per transform size, so one Transformer serves signals
// of any length.
type Transformer struct {
	kind BackendKind
}

// NewTransformer returns a Transformer for the given backend kind.
func NewTransformer(kind BackendKind) (*Transformer, error) {
	if kind == "" {
		kind = BackendAuto
	}
	if _, err := ParseBackend(string(kind)); err != nil {
		return nil, err
	}
	return &Transformer{kind: kind}, nil
}

// Kind returns the configured backend kind.
func (t *Transformer) Kind() BackendKind { return t.kind }

// Forward computes the spectrum of a normalized signal. The whole buffer is
// transformed as one frame with no window. The returned Spectrum has exactly
// FrameCount bins and is owned by the caller.
func (t *Transformer) Forward(n signal.Normalized) (*Spectrum, error) {
	if n.FrameCount() == 0 {
		return nil, fmt.Errorf("spectrum: forward transform of zero frames: %w", signal.ErrEmptySignal)
	}
	if n.SampleRate <= 0 {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %d", n.SampleRate)
	}

	backend, err := NewBackend(t.kind, n.FrameCount())
	if err != nil {
		return nil, err
	}

	in := make([]complex128, n.FrameCount())
	for i, v := range n.Samples {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, len(in))
	if err := backend.Forward(out, in); err != nil {
		return nil, err
	}

	return &Spectrum{
		bins:       out,
		sampleRate: n.SampleRate,
		backend:    backend.Kind(),
	}, nil
}

// Inverse rebuilds the time-domain signal from s and multiplies it by peak to
// undo normalization. Only the real part is kept; any imaginary residue from
// rounding or from an asymmetric spectrum is discarded.
//
// Inverse consumes s: its bins are released and any later Inverse or
// BandGain.Apply on it returns ErrConsumed.
func (t *Transformer) Inverse(s *Spectrum, peak float64) ([]float64, error) {
	if s.Consumed() {
		return nil, ErrConsumed
	}
	if peak <= 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return nil, fmt.Errorf("spectrum: peak magnitude must be > 0 and finite: %f", peak)
	}

	backend, err := NewBackend(t.kind, s.Len())
	if err != nil {
		return nil, err
	}

	timeDomain := make([]complex128, s.Len())
	if err := backend.Inverse(timeDomain, s.bins); err != nil {
		return nil, err
	}
	s.bins = nil

	out := make([]float64, len(timeDomain))
	for i, v := range timeDomain {
		out[i] = real(v) * peak
	}
	return out, nil
}
