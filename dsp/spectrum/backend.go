package spectrum

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-voice/dsp/core"
)

// BackendKind names an FFT implementation.
type BackendKind string

const (
	// BackendAuto picks algo-fft plans for power-of-two sizes and go-dsp otherwise.
	BackendAuto BackendKind = "auto"
	// BackendAlgoFFT uses algo-fft plans. Power-of-two sizes only.
	BackendAlgoFFT BackendKind = "algofft"
	// BackendGoDSP uses go-dsp: iterative radix-2 with Bluestein for other sizes.
	BackendGoDSP BackendKind = "godsp"
	// BackendGonum uses the gonum fourier package (mixed radix FFTPACK port).
	BackendGonum BackendKind = "gonum"
)

// Backends lists every selectable backend.
var Backends = []BackendKind{BackendAuto, BackendAlgoFFT, BackendGoDSP, BackendGonum}

// ParseBackend converts a configuration string to a BackendKind.
// The empty string selects BackendAuto.
func ParseBackend(s string) (BackendKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BackendAuto, nil
	}
	for _, k := range Backends {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("spectrum: unknown backend %q", s)
}

// Backend computes complex transforms of one fixed size.
//
// Forward computes X[k] = sum x[n]*exp(-2*pi*i*k*n/N). Inverse is normalized
// by 1/N so that Inverse(Forward(x)) == x. dst and src must both have the
// size the backend was built for.
type Backend interface {
	Kind() BackendKind
	Size() int
	Forward(dst, src []complex128) error
	Inverse(dst, src []complex128) error
}

// NewBackend creates a backend of the given kind for n-point transforms.
func NewBackend(kind BackendKind, n int) (Backend, error) {
	if n <= 0 {
		return nil, fmt.Errorf("spectrum: transform size must be > 0: %d", n)
	}

	switch kind {
	case BackendAuto, "":
		if n >= 2 && core.IsPowerOfTwo(n) {
			b, err := newAlgoFFTBackend(n)
			if err == nil {
				return b, nil
			}
		}
		return newGoDSPBackend(n), nil
	case BackendAlgoFFT:
		return newAlgoFFTBackend(n)
	case BackendGoDSP:
		return newGoDSPBackend(n), nil
	case BackendGonum:
		return newGonumBackend(n), nil
	default:
		return nil, fmt.Errorf("spectrum: unknown backend %q", kind)
	}
}

func checkSizes(n int, dst, src []complex128) error {
	if len(dst) != n || len(src) != n {
		return fmt.Errorf("spectrum: buffer length mismatch: dst=%d src=%d want %d", len(dst), len(src), n)
	}
	return nil
}
