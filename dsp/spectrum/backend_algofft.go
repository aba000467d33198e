package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-voice/dsp/core"
)

type algoFFTBackend struct {
	plan *algofft.Plan[complex128]
	n    int
}

func newAlgoFFTBackend(n int) (*algoFFTBackend, error) {
	if !core.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("spectrum: algofft backend needs a power-of-two size: %d", n)
	}
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}
	return &algoFFTBackend{plan: plan, n: n}, nil
}

func (b *algoFFTBackend) Kind() BackendKind { return BackendAlgoFFT }
func (b *algoFFTBackend) Size() int         { return b.n }

func (b *algoFFTBackend) Forward(dst, src []complex128) error {
	if err := checkSizes(b.n, dst, src); err != nil {
		return err
	}
	if err := b.plan.Forward(dst, src); err != nil {
		return fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}
	return nil
}

func (b *algoFFTBackend) Inverse(dst, src []complex128) error {
	if err := checkSizes(b.n, dst, src); err != nil {
		return err
	}
	if err := b.plan.Inverse(dst, src); err != nil {
		return fmt.Errorf("spectrum: inverse FFT failed: %w", err)
	}
	return nil
}
