package spectrum

import "github.com/mjibson/go-dsp/fft"

// goDSPBackend wraps go-dsp, which handles every size and spreads large
// radix-2 passes over worker goroutines.
type goDSPBackend struct {
	n int
}

func newGoDSPBackend(n int) *goDSPBackend {
	return &goDSPBackend{n: n}
}

func (b *goDSPBackend) Kind() BackendKind { return BackendGoDSP }
func (b *goDSPBackend) Size() int         { return b.n }

func (b *goDSPBackend) Forward(dst, src []complex128) error {
	if err := checkSizes(b.n, dst, src); err != nil {
		return err
	}
	copy(dst, fft.FFT(src))
	return nil
}

// Inverse relies on fft.IFFT already dividing by N.
func (b *goDSPBackend) Inverse(dst, src []complex128) error {
	if err := checkSizes(b.n, dst, src); err != nil {
		return err
	}
	copy(dst, fft.IFFT(src))
	return nil
}
