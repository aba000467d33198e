package spectrum

import "gonum.org/v1/gonum/dsp/fourier"

type gonumBackend struct {
	fft *fourier.CmplxFFT
	n   int
}

func newGonumBackend(n int) *gonumBackend {
	return &gonumBackend{fft: fourier.NewCmplxFFT(n), n: n}
}

func (b *gonumBackend) Kind() BackendKind { return BackendGonum }
func (b *gonumBackend) Size() int         { return b.n }

func (b *gonumBackend) Forward(dst, src []complex128) error {
	if err := checkSizes(b.n, dst, src); err != nil {
		return err
	}
	b.fft.Coefficients(dst, src)
	return nil
}

// Inverse scales by 1/N because CmplxFFT.Sequence is unnormalized.
func (b *gonumBackend) Inverse(dst, src []complex128) error {
	if err := checkSizes(b.n, dst, src); err != nil {
		return err
	}
	b.fft.Sequence(dst, src)
	scale := complex(1/float64(b.n), 0)
	for i := range dst {
		dst[i] *= scale
	}
	return nil
}
