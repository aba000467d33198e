// Package enhance runs the voice enhancement pipeline: peak normalization,
// a whole-signal forward transform, a band-pass mask with fixed gain, the
// inverse transform with denormalization, and saturating quantization back
// to 16-bit PCM.
//
// [Run] works on WAVE files; [Enhancer.Process] works on in-memory signals.
package enhance
