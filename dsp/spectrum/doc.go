// Package spectrum holds the frequency-domain half of the enhancement
// pipeline.
//
// A [Transformer] turns a normalized signal into a [Spectrum] using one of
// several FFT backends, a [BandGain] masks and amplifies the spectrum in
// place, and [Transformer.Inverse] consumes it again to rebuild the filtered
// time-domain signal.
//
// No window is applied before the forward transform: the whole buffer is
// analyzed as one periodic frame, so content that does not complete an
// integer number of cycles leaks into neighboring bins.
//
// Bin i maps to frequency i*sampleRate/N for every i in [0, N). Only bins
// [0, N/2] stand for positive frequencies; the band mask compares the raw
// mapping without folding the upper half back onto its negative-frequency
// alias.
package spectrum
