package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Int16Sine generates a sine as rounded integer PCM samples, the way a 16-bit
// recording of a pure tone looks after decoding.
func Int16Sine(freqHz, sampleRate, amplitude float64, length int) []int {
	return toInts(DeterministicSine(freqHz, sampleRate, amplitude, length))
}

// Int16Noise generates seeded white noise as rounded integer PCM samples.
func Int16Noise(seed int64, amplitude float64, length int) []int {
	return toInts(DeterministicNoise(seed, amplitude, length))
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

func toInts(data []float64) []int {
	out := make([]int, len(data))
	for i, v := range data {
		out[i] = int(math.Round(v))
	}
	return out
}
