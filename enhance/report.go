package enhance

import (
	"log/slog"
	"time"

	"github.com/cwbudde/algo-voice/dsp/quantize"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
	"github.com/cwbudde/algo-voice/stats/level"
)

// Timings holds wall-clock durations of the pipeline stages. Read and Write
// stay zero for in-memory processing.
type Timings struct {
	Read      time.Duration
	Normalize time.Duration
	Forward   time.Duration
	Mask      time.Duration
	Inverse   time.Duration
	Quantize  time.Duration
	Write     time.Duration
}

// Total returns the sum of all stages.
func (t Timings) Total() time.Duration {
	return t.Read + t.Normalize + t.Forward + t.Mask + t.Inverse + t.Quantize + t.Write
}

// Report summarizes one pipeline run.
type Report struct {
	SampleRate int
	Frames     int
	// Peak is the largest absolute input sample, divided out before the
	// transform and multiplied back after it.
	Peak    float64
	Backend spectrum.BackendKind
	Mask    spectrum.MaskStats
	// PassbandEnergy is the share of positive-frequency input energy inside
	// the passband, measured before masking.
	PassbandEnergy float64
	// Saturation counts samples clipped to the 16-bit range.
	Saturation quantize.Stats
	// InputLevel and OutputLevel are measured on the 16-bit samples.
	InputLevel  level.Summary
	OutputLevel level.Summary
	Timings     Timings
}

// Clipped reports whether any output sample was saturated.
func (r Report) Clipped() bool { return r.Saturation.Saturated() }

// LevelGainDB returns the RMS level change from input to output in dB.
func (r Report) LevelGainDB() float64 {
	return level.GainDB(r.InputLevel, r.OutputLevel)
}

// LogValue implements slog.LogValuer.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("sample_rate", r.SampleRate),
		slog.Int("frames", r.Frames),
		slog.Float64("peak", r.Peak),
		slog.String("backend", string(r.Backend)),
		slog.Int("bins_kept", r.Mask.Kept),
		slog.Int("bins_zeroed", r.Mask.Zeroed),
		slog.Int("bins_gated", r.Mask.Gated),
		slog.Float64("passband_energy", r.PassbandEnergy),
		slog.Int("clipped", r.Saturation.Clipped()),
		slog.Float64("input_rms_dbfs", r.InputLevel.RMSDBFS),
		slog.Float64("output_rms_dbfs", r.OutputLevel.RMSDBFS),
		slog.Float64("level_gain_db", r.LevelGainDB()),
		slog.Duration("elapsed", r.Timings.Total()),
	)
}
