package enhance

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-voice/dsp/quantize"
	"github.com/cwbudde/algo-voice/dsp/signal"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
	"github.com/cwbudde/algo-voice/internal/testutil"
	"github.com/cwbudde/algo-voice/wavfile"
)

func toneRaw(freq float64, amp float64, sr, n int) signal.Raw {
	return signal.Raw{SampleRate: sr, Samples: testutil.Int16Sine(freq, float64(sr), amp, n)}
}

func toFloats(in []int) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func mustEnhancer(t *testing.T, opts ...Option) *Enhancer {
	t.Helper()
	e, err := New(NewOptions(opts...))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestProcessVoiceTone(t *testing.T) {
	raw := toneRaw(440, 10000, 8000, 8000)
	res, err := mustEnhancer(t).Process(context.Background(), raw)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	out := res.Output
	if out.SampleRate != 8000 || out.FrameCount() != 8000 {
		t.Fatalf("output rate=%d frames=%d, want 8000/8000", out.SampleRate, out.FrameCount())
	}
	if res.Report.Saturation.Clipped() != 0 {
		t.Fatalf("clipped = %d, want 0", res.Report.Saturation.Clipped())
	}

	// Only the positive-frequency half survives, so a tone comes out at
	// Gain/2 of its input amplitude.
	peak := out.Peak()
	if peak < 29500 || peak > 30500 {
		t.Fatalf("output peak = %d, want about 30000", peak)
	}
	for i, v := range out.Samples {
		if v < math.MinInt16 || v > math.MaxInt16 {
			t.Fatalf("sample %d = %d outside 16-bit range", i, v)
		}
	}

	norm, err := signal.Normalize(out)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := spectrum.NewTransformer(spectrum.BackendAuto)
	if err != nil {
		t.Fatal(err)
	}
	sp, err := tr.Forward(norm)
	if err != nil {
		t.Fatal(err)
	}
	if frac := spectrum.BandEnergyFraction(sp, 130, 4800); frac < 0.999 {
		t.Fatalf("passband energy fraction = %f, want ~1", frac)
	}
	if res.Report.PassbandEnergy < 0.999 {
		t.Fatalf("report passband energy = %f, want ~1", res.Report.PassbandEnergy)
	}
	if g := res.Report.LevelGainDB(); math.Abs(g-20*math.Log10(3)) > 0.1 {
		t.Fatalf("level gain = %.2f dB, want about %.2f", g, 20*math.Log10(3))
	}
	if res.Report.Backend != spectrum.BackendGoDSP {
		t.Fatalf("backend = %q, want %q for N=8000", res.Report.Backend, spectrum.BackendGoDSP)
	}
}

func TestProcessOutOfBandToneVanishes(t *testing.T) {
	raw := toneRaw(50, 10000, 8000, 8000)
	res, err := mustEnhancer(t).Process(context.Background(), raw)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	in := signal.Energy(toFloats(raw.Samples))
	out := signal.Energy(toFloats(res.Output.Samples))
	if ratio := out / in; ratio > 1e-4 {
		t.Fatalf("output/input energy = %g, want near zero", ratio)
	}
	if res.Report.PassbandEnergy > 1e-3 {
		t.Fatalf("passband energy = %f, want near zero", res.Report.PassbandEnergy)
	}
}

func TestProcessSaturates(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	raw := toneRaw(440, 20000, 8000, 8000)
	res, err := mustEnhancer(t, WithLogger(logger)).Process(context.Background(), raw)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	sat := res.Report.Saturation
	if sat.ClippedHigh == 0 || sat.ClippedLow == 0 {
		t.Fatalf("saturation = %+v, want clipping on both rails", sat)
	}
	if !res.Report.Clipped() {
		t.Fatal("Report.Clipped() = false")
	}
	if sat.Peak < 59000 {
		t.Fatalf("peak before clip = %f, want about 60000", sat.Peak)
	}
	lo, hi := 0, 0
	for _, v := range res.Output.Samples {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo != math.MinInt16 || hi != math.MaxInt16 {
		t.Fatalf("output range [%d, %d], want saturated rails", lo, hi)
	}
	if !strings.Contains(logs.String(), "output saturated") {
		t.Fatalf("missing saturation warning in logs:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "band mask") {
		t.Fatalf("missing debug stage record in logs:\n%s", logs.String())
	}
}

func TestProcessIdentityBand(t *testing.T) {
	raw := signal.Raw{SampleRate: 8000, Samples: testutil.Int16Noise(3, 12000, 1000)}
	e := mustEnhancer(t,
		WithPassband(0, 8000),
		WithGain(1),
		WithRounding(quantize.RoundNearest),
	)
	res, err := e.Process(context.Background(), raw)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.Report.Mask.Zeroed != 0 || res.Report.Mask.Kept != 1000 {
		t.Fatalf("mask stats = %+v, want every bin kept", res.Report.Mask)
	}
	for i := range raw.Samples {
		if res.Output.Samples[i] != raw.Samples[i] {
			t.Fatalf("sample %d = %d, want %d", i, res.Output.Samples[i], raw.Samples[i])
		}
	}
}

func TestProcessBackendsAgree(t *testing.T) {
	raw := signal.Raw{SampleRate: 8000, Samples: testutil.Int16Sine(300, 8000, 8000, 4096)}
	noise := testutil.Int16Noise(11, 500, 4096)
	for i := range raw.Samples {
		raw.Samples[i] += noise[i]
	}

	var ref []int
	for _, kind := range []spectrum.BackendKind{spectrum.BackendAlgoFFT, spectrum.BackendGoDSP, spectrum.BackendGonum} {
		t.Run(string(kind), func(t *testing.T) {
			res, err := mustEnhancer(t, WithBackend(kind), WithRounding(quantize.RoundNearest)).
				Process(context.Background(), raw)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if res.Report.Backend != kind {
				t.Fatalf("backend = %q, want %q", res.Report.Backend, kind)
			}
			if ref == nil {
				ref = res.Output.Samples
				return
			}
			for i, v := range res.Output.Samples {
				if d := v - ref[i]; d < -1 || d > 1 {
					t.Fatalf("sample %d = %d, reference %d", i, v, ref[i])
				}
			}
		})
	}
}

func TestProcessNoiseGate(t *testing.T) {
	raw := toneRaw(440, 10000, 8000, 8000)
	noise := testutil.Int16Noise(5, 50, 8000)
	for i := range raw.Samples {
		raw.Samples[i] += noise[i]
	}

	plain, err := mustEnhancer(t).Process(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}
	gated, err := mustEnhancer(t, WithNoiseGate(20)).Process(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}

	if plain.Report.Mask.Gated != 0 {
		t.Fatalf("gate disabled but gated = %d", plain.Report.Mask.Gated)
	}
	if gated.Report.Mask.Gated < 1000 || gated.Report.Mask.Kept < 1 {
		t.Fatalf("mask stats = %+v, want most in-band noise bins gated", gated.Report.Mask)
	}
	peak := gated.Output.Peak()
	if peak < 29000 || peak > 31000 {
		t.Fatalf("gated output peak = %d, want tone near 30000", peak)
	}
}

func TestProcessDither(t *testing.T) {
	raw := toneRaw(440, 10000, 8000, 8000)
	plain, err := mustEnhancer(t, WithRounding(quantize.RoundNearest)).Process(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}
	run := func() []int {
		res, err := mustEnhancer(t, WithRounding(quantize.RoundNearest), WithDither(1, 7)).
			Process(context.Background(), raw)
		if err != nil {
			t.Fatal(err)
		}
		return res.Output.Samples
	}
	a, b := run(), run()

	changed := 0
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between runs with the same seed: %d vs %d", i, a[i], b[i])
		}
		d := a[i] - plain.Output.Samples[i]
		if d < -1 || d > 1 {
			t.Fatalf("sample %d moved by %d LSB, want at most 1", i, d)
		}
		if d != 0 {
			changed++
		}
	}
	if changed == 0 {
		t.Fatal("dither did not change any sample")
	}
}

func TestProcessEmptySignal(t *testing.T) {
	e := mustEnhancer(t)
	tests := map[string]signal.Raw{
		"silence":     {SampleRate: 8000, Samples: make([]int, 256)},
		"zero frames": {SampleRate: 8000},
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := e.Process(context.Background(), raw)
			if !errors.Is(err, ErrEmptySignal) {
				t.Fatalf("err = %v, want ErrEmptySignal", err)
			}
		})
	}
}

func TestProcessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mustEnhancer(t).Process(ctx, toneRaw(440, 1000, 8000, 512))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "original.wav")
	out := filepath.Join(dir, "improved.wav")
	if err := wavfile.Write(in, toneRaw(440, 10000, 8000, 8000)); err != nil {
		t.Fatal(err)
	}

	res, err := Run(context.Background(), NewOptions(WithInput(in), WithOutput(out)))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got, format, err := wavfile.Read(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if format.SampleRate != 8000 || format.NumChannels != 1 || format.BitDepth != 16 {
		t.Fatalf("output format = %+v", format)
	}
	if got.FrameCount() != 8000 {
		t.Fatalf("output frames = %d, want 8000", got.FrameCount())
	}
	for i := range got.Samples {
		if got.Samples[i] != res.Output.Samples[i] {
			t.Fatalf("file sample %d = %d, result %d", i, got.Samples[i], res.Output.Samples[i])
		}
	}
	if res.Report.Timings.Total() < res.Report.Timings.Write {
		t.Fatalf("timings = %+v", res.Report.Timings)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	silent := filepath.Join(dir, "silent.wav")
	if err := wavfile.Write(silent, signal.Raw{SampleRate: 8000, Samples: make([]int, 100)}); err != nil {
		t.Fatal(err)
	}
	text := filepath.Join(dir, "text.wav")
	if err := os.WriteFile(text, []byte("hello, this is not audio at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "good.wav")
	if err := wavfile.Write(good, toneRaw(440, 1000, 8000, 800)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"missing input", NewOptions(WithInput(filepath.Join(dir, "nope.wav")), WithOutput(filepath.Join(dir, "o1.wav"))), ErrFileAccess},
		{"not a wave file", NewOptions(WithInput(text), WithOutput(filepath.Join(dir, "o2.wav"))), ErrFormat},
		{"silent input", NewOptions(WithInput(silent), WithOutput(filepath.Join(dir, "o3.wav"))), ErrEmptySignal},
		{"zero gain", NewOptions(WithInput(good), WithOutput(filepath.Join(dir, "o4.wav")), WithGain(0)), ErrInvalidOptions},
		{"same path", NewOptions(WithInput(good), WithOutput(good)), ErrInvalidOptions},
		{"unwritable output", NewOptions(WithInput(good), WithOutput(filepath.Join(dir, "missing", "o5.wav"))), ErrFileAccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if tt.opts.OutputPath != good {
				if _, statErr := os.Stat(tt.opts.OutputPath); !errors.Is(statErr, os.ErrNotExist) {
					t.Fatalf("output %q exists after failure", tt.opts.OutputPath)
				}
			}
		})
	}
}
