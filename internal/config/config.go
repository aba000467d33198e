// Package config loads the voiceenhance command configuration from an
// optional YAML file and command-line flags.
package config

import (
	"log/slog"

	"github.com/cwbudde/algo-voice/dsp/quantize"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
	"github.com/cwbudde/algo-voice/enhance"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level maps l to a slog level. Unknown values map to Info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the full command configuration.
type Config struct {
	InputPath  string `yaml:"input_path"`
	OutputPath string `yaml:"output_path"`

	PassbandLowHz  float64 `yaml:"passband_low_hz"`
	PassbandHighHz float64 `yaml:"passband_high_hz"`
	Gain           float64 `yaml:"gain"`

	// NoiseGateDB enables the fixed noise gate when set.
	NoiseGateDB *float64 `yaml:"noise_gate_db"`

	// Backend is one of auto, algofft, godsp or gonum.
	Backend string `yaml:"backend"`
	// Rounding is truncate or nearest.
	Rounding string `yaml:"rounding"`
	// DitherLSB adds triangular dither of this peak amplitude before
	// rounding. Zero disables it.
	DitherLSB  float64 `yaml:"dither_lsb"`
	DitherSeed uint64  `yaml:"dither_seed"`

	// Plots enables the diagnostic SVG plots, written to PlotDir.
	Plots   bool   `yaml:"plots"`
	PlotDir string `yaml:"plot_dir"`

	LogLevel LogLevel `yaml:"log_level"`
}

// Defaults returns the configuration used when neither a file nor a flag
// sets a value.
func Defaults() Config {
	d := enhance.DefaultOptions()
	return Config{
		InputPath:      d.InputPath,
		OutputPath:     d.OutputPath,
		PassbandLowHz:  d.Band.LowHz,
		PassbandHighHz: d.Band.HighHz,
		Gain:           d.Band.Gain,
		Backend:        string(d.Backend),
		Rounding:       d.Rounding.String(),
		DitherSeed:     d.DitherSeed,
		PlotDir:        ".",
		LogLevel:       LogInfo,
	}
}

// Options converts cfg into pipeline options. cfg must have passed
// [Validate].
func (c Config) Options(logger *slog.Logger) (enhance.Options, error) {
	backend, err := spectrum.ParseBackend(c.Backend)
	if err != nil {
		return enhance.Options{}, err
	}
	rounding, err := quantize.ParseRounding(c.Rounding)
	if err != nil {
		return enhance.Options{}, err
	}

	opts := []enhance.Option{
		enhance.WithInput(c.InputPath),
		enhance.WithOutput(c.OutputPath),
		enhance.WithPassband(c.PassbandLowHz, c.PassbandHighHz),
		enhance.WithGain(c.Gain),
		enhance.WithBackend(backend),
		enhance.WithRounding(rounding),
		enhance.WithLogger(logger),
	}
	if c.NoiseGateDB != nil {
		opts = append(opts, enhance.WithNoiseGate(*c.NoiseGateDB))
	}
	if c.DitherLSB > 0 {
		opts = append(opts, enhance.WithDither(c.DitherLSB, c.DitherSeed))
	}
	return enhance.NewOptions(opts...), nil
}
