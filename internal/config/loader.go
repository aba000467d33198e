package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-voice/dsp/quantize"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
)

// Load decodes the YAML file at path over base. Keys absent from the file
// keep their base value. The result is not validated, so later layers such
// as flags can still override it.
func Load(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f, base)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over base. Unknown keys are rejected.
// An empty document yields base unchanged.
func LoadFromReader(r io.Reader, base Config) (Config, error) {
	cfg := base
	if base.NoiseGateDB != nil {
		gate := *base.NoiseGateDB
		cfg.NoiseGateDB = &gate
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg Config) error {
	var errs []error

	if cfg.InputPath == "" {
		errs = append(errs, errors.New("input_path is required"))
	}
	if cfg.OutputPath == "" {
		errs = append(errs, errors.New("output_path is required"))
	}
	if cfg.PassbandLowHz < 0 || !finite(cfg.PassbandLowHz) {
		errs = append(errs, fmt.Errorf("passband_low_hz must be >= 0: %v", cfg.PassbandLowHz))
	}
	if cfg.PassbandHighHz <= 0 || !finite(cfg.PassbandHighHz) {
		errs = append(errs, fmt.Errorf("passband_high_hz must be > 0: %v", cfg.PassbandHighHz))
	}
	if cfg.PassbandLowHz > cfg.PassbandHighHz {
		errs = append(errs, fmt.Errorf("passband_low_hz %v exceeds passband_high_hz %v", cfg.PassbandLowHz, cfg.PassbandHighHz))
	}
	if cfg.Gain <= 0 || !finite(cfg.Gain) {
		errs = append(errs, fmt.Errorf("gain must be > 0: %v", cfg.Gain))
	}
	if cfg.NoiseGateDB != nil && math.IsNaN(*cfg.NoiseGateDB) {
		errs = append(errs, errors.New("noise_gate_db must be a number"))
	}
	if _, err := spectrum.ParseBackend(cfg.Backend); err != nil {
		errs = append(errs, fmt.Errorf("backend %q is invalid; valid values: auto, algofft, godsp, gonum", cfg.Backend))
	}
	if _, err := quantize.ParseRounding(cfg.Rounding); err != nil {
		errs = append(errs, fmt.Errorf("rounding %q is invalid; valid values: truncate, nearest", cfg.Rounding))
	}
	if cfg.DitherLSB < 0 || !finite(cfg.DitherLSB) {
		errs = append(errs, fmt.Errorf("dither_lsb must be >= 0: %v", cfg.DitherLSB))
	}
	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.Plots && cfg.PlotDir == "" {
		errs = append(errs, errors.New("plot_dir is required when plots are enabled"))
	}

	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
