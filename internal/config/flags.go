package config

import "flag"

// Flags binds the command-line flags of the voiceenhance command.
type Flags struct {
	fs         *flag.FlagSet
	configPath string
	values     Config
	noiseGate  float64
	logLevel   string
}

// RegisterFlags defines the flags on fs. Flag defaults mirror [Defaults]; a
// flag only overrides the file configuration when it is set explicitly.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	d := Defaults()
	f := &Flags{fs: fs}

	fs.StringVar(&f.configPath, "config", "", "optional YAML configuration file")
	fs.StringVar(&f.values.InputPath, "input", d.InputPath, "input WAVE file (mono, 16-bit PCM)")
	fs.StringVar(&f.values.OutputPath, "output", d.OutputPath, "output WAVE file")
	fs.Float64Var(&f.values.PassbandLowHz, "low", d.PassbandLowHz, "passband lower edge in Hz")
	fs.Float64Var(&f.values.PassbandHighHz, "high", d.PassbandHighHz, "passband upper edge in Hz")
	fs.Float64Var(&f.values.Gain, "gain", d.Gain, "linear passband gain")
	fs.Float64Var(&f.noiseGate, "noise-gate-db", 0, "zero in-band bins below this level in dB (disabled unless set)")
	fs.StringVar(&f.values.Backend, "backend", d.Backend, "transform backend: auto, algofft, godsp, gonum")
	fs.StringVar(&f.values.Rounding, "rounding", d.Rounding, "output rounding: truncate, nearest")
	fs.Float64Var(&f.values.DitherLSB, "dither", d.DitherLSB, "triangular dither peak amplitude in LSB (0 disables)")
	fs.Uint64Var(&f.values.DitherSeed, "dither-seed", d.DitherSeed, "dither noise seed")
	fs.BoolVar(&f.values.Plots, "plots", d.Plots, "write diagnostic SVG plots")
	fs.StringVar(&f.values.PlotDir, "plot-dir", d.PlotDir, "directory for diagnostic plots")
	fs.StringVar(&f.logLevel, "log-level", string(d.LogLevel), "log level: debug, info, warn, error")
	return f
}

// ConfigPath returns the -config value.
func (f *Flags) ConfigPath() string { return f.configPath }

// Apply copies every explicitly set flag into cfg. Call it after Parse.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "input":
			cfg.InputPath = f.values.InputPath
		case "output":
			cfg.OutputPath = f.values.OutputPath
		case "low":
			cfg.PassbandLowHz = f.values.PassbandLowHz
		case "high":
			cfg.PassbandHighHz = f.values.PassbandHighHz
		case "gain":
			cfg.Gain = f.values.Gain
		case "noise-gate-db":
			gate := f.noiseGate
			cfg.NoiseGateDB = &gate
		case "backend":
			cfg.Backend = f.values.Backend
		case "rounding":
			cfg.Rounding = f.values.Rounding
		case "dither":
			cfg.DitherLSB = f.values.DitherLSB
		case "dither-seed":
			cfg.DitherSeed = f.values.DitherSeed
		case "plots":
			cfg.Plots = f.values.Plots
		case "plot-dir":
			cfg.PlotDir = f.values.PlotDir
		case "log-level":
			cfg.LogLevel = LogLevel(f.logLevel)
		}
	})
}

// Resolve builds the effective configuration: defaults, then the -config
// file when given, then explicitly set flags. The result is validated.
func (f *Flags) Resolve() (Config, error) {
	cfg := Defaults()
	if f.configPath != "" {
		var err error
		if cfg, err = Load(f.configPath, cfg); err != nil {
			return Config{}, err
		}
	}
	f.Apply(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
