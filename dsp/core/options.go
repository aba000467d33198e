package core

// DefaultSampleRate is the sample rate used when none is configured.
const DefaultSampleRate = 8000

// DefaultBitDepth is the only PCM sample width the pipeline reads and writes.
const DefaultBitDepth = 16

// ProcessorConfig defines the PCM format shared by generators and writers.
type ProcessorConfig struct {
	SampleRate int
	BitDepth   int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns mono 16-bit PCM at 8 kHz.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		BitDepth:   DefaultBitDepth,
	}
}

// WithSampleRate sets the sample rate in Hz.
func WithSampleRate(sampleRate int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBitDepth sets the PCM bit depth.
func WithBitDepth(bits int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if bits >= 2 && bits <= 32 {
			cfg.BitDepth = bits
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
