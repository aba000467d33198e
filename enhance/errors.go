package enhance

import (
	"errors"

	"github.com/cwbudde/algo-voice/dsp/signal"
	"github.com/cwbudde/algo-voice/wavfile"
)

var (
	// ErrFileAccess reports an input or output file that could not be
	// opened, read, created or written.
	ErrFileAccess = wavfile.ErrFileAccess
	// ErrFormat reports an input that is not mono 16-bit PCM WAVE.
	ErrFormat = wavfile.ErrFormat
	// ErrEmptySignal reports an input with no frames or only silence.
	ErrEmptySignal = signal.ErrEmptySignal
	// ErrInvalidOptions reports a configuration rejected before any file is
	// touched.
	ErrInvalidOptions = errors.New("enhance: invalid options")
)
