package wavfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/signal"
)

var (
	// ErrFileAccess reports an input that cannot be read or an output that
	// cannot be written.
	ErrFileAccess = errors.New("file access error")
	// ErrFormat reports a container that is not mono 16-bit PCM WAVE.
	ErrFormat = errors.New("format error")
)

const (
	pcmFormatTag = 1
	numChannels  = 1
	bitDepth     = core.DefaultBitDepth

	bytesPerSample = bitDepth / 8
)

// Format describes the container fields the decoder validated.
type Format struct {
	SampleRate  int
	NumChannels int
	BitDepth    int
	AudioFormat int
}

// Read opens path and decodes it with [Decode].
func Read(path string) (signal.Raw, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return signal.Raw{}, Format{}, fmt.Errorf("wavfile: open %q: %w: %w", path, ErrFileAccess, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return signal.Raw{}, Format{}, fmt.Errorf("wavfile: stat %q: %w: %w", path, ErrFileAccess, err)
	}
	if info.IsDir() {
		return signal.Raw{}, Format{}, fmt.Errorf("wavfile: %q is a directory: %w", path, ErrFileAccess)
	}

	raw, format, err := Decode(f)
	if err != nil {
		return signal.Raw{}, format, fmt.Errorf("wavfile: %q: %w", path, err)
	}
	return raw, format, nil
}

// Decode reads a complete mono 16-bit PCM WAVE stream.
//
// Errors returned by r itself are reported as [ErrFileAccess]; anything the
// decoder rejects is [ErrFormat]. A trailing partial sample in an odd-sized
// data chunk is dropped.
func Decode(r io.ReadSeeker) (signal.Raw, Format, error) {
	src := &trackingReader{r: r}
	dec := wav.NewDecoder(src)
	valid := dec.IsValidFile()
	if src.err != nil {
		return signal.Raw{}, Format{}, fmt.Errorf("read WAVE header: %w: %w", ErrFileAccess, src.err)
	}
	if !valid && (dec.Err() != nil || dec.NumChans == 0 || dec.SampleRate == 0) {
		return signal.Raw{}, Format{}, fmt.Errorf("not a valid WAVE file: %w", ErrFormat)
	}

	format := Format{
		SampleRate:  int(dec.SampleRate),
		NumChannels: int(dec.NumChans),
		BitDepth:    int(dec.BitDepth),
		AudioFormat: int(dec.WavAudioFormat),
	}
	if err := format.validate(); err != nil {
		return signal.Raw{}, format, err
	}
	if !valid {
		// Well-formed header, empty data chunk.
		return signal.Raw{SampleRate: format.SampleRate}, format, nil
	}

	buf, err := dec.FullPCMBuffer()
	if src.err != nil {
		return signal.Raw{}, format, fmt.Errorf("read PCM data: %w: %w", ErrFileAccess, src.err)
	}
	if err != nil {
		return signal.Raw{}, format, fmt.Errorf("read PCM data: %w: %w", ErrFormat, err)
	}

	samples := buf.Data
	if whole := dec.PCMSize / bytesPerSample; dec.PCMSize >= 0 && len(samples) > whole {
		samples = samples[:whole]
	}
	return signal.Raw{SampleRate: format.SampleRate, Samples: samples}, format, nil
}

// trackingReader records the first non-EOF error of the underlying reader,
// which the decoder would otherwise report as a malformed stream.
type trackingReader struct {
	r   io.ReadSeeker
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	t.record(err)
	return n, err
}

// Seek errors are left to the decoder.
func (t *trackingReader) Seek(offset int64, whence int) (int64, error) {
	return t.r.Seek(offset, whence)
}

func (t *trackingReader) record(err error) {
	if err != nil && t.err == nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		t.err = err
	}
}

func (f Format) validate() error {
	var errs []error
	if f.AudioFormat != pcmFormatTag {
		errs = append(errs, fmt.Errorf("audio format tag %d is not PCM", f.AudioFormat))
	}
	if f.NumChannels != numChannels {
		errs = append(errs, fmt.Errorf("%d channels, want mono", f.NumChannels))
	}
	if f.BitDepth != bitDepth {
		errs = append(errs, fmt.Errorf("%d-bit samples, want %d-bit", f.BitDepth, bitDepth))
	}
	if f.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate %d", f.SampleRate))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrFormat, errors.Join(errs...))
}

// Write creates path and encodes raw into it with [Encode].
func Write(path string, raw signal.Raw) error {
	if err := checkRaw(raw); err != nil {
		return fmt.Errorf("wavfile: %q: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavfile: create %q: %w: %w", path, ErrFileAccess, err)
	}

	if err := Encode(f, raw); err != nil {
		_ = f.Close()
		return fmt.Errorf("wavfile: %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("wavfile: close %q: %w: %w", path, ErrFileAccess, err)
	}
	return nil
}

// Encode writes raw as a mono 16-bit PCM WAVE stream. Samples outside the
// 16-bit range are rejected rather than wrapped.
func Encode(w io.WriteSeeker, raw signal.Raw) error {
	if err := checkRaw(raw); err != nil {
		return err
	}

	enc := wav.NewEncoder(w, raw.SampleRate, bitDepth, numChannels, pcmFormatTag)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  raw.SampleRate,
		},
		Data:           raw.Samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		return fmt.Errorf("write PCM data: %w: %w", ErrFileAccess, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize WAVE header: %w: %w", ErrFileAccess, err)
	}
	return nil
}

func checkRaw(raw signal.Raw) error {
	if raw.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0: %d", raw.SampleRate)
	}
	lo, hi := core.IntRange(bitDepth)
	for i, v := range raw.Samples {
		if v < lo || v > hi {
			return fmt.Errorf("sample %d = %d outside [%d, %d]", i, v, lo, hi)
		}
	}
	return nil
}
