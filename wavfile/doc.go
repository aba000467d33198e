// Package wavfile reads and writes the one container format the enhancer
// accepts: RIFF/WAVE, PCM, mono, 16-bit signed samples.
//
// Failures are classified with two sentinels. [ErrFileAccess] covers files
// that cannot be opened, created or written; [ErrFormat] covers anything the
// decoder rejects. Both are wrapped, so errors.Is also matches the
// underlying *fs.PathError where there is one.
package wavfile
