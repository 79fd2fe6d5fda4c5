// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/composer/utils"
)

// WriteWAV16 writes interleaved 16-bit samples as a PCM WAV file.
// The encoder patches chunk sizes on Close, so w is buffered in memory
// unless it can seek.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	if ws, ok := w.(io.WriteSeeker); ok {
		return encode(ws, sampleRate, channels, samples)
	}

	var mem memFile
	if err := encode(&mem, sampleRate, channels, samples); err != nil {
		return err
	}
	if _, err := w.Write(mem.data); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// EncodePCM16 wraps a little endian PCM16 buffer in a WAV container.
func EncodePCM16(sampleRate, channels int, pcm []byte) ([]byte, error) {
	var mem memFile
	if err := WriteWAV16(&mem, sampleRate, channels, utils.Int16sFromLE(pcm)); err != nil {
		return nil, err
	}
	return mem.data, nil
}

func encode(ws io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	enc := wav.NewEncoder(ws, sampleRate, 16, channels, formatPCM)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing wav: %w", err)
	}
	return nil
}

// memFile is an in-memory io.WriteSeeker.
type memFile struct {
	data []byte
	pos  int
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.data) {
		m.data = append(m.data, make([]byte, end-len(m.data))...)
	}
	n := copy(m.data[m.pos:], p)
	m.pos += n
	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(m.pos) + offset
	case io.SeekEnd:
		pos = int64(len(m.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if pos < 0 {
		return 0, errors.New("negative position")
	}
	m.pos = int(pos)
	return pos, nil
}
