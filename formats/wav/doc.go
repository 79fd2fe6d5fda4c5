// SPDX-License-Identifier: EPL-2.0

// Package wav reads recorded instrument samples from WAV files and writes
// compiled buffers back out, both through github.com/go-audio/wav.
//
// # Supported Formats
//
// Only PCM 16-bit is supported in either direction, mono or interleaved
// multichannel, at any sample rate.
//
// # Decoding
//
// Decoder implements audio.Decoder and is registered for ".wav" in
// clips.DefaultRegistry:
//
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	pcm, err := audio.CollectMono16(src, 44100, src.BufSize())
//
// Samples come out as float32 in [-1, 1].
//
// # Encoding
//
// WriteWAV16 writes interleaved samples to a seekable or plain writer.
// EncodePCM16 takes the little endian byte buffer a timeline compiles to
// and returns a complete file in memory:
//
//	data, err := wav.EncodePCM16(44100, 2, out.PCM)
//
// # Errors
//
//   - ErrNotWavFile: the input is not a RIFF/WAVE container
//   - ErrOnlyPCM16bitSupported: float data or another bit depth
//   - ErrUnsupportedWavLayout: missing or broken fmt chunk
//   - ErrInvalidChannels: a channel count below one when encoding
package wav
