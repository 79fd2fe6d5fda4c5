// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis recordings with
// github.com/jfreymuth/oggvorbis.
//
// # Output Format
//
// Samples are interleaved float32 in [-1, 1] with the channel count and
// sample rate of the stream.
//
// # Usage
//
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	pcm, err := audio.CollectMono16(src, 44100, src.BufSize())
//
// Decoder is registered for ".ogg" in clips.DefaultRegistry.
//
// # Limitations
//
// Decoding only. Recordings are read through to the end of the stream,
// so long files are best trimmed before use as a clip.
package vorbis
