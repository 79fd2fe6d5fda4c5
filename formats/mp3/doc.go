// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 recordings with github.com/hajimehoshi/go-mp3.
//
// # Output Format
//
// The decoder always produces interleaved stereo float32 samples in
// [-1, 1] at the rate stored in the file, typically 44.1 or 48 kHz. Mono
// files are duplicated into both channels.
//
// # Usage
//
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 44100))
//
// The clip library does this through audio.CollectMono16 when a preset
// points at an ".mp3" recording.
//
// # Limitations
//
// Decoding only. Frames are decoded whole, so a read may block until the
// next frame is available from the underlying reader.
package mp3
