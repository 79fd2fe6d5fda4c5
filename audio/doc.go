// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives used to bring recorded
// instrument samples into the composer.
//
// # Source Interface
//
// Every decoder in formats/ returns a Source producing interleaved float32
// samples in [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// # Resampling and Repitching
//
// The Resampler converts between sample rates with cubic interpolation.
// NewResampler targets a rate, NewRatioResampler advances by an arbitrary
// number of source frames per output frame, which is how sampled
// instruments are transposed:
//
//	up := audio.NewRatioResampler(audio.NewPCMSource(samples, 44100, 1), 2.0) // one octave up
//
// # Channel Mixing
//
// MonoMixer folds multi-channel sources to mono by averaging. Recordings are
// always stored mono; CollectMono16 runs resample -> mono -> int16 in one call:
//
//	pcm, err := audio.CollectMono16(src, 44100, 4096)
//
// # Format Registry
//
// Registry maps file extensions to decoders:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	dec, ok := reg.ForPath("kick.WAV")
package audio
