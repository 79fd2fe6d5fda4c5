// SPDX-License-Identifier: EPL-2.0

/*
Package mixer sums time positioned clips into a single 16-bit PCM buffer.

# Voices

A Voice places a rendered clip at a sample index of the output. Sample
indices count 16-bit samples, so for interleaved clips a frame occupies
Channels consecutive indices.

# Sweep

Mix walks the output one sample at a time over the set of active voices,
which must be sorted by start. Sums are accumulated in int so concurrent
voices may exceed the 16-bit range. When the largest magnitude seen is
above 32767 every sample is scaled by 32767/peak before narrowing;
otherwise samples are narrowed unchanged.

	voices := []mixer.Voice{
		mixer.NewVoice(0, kick),
		mixer.NewVoice(4410, snare),
	}
	res := mixer.Mix(voices)
	pcm := res.Bytes()
*/
package mixer
