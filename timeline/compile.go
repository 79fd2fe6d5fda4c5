// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/ik5/composer/mixer"
)

// silence is the buffer of a timeline without notes.
var silence = []byte{0, 0}

// Buffer returns the compiled little endian PCM16 buffer, compiling first
// when the timeline is Dirty. The returned slice is shared and must not be
// modified.
func (t *Timeline) Buffer() ([]byte, error) {
	if t.state == Dirty {
		if err := t.Recompute(); err != nil {
			return nil, err
		}
	}
	return t.buffer, nil
}

// Recompute compiles the buffer now. On failure the previous buffer,
// timing and state are kept.
func (t *Timeline) Recompute() error {
	samplesPerSecond := t.sampleRate * t.channels

	if len(t.notes) == 0 {
		t.commit(silence, samplesPerSecond)
		return nil
	}

	if err := t.meter.Validate(); err != nil {
		return err
	}

	voices, err := t.schedule(samplesPerSecond)
	if err != nil {
		return err
	}

	res := mixer.Mix(voices)
	t.log.Debug("compiled timeline",
		"notes", len(t.notes),
		"voices", len(voices),
		"samples", len(res.Samples),
		"peak", res.Peak,
		"normalized", res.Normalized)

	t.commit(t.padFrame(res.Bytes()), samplesPerSecond)
	return nil
}

// padFrame extends the trailing silence of pcm to a whole frame.
func (t *Timeline) padFrame(pcm []byte) []byte {
	rem := len(pcm) / mixer.BytesPerSample % t.channels
	if rem == 0 {
		return pcm
	}
	return append(pcm, make([]byte, (t.channels-rem)*mixer.BytesPerSample)...)
}

// schedule places every note on the output, sorted by start sample.
// Positions are truncated to whole frames so interleaved channels stay
// aligned.
func (t *Timeline) schedule(samplesPerSecond int) ([]mixer.Voice, error) {
	samplesPerStep := t.frameAlign(t.meter.SamplesPerStep(samplesPerSecond))
	secondsPerStep := t.meter.SecondsPerStep()

	voices := make([]mixer.Voice, 0, len(t.notes))
	for _, n := range t.notes {
		inst, err := t.lookup(n.Instrument)
		if err != nil {
			return nil, err
		}

		offset := t.frameAlign(int(float64(samplesPerSecond) * inst.StartOffset))
		steps := n.Steps(t.meter)
		end := (float64(n.Beat)*float64(t.meter.StepsPerBeat()) + float64(n.SubStep+steps)) * float64(samplesPerStep)
		if err := t.checkLength(end + float64(offset)); err != nil {
			return nil, fmt.Errorf("note %+v: %w", n, err)
		}
		start := t.meter.SampleIndex(n.Beat, n.SubStep, samplesPerStep) + offset

		clip, err := t.clipFor(inst, n.Pitch, steps, secondsPerStep)
		if err != nil {
			return nil, fmt.Errorf("compiling note %+v: %w", n, err)
		}
		v := mixer.NewVoice(start, clip)
		if err := t.checkLength(float64(v.End())); err != nil {
			return nil, fmt.Errorf("note %+v: %w", n, err)
		}
		voices = append(voices, v)
	}

	slices.SortStableFunc(voices, func(a, b mixer.Voice) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return voices, nil
}

// checkLength is computed in floating point so huge beats fail instead of
// wrapping around.
func (t *Timeline) checkLength(samples float64) error {
	if t.maxSamples > 0 && samples+1 > float64(t.maxSamples) {
		return fmt.Errorf("%w: %.0f samples, limit %d", ErrTooLong, samples+1, t.maxSamples)
	}
	return nil
}

func (t *Timeline) frameAlign(samples int) int {
	return samples - samples%t.channels
}

func (t *Timeline) commit(buf []byte, samplesPerSecond int) {
	samples := len(buf) / mixer.BytesPerSample

	t.buffer = buf
	t.start = 0
	t.duration = time.Duration(float64(samples) * float64(time.Second) / float64(samplesPerSecond))
	t.end = t.duration
	t.state = Clean
	t.bufferChanged = true
}
