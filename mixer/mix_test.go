// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"slices"
	"testing"

	"github.com/ik5/composer/synth"
	"github.com/ik5/composer/utils"
)

func clipOf(samples ...int16) *synth.Clip {
	return synth.NewClip("test", samples, 8000, 1)
}

func constant(n int, v int16) *synth.Clip {
	s := make([]int16, n)
	for i := range s {
		s[i] = v
	}
	return clipOf(s...)
}

func TestVoice_SampleAt(t *testing.T) {
	t.Parallel()

	v := NewVoice(10, clipOf(1, 2, 3))

	if _, st := v.SampleAt(9); st != NotStarted {
		t.Errorf("SampleAt(9) state = %v, want not started", st)
	}
	if s, st := v.SampleAt(11); st != Playing || s != 2 {
		t.Errorf("SampleAt(11) = (%d, %v), want (2, playing)", s, st)
	}
	if _, st := v.SampleAt(13); st != Finished {
		t.Errorf("SampleAt(13) state = %v, want finished", st)
	}
	if v.End() != 13 {
		t.Errorf("End() = %d, want 13", v.End())
	}
}

func TestVoice_HonorsClipBounds(t *testing.T) {
	t.Parallel()

	c := clipOf(100, 7, 8, 9, 100)
	c.Start = 2
	c.End = 8

	v := NewVoice(0, c)
	var got []int16
	for i := range 4 {
		s, st := v.SampleAt(i)
		if st != Playing {
			break
		}
		got = append(got, s)
	}
	if !slices.Equal(got, []int16{7, 8, 9}) {
		t.Errorf("samples = %v, want [7 8 9]", got)
	}
}

func TestMix_SingleVoice(t *testing.T) {
	t.Parallel()

	res := Mix([]Voice{NewVoice(0, clipOf(1, -2, 3))})
	if !slices.Equal(res.Samples, []int16{1, -2, 3, 0}) {
		t.Errorf("Samples = %v, want [1 -2 3 0]", res.Samples)
	}
	if res.Peak != 3 || res.Normalized {
		t.Errorf("Peak = %d Normalized = %v, want 3 false", res.Peak, res.Normalized)
	}
}

func TestMix_OverlapAddsAndGapsAreSilent(t *testing.T) {
	t.Parallel()

	res := Mix([]Voice{
		NewVoice(0, clipOf(1, 1, 1)),
		NewVoice(2, clipOf(10, 10)),
		NewVoice(6, clipOf(5)),
	})

	want := []int16{1, 1, 11, 10, 0, 0, 5, 0}
	if !slices.Equal(res.Samples, want) {
		t.Errorf("Samples = %v, want %v", res.Samples, want)
	}
}

func TestMix_LaterVoiceOutlastsEarlier(t *testing.T) {
	t.Parallel()

	res := Mix([]Voice{
		NewVoice(0, clipOf(1, 1)),
		NewVoice(0, clipOf(2, 2, 2, 2)),
		NewVoice(1, clipOf(4)),
	})

	want := []int16{3, 7, 2, 2, 0}
	if !slices.Equal(res.Samples, want) {
		t.Errorf("Samples = %v, want %v", res.Samples, want)
	}
}

func TestMix_LeadingSilence(t *testing.T) {
	t.Parallel()

	res := Mix([]Voice{NewVoice(3, clipOf(9))})
	if !slices.Equal(res.Samples, []int16{0, 0, 0, 9, 0}) {
		t.Errorf("Samples = %v", res.Samples)
	}
}

func TestMix_Normalizes(t *testing.T) {
	t.Parallel()

	res := Mix([]Voice{
		NewVoice(0, constant(100, 30000)),
		NewVoice(50, constant(100, 30000)),
	})

	if !res.Normalized || res.Peak != 60000 {
		t.Fatalf("Peak = %d Normalized = %v, want 60000 true", res.Peak, res.Normalized)
	}

	peak := 0
	for _, s := range res.Samples {
		peak = max(peak, utils.Abs(int(s)))
	}
	if peak != math.MaxInt16 {
		t.Errorf("post-normalization peak = %d, want %d", peak, math.MaxInt16)
	}
	if res.Samples[0] != int16(30000*32767/60000) {
		t.Errorf("Samples[0] = %d, want relative level kept", res.Samples[0])
	}
}

func TestMix_NegativePeak(t *testing.T) {
	t.Parallel()

	res := Mix([]Voice{
		NewVoice(0, constant(4, -20000)),
		NewVoice(0, constant(4, -20000)),
	})

	if res.Peak != 40000 {
		t.Errorf("Peak = %d, want 40000", res.Peak)
	}
	if len(res.Samples) != 5 {
		t.Fatalf("len(Samples) = %d, want 5", len(res.Samples))
	}
	for i, s := range res.Samples[:4] {
		if s != -math.MaxInt16 {
			t.Errorf("Samples[%d] = %d, want %d", i, s, -math.MaxInt16)
		}
	}
}

func TestMix_TrailingSample(t *testing.T) {
	t.Parallel()

	// the step on which the last voice reports finished is still emitted
	res := Mix([]Voice{NewVoice(0, constant(10, 1))})
	if len(res.Samples) != 11 || res.Samples[10] != 0 {
		t.Errorf("Samples = %v, want 10 ones and a trailing zero", res.Samples)
	}
}

func TestMix_Empty(t *testing.T) {
	t.Parallel()

	res := Mix(nil)
	if len(res.Samples) != 0 {
		t.Errorf("Samples = %v, want empty", res.Samples)
	}
}

func TestResult_BytesLittleEndian(t *testing.T) {
	t.Parallel()

	b := Result{Samples: []int16{1, -2}}.Bytes()
	want := []byte{0x01, 0x00, 0xfe, 0xff}
	if !slices.Equal(b, want) {
		t.Errorf("Bytes() = %x, want %x", b, want)
	}
}

func TestMix_Idempotent(t *testing.T) {
	t.Parallel()

	voices := []Voice{
		NewVoice(0, constant(40, 20000)),
		NewVoice(10, constant(40, 20000)),
	}
	a := Mix(voices).Bytes()
	b := Mix(voices).Bytes()
	if !slices.Equal(a, b) {
		t.Error("mixing the same voices twice differs")
	}
}
