// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"bytes"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/ik5/composer/internal/synthtest"
	"github.com/ik5/composer/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_EmptyTimelineIsSilence(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	buf, err := f.tl.Buffer()
	require.NoError(t, err)

	assert.Equal(t, []byte{0, 0}, buf)
	assert.False(t, f.tl.Dirty())
	assert.Equal(t, time.Duration(float64(time.Second)/testRate), f.tl.Duration())
	assert.True(t, f.tl.ConsumeBufferChanged())
	assert.False(t, f.tl.ConsumeBufferChanged())

	id, _ := f.tl.AddInstrument("lead")
	require.NoError(t, f.tl.AddNote(quarter(id, 0, 60)))
	removed, err := f.tl.RemoveNote(id, 0, 60, 0)
	require.NoError(t, err)
	require.True(t, removed)

	buf, err = f.tl.Buffer()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, buf)
}

func TestBuffer_QuarterNoteScenario(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id, err := f.tl.AddInstrument("lead")
	require.NoError(t, err)
	require.NoError(t, f.tl.AddNote(Note{Instrument: id, Beat: 0, Pitch: 60, SubStep: 0, Length: 4}))

	assert.Equal(t, 4, f.tl.StepsPerBeat())
	assert.InDelta(t, 0.125, f.tl.SecondsPerStep(), 1e-12)
	assert.Equal(t, 4, f.tl.StepDuration(4, false))
	assert.Equal(t, 1, f.tl.LongestLengthInBeats())

	buf, err := f.tl.Buffer()
	require.NoError(t, err)

	samplesPerStep := f.tl.Meter().SamplesPerStep(testRate)
	require.Equal(t, 1000, samplesPerStep)

	samples := utils.Int16sFromLE(buf)
	require.Len(t, samples, 4*samplesPerStep+1)

	level := int16(math.Round(DefaultVolume * synthtest.Amplitude))
	for i := range 4 * samplesPerStep {
		if samples[i] != level {
			t.Fatalf("sample %d = %d, want %d", i, samples[i], level)
		}
	}
	assert.Equal(t, int16(0), samples[4*samplesPerStep])

	calls := f.stub.Calls()
	last := calls[len(calls)-1]
	assert.InDelta(t, 0.19*math.Pow(2, 0.5), last.BaseFreq, 1e-12)
	assert.Equal(t, DefaultVolume, last.Volume)
	assert.Equal(t, testRate, last.SampleRate)
	assert.InDelta(t, 0.5, last.Envelope().Duration(testRate), 1e-9)
	assert.Contains(t, f.stub.Names(), "0_60")
}

func TestBuffer_Idempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	lead, _ := f.tl.AddInstrument("lead")
	bass, _ := f.tl.AddInstrument("bass")
	require.NoError(t, f.tl.AddNote(quarter(lead, 0, 60)))
	require.NoError(t, f.tl.AddNote(Note{Instrument: bass, Beat: 0, SubStep: 2, Pitch: 40, Length: 2}))

	first, err := f.tl.Buffer()
	require.NoError(t, err)
	first = bytes.Clone(first)
	renders := f.noteRenders()

	require.NoError(t, f.tl.Recompute())
	second, err := f.tl.Buffer()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, renders, f.noteRenders(), "recompiling reuses cached clips")
}

func TestBuffer_LazyRecompute(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id, _ := f.tl.AddInstrument("lead")
	require.NoError(t, f.tl.AddNote(quarter(id, 0, 60)))
	assert.Equal(t, 0, f.noteRenders(), "mutations do not compile")

	_, err := f.tl.Buffer()
	require.NoError(t, err)
	assert.True(t, f.tl.ConsumeBufferChanged())

	_, err = f.tl.Buffer()
	require.NoError(t, err)
	assert.False(t, f.tl.ConsumeBufferChanged(), "clean buffer is not recompiled")
}

func TestBuffer_CacheReuse(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id, _ := f.tl.AddInstrument("lead")
	require.NoError(t, f.tl.AddNote(quarter(id, 0, 60)))
	require.NoError(t, f.tl.AddNote(quarter(id, 2, 60)))

	_, err := f.tl.Buffer()
	require.NoError(t, err)
	assert.Equal(t, 1, f.noteRenders(), "identical notes share one clip")
	assert.Equal(t, 1, f.tl.CacheLen())

	require.NoError(t, f.tl.SetInstrumentVolume(id, DefaultVolume+1e-9))
	_, err = f.tl.Buffer()
	require.NoError(t, err)
	assert.Equal(t, 2, f.noteRenders(), "any volume change misses the cache")

	require.NoError(t, f.tl.AddNote(Note{Instrument: id, Beat: 3, Pitch: 60, Length: 4, Dotted: true}))
	_, err = f.tl.Buffer()
	require.NoError(t, err)
	assert.Equal(t, 3, f.noteRenders(), "a different duration misses the cache")
	assert.Equal(t, 2, f.tl.CacheLen())
}

func TestBuffer_Normalizes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id, _ := f.tl.AddInstrument("lead")
	require.NoError(t, f.tl.SetInstrumentVolume(id, 1))
	for _, pitch := range []int{60, 64, 67, 72} {
		require.NoError(t, f.tl.AddNote(quarter(id, 0, pitch)))
	}

	buf, err := f.tl.Buffer()
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt16, peakOf(buf))

	// one voice fits without scaling
	g := newFixture(t)
	gid, _ := g.tl.AddInstrument("lead")
	require.NoError(t, g.tl.SetInstrumentVolume(gid, 1))
	require.NoError(t, g.tl.AddNote(quarter(gid, 0, 60)))
	buf, err = g.tl.Buffer()
	require.NoError(t, err)
	assert.Equal(t, synthtest.Amplitude, peakOf(buf))
}

func TestBuffer_FailedRecomputeKeepsState(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id, _ := f.tl.AddInstrument("lead")
	require.NoError(t, f.tl.AddNote(quarter(id, 0, 60)))
	_, err := f.tl.Buffer()
	require.NoError(t, err)
	f.tl.ConsumeBufferChanged()
	duration := f.tl.Duration()

	require.NoError(t, f.tl.AddNote(quarter(id, 4, 62)))
	f.stub.Fail = true

	_, err = f.tl.Buffer()
	assert.ErrorIs(t, err, synthtest.ErrStub)
	assert.True(t, f.tl.Dirty())
	assert.Equal(t, duration, f.tl.Duration())
	assert.False(t, f.tl.ConsumeBufferChanged())

	f.stub.Fail = false
	buf, err := f.tl.Buffer()
	require.NoError(t, err)
	assert.Len(t, buf, (16*1000+4000+1)*2)
}

func TestBuffer_MaxSamples(t *testing.T) {
	t.Parallel()

	f := newFixture(t, WithMaxSamples(4001))
	id, _ := f.tl.AddInstrument("lead")
	require.NoError(t, f.tl.AddNote(quarter(id, 0, 60)))

	buf, err := f.tl.Buffer()
	require.NoError(t, err)
	assert.Len(t, buf, 4001*2)

	require.NoError(t, f.tl.AddNote(quarter(id, 1, 60)))
	_, err = f.tl.Buffer()
	assert.ErrorIs(t, err, ErrTooLong)
	assert.True(t, f.tl.Dirty())
	assert.Len(t, f.tl.buffer, 4001*2, "previous buffer is kept")

	huge := newFixture(t, WithMaxSamples(testRate*60))
	hid, _ := huge.tl.AddInstrument("lead")
	require.NoError(t, huge.tl.AddNote(quarter(hid, 1<<40, 60)))
	_, err = huge.tl.Buffer()
	assert.ErrorIs(t, err, ErrTooLong)
	assert.Zero(t, huge.noteRenders(), "nothing is rendered past the limit")
}

func TestBuffer_StartOffset(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id, _ := f.tl.AddInstrument("lead")
	require.NoError(t, f.tl.AddNote(quarter(id, 0, 60)))
	_, err := f.tl.Buffer()
	require.NoError(t, err)

	require.NoError(t, f.tl.SetInstrumentStartOffset(id, 0.25))
	assert.True(t, f.tl.Dirty())
	assert.Equal(t, 1, f.tl.CacheLen(), "offsets do not evict")

	buf, err := f.tl.Buffer()
	require.NoError(t, err)
	samples := utils.Int16sFromLE(buf)
	require.Len(t, samples, 2000+4000+1)
	assert.Equal(t, int16(0), samples[1999])
	assert.NotEqual(t, int16(0), samples[2000])
}

func TestBuffer_OverlappingVoicesSum(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	lead, _ := f.tl.AddInstrument("lead")
	bass, _ := f.tl.AddInstrument("bass")
	require.NoError(t, f.tl.SetInstrumentVolume(bass, 0.1))
	require.NoError(t, f.tl.AddNote(quarter(lead, 0, 60)))
	require.NoError(t, f.tl.AddNote(Note{Instrument: bass, Beat: 0, SubStep: 2, Pitch: 40, Length: 4}))

	buf, err := f.tl.Buffer()
	require.NoError(t, err)
	s := utils.Int16sFromLE(buf)

	require.Len(t, s, 6001)
	assert.Equal(t, int16(3000), s[1999])
	assert.Equal(t, int16(4000), s[2000])
	assert.Equal(t, int16(4000), s[3999])
	assert.Equal(t, int16(1000), s[4000])
	assert.Equal(t, int16(0), s[6000])
}

func TestBuffer_Stereo(t *testing.T) {
	t.Parallel()

	f := newFixture(t, WithChannels(2))
	id, _ := f.tl.AddInstrument("lead")
	require.NoError(t, f.tl.AddNote(quarter(id, 1, 60)))

	buf, err := f.tl.Buffer()
	require.NoError(t, err)
	s := utils.Int16sFromLE(buf)

	// one step is 2000 interleaved samples, a beat 8000; the trailing
	// silence is padded to a whole frame
	require.Len(t, s, 8000+8000+2)
	assert.Equal(t, int16(0), s[7999])
	assert.Equal(t, int16(3000), s[8000])
	assert.Equal(t, int16(3000), s[8001])
	assert.Equal(t, []int16{0, 0}, s[16000:])

	calls := f.stub.Calls()
	assert.Equal(t, 2, calls[len(calls)-1].Channels)
	assert.Equal(t, time.Duration(float64(16002)*float64(time.Second)/16000), f.tl.Duration())
}

func TestRecompute_Logs(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	log := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f := newFixture(t, WithLogger(log))
	id, _ := f.tl.AddInstrument("lead")
	require.NoError(t, f.tl.AddNote(quarter(id, 0, 60)))
	_, err := f.tl.Buffer()
	require.NoError(t, err)

	assert.Contains(t, out.String(), "compiled timeline")
	assert.Contains(t, out.String(), "rendered note clip")
}
