// SPDX-License-Identifier: EPL-2.0

package project

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/composer/clips"
	"github.com/ik5/composer/envelope"
	"github.com/ik5/composer/internal/synthtest"
	"github.com/ik5/composer/music"
	"github.com/ik5/composer/synth"
	"github.com/ik5/composer/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 8000

func newLibrary(t *testing.T, s synth.Synthesizer) *clips.Library {
	t.Helper()

	lib := clips.NewLibrary(s, clips.WithSampleRate(testRate))
	for _, name := range []string{"lead", "drums"} {
		p := synth.DefaultParams()
		p.SampleRate = testRate
		require.NoError(t, lib.Register(name, p))
	}
	return lib
}

func newSong(t *testing.T, lib *clips.Library, s synth.Synthesizer) *timeline.Timeline {
	t.Helper()

	tl, err := timeline.New(lib, s,
		timeline.WithSampleRate(testRate),
		timeline.WithBPM(90),
		timeline.WithName("Intro"))
	require.NoError(t, err)

	lead, err := tl.AddInstrument("lead")
	require.NoError(t, err)
	drums, err := tl.AddInstrument("drums")
	require.NoError(t, err)

	require.NoError(t, tl.SetInstrumentVolume(drums, 0.8))
	require.NoError(t, tl.SetInstrumentStartOffset(drums, 0.05))
	require.NoError(t, tl.SetInstrumentDurationMode(drums, envelope.None))

	require.NoError(t, tl.AddNote(timeline.Note{Instrument: lead, Beat: 0, Pitch: 60, Length: 4}))
	require.NoError(t, tl.AddNote(timeline.Note{Instrument: lead, Beat: 1, SubStep: 2, Pitch: 64, Length: 8, Dotted: true}))
	require.NoError(t, tl.AddNote(timeline.Note{Instrument: drums, Beat: 2, Pitch: 36, Length: 16}))
	return tl
}

func TestDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	stub := synthtest.NewStub()
	lib := newLibrary(t, stub)
	orig := newSong(t, lib, stub)

	doc := Capture(orig)
	assert.Equal(t, Version, doc.Version)
	assert.NotEqual(t, uuid.Nil, doc.ID)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	loaded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	restored, err := loaded.Build(lib, stub)
	require.NoError(t, err)

	assert.Equal(t, "Intro", restored.Name())
	assert.Equal(t, 90, restored.Meter().BPM)
	assert.Equal(t, orig.Instruments(), restored.Instruments())
	assert.Equal(t, orig.Notes(), restored.Notes())

	want, err := orig.Buffer()
	require.NoError(t, err)
	got, err := restored.Buffer()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDocument_UpdateKeepsID(t *testing.T) {
	t.Parallel()

	stub := synthtest.NewStub()
	tl := newSong(t, newLibrary(t, stub), stub)

	doc := Capture(tl)
	id := doc.ID

	tl.SetName("Verse")
	require.NoError(t, tl.AddNote(timeline.Note{Instrument: 0, Beat: 4, Pitch: 67, Length: 2}))
	doc.Update(tl)

	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "Verse", doc.Name)
	assert.Len(t, doc.Notes, 4)
}

func TestDecode_ZeroBPMUsesDefault(t *testing.T) {
	t.Parallel()

	const src = `{
  "version": 1,
  "name": "old",
  "meter": {"bpm": 0, "smallestStep": 16, "beatsPerMeasure": 3, "beatUnit": 4},
  "instruments": [{"id": 2, "clip": "lead", "volume": 0.5, "startOffset": 0, "durationMode": "sustain"}],
  "notes": [{"instrument": 2, "beat": 1, "pitch": 48, "subStep": 0, "length": 4}]
}`

	doc, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, music.DefaultBPM, doc.Meter.BPM)
	assert.Equal(t, byte(3), doc.Meter.BeatsPerMeasure)
	assert.NotEqual(t, uuid.Nil, doc.ID, "missing ids are generated")
	assert.Equal(t, DefaultSampleRate, doc.SampleRate)
	assert.Equal(t, DefaultChannels, doc.Channels)

	stub := synthtest.NewStub()
	tl, err := doc.Build(newLibrary(t, stub), stub, timeline.WithSampleRate(testRate))
	require.NoError(t, err)

	in, err := tl.Instrument(2)
	require.NoError(t, err)
	assert.Equal(t, envelope.SustainOnly, in.DurationMode)
	assert.Equal(t, 0.5, in.Volume)
	assert.Equal(t, testRate, tl.SampleRate(), "options override stored values")
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader(`{"version": 99}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Decode(strings.NewReader(`{"version": `))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = Decode(strings.NewReader(`{"instruments": [{"id": 0, "clip": "x", "durationMode": "loud"}]}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.ErrorIs(t, err, envelope.ErrUnsupportedMode)
}

func TestDecode_RejectsInvalidTiming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want error
	}{
		{"zero beat unit", `{"meter": {"bpm": 120, "smallestStep": 16, "beatsPerMeasure": 4, "beatUnit": 0}}`, music.ErrInvalidMeter},
		{"coarse grid", `{"meter": {"bpm": 120, "smallestStep": 2, "beatsPerMeasure": 4, "beatUnit": 4}}`, music.ErrInvalidMeter},
		{"zero length", `{"notes": [{"instrument": 0, "beat": 0, "pitch": 60, "length": 0}]}`, music.ErrInvalidNoteLength},
		{"length finer than grid", `{"notes": [{"instrument": 0, "beat": 0, "pitch": 60, "length": 9223372036854775807, "dotted": true}]}`, music.ErrInvalidNoteLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, ErrInvalidDocument)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecode_MissingMeterUsesDefault(t *testing.T) {
	t.Parallel()

	doc, err := Decode(strings.NewReader(`{"notes": [{"instrument": 0, "beat": 3, "pitch": 72, "length": 2}]}`))
	require.NoError(t, err)

	assert.Equal(t, music.DefaultMeter(), doc.Meter)
	assert.Equal(t, 2500*time.Millisecond, doc.Duration())
}

func TestDocument_Duration(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Meter: music.DefaultMeter(),
		Instruments: []timeline.Instrument{
			{ID: 0, Clip: "lead", Settings: timeline.DefaultSettings()},
			{ID: 1, Clip: "drums", Settings: timeline.Settings{Volume: 1, StartOffset: 0.25}},
		},
	}
	assert.Zero(t, doc.Duration())

	doc.Notes = []timeline.Note{
		{Instrument: 0, Beat: 3, Pitch: 72, Length: 2},
		{Instrument: 1, Beat: 4, Pitch: 36, Length: 4},
	}
	// the drum ends on step 20 like the half note, plus its offset
	assert.Equal(t, 2750*time.Millisecond, doc.Duration())

	doc.Meter.BeatUnit = 0
	assert.Zero(t, doc.Duration())
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	stub := synthtest.NewStub()
	lib := newLibrary(t, stub)

	doc := &Document{
		Version:     Version,
		SampleRate:  testRate,
		Channels:    1,
		Meter:       music.DefaultMeter(),
		Instruments: []timeline.Instrument{{ID: 0, Clip: "missing", Settings: timeline.DefaultSettings()}},
	}
	_, err := doc.Build(lib, stub)
	assert.ErrorIs(t, err, clips.ErrUnknownClip)

	doc.Instruments[0].Clip = "lead"
	doc.Notes = []timeline.Note{{Instrument: 5, Pitch: 60, Length: 4}}
	_, err = doc.Build(lib, stub)
	assert.ErrorIs(t, err, timeline.ErrUnknownInstrument)
	assert.Equal(t, 0, lib.Refs("lead"), "failed builds release their handles")
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	stub := synthtest.NewStub()
	doc := Capture(newSong(t, newLibrary(t, stub), stub))

	path := filepath.Join(t.TempDir(), "songs", "intro.json")
	require.NoError(t, doc.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
