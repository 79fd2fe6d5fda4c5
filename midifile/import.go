// SPDX-License-Identifier: EPL-2.0

package midifile

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/ik5/composer/music"
	"github.com/ik5/composer/timeline"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Track holds the notes of one file track and channel. Note.Instrument is
// the index of the track in Score.Tracks until the score is applied.
type Track struct {
	Index   int
	Channel uint8
	Notes   []timeline.Note
}

// Score is an imported file.
type Score struct {
	Meter music.Meter
	// HasTempo is false when the file has no tempo event and Meter carries
	// the default tempo.
	HasTempo bool
	Tracks   []Track
	// Dropped counts notes that were never released or would overlap
	// another note of the same key once quantized.
	Dropped int
}

type pending struct {
	start int64
	ok    bool
}

// Import reads a Standard MIDI File. smallestStep sets the grid resolution
// of the resulting meter, zero means the default meter's.
func Import(r io.Reader, smallestStep byte) (score *Score, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// smf may panic on malformed input
	defer func() {
		if rec := recover(); rec != nil {
			score, err = nil, fmt.Errorf("%w: %v", ErrInvalidFile, rec)
		}
	}()

	file, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	ticks, ok := file.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, ErrUnsupportedTimeFormat
	}

	meter := music.DefaultMeter()
	if smallestStep != 0 {
		meter.SmallestStep = smallestStep
	}
	changes := file.TempoChanges()
	if len(changes) > 0 {
		meter.BPM = max(1, int(math.Round(changes[0].BPM)))
	}
	if num, denom, ok := firstMeter(file); ok {
		meter.BeatsPerMeasure = num
		meter.BeatUnit = denom
	}
	if err := meter.Validate(); err != nil {
		return nil, err
	}

	q := quantizer{
		meter:        meter,
		ticksPerStep: float64(ticks) * 4 / float64(meter.SmallestStep),
	}

	score = &Score{Meter: meter, HasTempo: len(changes) > 0}
	for i, events := range file.Tracks {
		tracks, dropped := q.track(i, events)
		score.Tracks = append(score.Tracks, tracks...)
		score.Dropped += dropped
	}

	for i := range score.Tracks {
		for j := range score.Tracks[i].Notes {
			score.Tracks[i].Notes[j].Instrument = i
		}
	}
	return score, nil
}

func firstMeter(file *smf.SMF) (num, denom uint8, ok bool) {
	for _, events := range file.Tracks {
		for _, ev := range events {
			if ev.Message.GetMetaMeter(&num, &denom) {
				return num, denom, true
			}
		}
	}
	return 0, 0, false
}

type quantizer struct {
	meter        music.Meter
	ticksPerStep float64
}

func (q quantizer) step(tick int64) int {
	return int(math.Round(float64(tick) / q.ticksPerStep))
}

// track splits one file track by channel.
func (q quantizer) track(index int, events smf.Track) ([]Track, int) {
	var (
		abs      int64
		dropped  int
		open     = make(map[[2]uint8]pending)
		channels = make(map[uint8]*Track)
	)

	emit := func(channel, key uint8, start, end int64) {
		t, ok := channels[channel]
		if !ok {
			t = &Track{Index: index, Channel: channel}
			channels[channel] = t
		}

		n, ok := q.note(key, start, end)
		if !ok || overlapsAny(n, t.Notes, q.meter) {
			dropped++
			return
		}
		t.Notes = append(t.Notes, n)
	}

	for _, ev := range events {
		abs += int64(ev.Delta)

		var channel, key, velocity uint8
		msg := midi.Message(ev.Message)
		switch {
		case msg.GetNoteStart(&channel, &key, &velocity):
			id := [2]uint8{channel, key}
			if p := open[id]; p.ok {
				emit(channel, key, p.start, abs)
			}
			open[id] = pending{start: abs, ok: true}

		case msg.GetNoteEnd(&channel, &key):
			id := [2]uint8{channel, key}
			if p := open[id]; p.ok {
				emit(channel, key, p.start, abs)
				delete(open, id)
			}
		}
	}
	for _, p := range open {
		if p.ok {
			dropped++
		}
	}

	out := make([]Track, 0, len(channels))
	for _, t := range channels {
		if len(t.Notes) > 0 {
			out = append(out, *t)
		}
	}
	slices.SortFunc(out, func(a, b Track) int {
		return cmp.Compare(a.Channel, b.Channel)
	})
	return out, dropped
}

func (q quantizer) note(key uint8, start, end int64) (timeline.Note, bool) {
	first := q.step(start)
	steps := max(1, q.step(end)-first)

	length, dotted, ok := FitLength(q.meter, steps)
	if !ok {
		return timeline.Note{}, false
	}

	spb := q.meter.StepsPerBeat()
	return timeline.Note{
		Beat:    first / spb,
		SubStep: first % spb,
		Pitch:   int(key),
		Length:  length,
		Dotted:  dotted,
	}, true
}

func overlapsAny(n timeline.Note, notes []timeline.Note, m music.Meter) bool {
	for _, o := range notes {
		if n.Overlaps(o, m) {
			return true
		}
	}
	return false
}

// FitLength returns the note value, plain or dotted, with the most steps not
// exceeding steps. Values finer than the meter's smallest step are not
// considered.
func FitLength(m music.Meter, steps int) (length int, dotted, ok bool) {
	best := 0
	for l := 1; l <= int(m.SmallestStep); l *= 2 {
		for _, dot := range []bool{false, true} {
			if dot && l*2 > int(m.SmallestStep) {
				continue
			}
			n := m.StepDuration(l, dot)
			if n > best && n <= steps {
				best, length, dotted, ok = n, l, dot, true
			}
		}
	}
	return length, dotted, ok
}

// Apply adds one instrument per track to t, all playing clip, and returns
// their ids in track order.
func (s *Score) Apply(t *timeline.Timeline, clip string) ([]int, error) {
	ids := make([]int, 0, len(s.Tracks))
	for _, tr := range s.Tracks {
		id, err := t.AddInstrument(clip)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)

		for _, n := range tr.Notes {
			n.Instrument = id
			if err := t.AddNote(n); err != nil {
				return ids, err
			}
		}
	}
	return ids, nil
}
