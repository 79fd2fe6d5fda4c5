// SPDX-License-Identifier: EPL-2.0

package midifile

import (
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

// Resolution is the number of ticks per quarter note written by Export.
const Resolution = 960

// Velocity of exported notes.
const Velocity = 100

type event struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// Export writes the meter, tempo and the notes of every instrument of t.
// Instruments map to channels in id order, wrapping after 16.
func Export(w io.Writer, t *timeline.Timeline) error {
	m := t.Meter()
	ticksPerStep := float64(Resolution) * 4 / float64(m.SmallestStep)
	tick := func(step int) uint32 {
		return uint32(math.Round(float64(step) * ticksPerStep))
	}

	file := smf.New()
	file.TimeFormat = smf.MetricTicks(Resolution)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(m.BeatsPerMeasure, m.BeatUnit))
	tempo.Add(0, smf.MetaTempo(float64(m.BPM)))
	tempo.Close(0)
	if err := file.Add(tempo); err != nil {
		return fmt.Errorf("adding tempo track: %w", err)
	}

	for i, in := range t.Instruments() {
		notes, err := t.NotesForInstrument(in.ID)
		if err != nil {
			return err
		}

		track, err := instrumentTrack(uint8(i%16), notes, m, tick)
		if err != nil {
			return fmt.Errorf("instrument %d: %w", in.ID, err)
		}
		if err := file.Add(track); err != nil {
			return fmt.Errorf("adding instrument %d: %w", in.ID, err)
		}
	}

	_, err := file.WriteTo(w)
	return err
}

func instrumentTrack(channel uint8, notes []timeline.Note, m music.Meter, tick func(int) uint32) (smf.Track, error) {
	events := make([]event, 0, len(notes)*2)
	for _, n := range notes {
		if n.Pitch > 127 {
			return nil, fmt.Errorf("%w: %d", ErrPitchOutOfRange, n.Pitch)
		}
		key := uint8(n.Pitch)
		events = append(events,
			event{tick: tick(n.StartStep(m)), msg: midi.NoteOn(channel, key, Velocity)},
			event{tick: tick(n.EndStep(m)), off: true, msg: midi.NoteOff(channel, key)},
		)
	}

	// releases go before attacks on the same tick
	slices.SortStableFunc(events, func(a, b event) int {
		if c := cmp.Compare(a.tick, b.tick); c != 0 {
			return c
		}
		switch {
		case a.off == b.off:
			return 0
		case a.off:
			return -1
		default:
			return 1
		}
	})

	var (
		track smf.Track
		last  uint32
	)
	for _, ev := range events {
		track.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	track.Close(0)
	return track, nil
}
