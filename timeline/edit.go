// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"fmt"
	"slices"

	"github.com/ik5/composer/envelope"
	"github.com/ik5/composer/music"
	"github.com/ik5/composer/utils"
)

func (t *Timeline) lookup(id int) (*instrument, error) {
	inst, ok := t.instruments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownInstrument, id)
	}
	return inst, nil
}

func (t *Timeline) freeID() int {
	id := 0
	for {
		if _, ok := t.instruments[id]; !ok {
			return id
		}
		id++
	}
}

// AddInstrument registers the source clip named clip with DefaultSettings and
// returns its id, the lowest id not in use.
func (t *Timeline) AddInstrument(clip string) (int, error) {
	h, err := t.provider.Acquire(clip)
	if err != nil {
		return 0, fmt.Errorf("adding instrument: %w", err)
	}

	id := t.freeID()
	t.instruments[id] = &instrument{
		Instrument: Instrument{ID: id, Clip: clip, Settings: DefaultSettings()},
		handle:     h,
	}
	t.markDirty()
	return id, nil
}

// RestoreInstrument registers an instrument under a fixed id, as stored in a
// saved song.
func (t *Timeline) RestoreInstrument(in Instrument) error {
	if in.ID < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownInstrument, in.ID)
	}
	if _, ok := t.instruments[in.ID]; ok {
		return fmt.Errorf("%w: %d", ErrInstrumentExists, in.ID)
	}
	if !in.DurationMode.Valid() {
		return fmt.Errorf("instrument %d: %w: %d", in.ID, envelope.ErrUnsupportedMode, int(in.DurationMode))
	}

	h, err := t.provider.Acquire(in.Clip)
	if err != nil {
		return fmt.Errorf("restoring instrument %d: %w", in.ID, err)
	}

	in.Volume = utils.Clamp(in.Volume, 0, 1)
	t.instruments[in.ID] = &instrument{Instrument: in, handle: h}
	t.markDirty()
	return nil
}

// RemoveInstrument drops the instrument, its notes and its cached clips.
func (t *Timeline) RemoveInstrument(id int) error {
	inst, err := t.lookup(id)
	if err != nil {
		return err
	}

	t.notes = slices.DeleteFunc(t.notes, func(n Note) bool { return n.Instrument == id })
	t.cache.evict(id)
	t.releaseHandle(inst)
	delete(t.instruments, id)
	t.markDirty()
	return nil
}

// Instrument returns a copy of a registered instrument.
func (t *Timeline) Instrument(id int) (Instrument, error) {
	inst, err := t.lookup(id)
	if err != nil {
		return Instrument{}, err
	}
	return inst.Instrument, nil
}

// Instruments returns copies of all instruments ordered by id.
func (t *Timeline) Instruments() []Instrument {
	out := make([]Instrument, 0, len(t.instruments))
	for _, inst := range t.instruments {
		out = append(out, inst.Instrument)
	}
	slices.SortFunc(out, func(a, b Instrument) int { return a.ID - b.ID })
	return out
}

// SetInstrumentVolume clamps v to [0, 1]. Setting the current volume again
// is a no-op and keeps the cache.
func (t *Timeline) SetInstrumentVolume(id int, v float64) error {
	inst, err := t.lookup(id)
	if err != nil {
		return err
	}

	v = utils.Clamp(v, 0, 1)
	if v == inst.Volume {
		return nil
	}
	inst.Volume = v
	t.cache.evict(id)
	t.markDirty()
	return nil
}

// ChangeInstrumentClip swaps the source clip, keeping the notes.
func (t *Timeline) ChangeInstrumentClip(id int, clip string) error {
	inst, err := t.lookup(id)
	if err != nil {
		return err
	}

	h, err := t.provider.Acquire(clip)
	if err != nil {
		return fmt.Errorf("changing instrument %d clip: %w", id, err)
	}

	t.cache.evict(id)
	t.releaseHandle(inst)
	inst.handle = h
	inst.Clip = clip
	t.markDirty()
	return nil
}

// SetInstrumentStartOffset shifts every note of the instrument by seconds.
// Rendered clips do not depend on the offset, so the cache is kept.
func (t *Timeline) SetInstrumentStartOffset(id int, seconds float64) error {
	inst, err := t.lookup(id)
	if err != nil {
		return err
	}

	inst.StartOffset = seconds
	t.markDirty()
	return nil
}

// SetInstrumentDurationMode changes how clips are fitted to note lengths.
func (t *Timeline) SetInstrumentDurationMode(id int, mode envelope.Mode) error {
	inst, err := t.lookup(id)
	if err != nil {
		return err
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", envelope.ErrUnsupportedMode, int(mode))
	}
	if mode == inst.DurationMode {
		return nil
	}

	inst.DurationMode = mode
	t.cache.evict(id)
	t.markDirty()
	return nil
}

// SetMeter replaces the meter. Rendered durations depend on the tempo, so
// the whole cache is cleared. A grid too coarse for a stored note length is
// rejected.
func (t *Timeline) SetMeter(m music.Meter) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m == t.meter {
		return nil
	}
	for _, n := range t.notes {
		if err := m.ValidateNoteLength(n.Length); err != nil {
			return fmt.Errorf("note %+v: %w", n, err)
		}
	}

	t.meter = m
	t.cache.clear()
	t.markDirty()
	return nil
}

// SetBPM changes the tempo of the meter.
func (t *Timeline) SetBPM(bpm int) error {
	m := t.meter
	m.BPM = bpm
	return t.SetMeter(m)
}

func (t *Timeline) validateNote(n Note) error {
	if _, err := t.lookup(n.Instrument); err != nil {
		return err
	}
	if err := t.meter.ValidateNoteLength(n.Length); err != nil {
		return err
	}
	if n.Pitch < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPitch, n.Pitch)
	}
	return nil
}

// AddNote appends a note. Overlaps are not rejected; see WouldOverlap.
func (t *Timeline) AddNote(n Note) error {
	if err := t.validateNote(n); err != nil {
		return err
	}

	t.notes = append(t.notes, n)
	t.markDirty()
	return nil
}

// RemoveNote removes the first note at the given position and reports
// whether one was found.
func (t *Timeline) RemoveNote(instrument, beat, pitch, subStep int) (bool, error) {
	if _, err := t.lookup(instrument); err != nil {
		return false, err
	}

	i := slices.IndexFunc(t.notes, func(n Note) bool {
		return n.samePosition(instrument, beat, pitch, subStep)
	})
	if i < 0 {
		return false, nil
	}

	t.notes = slices.Delete(t.notes, i, i+1)
	t.markDirty()
	return true, nil
}

// ReplaceNote swaps the first note equal to old for updated.
func (t *Timeline) ReplaceNote(old, updated Note) error {
	if err := t.validateNote(updated); err != nil {
		return err
	}

	i := slices.Index(t.notes, old)
	if i < 0 {
		return fmt.Errorf("%w: %+v", ErrNoteNotFound, old)
	}

	t.notes[i] = updated
	t.markDirty()
	return nil
}

// TransposeNote moves n by delta pitch steps and returns the new note.
func (t *Timeline) TransposeNote(n Note, delta int) (Note, error) {
	moved := n
	moved.Pitch += delta
	if err := t.ReplaceNote(n, moved); err != nil {
		return Note{}, err
	}
	return moved, nil
}

// ShiftAllNotesForInstrument transposes every note of an instrument by
// delta. Either all notes move or, when one would drop below pitch 0, none.
func (t *Timeline) ShiftAllNotesForInstrument(id, delta int) error {
	if _, err := t.lookup(id); err != nil {
		return err
	}

	for _, n := range t.notes {
		if n.Instrument == id && n.Pitch+delta < 0 {
			return fmt.Errorf("%w: %d shifted by %d", ErrInvalidPitch, n.Pitch, delta)
		}
	}

	for i := range t.notes {
		if t.notes[i].Instrument == id {
			t.notes[i].Pitch += delta
		}
	}
	t.cache.evict(id)
	t.markDirty()
	return nil
}

// Notes returns a copy of every note in insertion order.
func (t *Timeline) Notes() []Note {
	return slices.Clone(t.notes)
}

// NotesForInstrument returns copies of the notes of one instrument.
func (t *Timeline) NotesForInstrument(id int) ([]Note, error) {
	if _, err := t.lookup(id); err != nil {
		return nil, err
	}

	var out []Note
	for _, n := range t.notes {
		if n.Instrument == id {
			out = append(out, n)
		}
	}
	return out, nil
}

// WouldOverlap reports whether n would sound together with an existing note
// of the same instrument and pitch. Other pitches never conflict.
func (t *Timeline) WouldOverlap(n Note) (bool, error) {
	if _, err := t.lookup(n.Instrument); err != nil {
		return false, err
	}
	if err := t.meter.ValidateNoteLength(n.Length); err != nil {
		return false, err
	}

	for _, o := range t.notes {
		if n.Overlaps(o, t.meter) {
			return true, nil
		}
	}
	return false, nil
}

// LongestLengthInBeats is the number of beats needed to hold every note,
// rounding a partial last beat up. Zero for an empty timeline.
func (t *Timeline) LongestLengthInBeats() int {
	last := 0
	for _, n := range t.notes {
		last = max(last, n.EndStep(t.meter))
	}

	spb := t.meter.StepsPerBeat()
	return (last + spb - 1) / spb
}
