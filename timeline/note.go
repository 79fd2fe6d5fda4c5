// SPDX-License-Identifier: EPL-2.0

package timeline

import "github.com/ik5/composer/music"

// Note is a single placed note. Length is the note value denominator
// (4 for a quarter note).
type Note struct {
	Instrument int  `json:"instrument"`
	Beat       int  `json:"beat"`
	Pitch      int  `json:"pitch"`
	SubStep    int  `json:"subStep"`
	Length     int  `json:"length"`
	Dotted     bool `json:"dotted,omitempty"`
}

// StartStep is the absolute grid step the note starts at.
func (n Note) StartStep(m music.Meter) int {
	return m.StepIndex(n.Beat, n.SubStep)
}

// Steps is the note duration in grid steps.
func (n Note) Steps(m music.Meter) int {
	return m.StepDuration(n.Length, n.Dotted)
}

// EndStep is the first step after the note.
func (n Note) EndStep(m music.Meter) int {
	return n.StartStep(m) + n.Steps(m)
}

// Overlaps reports whether two notes of the same instrument and pitch
// sound at the same time.
func (n Note) Overlaps(o Note, m music.Meter) bool {
	if n.Instrument != o.Instrument || n.Pitch != o.Pitch {
		return false
	}
	return max(n.StartStep(m), o.StartStep(m)) < min(n.EndStep(m), o.EndStep(m))
}

// samePosition matches the identity used by RemoveNote.
func (n Note) samePosition(instrument, beat, pitch, subStep int) bool {
	return n.Instrument == instrument && n.Beat == beat && n.Pitch == pitch && n.SubStep == subStep
}
