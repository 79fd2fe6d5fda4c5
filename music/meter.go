// SPDX-License-Identifier: EPL-2.0

package music

import "fmt"

// DefaultBPM is the tempo used for new timelines and for stored timelines
// whose tempo is zero.
const DefaultBPM = 120

// Meter defines how musical time maps onto steps.
//
// SmallestStep is the denominator of the finest grid position (16 means the
// grid moves in sixteenth notes) and BeatUnit is the denominator of the note
// that gets one beat.
type Meter struct {
	BPM             int  `json:"bpm"`
	SmallestStep    byte `json:"smallestStep"`
	BeatsPerMeasure byte `json:"beatsPerMeasure"`
	BeatUnit        byte `json:"beatUnit"`
}

// DefaultMeter is 4/4 at 120 BPM on a sixteenth note grid.
func DefaultMeter() Meter {
	return Meter{
		BPM:             DefaultBPM,
		SmallestStep:    16,
		BeatsPerMeasure: 4,
		BeatUnit:        4,
	}
}

// Normalize coerces a zero BPM to DefaultBPM.
func (m Meter) Normalize() Meter {
	if m.BPM == 0 {
		m.BPM = DefaultBPM
	}
	return m
}

// Validate reports whether the meter can be used for time conversion.
func (m Meter) Validate() error {
	switch {
	case m.BPM <= 0:
		return fmt.Errorf("%w: bpm %d", ErrInvalidMeter, m.BPM)
	case m.SmallestStep == 0:
		return fmt.Errorf("%w: smallest step denominator is zero", ErrInvalidMeter)
	case m.BeatUnit == 0:
		return fmt.Errorf("%w: beat unit denominator is zero", ErrInvalidMeter)
	case m.SmallestStep < m.BeatUnit:
		return fmt.Errorf("%w: smallest step 1/%d is coarser than the beat unit 1/%d",
			ErrInvalidMeter, m.SmallestStep, m.BeatUnit)
	}
	return nil
}

// StepsPerBeat is the number of grid steps in one beat.
func (m Meter) StepsPerBeat() int {
	return int(m.SmallestStep) / int(m.BeatUnit)
}

// SecondsPerStep is the duration of one grid step.
func (m Meter) SecondsPerStep() float64 {
	return 60 / float64(m.BPM) / float64(m.StepsPerBeat())
}

// StepDuration returns how many steps a note of length 1/noteLength lasts.
// Dotted notes add half of the base value, both truncated.
func (m Meter) StepDuration(noteLength int, dotted bool) int {
	steps := int(m.SmallestStep) / noteLength
	if dotted {
		steps += int(m.SmallestStep) / (noteLength * 2)
	}
	return steps
}

// StepIndex is the absolute grid position of a beat and sub-beat step.
func (m Meter) StepIndex(beat, subStep int) int {
	return beat*m.StepsPerBeat() + subStep
}

// SamplesPerStep is floor(samplesPerSecond * SecondsPerStep).
func (m Meter) SamplesPerStep(samplesPerSecond int) int {
	return int(float64(samplesPerSecond) * m.SecondsPerStep())
}

// SampleIndex converts a musical position to a sample offset.
func (m Meter) SampleIndex(beat, subStep, samplesPerStep int) int {
	return beat*m.StepsPerBeat()*samplesPerStep + subStep*samplesPerStep
}

// ValidateNoteLength rejects note length denominators that are zero or
// below, and values finer than the smallest step since they last no step.
func (m Meter) ValidateNoteLength(noteLength int) error {
	if noteLength <= 0 || noteLength > int(m.SmallestStep) {
		return fmt.Errorf("%w: 1/%d on a 1/%d grid", ErrInvalidNoteLength, noteLength, m.SmallestStep)
	}
	return nil
}
