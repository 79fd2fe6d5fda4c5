// SPDX-License-Identifier: EPL-2.0

package music

import (
	"math"
	"strconv"
)

// AnchorPitch is the pitch rendered at AnchorFrequency.
const AnchorPitch = 48

// AnchorFrequency is the synthesizer base frequency of AnchorPitch.
const AnchorFrequency = 0.19

// BaseFrequency maps a MIDI-like pitch to the synthesizer's base frequency
// parameter. The parameter is squared by the oscillator, so 24 steps of the
// exponent make one octave of the 12 pitch steps.
func BaseFrequency(pitch int) float64 {
	return math.Pow(2, float64(pitch-AnchorPitch)/24) * AnchorFrequency
}

var noteLetters = [12]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}

// NoteName returns the letter name of a pitch. MIDI 21 is A0 and octaves
// change on C. Pitches below the piano range render as "?n?".
func NoteName(pitch int, includeOctave bool) string {
	if pitch < 21 {
		name := "?" + strconv.Itoa(pitch) + "?"
		if includeOctave {
			return name + "0"
		}
		return name
	}

	letter := noteLetters[(pitch-21)%12]
	if !includeOctave {
		return letter
	}

	octave := 0
	if pitch >= 24 {
		octave = (pitch-24)/12 + 1
	}
	return letter + strconv.Itoa(octave)
}
