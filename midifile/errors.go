// SPDX-License-Identifier: EPL-2.0

package midifile

import "errors"

var (
	// ErrUnsupportedTimeFormat is returned for SMPTE timed files.
	ErrUnsupportedTimeFormat = errors.New("only metric ticks time format is supported")
	// ErrInvalidFile is returned when the data is not a readable SMF.
	ErrInvalidFile = errors.New("invalid midi file")
	// ErrPitchOutOfRange is returned when a note cannot be stored as a MIDI key.
	ErrPitchOutOfRange = errors.New("pitch out of midi key range")
)
