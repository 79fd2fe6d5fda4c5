// SPDX-License-Identifier: EPL-2.0

package timeline

import "errors"

var (
	// ErrUnknownInstrument is returned for operations on an id that is not
	// registered. No state is changed.
	ErrUnknownInstrument = errors.New("unknown instrument")

	// ErrInstrumentExists is returned when restoring an id that is taken.
	ErrInstrumentExists = errors.New("instrument id already registered")

	ErrInvalidPitch      = errors.New("invalid pitch")
	ErrInvalidChannels   = errors.New("invalid channel count")
	ErrInvalidSampleRate = errors.New("invalid sample rate")

	// ErrTooLong is returned by Recompute when the compiled buffer would
	// exceed the limit set with WithMaxSamples.
	ErrTooLong = errors.New("timeline too long")

	// ErrNoteNotFound is returned by ReplaceNote when the old note is absent.
	ErrNoteNotFound = errors.New("note not found")
)
