// SPDX-License-Identifier: EPL-2.0

package music

import "errors"

var (
	// ErrInvalidMeter is returned for a meter that would divide by zero when
	// converting musical time to samples.
	ErrInvalidMeter = errors.New("invalid meter configuration")

	// ErrInvalidNoteLength is returned for a note length denominator of zero
	// or below, or one finer than the meter's smallest step.
	ErrInvalidNoteLength = errors.New("invalid note length")
)
