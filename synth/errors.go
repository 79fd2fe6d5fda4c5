// SPDX-License-Identifier: EPL-2.0

package synth

import "errors"

var (
	// ErrInvalidParams is returned when a parameter set cannot be rendered.
	ErrInvalidParams = errors.New("invalid synthesizer parameters")

	// ErrNoRecording is returned when a Sample wave has no recording attached.
	ErrNoRecording = errors.New("sample wave without a recording")

	// ErrUnknownWave is returned when decoding an unknown wave name.
	ErrUnknownWave = errors.New("unknown wave shape")
)
