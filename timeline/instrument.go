// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"github.com/ik5/composer/clips"
	"github.com/ik5/composer/envelope"
)

// DefaultVolume of a newly registered instrument.
const DefaultVolume = 0.3

// Settings are the per-instrument playback overrides.
type Settings struct {
	Volume float64 `json:"volume"`
	// StartOffset shifts every note of the instrument, in seconds.
	StartOffset  float64       `json:"startOffset"`
	DurationMode envelope.Mode `json:"durationMode"`
}

// DefaultSettings are applied by AddInstrument.
func DefaultSettings() Settings {
	return Settings{
		Volume:       DefaultVolume,
		StartOffset:  0,
		DurationMode: envelope.All,
	}
}

// Instrument is a registered instrument as reported by Instruments.
type Instrument struct {
	ID   int    `json:"id"`
	Clip string `json:"clip"`
	Settings
}

type instrument struct {
	Instrument
	handle *clips.Handle
}

// Provider hands out source clip handles by name.
type Provider interface {
	Acquire(name string) (*clips.Handle, error)
}
