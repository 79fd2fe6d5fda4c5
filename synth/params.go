// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"fmt"

	"github.com/ik5/composer/envelope"
	"github.com/ik5/composer/music"
)

// Wave is the oscillator shape of a parameter set.
type Wave int

const (
	Square Wave = iota
	Sawtooth
	Sine
	Noise
	// Sample plays Params.Recording repitched to the base frequency.
	Sample
)

var waveNames = [...]string{
	Square:   "square",
	Sawtooth: "sawtooth",
	Sine:     "sine",
	Noise:    "noise",
	Sample:   "sample",
}

func (w Wave) String() string {
	if w >= 0 && int(w) < len(waveNames) {
		return waveNames[w]
	}
	return fmt.Sprintf("Wave(%d)", int(w))
}

func (w Wave) MarshalText() ([]byte, error) {
	if w < 0 || int(w) >= len(waveNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWave, int(w))
	}
	return []byte(waveNames[w]), nil
}

func (w *Wave) UnmarshalText(text []byte) error {
	for i, name := range waveNames {
		if name == string(text) {
			*w = Wave(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownWave, text)
}

// Recording is decoded mono PCM used by the Sample wave.
type Recording struct {
	Samples    []int16
	SampleRate int
}

// Params is a synthesizer parameter set.
//
// Frequencies and envelope values use the encoded form of the parameter set:
// BaseFreq f sounds at 3528*(f*f+0.001) Hz and an envelope value v lasts
// v*v*100000 frames.
type Params struct {
	Wave      Wave    `json:"wave"`
	BaseFreq  float64 `json:"baseFreq"`
	FreqRamp  float64 `json:"freqRamp,omitempty"`
	DutyCycle float64 `json:"dutyCycle,omitempty"`

	VibratoStrength float64 `json:"vibratoStrength,omitempty"`
	VibratoSpeed    float64 `json:"vibratoSpeed,omitempty"`

	EnvAttack  float64 `json:"envAttack"`
	EnvSustain float64 `json:"envSustain"`
	EnvPunch   float64 `json:"envPunch,omitempty"`
	EnvDecay   float64 `json:"envDecay"`

	Volume     float64 `json:"volume"`
	SampleRate int     `json:"sampleRate"`
	Channels   int     `json:"channels"`

	// RootFreq is the encoded frequency at which Recording plays unchanged.
	// Zero means music.AnchorFrequency.
	RootFreq  float64    `json:"rootFreq,omitempty"`
	Recording *Recording `json:"-"`
}

// DefaultParams is a short mono square blip at 44.1kHz.
func DefaultParams() Params {
	return Params{
		Wave:       Square,
		BaseFreq:   music.AnchorFrequency,
		EnvAttack:  0.01,
		EnvSustain: 0.3,
		EnvDecay:   0.4,
		Volume:     0.5,
		SampleRate: 44100,
		Channels:   1,
	}
}

// Envelope returns the attack, sustain and decay values.
func (p Params) Envelope() envelope.Envelope {
	return envelope.Envelope{
		Attack:  p.EnvAttack,
		Sustain: p.EnvSustain,
		Decay:   p.EnvDecay,
	}
}

// SetEnvelope replaces the attack, sustain and decay values.
func (p *Params) SetEnvelope(e envelope.Envelope) {
	p.EnvAttack = e.Attack
	p.EnvSustain = e.Sustain
	p.EnvDecay = e.Decay
}

// Validate checks the fields that would make rendering impossible.
func (p Params) Validate() error {
	switch {
	case p.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidParams, p.SampleRate)
	case p.Channels <= 0:
		return fmt.Errorf("%w: %d channels", ErrInvalidParams, p.Channels)
	case p.EnvAttack < 0 || p.EnvSustain < 0 || p.EnvDecay < 0:
		return fmt.Errorf("%w: negative envelope", ErrInvalidParams)
	case p.Wave < 0 || int(p.Wave) >= len(waveNames):
		return fmt.Errorf("%w: %d", ErrUnknownWave, int(p.Wave))
	case p.Wave == Sample && (p.Recording == nil || p.Recording.SampleRate <= 0):
		return ErrNoRecording
	}
	return nil
}

// FrequencyHz converts an encoded frequency to Hz.
func FrequencyHz(f float64) float64 {
	return 3528 * (f*f + 0.001)
}
