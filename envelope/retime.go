// SPDX-License-Identifier: EPL-2.0

package envelope

import (
	"fmt"
	"math"
)

// encodingScale relates an encoded envelope value v to its length:
// seconds = v * v * encodingScale / sampleRate.
const encodingScale = 100000.0

// Envelope holds the encoded attack, sustain and decay values of a
// synthesizer parameter set.
type Envelope struct {
	Attack  float64 `json:"attack"`
	Sustain float64 `json:"sustain"`
	Decay   float64 `json:"decay"`
}

// Seconds converts an encoded envelope value to seconds.
func Seconds(value float64, sampleRate int) float64 {
	return value * value * encodingScale / float64(sampleRate)
}

// Encode converts seconds back to an encoded envelope value.
func Encode(seconds float64, sampleRate int) float64 {
	return math.Sqrt(seconds * float64(sampleRate) / encodingScale)
}

// Frames is the number of frames an encoded value lasts at its own rate.
func Frames(value float64) int {
	return int(math.Round(value * value * encodingScale))
}

// Duration is the total length in seconds of all three segments.
func (e Envelope) Duration(sampleRate int) float64 {
	return Seconds(e.Attack, sampleRate) + Seconds(e.Sustain, sampleRate) + Seconds(e.Decay, sampleRate)
}

// Retime fits base to targetSeconds according to mode.
func Retime(base Envelope, targetSeconds float64, sampleRate int, mode Mode) (Envelope, error) {
	switch mode {
	case None:
		return base, nil

	case SustainOnly:
		return Envelope{
			Attack:  base.Attack,
			Sustain: Encode(targetSeconds, sampleRate),
			Decay:   base.Decay,
		}, nil

	case All:
		attack := Seconds(base.Attack, sampleRate)
		sustain := Seconds(base.Sustain, sampleRate)
		decay := Seconds(base.Decay, sampleRate)

		total := attack + sustain + decay
		if total <= 0 {
			return Envelope{}, nil
		}

		return Envelope{
			Attack:  Encode(targetSeconds*attack/total, sampleRate),
			Sustain: Encode(targetSeconds*sustain/total, sampleRate),
			Decay:   Encode(targetSeconds*decay/total, sampleRate),
		}, nil
	}

	return Envelope{}, fmt.Errorf("%w: %d", ErrUnsupportedMode, int(mode))
}
