// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"github.com/ik5/composer/synth"
	"github.com/ik5/composer/utils"
)

// BytesPerSample of every clip and of the mixed output.
const BytesPerSample = 2

// State of a voice at an output index.
type State int

const (
	NotStarted State = iota
	Playing
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Voice is a clip scheduled at Start on the output timeline.
type Voice struct {
	Start int
	Clip  *synth.Clip

	offset  int
	samples int
}

func NewVoice(start int, clip *synth.Clip) Voice {
	return Voice{
		Start:   start,
		Clip:    clip,
		offset:  clip.Start,
		samples: clip.Len() / BytesPerSample,
	}
}

// End is the first output index past the voice.
func (v Voice) End() int { return v.Start + v.samples }

// SampleAt reads the voice at output index i.
func (v Voice) SampleAt(i int) (int16, State) {
	if i < v.Start {
		return 0, NotStarted
	}
	if i >= v.Start+v.samples {
		return 0, Finished
	}
	return utils.ReadInt16LE(v.Clip.Buffer, (i-v.Start)*BytesPerSample+v.offset), Playing
}
