// SPDX-License-Identifier: EPL-2.0

package synth

import "github.com/ik5/composer/utils"

// Clip is rendered 16-bit little endian PCM. Playable bytes are
// Buffer[Start:End]; multi-channel clips are interleaved.
type Clip struct {
	Name       string
	Buffer     []byte
	Start      int
	End        int
	SampleRate int
	Channels   int
}

// NewClip serializes samples into a clip covering the whole buffer.
func NewClip(name string, samples []int16, sampleRate, channels int) *Clip {
	buf := utils.AppendInt16LE(make([]byte, 0, len(samples)*2), samples)
	return &Clip{
		Name:       name,
		Buffer:     buf,
		Start:      0,
		End:        len(buf),
		SampleRate: sampleRate,
		Channels:   channels,
	}
}

// Len is the playable length in bytes.
func (c *Clip) Len() int { return c.End - c.Start }

// SampleCount is the number of 16-bit samples across all channels.
func (c *Clip) SampleCount() int { return c.Len() / 2 }

// Duration in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 || c.Channels <= 0 {
		return 0
	}
	return float64(c.SampleCount()/c.Channels) / float64(c.SampleRate)
}

// Samples decodes the playable region.
func (c *Clip) Samples() []int16 {
	return utils.Int16sFromLE(c.Buffer[c.Start:c.End])
}

// Synthesizer renders a parameter set into a clip.
type Synthesizer interface {
	Render(p Params, name string) (*Clip, error)
}

// SynthesizerFunc adapts a function to Synthesizer.
type SynthesizerFunc func(p Params, name string) (*Clip, error)

func (f SynthesizerFunc) Render(p Params, name string) (*Clip, error) {
	return f(p, name)
}
