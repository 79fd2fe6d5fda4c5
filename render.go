// SPDX-License-Identifier: EPL-2.0

package composer

import (
	"fmt"
	"io"

	"github.com/ik5/composer/formats/wav"
	"github.com/ik5/composer/project"
	"github.com/ik5/composer/synth"
	"github.com/ik5/composer/timeline"
	"github.com/ik5/composer/utils"
)

// Output is a compiled song.
type Output struct {
	// PCM is little endian signed 16-bit, interleaved by channel.
	PCM        []byte
	SampleRate int
	Channels   int
}

// Samples decodes PCM.
func (o Output) Samples() []int16 {
	return utils.Int16sFromLE(o.PCM)
}

// Render builds the timeline of doc and compiles it once. Source clips are
// acquired from p and released before returning.
func Render(doc *project.Document, p timeline.Provider, s synth.Synthesizer, opts ...timeline.Option) (Output, error) {
	tl, err := doc.Build(p, s, opts...)
	if err != nil {
		return Output{}, fmt.Errorf("building %q: %w", doc.Name, err)
	}
	defer tl.Close()

	pcm, err := tl.Buffer()
	if err != nil {
		return Output{}, fmt.Errorf("compiling %q: %w", doc.Name, err)
	}

	return Output{
		PCM:        pcm,
		SampleRate: tl.SampleRate(),
		Channels:   tl.Channels(),
	}, nil
}

// RenderWAV renders doc and writes it to w as a PCM16 WAV file.
func RenderWAV(w io.Writer, doc *project.Document, p timeline.Provider, s synth.Synthesizer, opts ...timeline.Option) error {
	out, err := Render(doc, p, s, opts...)
	if err != nil {
		return err
	}
	return wav.WriteWAV16(w, out.SampleRate, out.Channels, out.Samples())
}
