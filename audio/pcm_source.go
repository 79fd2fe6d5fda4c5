// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"

	"github.com/ik5/composer/utils"
)

// PCMSource exposes interleaved 16-bit samples held in memory as a Source.
type PCMSource struct {
	samples    []int16
	sampleRate int
	channels   int
	pos        int
}

func NewPCMSource(samples []int16, sampleRate, channels int) *PCMSource {
	return &PCMSource{
		samples:    samples,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

func (p *PCMSource) SampleRate() int { return p.sampleRate }
func (p *PCMSource) Channels() int   { return p.channels }
func (p *PCMSource) BufSize() int    { return 4096 }
func (p *PCMSource) Close() error    { return nil }

func (p *PCMSource) ReadSamples(dst []float32) (int, error) {
	if p.pos >= len(p.samples) {
		return 0, io.EOF
	}

	n := min(len(dst)/p.channels*p.channels, len(p.samples)-p.pos)
	for i := range n {
		dst[i] = utils.Int16ToFloat32(p.samples[p.pos+i])
	}
	p.pos += n

	if p.pos >= len(p.samples) {
		return n, io.EOF
	}
	return n, nil
}
