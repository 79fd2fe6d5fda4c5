// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/composer/utils"
)

// Resampler streams from src at a different speed using cubic interpolation.
// Works on interleaved samples; preserves channel count. A one-pole low-pass
// filter is applied when the source is read faster than real time.
type Resampler struct {
	src      Source
	dstRate  float64
	step     float64 // source frames consumed per output frame
	channels int

	// window of 4 frames: t-1, t0, t+1, t+2. Slots past the end of the
	// stream hold copies of the previous slot and are not real.
	window [4][]float32
	real   [4]bool
	primed bool

	pos    float64 // fractional position between window[1] and window[2]
	srcBuf []float32
	eof    bool

	lowPass bool
	seeded  bool
	alpha   float32
	state   []float32
}

// NewResampler converts src to dstRate.
func NewResampler(src Source, dstRate int) *Resampler {
	return newResampler(src, float64(src.SampleRate())/float64(dstRate), float64(dstRate))
}

// NewRatioResampler reads step source frames per output frame while
// reporting the source rate, which shifts pitch by the factor step.
func NewRatioResampler(src Source, step float64) *Resampler {
	return newResampler(src, step, float64(src.SampleRate()))
}

func newResampler(src Source, step, dstRate float64) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		srcBuf:   make([]float32, channels),
		lowPass:  step > 1.0,
		alpha:    0.5,
		state:    make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame pulls a single frame into dst.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.srcBuf)
	if err == io.EOF {
		r.eof = true
	} else if err != nil {
		return false, fmt.Errorf("%w", err)
	}
	if n < r.channels {
		return false, nil
	}

	copy(dst, r.srcBuf)
	if r.lowPass {
		if !r.seeded {
			copy(r.state, dst)
			r.seeded = true
		}
		for c := range r.channels {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.state[c]
			r.state[c] = dst[c]
		}
	}
	return true, nil
}

// fill loads slot i from the source or pads it with slot i-1.
func (r *Resampler) fill(i int) error {
	got, err := r.readFrame(r.window[i])
	if err != nil {
		return err
	}
	if !got {
		copy(r.window[i], r.window[i-1])
	}
	r.real[i] = got
	return nil
}

func (r *Resampler) prime() error {
	r.primed = true

	got, err := r.readFrame(r.window[1])
	if err != nil || !got {
		return err
	}
	copy(r.window[0], r.window[1])
	r.real[1] = true

	for i := 2; i < len(r.window); i++ {
		if err := r.fill(i); err != nil {
			return err
		}
	}
	return nil
}

// advance shifts the window by one source frame.
func (r *Resampler) advance() error {
	copy(r.window[0], r.window[1])
	copy(r.window[1], r.window[2])
	copy(r.window[2], r.window[3])
	r.real[0], r.real[1], r.real[2] = r.real[1], r.real[2], r.real[3]

	if err := r.fill(3); err != nil {
		return err
	}
	if !r.real[1] {
		return io.EOF
	}
	return nil
}

// ReadSamples produces resampled interleaved samples.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.step <= 0 {
		return 0, ErrInvalidRatio
	}
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}
	if !r.real[1] {
		return 0, io.EOF
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		x := float32(r.pos)
		for c := range r.channels {
			dst[written*r.channels+c] = utils.CubicInterpolate(
				r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], x)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
