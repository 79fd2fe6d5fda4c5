// SPDX-License-Identifier: EPL-2.0

// Package synthtest holds deterministic synthesizer doubles for tests.
package synthtest

import (
	"errors"
	"math"
	"sync"

	"github.com/ik5/composer/synth"
)

// ErrStub is returned by a Stub with Fail set.
var ErrStub = errors.New("stub synthesizer failure")

// Amplitude is the sample value a Stub renders at volume 1.
const Amplitude = 10000

// Stub renders a constant sample of Amplitude*Volume for as many frames as
// the envelope lasts at the parameter sample rate.
type Stub struct {
	mu    sync.Mutex
	calls []synth.Params
	names []string

	// Fail makes Render return ErrStub.
	Fail bool
}

// NewStub returns a ready Stub.
func NewStub() *Stub {
	return &Stub{}
}

// Render implements synth.Synthesizer.
func (s *Stub) Render(p synth.Params, name string) (*synth.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Fail {
		return nil, ErrStub
	}
	s.calls = append(s.calls, p)
	s.names = append(s.names, name)

	frames := Frames(p)
	value := int16(math.Round(p.Volume * Amplitude))
	samples := make([]int16, frames*max(p.Channels, 1))
	for i := range samples {
		samples[i] = value
	}

	return synth.NewClip(name, samples, p.SampleRate, max(p.Channels, 1)), nil
}

// Frames is the clip length a Stub renders for p.
func Frames(p synth.Params) int {
	return int(math.Round(p.Envelope().Duration(p.SampleRate) * float64(p.SampleRate)))
}

// Calls returns the parameter sets rendered so far.
func (s *Stub) Calls() []synth.Params {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]synth.Params(nil), s.calls...)
}

// Names returns the clip names rendered so far.
func (s *Stub) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.names...)
}

// Disposer records every disposed clip.
type Disposer struct {
	mu       sync.Mutex
	disposed []*synth.Clip
}

func (d *Disposer) Dispose(c *synth.Clip) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.disposed = append(d.disposed, c)
}

// Disposed returns the clips handed to Dispose in order.
func (d *Disposer) Disposed() []*synth.Clip {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]*synth.Clip(nil), d.disposed...)
}
