// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ik5/composer/clips"
	"github.com/ik5/composer/music"
	"github.com/ik5/composer/synth"
)

// DefaultName of a new timeline.
const DefaultName = "New Song"

// State of the compiled buffer.
type State int

const (
	// Dirty means the buffer does not reflect the current notes,
	// instruments or meter.
	Dirty State = iota
	Clean
)

func (s State) String() string {
	if s == Clean {
		return "clean"
	}
	return "dirty"
}

// Timeline is a song: a meter, instruments and the notes placed on them,
// plus the compiled buffer.
type Timeline struct {
	name       string
	sampleRate int
	channels   int
	meter      music.Meter
	maxSamples int

	notes       []Note
	instruments map[int]*instrument

	provider Provider
	synth    synth.Synthesizer
	disposer clips.Disposer
	cache    *clipCache
	log      *slog.Logger

	state         State
	buffer        []byte
	start, end    time.Duration
	duration      time.Duration
	bufferChanged bool
}

// Option configures a Timeline.
type Option func(*Timeline)

// WithSampleRate sets the output rate. Default 44100.
func WithSampleRate(rate int) Option {
	return func(t *Timeline) { t.sampleRate = rate }
}

// WithChannels sets the interleaved channel count. Default 1.
func WithChannels(channels int) Option {
	return func(t *Timeline) { t.channels = channels }
}

// WithBPM overrides the tempo of the meter. Zero means music.DefaultBPM.
func WithBPM(bpm int) Option {
	return func(t *Timeline) { t.meter.BPM = bpm }
}

// WithMeter replaces the meter. Keep WithBPM after it to override its tempo.
func WithMeter(m music.Meter) Option {
	return func(t *Timeline) { t.meter = m }
}

func WithName(name string) Option {
	return func(t *Timeline) { t.name = name }
}

// WithMaxSamples caps the compiled buffer at n interleaved samples.
// Zero, the default, means no limit.
func WithMaxSamples(n int) Option {
	return func(t *Timeline) { t.maxSamples = n }
}

// WithLogger receives debug records about compiles and the clip cache.
func WithLogger(l *slog.Logger) Option {
	return func(t *Timeline) { t.log = l }
}

// WithDisposer receives evicted per-note clips. By default they are dropped.
func WithDisposer(d clips.Disposer) Option {
	return func(t *Timeline) { t.disposer = d }
}

// New creates an empty timeline. Source clips are acquired from p and per
// note clips rendered by s.
func New(p Provider, s synth.Synthesizer, opts ...Option) (*Timeline, error) {
	t := &Timeline{
		name:        DefaultName,
		sampleRate:  44100,
		channels:    1,
		meter:       music.DefaultMeter(),
		instruments: make(map[int]*instrument),
		provider:    p,
		synth:       s,
		disposer:    nopDisposer{},
		log:         slog.New(slog.DiscardHandler),
		state:       Dirty,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.meter = t.meter.Normalize()
	if t.sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, t.sampleRate)
	}
	if t.channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, t.channels)
	}
	if err := t.meter.Validate(); err != nil {
		return nil, err
	}

	t.cache = newClipCache(t.disposer, t.log)
	return t, nil
}

func (t *Timeline) Name() string        { return t.name }
func (t *Timeline) SetName(name string) { t.name = name }
func (t *Timeline) SampleRate() int     { return t.sampleRate }
func (t *Timeline) Channels() int       { return t.channels }
func (t *Timeline) Meter() music.Meter  { return t.meter }

// StepsPerBeat of the current meter.
func (t *Timeline) StepsPerBeat() int { return t.meter.StepsPerBeat() }

// SecondsPerStep of the current meter.
func (t *Timeline) SecondsPerStep() float64 { return t.meter.SecondsPerStep() }

// StepDuration of a note length under the current meter.
func (t *Timeline) StepDuration(length int, dotted bool) int {
	return t.meter.StepDuration(length, dotted)
}

// State reports whether the buffer is up to date.
func (t *Timeline) State() State { return t.state }

// Dirty is State() == Dirty.
func (t *Timeline) Dirty() bool { return t.state == Dirty }

// StartTime of the compiled buffer, always zero once compiled.
func (t *Timeline) StartTime() time.Duration { return t.start }

// EndTime of the compiled buffer.
func (t *Timeline) EndTime() time.Duration { return t.end }

// Duration of the compiled buffer.
func (t *Timeline) Duration() time.Duration { return t.duration }

// ConsumeBufferChanged reports whether the buffer was recompiled since the
// last call and resets the signal.
func (t *Timeline) ConsumeBufferChanged() bool {
	changed := t.bufferChanged
	t.bufferChanged = false
	return changed
}

// Close releases every cached clip and instrument handle. The timeline must
// not be used afterwards.
func (t *Timeline) Close() {
	t.cache.clear()
	for id, inst := range t.instruments {
		t.releaseHandle(inst)
		delete(t.instruments, id)
	}
	t.notes = nil
	t.markDirty()
}

// releaseHandle returns the source clip to its provider, which disposes it
// once unreferenced.
func (t *Timeline) releaseHandle(inst *instrument) {
	if inst.handle == nil {
		return
	}
	inst.handle.Release()
	inst.handle = nil
}

func (t *Timeline) markDirty() {
	t.state = Dirty
}

type nopDisposer struct{}

func (nopDisposer) Dispose(*synth.Clip) {}
