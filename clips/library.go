// SPDX-License-Identifier: EPL-2.0

package clips

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ik5/composer/audio"
	"github.com/ik5/composer/envelope"
	"github.com/ik5/composer/formats/aiff"
	"github.com/ik5/composer/formats/mp3"
	"github.com/ik5/composer/formats/vorbis"
	"github.com/ik5/composer/formats/wav"
	"github.com/ik5/composer/music"
	"github.com/ik5/composer/synth"
	"github.com/mitchellh/go-homedir"
)

// Disposer takes ownership of clips that are no longer referenced.
type Disposer interface {
	Dispose(c *synth.Clip)
}

// Source is a registered source clip.
type Source struct {
	Name   string
	Params synth.Params
	Clip   *synth.Clip
}

type entry struct {
	source Source
	refs   int
}

// Library is a set of named source clips. It is safe for concurrent use.
type Library struct {
	mu sync.Mutex

	synth      synth.Synthesizer
	disposer   Disposer
	registry   *audio.Registry
	sampleRate int
	entries    map[string]*entry
}

type Option func(*Library)

// WithDisposer receives preview clips once unreferenced. By default they are
// dropped.
func WithDisposer(d Disposer) Option {
	return func(l *Library) { l.disposer = d }
}

// WithRegistry replaces the decoders used for recordings.
func WithRegistry(r *audio.Registry) Option {
	return func(l *Library) { l.registry = r }
}

// WithSampleRate sets the rate recordings are prepared for. Default 44100.
func WithSampleRate(rate int) Option {
	return func(l *Library) { l.sampleRate = rate }
}

// DefaultRegistry has decoders for wav, aiff, mp3 and ogg.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	return r
}

func NewLibrary(s synth.Synthesizer, opts ...Option) *Library {
	l := &Library{
		synth:      s,
		disposer:   discard{},
		sampleRate: 44100,
		entries:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = DefaultRegistry()
	}
	return l
}

// Register adds or replaces a preset. Handles acquired before keep the
// source they were given.
func (l *Library) Register(name string, p synth.Params) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[name] = &entry{source: Source{Name: name, Params: p}}
	return nil
}

// LoadPresets registers every preset of a JSON object keyed by name.
func (l *Library) LoadPresets(r io.Reader) error {
	var presets map[string]synth.Params
	if err := json.NewDecoder(r).Decode(&presets); err != nil {
		return fmt.Errorf("decoding presets: %w", err)
	}

	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := l.Register(name, presets[name]); err != nil {
			return err
		}
	}
	return nil
}

// LoadRecording decodes r as format and registers it as a Sample preset
// whose envelope is entirely sustain, so duration fitting stretches or cuts
// the recording to the note.
func (l *Library) LoadRecording(name, format string, r io.Reader) error {
	dec, ok := l.registry.Get(format)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return fmt.Errorf("decoding %q: %w", name, err)
	}
	defer src.Close()

	rate := src.SampleRate()
	pcm, err := audio.CollectMono16(src, rate, 4096)
	if err != nil {
		return fmt.Errorf("reading %q: %w", name, err)
	}

	seconds := float64(len(pcm)) / float64(rate)
	return l.Register(name, synth.Params{
		Wave:       synth.Sample,
		BaseFreq:   music.AnchorFrequency,
		EnvSustain: envelope.Encode(seconds, l.sampleRate),
		Volume:     1,
		SampleRate: l.sampleRate,
		Channels:   1,
		RootFreq:   music.AnchorFrequency,
		Recording:  &synth.Recording{Samples: pcm, SampleRate: rate},
	})
}

// LoadDir registers every recording and *.json preset file in dir. Recordings
// are named after the file without extension. dir may start with ~.
func (l *Library) LoadDir(dir string) error {
	dir, err := homedir.Expand(dir)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}

		path := filepath.Join(dir, f.Name())
		ext := strings.ToLower(filepath.Ext(path))

		if ext == ".json" {
			if err := l.loadFile(path, l.LoadPresets); err != nil {
				return err
			}
			continue
		}
		if _, ok := l.registry.ForPath(path); !ok {
			continue
		}

		name := strings.TrimSuffix(f.Name(), filepath.Ext(path))
		err := l.loadFile(path, func(r io.Reader) error {
			return l.LoadRecording(name, ext, r)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) loadFile(path string, load func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer f.Close()

	return load(f)
}

// Names lists the registered source clips in sorted order.
func (l *Library) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.entries))
	for name := range l.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Params returns a copy of a preset's parameters.
func (l *Library) Params(name string) (synth.Params, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[name]
	if !ok {
		return synth.Params{}, false
	}
	return e.source.Params, true
}

// Acquire returns a handle to name, rendering its preview on first use.
func (l *Library) Acquire(name string) (*Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClip, name)
	}

	if e.source.Clip == nil {
		clip, err := l.synth.Render(e.source.Params, name)
		if err != nil {
			return nil, fmt.Errorf("rendering %q: %w", name, err)
		}
		e.source.Clip = clip
	}
	e.refs++

	return &Handle{lib: l, entry: e}, nil
}

// Refs is the number of live handles to name.
func (l *Library) Refs(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[name]; ok {
		return e.refs
	}
	return 0
}

func (l *Library) release(e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs > 0 {
		return
	}
	if e.source.Clip != nil {
		l.disposer.Dispose(e.source.Clip)
		e.source.Clip = nil
	}
}

type discard struct{}

func (discard) Dispose(*synth.Clip) {}
