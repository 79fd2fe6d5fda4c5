// SPDX-License-Identifier: EPL-2.0

package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/composer/music"
	"github.com/ik5/composer/synth"
	"github.com/ik5/composer/timeline"
	"github.com/mitchellh/go-homedir"
)

// Version is the document format written by Encode.
const Version = 1

// Default output format for documents that do not state one.
const (
	DefaultSampleRate = 44100
	DefaultChannels   = 1
)

// Document is the stored form of a timeline.
type Document struct {
	Version     int                   `json:"version"`
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	SampleRate  int                   `json:"sampleRate"`
	Channels    int                   `json:"channels"`
	Meter       music.Meter           `json:"meter"`
	Instruments []timeline.Instrument `json:"instruments"`
	Notes       []timeline.Note       `json:"notes"`
}

// Capture snapshots t into a new document with a fresh id.
func Capture(t *timeline.Timeline) *Document {
	d := &Document{ID: uuid.New()}
	d.Update(t)
	return d
}

// Update replaces the contents of d with t, keeping the id.
func (d *Document) Update(t *timeline.Timeline) {
	d.Version = Version
	d.Name = t.Name()
	d.SampleRate = t.SampleRate()
	d.Channels = t.Channels()
	d.Meter = t.Meter()
	d.Instruments = t.Instruments()
	d.Notes = t.Notes()
}

// normalize fills values older or hand written documents leave out.
func (d *Document) normalize() {
	if d.Version == 0 {
		d.Version = Version
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Name == "" {
		d.Name = timeline.DefaultName
	}
	if d.SampleRate == 0 {
		d.SampleRate = DefaultSampleRate
	}
	if d.Channels == 0 {
		d.Channels = DefaultChannels
	}
	if d.Meter == (music.Meter{}) {
		d.Meter = music.DefaultMeter()
	}
	d.Meter = d.Meter.Normalize()
}

// Validate checks the meter and every note length against it.
func (d *Document) Validate() error {
	if err := d.Meter.Validate(); err != nil {
		return err
	}
	for _, n := range d.Notes {
		if err := d.Meter.ValidateNoteLength(n.Length); err != nil {
			return fmt.Errorf("note %+v: %w", n, err)
		}
	}
	return nil
}

// Duration is the time until the last note ends, including the start
// offset of its instrument. It is zero when the document does not validate.
func (d *Document) Duration() time.Duration {
	if d.Validate() != nil {
		return 0
	}

	offsets := make(map[int]float64, len(d.Instruments))
	for _, in := range d.Instruments {
		offsets[in.ID] = max(in.StartOffset, 0)
	}

	secondsPerStep := d.Meter.SecondsPerStep()
	var end float64
	for _, n := range d.Notes {
		end = max(end, float64(n.EndStep(d.Meter))*secondsPerStep+offsets[n.Instrument])
	}
	return time.Duration(end * float64(time.Second))
}

// Build creates a timeline from the document. opts are applied after the
// stored format, meter and name.
func (d *Document) Build(p timeline.Provider, s synth.Synthesizer, opts ...timeline.Option) (*timeline.Timeline, error) {
	base := []timeline.Option{
		timeline.WithName(d.Name),
		timeline.WithSampleRate(d.SampleRate),
		timeline.WithChannels(d.Channels),
		timeline.WithMeter(d.Meter.Normalize()),
	}

	t, err := timeline.New(p, s, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	for _, in := range d.Instruments {
		if err := t.RestoreInstrument(in); err != nil {
			t.Close()
			return nil, err
		}
	}
	for _, n := range d.Notes {
		if err := t.AddNote(n); err != nil {
			t.Close()
			return nil, fmt.Errorf("note %+v: %w", n, err)
		}
	}
	return t, nil
}

// Encode writes d as indented JSON.
func Encode(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Decode reads a document, fills in defaults and validates it.
func Decode(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if d.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}

	d.normalize()
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return &d, nil
}

// Load decodes the document at path. A leading ~ is expanded.
func Load(path string) (*Document, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Save writes d to path, creating missing directories.
func (d *Document) Save(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
