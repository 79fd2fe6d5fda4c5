// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"fmt"
	"log/slog"

	"github.com/ik5/composer/clips"
	"github.com/ik5/composer/envelope"
	"github.com/ik5/composer/music"
	"github.com/ik5/composer/synth"
)

// CacheKey identifies a rendered per-note clip. Volume is compared exactly.
type CacheKey struct {
	Instrument int
	Pitch      int
	Steps      int
	Volume     float64
}

type clipCache struct {
	entries  map[CacheKey]*synth.Clip
	disposer clips.Disposer
	log      *slog.Logger
}

func newClipCache(d clips.Disposer, log *slog.Logger) *clipCache {
	return &clipCache{
		entries:  make(map[CacheKey]*synth.Clip),
		disposer: d,
		log:      log,
	}
}

func (c *clipCache) get(k CacheKey) (*synth.Clip, bool) {
	clip, ok := c.entries[k]
	return clip, ok
}

// put stores clip, disposing a previous entry under k first.
func (c *clipCache) put(k CacheKey, clip *synth.Clip) {
	if old, ok := c.entries[k]; ok && old != clip {
		c.disposer.Dispose(old)
	}
	c.entries[k] = clip
}

// evict disposes and removes every entry of instrument.
func (c *clipCache) evict(instrument int) int {
	n := 0
	for k, clip := range c.entries {
		if k.Instrument != instrument {
			continue
		}
		c.disposer.Dispose(clip)
		delete(c.entries, k)
		n++
	}
	if n > 0 {
		c.log.Debug("evicted cached clips", "instrument", instrument, "count", n)
	}
	return n
}

func (c *clipCache) clear() int {
	n := len(c.entries)
	for k, clip := range c.entries {
		c.disposer.Dispose(clip)
		delete(c.entries, k)
	}
	if n > 0 {
		c.log.Debug("cleared clip cache", "count", n)
	}
	return n
}

// clipFor returns the cached clip of a note or renders it: the source
// parameters are copied, pitched, set to the instrument volume and their
// envelope is fitted to steps*secondsPerStep.
func (t *Timeline) clipFor(inst *instrument, pitch, steps int, secondsPerStep float64) (*synth.Clip, error) {
	key := CacheKey{
		Instrument: inst.ID,
		Pitch:      pitch,
		Steps:      steps,
		Volume:     inst.Volume,
	}
	if clip, ok := t.cache.get(key); ok {
		return clip, nil
	}

	src, err := inst.handle.Source()
	if err != nil {
		return nil, fmt.Errorf("instrument %d: %w", inst.ID, err)
	}

	p := src.Params
	p.BaseFreq = music.BaseFrequency(pitch)
	p.Volume = inst.Volume
	p.SampleRate = t.sampleRate
	p.Channels = t.channels

	env, err := envelope.Retime(p.Envelope(), float64(steps)*secondsPerStep, t.sampleRate, inst.DurationMode)
	if err != nil {
		return nil, fmt.Errorf("instrument %d: %w", inst.ID, err)
	}
	p.SetEnvelope(env)

	clip, err := t.synth.Render(p, fmt.Sprintf("%d_%d", inst.ID, pitch))
	if err != nil {
		return nil, fmt.Errorf("rendering instrument %d pitch %d: %w", inst.ID, pitch, err)
	}

	t.cache.put(key, clip)
	t.log.Debug("rendered note clip",
		"instrument", inst.ID, "pitch", pitch, "steps", steps, "samples", clip.SampleCount())
	return clip, nil
}

// CacheLen is the number of rendered per-note clips held.
func (t *Timeline) CacheLen() int {
	return len(t.cache.entries)
}

// CachedClip returns the rendered clip for key if present.
func (t *Timeline) CachedClip(key CacheKey) (*synth.Clip, bool) {
	return t.cache.get(key)
}
