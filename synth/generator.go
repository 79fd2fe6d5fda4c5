// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/ik5/composer/audio"
	"github.com/ik5/composer/envelope"
	"github.com/ik5/composer/music"
	"github.com/ik5/composer/utils"
)

// Generator is the built-in Synthesizer. It renders oscillator waves with an
// attack, sustain (with punch) and decay envelope, or plays a recording
// repitched to the base frequency.
//
// Rendering is deterministic: the noise generator is reseeded for every clip.
type Generator struct {
	seed uint64
}

// NewGenerator returns a Generator with the default noise seed.
func NewGenerator() *Generator {
	return &Generator{seed: 0x5eed}
}

// NewSeededGenerator returns a Generator whose noise uses seed.
func NewSeededGenerator(seed uint64) *Generator {
	return &Generator{seed: seed}
}

// Render implements Synthesizer.
func (g *Generator) Render(p Params, name string) (*Clip, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var mono []float64
	if p.Wave == Sample {
		var err error
		if mono, err = g.sample(p); err != nil {
			return nil, fmt.Errorf("rendering %q: %w", name, err)
		}
	} else {
		mono = g.oscillate(p)
	}

	out := make([]int16, 0, len(mono)*p.Channels)
	for _, v := range mono {
		s := utils.Float32ToInt16(float32(v))
		for range p.Channels {
			out = append(out, s)
		}
	}

	return NewClip(name, out, p.SampleRate, p.Channels), nil
}

// shape is the amplitude envelope over attack, sustain and decay frames.
type shape struct {
	attack, sustain, decay int
	punch                  float64
}

func newShape(p Params) shape {
	return shape{
		attack:  envelope.Frames(p.EnvAttack),
		sustain: envelope.Frames(p.EnvSustain),
		decay:   envelope.Frames(p.EnvDecay),
		punch:   p.EnvPunch,
	}
}

func (s shape) frames() int { return s.attack + s.sustain + s.decay }

func (s shape) at(i int) float64 {
	switch {
	case i < s.attack:
		return float64(i) / float64(s.attack)
	case i < s.attack+s.sustain:
		t := float64(i-s.attack) / float64(s.sustain)
		return 1 + (1-t)*2*s.punch
	case i < s.frames():
		return 1 - float64(i-s.attack-s.sustain)/float64(s.decay)
	}
	return 0
}

func (g *Generator) oscillate(p Params) []float64 {
	env := newShape(p)
	out := make([]float64, env.frames())

	rng := rand.New(rand.NewPCG(g.seed, uint64(p.Wave)))
	noise := rng.Float64()*2 - 1

	hz := FrequencyHz(p.BaseFreq)
	slide := 1 - math.Pow(p.FreqRamp, 3)*0.01
	nyquist := float64(p.SampleRate) / 2
	squareDuty := 0.5 - p.DutyCycle*0.5

	var phase, vibPhase float64
	for i := range out {
		f := hz
		if p.VibratoStrength > 0 {
			vibPhase += p.VibratoSpeed * p.VibratoSpeed * 0.01
			f *= 1 + math.Sin(vibPhase)*p.VibratoStrength*0.5
		}
		f = utils.Clamp(f, 1, nyquist)

		var v float64
		switch p.Wave {
		case Square:
			v = 0.5
			if phase >= squareDuty {
				v = -0.5
			}
		case Sawtooth:
			v = 1 - 2*phase
		case Sine:
			v = math.Sin(2 * math.Pi * phase)
		case Noise:
			v = noise
		}
		out[i] = v * env.at(i) * p.Volume

		phase += f / float64(p.SampleRate)
		if phase >= 1 {
			phase -= math.Floor(phase)
			noise = rng.Float64()*2 - 1
		}
		hz *= slide
	}

	return out
}

// sample repitches the recording so that RootFreq plays at its own pitch.
// A zero envelope plays the whole repitched recording at full level.
func (g *Generator) sample(p Params) ([]float64, error) {
	rec := p.Recording

	root := p.RootFreq
	if root == 0 {
		root = music.AnchorFrequency
	}
	step := FrequencyHz(p.BaseFreq) / FrequencyHz(root) *
		float64(rec.SampleRate) / float64(p.SampleRate)

	src := audio.NewRatioResampler(audio.NewPCMSource(rec.Samples, rec.SampleRate, 1), step)
	defer src.Close()

	var pitched []float64
	buf := make([]float32, 1024)
	for {
		n, err := src.ReadSamples(buf)
		for _, v := range buf[:n] {
			pitched = append(pitched, float64(v))
		}
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}

	env := newShape(p)
	if env.frames() == 0 {
		for i := range pitched {
			pitched[i] *= p.Volume
		}
		return pitched, nil
	}

	out := make([]float64, env.frames())
	for i := range out {
		if i >= len(pitched) {
			break
		}
		out[i] = pitched[i] * env.at(i) * p.Volume
	}
	return out, nil
}
