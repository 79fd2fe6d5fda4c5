// SPDX-License-Identifier: EPL-2.0

// Package composer compiles composed songs into 16-bit PCM audio.
//
// A song is a timeline of notes placed on a musical grid. Every note plays a
// source clip, a synthesizer preset or a recorded sample, re-rendered at the
// note's pitch and fitted to its duration. The compiled buffer is the
// overlap-add mix of all notes, scaled down when the mix would clip.
//
// # Packages
//
//   - music: meter, step and sample position arithmetic, pitch helpers
//   - envelope: fitting synthesizer envelopes to note durations
//   - synth: synthesizer parameters, rendered clips and the Generator
//   - clips: the source clip library with ref-counted handles
//   - timeline: the editable song and its compiler
//   - mixer: overlap-add mixing and peak normalization
//   - project: JSON song documents
//   - midifile: Standard MIDI File import and export
//   - formats/*: decoders for recorded samples and the WAV writer
//
// # Quick Start
//
// Render a stored song to a WAV file:
//
//	doc, _ := project.Load("song.json")
//	gen := synth.NewGenerator()
//	lib := clips.NewLibrary(gen)
//	_ = lib.LoadDir("~/presets")
//
//	out, _ := os.Create("song.wav")
//	defer out.Close()
//	err := composer.RenderWAV(out, doc, lib, gen)
//
// # Editing
//
// For interactive use keep the timeline and read Buffer after each edit. Only
// notes whose rendering inputs changed are synthesized again:
//
//	tl, _ := timeline.New(lib, gen, timeline.WithBPM(100))
//	lead, _ := tl.AddInstrument("lead")
//	_ = tl.AddNote(timeline.Note{Instrument: lead, Pitch: 60, Length: 4})
//	pcm, _ := tl.Buffer()
package composer
