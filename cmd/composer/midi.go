// SPDX-License-Identifier: EPL-2.0

package main

import (
	"os"

	"github.com/ik5/composer/midifile"
	"github.com/ik5/composer/music"
	"github.com/ik5/composer/project"
	"github.com/ik5/composer/timeline"
	"github.com/spf13/cobra"
)

var (
	importOut string
	exportOut string
	midiClip  string
	midiStep  uint8
	midiName  string
)

var importMidiCmd = &cobra.Command{
	Use:   "import-midi <in.mid>",
	Short: "Create a song document from a Standard MIDI File",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		score, err := midifile.Import(f, midiStep)
		if err != nil {
			return err
		}

		gen, lib, err := newLibrary()
		if err != nil {
			return err
		}

		tl, err := timeline.New(lib, gen,
			timeline.WithName(midiName),
			timeline.WithSampleRate(cfg.SampleRate),
			timeline.WithChannels(cfg.Channels),
			timeline.WithMeter(importMeter(score, cfg.BPM, cmd.Flags().Changed("bpm"))),
			timeline.WithLogger(log))
		if err != nil {
			return err
		}
		defer tl.Close()

		if _, err := score.Apply(tl, midiClip); err != nil {
			return err
		}

		if err := project.Capture(tl).Save(importOut); err != nil {
			return err
		}
		log.Info("imported", "tracks", len(score.Tracks), "notes", len(tl.Notes()),
			"dropped", score.Dropped, "out", importOut)
		return nil
	},
}

// importMeter keeps the tempo of the file unless force is set. Files
// without a tempo event use bpm.
func importMeter(score *midifile.Score, bpm int, force bool) music.Meter {
	m := score.Meter
	if (force || !score.HasTempo) && bpm > 0 {
		m.BPM = bpm
	}
	return m
}

var exportMidiCmd = &cobra.Command{
	Use:   "export-midi <song.json>",
	Short: "Write the notes of a song document to a Standard MIDI File",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := project.Load(args[0])
		if err != nil {
			return err
		}

		gen, lib, err := newLibrary()
		if err != nil {
			return err
		}
		tl, err := doc.Build(lib, gen, timeline.WithLogger(log))
		if err != nil {
			return err
		}
		defer tl.Close()

		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		if err := midifile.Export(f, tl); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	importMidiCmd.Flags().StringVarP(&importOut, "output", "o", "song.json", "output song document")
	importMidiCmd.Flags().StringVar(&midiClip, "clip", "square", "source clip played by every imported track")
	importMidiCmd.Flags().Uint8Var(&midiStep, "step", 16, "grid resolution as a note denominator")
	importMidiCmd.Flags().StringVar(&midiName, "name", timeline.DefaultName, "song name")
	rootCmd.AddCommand(importMidiCmd)

	exportMidiCmd.Flags().StringVarP(&exportOut, "output", "o", "song.mid", "output MIDI file")
	rootCmd.AddCommand(exportMidiCmd)
}
