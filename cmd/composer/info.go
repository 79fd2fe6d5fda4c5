// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ik5/composer/music"
	"github.com/ik5/composer/project"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	keyStyle   = lipgloss.NewStyle().Faint(true).Width(14)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

var infoCmd = &cobra.Command{
	Use:   "info <song.json>",
	Short: "Summarize a song document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := project.Load(args[0])
		if err != nil {
			return err
		}
		printInfo(cmd.OutOrStdout(), doc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printInfo(w io.Writer, doc *project.Document) {
	rows := [][2]string{
		{"id", doc.ID.String()},
		{"format", fmt.Sprintf("%d Hz, %d ch", doc.SampleRate, doc.Channels)},
		{"meter", fmt.Sprintf("%d/%d at %d bpm, 1/%d grid",
			doc.Meter.BeatsPerMeasure, doc.Meter.BeatUnit, doc.Meter.BPM, doc.Meter.SmallestStep)},
		{"length", doc.Duration().Round(time.Millisecond).String()},
		{"notes", fmt.Sprint(len(doc.Notes))},
	}

	lines := []string{titleStyle.Render(doc.Name)}
	for _, r := range rows {
		lines = append(lines, keyStyle.Render(r[0])+r[1])
	}

	for _, in := range doc.Instruments {
		count, low, high := 0, -1, -1
		for _, n := range doc.Notes {
			if n.Instrument != in.ID {
				continue
			}
			count++
			if low < 0 || n.Pitch < low {
				low = n.Pitch
			}
			high = max(high, n.Pitch)
		}

		desc := fmt.Sprintf("%s, vol %.2f, %s, %d notes", in.Clip, in.Volume, in.DurationMode, count)
		if count > 0 {
			desc += fmt.Sprintf(" (%s-%s)", music.NoteName(low, true), music.NoteName(high, true))
		}
		lines = append(lines, keyStyle.Render(fmt.Sprintf("instrument %d", in.ID))+desc)
	}

	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}
