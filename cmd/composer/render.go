// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/ik5/composer"
	"github.com/ik5/composer/project"
	"github.com/spf13/cobra"
)

var (
	renderOut   string
	renderWatch bool
)

var renderCmd = &cobra.Command{
	Use:   "render <song.json>",
	Short: "Render a song document to a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		song := args[0]
		out := renderOut
		if out == "" {
			out = strings.TrimSuffix(song, filepath.Ext(song)) + ".wav"
		}

		if err := renderSong(cmd, song, out); err != nil {
			return err
		}
		if !renderWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watchSong(ctx, song, func() {
			if err := renderSong(cmd, song, out); err != nil {
				log.Error("render failed", "song", song, "err", err)
			}
		})
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "", "output WAV file (default: song name with .wav)")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "render again whenever the song changes")
	rootCmd.AddCommand(renderCmd)
}

func renderSong(cmd *cobra.Command, song, out string) error {
	doc, err := project.Load(song)
	if err != nil {
		return err
	}

	gen, lib, err := newLibrary()
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := composer.RenderWAV(f, doc, lib, gen, formatOverrides(cmd)...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info("rendered", "song", doc.Name, "out", out, "elapsed", time.Since(start))
	return nil
}

// watchSong polls the modification time of path and calls fn once edits
// settle.
func watchSong(ctx context.Context, path string, fn func()) error {
	const (
		poll   = 200 * time.Millisecond
		settle = 500 * time.Millisecond
	)

	stat, err := os.Stat(path)
	if err != nil {
		return err
	}
	last := stat.ModTime()
	debounced := debounce.New(settle)

	log.Info("watching", "song", path)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		stat, err := os.Stat(path)
		if err != nil {
			// editors replace files on save
			log.Debug("stat failed", "song", path, "err", err)
			continue
		}
		if !stat.ModTime().Equal(last) {
			last = stat.ModTime()
			debounced(fn)
		}
	}
}
