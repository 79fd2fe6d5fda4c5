// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ik5/composer/clips"
	"github.com/ik5/composer/config"
	"github.com/ik5/composer/synth"
	"github.com/ik5/composer/timeline"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	presetDir  string
	sampleRate int
	channels   int
	bpm        int

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "composer",
	Short: "Compile composed songs to audio",
	Long: `composer renders song documents (JSON timelines of notes played by
synthesizer presets or recorded samples) to WAV, and converts between
song documents and Standard MIDI Files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if flags.Changed("presets") {
			cfg.PresetDir = presetDir
		}
		if flags.Changed("sample-rate") {
			cfg.SampleRate = sampleRate
		}
		if flags.Changed("channels") {
			cfg.Channels = channels
		}
		if flags.Changed("bpm") {
			cfg.BPM = bpm
		}

		level, err := cfg.Level()
		if err != nil {
			return err
		}
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath+")")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&presetDir, "presets", "", "directory of preset JSON files and recorded samples")
	pf.IntVar(&sampleRate, "sample-rate", 44100, "sample rate of presets and imported songs; overrides a song's rate when set")
	pf.IntVar(&channels, "channels", 1, "channel count of imported songs; overrides a song's channels when set")
	pf.IntVar(&bpm, "bpm", 120, "tempo of imported MIDI files without one; overrides a song's tempo when set")
}

// Execute runs the root command.
func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

// builtinPresets are available without a preset directory, one per
// oscillator wave.
func builtinPresets() map[string]synth.Params {
	presets := make(map[string]synth.Params)
	for _, w := range []synth.Wave{synth.Square, synth.Sawtooth, synth.Sine, synth.Noise} {
		p := synth.DefaultParams()
		p.Wave = w
		presets[w.String()] = p
	}
	return presets
}

// newLibrary returns the generator and a library holding the builtin
// presets plus the configured preset directory.
func newLibrary() (*synth.Generator, *clips.Library, error) {
	gen := synth.NewGenerator()
	lib := clips.NewLibrary(gen, clips.WithSampleRate(cfg.SampleRate))

	for name, p := range builtinPresets() {
		if err := lib.Register(name, p); err != nil {
			return nil, nil, err
		}
	}
	if cfg.PresetDir != "" {
		if err := lib.LoadDir(cfg.PresetDir); err != nil {
			return nil, nil, fmt.Errorf("loading presets: %w", err)
		}
	}

	log.Debug("source clips ready", "names", lib.Names())
	return gen, lib, nil
}

// formatOverrides turns explicitly set output flags into timeline options
// that win over the values stored in a song. Values from the config file
// alone never override a song, since every stored song carries its own.
func formatOverrides(cmd *cobra.Command) []timeline.Option {
	opts := []timeline.Option{timeline.WithLogger(log)}
	if cmd.Flags().Changed("sample-rate") {
		opts = append(opts, timeline.WithSampleRate(cfg.SampleRate))
	}
	if cmd.Flags().Changed("channels") {
		opts = append(opts, timeline.WithChannels(cfg.Channels))
	}
	if cmd.Flags().Changed("bpm") {
		opts = append(opts, timeline.WithBPM(cfg.BPM))
	}
	return opts
}
