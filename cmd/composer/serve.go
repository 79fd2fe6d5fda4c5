// SPDX-License-Identifier: EPL-2.0

package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ik5/composer/server"
	"github.com/ik5/composer/timeline"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveOrigins string
	serveMaxSecs int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve renders over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gen, lib, err := newLibrary()
		if err != nil {
			return err
		}

		addr := cfg.Listen
		if cmd.Flags().Changed("listen") {
			addr = serveAddr
		}

		srv := server.New(lib, gen,
			server.WithLogger(log),
			server.WithAllowedOrigins(strings.Split(serveOrigins, ",")...),
			server.WithMaxSamples(maxSamples(serveMaxSecs)),
			server.WithTimelineOptions(timeline.WithLogger(log)))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, addr)
	},
}

// maxSamples is the server render limit for songs of up to secs seconds at
// 48 kHz stereo. Zero or less disables the limit.
func maxSamples(secs int) int {
	if secs <= 0 {
		return 0
	}
	return secs * 48000 * 2
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "listen", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveOrigins, "origins", "*", "comma separated CORS origins")
	serveCmd.Flags().IntVar(&serveMaxSecs, "max-seconds", 300, "longest song a render may produce, 0 for no limit")
	rootCmd.AddCommand(serveCmd)
}
