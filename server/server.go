// SPDX-License-Identifier: EPL-2.0

// Package server renders song documents over HTTP.
//
// Routes:
//
//	POST /render    song document JSON in, audio/wav out (?format=pcm for raw PCM16)
//	GET  /presets   names and parameters of the source clips
//	GET  /healthz   liveness
//
// Every request builds its own timeline, so renders run concurrently.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/ik5/composer"
	"github.com/ik5/composer/clips"
	"github.com/ik5/composer/envelope"
	"github.com/ik5/composer/formats/wav"
	"github.com/ik5/composer/music"
	"github.com/ik5/composer/project"
	"github.com/ik5/composer/synth"
	"github.com/ik5/composer/timeline"
	"github.com/rs/cors"
)

// DefaultMaxBody limits the size of a posted song document.
const DefaultMaxBody = 4 << 20

// DefaultMaxSamples limits a render to five minutes of 44.1 kHz stereo.
const DefaultMaxSamples = 44100 * 2 * 300

// Library is the source clip provider the server renders with.
type Library interface {
	timeline.Provider
	Names() []string
	Params(name string) (synth.Params, bool)
}

// Server serves renders of song documents.
type Server struct {
	lib     Library
	synth   synth.Synthesizer
	log     *slog.Logger
	origins []string
	maxBody int64
	maxPCM  int
	render  []timeline.Option
}

type Option func(*Server)

// WithLogger receives one record per request.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithAllowedOrigins sets the CORS origins. Default is any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithMaxBody limits request bodies to n bytes.
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// WithMaxSamples limits the interleaved samples of one render. Longer
// songs fail with 413 before any note is rendered. Zero disables the limit.
func WithMaxSamples(n int) Option {
	return func(s *Server) { s.maxPCM = n }
}

// WithTimelineOptions are applied to every rendered timeline.
func WithTimelineOptions(opts ...timeline.Option) Option {
	return func(s *Server) { s.render = opts }
}

func New(lib Library, s synth.Synthesizer, opts ...Option) *Server {
	srv := &Server{
		lib:     lib,
		synth:   s,
		log:     slog.New(slog.DiscardHandler),
		origins: []string{"*"},
		maxBody: DefaultMaxBody,
		maxPCM:  DefaultMaxSamples,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// Handler returns the routes wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/render", s.handleRender).Methods(http.MethodPost)
	router.HandleFunc("/presets", s.handlePresets).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Use(s.logRequests)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(router)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdown); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"elapsed", time.Since(start))
	})
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.log.Warn("request failed", "status", status, "err", err)
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps render errors caused by the document to 422, and songs
// over the sample limit to 413.
func statusFor(err error) int {
	switch {
	case errors.Is(err, timeline.ErrTooLong):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, clips.ErrUnknownClip),
		errors.Is(err, timeline.ErrUnknownInstrument),
		errors.Is(err, timeline.ErrInstrumentExists),
		errors.Is(err, timeline.ErrInvalidPitch),
		errors.Is(err, timeline.ErrInvalidSampleRate),
		errors.Is(err, timeline.ErrInvalidChannels),
		errors.Is(err, music.ErrInvalidMeter),
		errors.Is(err, music.ErrInvalidNoteLength),
		errors.Is(err, envelope.ErrUnsupportedMode):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, err := project.Decode(io.LimitReader(r.Body, s.maxBody))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	opts := append(slices.Clone(s.render), timeline.WithMaxSamples(s.maxPCM))
	out, err := composer.Render(doc, s.lib, s.synth, opts...)
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}

	w.Header().Set("X-Sample-Rate", strconv.Itoa(out.SampleRate))
	w.Header().Set("X-Channels", strconv.Itoa(out.Channels))

	if r.URL.Query().Get("format") == "pcm" {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(out.PCM)
		return
	}

	data, err := wav.EncodePCM16(out.SampleRate, out.Channels, out.PCM)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	_, _ = w.Write(data)
}

type preset struct {
	Name    string       `json:"name"`
	Seconds float64      `json:"seconds"`
	Params  synth.Params `json:"params"`
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	names := s.lib.Names()
	out := make([]preset, 0, len(names))
	for _, name := range names {
		p, ok := s.lib.Params(name)
		if !ok {
			continue
		}
		out = append(out, preset{
			Name:    name,
			Seconds: p.Envelope().Duration(p.SampleRate),
			Params:  p,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
