// SPDX-License-Identifier: EPL-2.0

// Package midifile moves notes between timelines and Standard MIDI Files.
//
// Import places every note on/off pair on the step grid of a meter and picks
// the longest note value, plain or dotted, that fits its duration. Each track
// and channel of the file becomes one Track. Export writes a tempo track with
// the meter and one track per instrument.
package midifile
