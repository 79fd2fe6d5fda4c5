// SPDX-License-Identifier: EPL-2.0

package main

import (
	"testing"

	"github.com/ik5/composer/midifile"
	"github.com/ik5/composer/music"
)

func TestImportMeter(t *testing.T) {
	t.Parallel()

	fileMeter := music.DefaultMeter()
	fileMeter.BPM = 96

	tests := []struct {
		name     string
		hasTempo bool
		bpm      int
		force    bool
		want     int
	}{
		{"file tempo wins over config", true, 140, false, 96},
		{"config fills missing tempo", false, 140, false, 140},
		{"flag overrides file tempo", true, 70, true, 70},
		{"zero bpm keeps file value", false, 0, false, 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			score := &midifile.Score{Meter: fileMeter, HasTempo: tt.hasTempo}
			got := importMeter(score, tt.bpm, tt.force)
			if got.BPM != tt.want {
				t.Errorf("importMeter().BPM = %d, want %d", got.BPM, tt.want)
			}
			if got.SmallestStep != fileMeter.SmallestStep || got.BeatUnit != fileMeter.BeatUnit {
				t.Errorf("importMeter() changed the grid: %+v", got)
			}
		})
	}
}

func TestMaxSamples(t *testing.T) {
	t.Parallel()

	if got := maxSamples(0); got != 0 {
		t.Errorf("maxSamples(0) = %d, want 0", got)
	}
	if got, want := maxSamples(60), 60*48000*2; got != want {
		t.Errorf("maxSamples(60) = %d, want %d", got, want)
	}
}
