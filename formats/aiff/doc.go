// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes 16-bit AIFF recordings for sample based instruments
// using github.com/go-audio/aiff.
//
// # Supported Formats
//
// PCM 16-bit AIFF, any channel count and sample rate. Decoder is
// registered for both ".aiff" and ".aif" in clips.DefaultRegistry.
//
// # Usage
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
// Inputs that are not an io.ReadSeeker are buffered in memory first, since
// the chunk reader seeks. Samples come out as float32 in [-1, 1].
//
// # Errors
//
//   - ErrNotAiffFile: the input is not a FORM/AIFF container
//   - ErrOnlyPCM16bitSupported: another bit depth
//   - ErrUnsupportedAiffLayout: missing channel count or sample rate
package aiff
