// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"
)

// Float32ToInt16 converts a sample in [-1, 1] to 16-bit PCM.
// Out of range values are clamped; 32767 is used as the scale so that
// +1 and -1 map to symmetric magnitudes.
func Float32ToInt16(x float32) int16 {
	return int16(Clamp(x, -1, 1) * math.MaxInt16)
}

// Int16ToFloat32 is the inverse of Float32ToInt16 within rounding.
func Int16ToFloat32(s int16) float32 {
	return float32(s) / math.MaxInt16
}

// ReadInt16LE reads a little endian signed sample starting at off.
func ReadInt16LE(buf []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[off : off+2]))
}

// AppendInt16LE serializes samples little endian contiguous onto dst.
func AppendInt16LE(dst []byte, samples []int16) []byte {
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(s))
	}
	return dst
}

// Int16sFromLE decodes a little endian PCM16 byte slice. A trailing odd
// byte is ignored.
func Int16sFromLE(buf []byte) []int16 {
	out := make([]int16, len(buf)/2)
	for i := range out {
		out[i] = ReadInt16LE(buf, i*2)
	}
	return out
}
