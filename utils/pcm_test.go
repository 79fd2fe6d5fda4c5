// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{name: "zero", input: 0, want: 0},
		{name: "max positive", input: 1, want: math.MaxInt16},
		{name: "max negative", input: -1, want: -math.MaxInt16},
		{name: "half positive", input: 0.5, want: 16383},
		{name: "half negative", input: -0.5, want: -16383},
		{name: "clamp over max", input: 1.5, want: math.MaxInt16},
		{name: "clamp under min", input: -100, want: -math.MaxInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Float32ToInt16(tt.input); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestInt16ToFloat32_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []int16{0, 1, -1, 1000, -1000, math.MaxInt16, -math.MaxInt16} {
		got := Float32ToInt16(Int16ToFloat32(s))
		if d := int(got) - int(s); d < -1 || d > 1 {
			t.Errorf("round trip of %d = %d", s, got)
		}
	}
}

func TestAppendInt16LE(t *testing.T) {
	t.Parallel()

	buf := AppendInt16LE(nil, []int16{1, -2, 0x1234})
	want := []byte{0x01, 0x00, 0xFE, 0xFF, 0x34, 0x12}

	if len(buf) != len(want) {
		t.Fatalf("len = %d, want %d", len(buf), len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %#x, want %#x", i, buf[i], want[i])
		}
	}

	back := Int16sFromLE(buf)
	if back[0] != 1 || back[1] != -2 || back[2] != 0x1234 {
		t.Errorf("Int16sFromLE() = %v", back)
	}
	if got := ReadInt16LE(buf, 2); got != -2 {
		t.Errorf("ReadInt16LE() = %d, want -2", got)
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := Clamp(1.5, 0.0, 1.0); got != 1 {
		t.Errorf("Clamp(1.5) = %v", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp(-3) = %v", got)
	}
	if got := Clamp(float32(0.25), 0, 1); got != 0.25 {
		t.Errorf("Clamp(0.25) = %v", got)
	}
	if got := Abs(-7); got != 7 {
		t.Errorf("Abs(-7) = %v", got)
	}
}

func TestCubicInterpolate_Endpoints(t *testing.T) {
	t.Parallel()

	if got := CubicInterpolate(0, 1, 2, 3, 0); math.Abs(float64(got-1)) > 1e-6 {
		t.Errorf("x=0 got %v, want 1", got)
	}
	if got := CubicInterpolate(0, 1, 2, 3, 1); math.Abs(float64(got-2)) > 1e-6 {
		t.Errorf("x=1 got %v, want 2", got)
	}
	if got := CubicInterpolate(0, 1, 2, 3, 0.5); math.Abs(float64(got-1.5)) > 1e-6 {
		t.Errorf("x=0.5 on a line got %v, want 1.5", got)
	}
	if got := Lerp(2, 4, 0.5); got != 3 {
		t.Errorf("Lerp() = %v, want 3", got)
	}
}
