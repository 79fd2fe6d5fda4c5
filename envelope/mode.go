// SPDX-License-Identifier: EPL-2.0

package envelope

import "fmt"

// Mode selects how a synthesizer envelope is fitted to a note duration.
type Mode int

const (
	// None keeps the original envelope. Used for percussive one-shots whose
	// length should not follow the note.
	None Mode = iota
	// SustainOnly stretches the sustain segment and keeps attack and decay.
	SustainOnly
	// All scales attack, sustain and decay proportionally.
	All
)

var modeNames = map[Mode]string{
	None:        "none",
	SustainOnly: "sustain",
	All:         "all",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
