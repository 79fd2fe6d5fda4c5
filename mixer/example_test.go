// SPDX-License-Identifier: EPL-2.0

package mixer_test

import (
	"fmt"

	"github.com/ik5/composer/mixer"
	"github.com/ik5/composer/synth"
)

// ExampleMix shows two overlapping voices whose sum is scaled back into
// the 16-bit range.
func ExampleMix() {
	a := synth.NewClip("a", []int16{20000, 20000}, 8000, 1)
	b := synth.NewClip("b", []int16{20000}, 8000, 1)

	res := mixer.Mix([]mixer.Voice{
		mixer.NewVoice(0, a),
		mixer.NewVoice(1, b),
	})

	fmt.Println(res.Samples, res.Peak, res.Normalized)
	// Output: [16383 32767 0] 40000 true
}
