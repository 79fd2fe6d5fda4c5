// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/composer/utils"
)

// CollectMono16 drains src into mono 16-bit PCM at targetRate.
//
// The pipeline is resample (skipped when the rates already match), then
// MonoMixer, then float to int16 conversion. bufferSize controls how many
// samples are pulled per read.
func CollectMono16(src Source, targetRate int, bufferSize int) ([]int16, error) {
	var stage Source = src
	if src.SampleRate() != targetRate {
		stage = NewResampler(src, targetRate)
	}
	mono := NewMonoMixer(stage)

	pcm16 := make([]int16, 0, targetRate)
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		for i := range n {
			pcm16 = append(pcm16, utils.Float32ToInt16(buf[i]))
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n == 0 {
			// decoders may report a short read without io.EOF at the end
			break
		}
	}

	return pcm16, nil
}
