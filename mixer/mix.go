// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"

	"github.com/ik5/composer/utils"
)

// Result of a mix.
type Result struct {
	Samples []int16
	// Peak is the largest magnitude accumulated before normalization.
	Peak int
	// Normalized is true when Peak exceeded the 16-bit range.
	Normalized bool
}

// Bytes serializes the samples little endian.
func (r Result) Bytes() []byte {
	return utils.AppendInt16LE(make([]byte, 0, len(r.Samples)*BytesPerSample), r.Samples)
}

// Mix sums voices, which must be sorted by Start. The output starts at index
// 0 and includes the index at which the last voice reports Finished, so it is
// one sample longer than the furthest voice end.
func Mix(voices []Voice) Result {
	active := append([]Voice(nil), voices...)

	var (
		sums []int
		peak int
	)

	for i := 0; len(active) > 0; i++ {
		sum := 0
		finished := 0

		for j := range active {
			s, state := active[j].SampleAt(i)
			if state == NotStarted {
				break
			}
			if state == Finished {
				finished++
				continue
			}
			sum += int(s)
		}

		sums = append(sums, sum)
		peak = max(peak, utils.Abs(sum))

		if finished > 0 {
			active = removeFinished(active, i)
		}
	}

	return Result{
		Samples:    normalize(sums, peak),
		Peak:       peak,
		Normalized: peak > math.MaxInt16,
	}
}

// removeFinished drops voices done at index i, keeping order.
func removeFinished(active []Voice, i int) []Voice {
	kept := active[:0]
	for _, v := range active {
		if i >= v.End() {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

func normalize(sums []int, peak int) []int16 {
	out := make([]int16, len(sums))
	if peak <= math.MaxInt16 {
		for i, s := range sums {
			out[i] = int16(s)
		}
		return out
	}

	for i, s := range sums {
		out[i] = int16(int64(s) * math.MaxInt16 / int64(peak))
	}
	return out
}
