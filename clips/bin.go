// SPDX-License-Identifier: EPL-2.0

package clips

import (
	"sync"

	"github.com/ik5/composer/synth"
)

// Bin queues disposed clips until Flush.
type Bin struct {
	mu      sync.Mutex
	pending []*synth.Clip
}

func (b *Bin) Dispose(c *synth.Clip) {
	if c == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, c)
}

// Pending is the number of queued clips.
func (b *Bin) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.pending)
}

// Flush frees the queued clip buffers and returns how many there were.
func (b *Bin) Flush() int {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	for _, c := range pending {
		c.Buffer = nil
		c.Start, c.End = 0, 0
	}
	return len(pending)
}
