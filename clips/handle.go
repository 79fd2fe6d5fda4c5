// SPDX-License-Identifier: EPL-2.0

package clips

import "sync"

// Handle is a counted reference to a source clip.
type Handle struct {
	lib   *Library
	entry *entry

	once     sync.Once
	mu       sync.Mutex
	released bool
}

// Name of the referenced source clip.
func (h *Handle) Name() string {
	return h.entry.source.Name
}

// Source returns the parameters and preview clip.
func (h *Handle) Source() (Source, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return Source{}, ErrHandleReleased
	}

	h.lib.mu.Lock()
	src := h.entry.source
	h.lib.mu.Unlock()

	return src, nil
}

// Release drops the reference. Later calls are no-ops.
func (h *Handle) Release() {
	h.once.Do(func() {
		h.mu.Lock()
		h.released = true
		h.mu.Unlock()

		h.lib.release(h.entry)
	})
}
