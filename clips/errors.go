// SPDX-License-Identifier: EPL-2.0

package clips

import "errors"

var (
	// ErrUnknownClip is returned when acquiring a name that was never registered.
	ErrUnknownClip = errors.New("unknown source clip")

	// ErrUnsupportedFormat is returned for recordings no decoder is registered for.
	ErrUnsupportedFormat = errors.New("unsupported recording format")

	// ErrHandleReleased is returned when using a handle after Release.
	ErrHandleReleased = errors.New("source clip handle already released")
)
