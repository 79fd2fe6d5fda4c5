// SPDX-License-Identifier: EPL-2.0

package envelope

import "errors"

var (
	// ErrUnsupportedMode indicates a duration fit mode outside the known set,
	// usually stored data from a newer or corrupt version.
	ErrUnsupportedMode = errors.New("unsupported envelope duration mode")
)
