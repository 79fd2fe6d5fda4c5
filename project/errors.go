// SPDX-License-Identifier: EPL-2.0

package project

import "errors"

var (
	// ErrUnsupportedVersion is returned for documents written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported document version")
	// ErrInvalidDocument is returned when a document cannot be parsed.
	ErrInvalidDocument = errors.New("invalid song document")
)
