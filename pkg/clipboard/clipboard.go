// Package clipboard provides typed access to the system clipboard. Content
// is keyed by ContentType, a portable vocabulary (text, url, html, pdf, png,
// rtf) plus an escape hatch for platform-native identifiers. On
// Linux/Wayland, multi-type writes daemonize a clipboard owner that serves
// every format from a single data source, so a payload is applied all at
// once or not at all.
package clipboard

import "errors"

// ErrNoData reports that the clipboard holds no content for the requested
// type, or no content at all.
var ErrNoData = errors.New("no data found for this type")

// ErrUnsupported reports an operation the platform backend cannot perform.
var ErrUnsupported = errors.New("operation not supported on this platform")

// Board is the capability surface the system clipboard exposes. Write must
// be atomic: either every (type, bytes) pair of the payload becomes
// readable, or the prior clipboard contents stay in place.
type Board interface {
	// Text returns the default plain-text representation.
	Text() (string, error)

	// Read returns the raw bytes held under ct. Returns ErrNoData when the
	// clipboard holds nothing for that type.
	Read(ct ContentType) ([]byte, error)

	// Types enumerates the platform-native type identifiers currently
	// offered by the clipboard, in clipboard order.
	Types() ([]string, error)

	// Normalize maps a platform-native identifier into the portable
	// vocabulary, falling back to Custom for anything unrecognized.
	Normalize(native string) ContentType

	// Write replaces the clipboard with payload in a single transaction.
	Write(payload map[ContentType][]byte) error
}
