//go:build !linux && !darwin && !windows

package clipboard

import "io"

// New returns a stub board on platforms without clipboard support.
func New() Board {
	return &stubBoard{}
}

type stubBoard struct{}

func (stubBoard) Text() (string, error)               { return "", ErrUnsupported }
func (stubBoard) Read(ContentType) ([]byte, error)    { return nil, ErrUnsupported }
func (stubBoard) Types() ([]string, error)            { return nil, ErrUnsupported }
func (stubBoard) Normalize(native string) ContentType { return Custom(native) }
func (stubBoard) Write(map[ContentType][]byte) error  { return ErrUnsupported }

// ServeStdin is only used by the Linux/Wayland owner subcommand.
func ServeStdin(r io.Reader) error { return nil }
