//go:build windows

package clipboard

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	atotto "github.com/atotto/clipboard"
)

// New returns the clipboard for Windows. Plain text goes through atotto;
// format enumeration and HTML go through PowerShell and
// System.Windows.Forms.
func New() Board {
	return &windowsBoard{}
}

type windowsBoard struct{}

var windowsPortable = map[string]ContentType{
	"text":                     Text,
	"unicodetext":              Text,
	"oemtext":                  Text,
	"system.string":            Text,
	"html format":              HTML,
	"png":                      PNG,
	"portable document format": PDF,
	"rich text format":         RTF,
	"uniformresourcelocator":   URL,
	"uniformresourcelocatorw":  URL,
}

func (b *windowsBoard) Normalize(native string) ContentType {
	if ct, ok := windowsPortable[strings.ToLower(native)]; ok {
		return ct
	}
	return Custom(native)
}

func (b *windowsBoard) Text() (string, error) {
	return atotto.ReadAll()
}

func (b *windowsBoard) Types() ([]string, error) {
	out, err := powershell(`Add-Type -AssemblyName System.Windows.Forms; ` +
		`[System.Windows.Forms.Clipboard]::GetDataObject().GetFormats($false)`)
	if err != nil {
		return nil, ErrNoData
	}
	var formats []string
	for _, line := range strings.Split(strings.ReplaceAll(string(out), "\r\n", "\n"), "\n") {
		if line != "" {
			formats = append(formats, line)
		}
	}
	if len(formats) == 0 {
		return nil, ErrNoData
	}
	return formats, nil
}

func (b *windowsBoard) Read(ct ContentType) ([]byte, error) {
	offered, err := b.Types()
	if err != nil {
		return nil, err
	}
	present := false
	for _, t := range offered {
		if b.Normalize(t) == ct || (ct.Kind == KindCustom && t == ct.Name) {
			present = true
			break
		}
	}
	if !present {
		return nil, ErrNoData
	}

	switch ct.Kind {
	case KindText:
		s, err := atotto.ReadAll()
		return []byte(s), err
	case KindHTML:
		out, err := powershell(`Get-Clipboard -TextFormatType Html -Raw`)
		if err != nil {
			return nil, ErrNoData
		}
		return out, nil
	default:
		return nil, fmt.Errorf("read %s: %w", ct, ErrUnsupported)
	}
}

func (b *windowsBoard) Write(payload map[ContentType][]byte) error {
	if len(payload) > 1 {
		return fmt.Errorf("multi-format clipboard writes on Windows: %w", ErrUnsupported)
	}
	for ct, data := range payload {
		if ct.Kind == KindText {
			return atotto.WriteAll(string(data))
		}
		return fmt.Errorf("write %s: %w", ct, ErrUnsupported)
	}
	return nil
}

func powershell(script string) ([]byte, error) {
	return exec.Command("powershell", "-NoProfile", "-STA", "-Command", script).Output()
}

// ServeStdin is only used by the Linux/Wayland owner subcommand.
func ServeStdin(r io.Reader) error {
	return nil
}
