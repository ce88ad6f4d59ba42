//go:build darwin

package clipboard

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// New returns the clipboard for macOS. Plain text goes through
// pbpaste/pbcopy; typed content is read through osascript raw-data
// coercion («data XXXX...»).
func New() Board {
	return &darwinBoard{}
}

type darwinBoard struct{}

var darwinPortable = map[string]ContentType{
	"string":         Text,
	"unicode text":   Text,
	"«class utf8»":   Text,
	"«class ut16»":   Text,
	"«class html»":   HTML,
	"«class pngf»":   PNG,
	"«class pdf »":   PDF,
	"«class rtf »":   RTF,
	"«class url »":   URL,
	"«class furl»":   URL,
	"«class weburl»": URL,
}

// darwinClass maps a well-known type to its four-character AppleScript
// data class.
func darwinClass(ct ContentType) string {
	switch ct.Kind {
	case KindText:
		return "utf8"
	case KindURL:
		return "url "
	case KindHTML:
		return "HTML"
	case KindPDF:
		return "PDF "
	case KindPNG:
		return "PNGf"
	case KindRTF:
		return "RTF "
	default:
		// Custom names arrive as raw clipboard-info tokens; only the
		// «class XXXX» form can be coerced.
		name := strings.TrimSuffix(strings.TrimPrefix(ct.Name, "«class "), "»")
		if name != ct.Name {
			return name
		}
		return ""
	}
}

func (b *darwinBoard) Normalize(native string) ContentType {
	if ct, ok := darwinPortable[strings.ToLower(native)]; ok {
		return ct
	}
	return Custom(native)
}

func (b *darwinBoard) Text() (string, error) {
	out, err := exec.Command("pbpaste").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Types parses `osascript -e "clipboard info"`, which reports alternating
// class and byte-size tokens.
func (b *darwinBoard) Types() ([]string, error) {
	out, err := exec.Command("osascript", "-e", "clipboard info").Output()
	if err != nil {
		return nil, ErrNoData
	}
	tokens := strings.Split(strings.TrimSpace(string(out)), ", ")
	var types []string
	for i := 0; i < len(tokens); i += 2 {
		if tokens[i] != "" {
			types = append(types, tokens[i])
		}
	}
	if len(types) == 0 {
		return nil, ErrNoData
	}
	return types, nil
}

func (b *darwinBoard) Read(ct ContentType) ([]byte, error) {
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

	if ct.Kind == KindText {
		out, err := exec.Command("pbpaste").Output()
		return out, err
	}

	class := darwinClass(ct)
	if class == "" {
		return nil, fmt.Errorf("read %s: %w", ct, ErrUnsupported)
	}
	out, err := exec.Command("osascript", "-e",
		fmt.Sprintf("the clipboard as «class %s»", class)).Output()
	if err != nil {
		return nil, ErrNoData
	}
	return decodeDataLiteral(string(out))
}

// decodeDataLiteral extracts the payload from an AppleScript raw-data
// literal of the form «data XXXX48656c6c6f».
func decodeDataLiteral(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "«data ")
	if start < 0 {
		// osascript printed the value as text
		return []byte(s), nil
	}
	body := s[start+len("«data "):]
	if end := strings.Index(body, "»"); end >= 0 {
		body = body[:end]
	}
	if len(body) < 4 {
		return nil, fmt.Errorf("malformed data literal %q", s)
	}
	return hex.DecodeString(body[4:]) // strip the four-character class code
}

func (b *darwinBoard) Write(payload map[ContentType][]byte) error {
	// NSPasteboard multi-type declaration is not reachable through
	// pbcopy/osascript, so only single-type payloads are atomic here.
	if len(payload) > 1 {
		return fmt.Errorf("multi-format clipboard writes on macOS: %w", ErrUnsupported)
	}
	for ct, data := range payload {
		if ct.Kind == KindText {
			return pbcopy(bytes.NewReader(data))
		}
		class := darwinClass(ct)
		if class == "" {
			return fmt.Errorf("write %s: %w", ct, ErrUnsupported)
		}
		script := fmt.Sprintf("set the clipboard to «data %s%s»", class,
			strings.ToUpper(hex.EncodeToString(data)))
		return exec.Command("osascript", "-e", script).Run()
	}
	return nil
}

func pbcopy(r io.Reader) error {
	cmd := exec.Command("pbcopy")
	cmd.Stdin = r
	return cmd.Run()
}

// ServeStdin is only used by the Linux/Wayland owner subcommand.
func ServeStdin(r io.Reader) error {
	return nil
}
