//go:build linux

package clipboard

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"cliptools/pkg/clipboard/internal/wayland"

	atotto "github.com/atotto/clipboard"
)

// New returns the clipboard for this platform. On Wayland the board talks
// zwlr_data_control_v1 directly; on X11 it shells out to xclip with an
// atotto fallback for plain text.
func New() Board {
	return &linuxBoard{wayland: os.Getenv("WAYLAND_DISPLAY") != ""}
}

type linuxBoard struct {
	wayland bool
}

var linuxPortable = map[string]ContentType{
	"text/plain":               Text,
	"text/plain;charset=utf-8": Text,
	"utf8_string":              Text,
	"string":                   Text,
	"text":                     Text,
	"compound_text":            Text,
	"text/html":                HTML,
	"image/png":                PNG,
	"application/pdf":          PDF,
	"text/rtf":                 RTF,
	"application/rtf":          RTF,
	"text/uri-list":            URL,
	"text/x-moz-url":           URL,
	"_netscape_url":            URL,
}

// nativeNames lists the platform identifiers a portable type is offered
// under, most specific first. Plain text is served under several names so
// both modern and legacy clients find it.
func nativeNames(ct ContentType) []string {
	switch ct.Kind {
	case KindText:
		return []string{"text/plain;charset=utf-8", "text/plain", "UTF8_STRING", "STRING"}
	case KindURL:
		return []string{"text/uri-list"}
	case KindHTML:
		return []string{"text/html"}
	case KindPDF:
		return []string{"application/pdf"}
	case KindPNG:
		return []string{"image/png"}
	case KindRTF:
		return []string{"text/rtf", "application/rtf"}
	default:
		return []string{ct.Name}
	}
}

func (b *linuxBoard) Normalize(native string) ContentType {
	if ct, ok := linuxPortable[strings.ToLower(native)]; ok {
		return ct
	}
	return Custom(native)
}

func (b *linuxBoard) Text() (string, error) {
	if b.wayland {
		data, err := b.Read(Text)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return atotto.ReadAll()
}

func (b *linuxBoard) Types() ([]string, error) {
	if b.wayland {
		mimes, err := wayland.ListTypes()
		if stderrors.Is(err, wayland.ErrNoSelection) {
			return nil, ErrNoData
		}
		return mimes, err
	}

	out, err := exec.Command("xclip", "-o", "-selection", "clipboard", "-t", "TARGETS").Output()
	if err != nil {
		return nil, ErrNoData
	}
	var targets []string
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			targets = append(targets, line)
		}
	}
	return targets, nil
}

func (b *linuxBoard) Read(ct ContentType) ([]byte, error) {
	offered, err := b.Types()
	if err != nil {
		return nil, err
	}

	for _, name := range nativeNames(ct) {
		found := false
		for _, t := range offered {
			if t == name {
				found = true
				break
			}
		}
		if !found {
			continue
		}

		if b.wayland {
			data, err := wayland.Receive(name)
			if stderrors.Is(err, wayland.ErrNoSelection) {
				return nil, ErrNoData
			}
			return data, err
		}
		return exec.Command("xclip", "-o", "-selection", "clipboard", "-t", name).Output()
	}
	return nil, ErrNoData
}

func (b *linuxBoard) Write(payload map[ContentType][]byte) error {
	formats := map[string][]byte{}
	for ct, data := range payload {
		for _, name := range nativeNames(ct) {
			formats[name] = data
		}
	}

	if b.wayland {
		return spawnOwner(formats)
	}

	// X11: xclip serves one target per process, so only single-type
	// payloads can be applied atomically here.
	if len(payload) > 1 {
		return fmt.Errorf("multi-format clipboard writes on X11: %w", ErrUnsupported)
	}
	for ct, data := range payload {
		if ct.Kind == KindText {
			return atotto.WriteAll(string(data))
		}
		cmd := exec.Command("xclip", "-selection", "clipboard", "-t", nativeNames(ct)[0], "-i")
		cmd.Stdin = bytes.NewReader(data)
		return cmd.Run()
	}
	return nil
}

// spawnOwner re-execs this binary as a detached clipboard owner that keeps
// serving every format after the parent exits.
func spawnOwner(formats map[string][]byte) error {
	payload, err := json.Marshal(formats)
	if err != nil {
		return err
	}

	cmd := exec.Command(os.Args[0], "__clipboard-serve")
	cmd.Stdin = bytes.NewReader(payload)
	// Detach from the parent's process group so the child survives parent exit.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return cmd.Start() // don't Wait — parent returns immediately
}

// ServeStdin is called by the __clipboard-serve hidden command. It reads
// the format payload from r and runs the Wayland clipboard owner, blocking
// until ownership is cancelled.
func ServeStdin(r io.Reader) error {
	var formats map[string][]byte
	if err := json.NewDecoder(r).Decode(&formats); err != nil {
		return err
	}
	return wayland.Serve(formats)
}
