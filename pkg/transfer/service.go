// Package transfer implements the three clipboard transactions: paste,
// list-types, and copy. It resolves user-facing type names, enforces the
// binary-output policy, and hands multi-format payloads to the board in a
// single atomic write.
package transfer

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sort"
	"unicode/utf8"

	"cliptools/pkg/clipboard"
	"cliptools/pkg/errors"
	"cliptools/pkg/logger"

	"github.com/mattn/go-isatty"
)

// BinaryPolicy decides whether raw non-UTF-8 bytes may be written to
// stdout. Auto allows binary only when stdout is not a terminal.
type BinaryPolicy int

const (
	BinaryAuto BinaryPolicy = iota
	BinaryAlways
	BinaryNever
)

// ParseBinaryPolicy resolves a --binary flag value.
func ParseBinaryPolicy(s string) (BinaryPolicy, error) {
	switch s {
	case "", "auto":
		return BinaryAuto, nil
	case "always":
		return BinaryAlways, nil
	case "never":
		return BinaryNever, nil
	default:
		return BinaryAuto, errors.Argument("invalid binary policy: " + s)
	}
}

func (p BinaryPolicy) allowed(stdoutIsTerminal bool) bool {
	switch p {
	case BinaryAlways:
		return true
	case BinaryNever:
		return false
	default:
		return !stdoutIsTerminal
	}
}

// Service runs clipboard transactions against a Board. Stdout, Stdin, and
// IsTerminal are injectable so the transactions are testable without a
// process boundary.
type Service struct {
	Board      clipboard.Board
	Stdout     io.Writer
	Stdin      io.Reader
	IsTerminal func() bool
}

func NewService(board clipboard.Board) *Service {
	return &Service{
		Board:  board,
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
		IsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
	}
}

// PasteRequest carries the paste flags. At most one of TypeName and
// SystemTypeName is set; the CLI layer enforces the exclusion.
type PasteRequest struct {
	TypeName       string
	SystemTypeName string
	Binary         BinaryPolicy
	Newline        bool
}

// Paste writes the requested clipboard content to stdout, byte-exact
// unless Newline is set.
func (s *Service) Paste(req PasteRequest) error {
	switch {
	case req.TypeName != "":
		ct, err := clipboard.ParseType(req.TypeName)
		if err != nil {
			return err
		}
		return s.pasteTyped(ct, req)
	case req.SystemTypeName != "":
		return s.pasteTyped(clipboard.Custom(req.SystemTypeName), req)
	}

	// No type requested: the default text representation is text by
	// construction, so the binary policy does not apply.
	text, err := s.Board.Text()
	if err != nil {
		return errors.DataNotFound("no text found in clipboard", err)
	}
	return s.emit([]byte(text), req.Newline)
}

func (s *Service) pasteTyped(ct clipboard.ContentType, req PasteRequest) error {
	logger.Debug().Stringer("type", ct).Msg("reading clipboard content")

	data, err := s.Board.Read(ct)
	if err != nil {
		return errors.DataNotFound("no data found for type "+ct.String(), err)
	}

	if !req.Binary.allowed(s.IsTerminal()) && !utf8.Valid(data) {
		return errors.UTF8("clipboard content for " + ct.String() + " is not valid UTF-8")
	}
	return s.emit(data, req.Newline)
}

func (s *Service) emit(data []byte, newline bool) error {
	if _, err := s.Stdout.Write(data); err != nil {
		return errors.Internal("failed to write to stdout", err)
	}
	if newline {
		if _, err := io.WriteString(s.Stdout, "\n"); err != nil {
			return errors.Internal("failed to write to stdout", err)
		}
	}
	return nil
}

// ListTypes returns the type names currently held by the clipboard. With
// showNative, the platform identifiers come back verbatim in clipboard
// order; otherwise each identifier is normalized into the portable
// vocabulary, sorted, and deduplicated.
func (s *Service) ListTypes(showNative bool) ([]string, error) {
	native, err := s.Board.Types()
	if err != nil {
		return nil, errors.DataNotFound("unable to list clipboard types", err)
	}
	if showNative {
		return native, nil
	}

	seen := map[string]bool{}
	names := []string{}
	for _, t := range native {
		name := s.Board.Normalize(t).String()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// CopyRequest carries the copy flags. JSON excludes the other two fields;
// the CLI layer enforces the exclusion.
type CopyRequest struct {
	TypeName       string
	SystemTypeName string
	JSON           bool
}

// Copy reads stdin and replaces the clipboard contents in one atomic
// multi-type write.
func (s *Service) Copy(req CopyRequest) error {
	var payload map[clipboard.ContentType][]byte
	var err error
	if req.JSON {
		payload, err = s.payloadFromJSON()
	} else {
		payload, err = s.payloadFromStdin(req)
	}
	if err != nil {
		return err
	}

	logger.Debug().Int("types", len(payload)).Msg("writing clipboard payload")
	if err := s.Board.Write(payload); err != nil {
		return errors.Internal("failed to write to clipboard", err)
	}
	return nil
}

// payloadFromJSON parses a JSON object mapping type names to string
// content. Duplicate keys collapse last-wins, per JSON object semantics.
func (s *Service) payloadFromJSON() (map[clipboard.ContentType][]byte, error) {
	raw, err := io.ReadAll(s.Stdin)
	if err != nil {
		return nil, errors.Internal("failed to read stdin", err)
	}

	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.JSON("input must be a JSON object", nil)
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return nil, errors.JSON("invalid JSON input", err)
	}

	payload := make(map[clipboard.ContentType][]byte, len(object))
	for key, value := range object {
		ct, err := clipboard.ParseType(key)
		if err != nil {
			return nil, err
		}
		// Unmarshalling null into a string succeeds as a no-op, so check
		// the raw token first.
		token := bytes.TrimSpace(value)
		if len(token) == 0 || token[0] != '"' {
			return nil, errors.JSON("value for key "+key+" must be a string", nil)
		}
		var content string
		if err := json.Unmarshal(value, &content); err != nil {
			return nil, errors.JSON("value for key "+key+" must be a string", err)
		}
		payload[ct] = []byte(content)
	}
	return payload, nil
}

// payloadFromStdin reads all of stdin as the raw bytes of a single type:
// --type if given, then --system-type, then plain text.
func (s *Service) payloadFromStdin(req CopyRequest) (map[clipboard.ContentType][]byte, error) {
	ct := clipboard.Text
	switch {
	case req.TypeName != "":
		parsed, err := clipboard.ParseType(req.TypeName)
		if err != nil {
			return nil, err
		}
		ct = parsed
	case req.SystemTypeName != "":
		ct = clipboard.Custom(req.SystemTypeName)
	}

	data, err := io.ReadAll(s.Stdin)
	if err != nil {
		return nil, errors.Internal("failed to read stdin", err)
	}
	return map[clipboard.ContentType][]byte{ct: data}, nil
}
