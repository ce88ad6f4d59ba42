package transfer

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"strings"
	"testing"

	"cliptools/pkg/clipboard"
	"cliptools/pkg/errors"
)

// fakeBoard is an in-memory Board for exercising the transactions without
// touching the OS clipboard.
type fakeBoard struct {
	text      string
	textErr   error
	contents  map[clipboard.ContentType][]byte
	types     []string
	typesErr  error
	normalize map[string]clipboard.ContentType
	written   map[clipboard.ContentType][]byte
	writeErr  error
}

func (f *fakeBoard) Text() (string, error) {
	return f.text, f.textErr
}

func (f *fakeBoard) Read(ct clipboard.ContentType) ([]byte, error) {
	if data, ok := f.contents[ct]; ok {
		return data, nil
	}
	return nil, clipboard.ErrNoData
}

func (f *fakeBoard) Types() ([]string, error) {
	return f.types, f.typesErr
}

func (f *fakeBoard) Normalize(native string) clipboard.ContentType {
	if ct, ok := f.normalize[native]; ok {
		return ct
	}
	return clipboard.Custom(native)
}

func (f *fakeBoard) Write(payload map[clipboard.ContentType][]byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = payload
	return nil
}

func newTestService(board *fakeBoard) (*Service, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Service{
		Board:      board,
		Stdout:     out,
		Stdin:      strings.NewReader(""),
		IsTerminal: func() bool { return false },
	}, out
}

func TestPaste_DefaultText(t *testing.T) {
	svc, out := newTestService(&fakeBoard{text: "hello"})

	if err := svc.Paste(PasteRequest{}); err != nil {
		t.Fatalf("Paste() returned error: %v", err)
	}
	if out.String() != "hello" {
		t.Errorf("output = %q, want %q (no trailing newline)", out.String(), "hello")
	}
}

func TestPaste_NoTextInClipboard(t *testing.T) {
	svc, _ := newTestService(&fakeBoard{textErr: clipboard.ErrNoData})

	err := svc.Paste(PasteRequest{})
	if !errors.IsKind(err, errors.KindDataNotFound) {
		t.Errorf("error = %v, want KindDataNotFound", err)
	}
	if errors.CodeFor(err) != errors.ExitCodeFailure {
		t.Errorf("exit code = %d, want 1", errors.CodeFor(err))
	}
}

func TestPaste_UnrecognizedType(t *testing.T) {
	svc, _ := newTestService(&fakeBoard{})

	err := svc.Paste(PasteRequest{TypeName: "foo"})
	if !errors.IsKind(err, errors.KindArgument) {
		t.Errorf("error = %v, want KindArgument", err)
	}
	if errors.CodeFor(err) != errors.ExitCodeUsage {
		t.Errorf("exit code = %d, want 2", errors.CodeFor(err))
	}
}

func TestPaste_TypedContent(t *testing.T) {
	svc, out := newTestService(&fakeBoard{
		contents: map[clipboard.ContentType][]byte{
			clipboard.HTML: []byte("<b>hi</b>"),
		},
	})

	if err := svc.Paste(PasteRequest{TypeName: "html"}); err != nil {
		t.Fatalf("Paste() returned error: %v", err)
	}
	if out.String() != "<b>hi</b>" {
		t.Errorf("output = %q, want %q", out.String(), "<b>hi</b>")
	}
}

func TestPaste_TypedContentAbsent(t *testing.T) {
	svc, _ := newTestService(&fakeBoard{})

	err := svc.Paste(PasteRequest{TypeName: "png"})
	if !errors.IsKind(err, errors.KindDataNotFound) {
		t.Errorf("error = %v, want KindDataNotFound", err)
	}
}

func TestPaste_SystemTypeBypassesCodec(t *testing.T) {
	// A system type needs no @ prefix and is handed to the board verbatim.
	svc, out := newTestService(&fakeBoard{
		contents: map[clipboard.ContentType][]byte{
			clipboard.Custom("application/x-thing"): []byte("raw"),
		},
	})

	if err := svc.Paste(PasteRequest{SystemTypeName: "application/x-thing"}); err != nil {
		t.Fatalf("Paste() returned error: %v", err)
	}
	if out.String() != "raw" {
		t.Errorf("output = %q, want %q", out.String(), "raw")
	}
}

func TestPaste_BinaryPolicy(t *testing.T) {
	binary := []byte{0xff, 0xfe, 0x00, 0x81}

	tests := []struct {
		name     string
		policy   BinaryPolicy
		terminal bool
		wantUTF8 bool
	}{
		{"never fails", BinaryNever, false, true},
		{"always succeeds", BinaryAlways, true, false},
		{"auto on terminal fails", BinaryAuto, true, true},
		{"auto redirected succeeds", BinaryAuto, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := &fakeBoard{
				contents: map[clipboard.ContentType][]byte{
					clipboard.Custom("x-raw"): binary,
				},
			}
			svc, out := newTestService(board)
			svc.IsTerminal = func() bool { return tt.terminal }

			err := svc.Paste(PasteRequest{SystemTypeName: "x-raw", Binary: tt.policy})
			if tt.wantUTF8 {
				if !errors.IsKind(err, errors.KindUTF8) {
					t.Fatalf("error = %v, want KindUTF8", err)
				}
				if errors.CodeFor(err) != errors.ExitCodeUsage {
					t.Errorf("exit code = %d, want 2", errors.CodeFor(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Paste() returned error: %v", err)
			}
			if !bytes.Equal(out.Bytes(), binary) {
				t.Errorf("output = %v, want raw bytes %v", out.Bytes(), binary)
			}
		})
	}
}

func TestPaste_DefaultTextExemptFromBinaryPolicy(t *testing.T) {
	// The no-type path returns text by construction; the policy is not
	// applied even when stdout is a terminal.
	svc, out := newTestService(&fakeBoard{text: "plain"})
	svc.IsTerminal = func() bool { return true }

	if err := svc.Paste(PasteRequest{Binary: BinaryNever}); err != nil {
		t.Fatalf("Paste() returned error: %v", err)
	}
	if out.String() != "plain" {
		t.Errorf("output = %q, want %q", out.String(), "plain")
	}
}

func TestPaste_TrailingNewline(t *testing.T) {
	svc, out := newTestService(&fakeBoard{text: "hello"})

	if err := svc.Paste(PasteRequest{Newline: true}); err != nil {
		t.Fatalf("Paste() returned error: %v", err)
	}
	if out.String() != "hello\n" {
		t.Errorf("output = %q, want %q", out.String(), "hello\n")
	}
}

func TestListTypes_NormalizedSortedDeduped(t *testing.T) {
	// Two native plain-text flavors collapse into a single "text".
	svc, _ := newTestService(&fakeBoard{
		types: []string{"public.utf8-plain-text", "NSStringPboardType"},
		normalize: map[string]clipboard.ContentType{
			"public.utf8-plain-text": clipboard.Text,
			"NSStringPboardType":     clipboard.Text,
		},
	})

	names, err := svc.ListTypes(false)
	if err != nil {
		t.Fatalf("ListTypes() returned error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"text"}) {
		t.Errorf("names = %v, want [text]", names)
	}
}

func TestListTypes_Sorted(t *testing.T) {
	svc, _ := newTestService(&fakeBoard{
		types: []string{"text/plain", "image/png", "text/html"},
		normalize: map[string]clipboard.ContentType{
			"text/plain": clipboard.Text,
			"image/png":  clipboard.PNG,
			"text/html":  clipboard.HTML,
		},
	})

	names, err := svc.ListTypes(false)
	if err != nil {
		t.Fatalf("ListTypes() returned error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"html", "png", "text"}) {
		t.Errorf("names = %v, want [html png text]", names)
	}
}

func TestListTypes_NativePassthrough(t *testing.T) {
	// Verbatim, unsorted, undeduped, in board order.
	native := []string{"public.utf8-plain-text", "NSStringPboardType"}
	svc, _ := newTestService(&fakeBoard{types: native})

	names, err := svc.ListTypes(true)
	if err != nil {
		t.Fatalf("ListTypes() returned error: %v", err)
	}
	if !reflect.DeepEqual(names, native) {
		t.Errorf("names = %v, want %v", names, native)
	}
}

func TestListTypes_EnumerationFailure(t *testing.T) {
	svc, _ := newTestService(&fakeBoard{typesErr: clipboard.ErrNoData})

	_, err := svc.ListTypes(false)
	if !errors.IsKind(err, errors.KindDataNotFound) {
		t.Errorf("error = %v, want KindDataNotFound", err)
	}
}

func TestCopy_SingleTypeDefault(t *testing.T) {
	board := &fakeBoard{}
	svc, _ := newTestService(board)
	svc.Stdin = strings.NewReader("abc")

	if err := svc.Copy(CopyRequest{}); err != nil {
		t.Fatalf("Copy() returned error: %v", err)
	}
	want := map[clipboard.ContentType][]byte{clipboard.Text: []byte("abc")}
	if !reflect.DeepEqual(board.written, want) {
		t.Errorf("written = %v, want %v", board.written, want)
	}
}

func TestCopy_SingleTypeExplicit(t *testing.T) {
	board := &fakeBoard{}
	svc, _ := newTestService(board)
	svc.Stdin = strings.NewReader("<p>x</p>")

	if err := svc.Copy(CopyRequest{TypeName: "html"}); err != nil {
		t.Fatalf("Copy() returned error: %v", err)
	}
	if !bytes.Equal(board.written[clipboard.HTML], []byte("<p>x</p>")) {
		t.Errorf("written = %v, want html entry", board.written)
	}
}

func TestCopy_SystemType(t *testing.T) {
	board := &fakeBoard{}
	svc, _ := newTestService(board)
	svc.Stdin = strings.NewReader("data")

	if err := svc.Copy(CopyRequest{SystemTypeName: "application/x-thing"}); err != nil {
		t.Fatalf("Copy() returned error: %v", err)
	}
	if !bytes.Equal(board.written[clipboard.Custom("application/x-thing")], []byte("data")) {
		t.Errorf("written = %v, want custom entry", board.written)
	}
}

func TestCopy_JSONMode(t *testing.T) {
	board := &fakeBoard{}
	svc, _ := newTestService(board)
	svc.Stdin = strings.NewReader(`{"text": "hello", "url": "http://example.com"}`)

	if err := svc.Copy(CopyRequest{JSON: true}); err != nil {
		t.Fatalf("Copy() returned error: %v", err)
	}
	want := map[clipboard.ContentType][]byte{
		clipboard.Text: []byte("hello"),
		clipboard.URL:  []byte("http://example.com"),
	}
	if !reflect.DeepEqual(board.written, want) {
		t.Errorf("written = %v, want %v", board.written, want)
	}
}

func TestCopy_JSONCustomKey(t *testing.T) {
	board := &fakeBoard{}
	svc, _ := newTestService(board)
	svc.Stdin = strings.NewReader(`{"@x-thing": "v"}`)

	if err := svc.Copy(CopyRequest{JSON: true}); err != nil {
		t.Fatalf("Copy() returned error: %v", err)
	}
	if !bytes.Equal(board.written[clipboard.Custom("x-thing")], []byte("v")) {
		t.Errorf("written = %v, want x-thing entry", board.written)
	}
}

func TestCopy_JSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  errors.Kind
	}{
		{"top-level array", `["text"]`, errors.KindJSON},
		{"top-level string", `"text"`, errors.KindJSON},
		{"empty input", ``, errors.KindJSON},
		{"malformed", `{"text": `, errors.KindJSON},
		{"non-string value", `{"text": 42}`, errors.KindJSON},
		{"null value", `{"text": null}`, errors.KindJSON},
		{"unrecognized key", `{"bogus": "v"}`, errors.KindArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := &fakeBoard{}
			svc, _ := newTestService(board)
			svc.Stdin = strings.NewReader(tt.input)

			err := svc.Copy(CopyRequest{JSON: true})
			if !errors.IsKind(err, tt.kind) {
				t.Errorf("error = %v, want kind %v", err, tt.kind)
			}
			if errors.CodeFor(err) != errors.ExitCodeUsage {
				t.Errorf("exit code = %d, want 2", errors.CodeFor(err))
			}
			if board.written != nil {
				t.Errorf("clipboard written despite error: %v", board.written)
			}
		})
	}
}

func TestCopy_DuplicateJSONKeysLastWins(t *testing.T) {
	board := &fakeBoard{}
	svc, _ := newTestService(board)
	svc.Stdin = strings.NewReader(`{"text": "first", "text": "second"}`)

	if err := svc.Copy(CopyRequest{JSON: true}); err != nil {
		t.Fatalf("Copy() returned error: %v", err)
	}
	if !bytes.Equal(board.written[clipboard.Text], []byte("second")) {
		t.Errorf("written text = %q, want %q", board.written[clipboard.Text], "second")
	}
}

func TestCopy_WriteRejected(t *testing.T) {
	svc, _ := newTestService(&fakeBoard{writeErr: stderrors.New("selection refused")})
	svc.Stdin = strings.NewReader("x")

	err := svc.Copy(CopyRequest{})
	if !errors.IsKind(err, errors.KindInternal) {
		t.Errorf("error = %v, want KindInternal", err)
	}
	if errors.CodeFor(err) != errors.ExitCodeFailure {
		t.Errorf("exit code = %d, want 1", errors.CodeFor(err))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, stderrors.New("read failure")
}

func TestCopy_StdinReadFailure(t *testing.T) {
	svc, _ := newTestService(&fakeBoard{})
	svc.Stdin = failingReader{}

	err := svc.Copy(CopyRequest{})
	if !errors.IsKind(err, errors.KindInternal) {
		t.Errorf("error = %v, want KindInternal", err)
	}
}

func TestParseBinaryPolicy(t *testing.T) {
	tests := []struct {
		input   string
		policy  BinaryPolicy
		wantErr bool
	}{
		{"", BinaryAuto, false},
		{"auto", BinaryAuto, false},
		{"always", BinaryAlways, false},
		{"never", BinaryNever, false},
		{"maybe", BinaryAuto, true},
	}

	for _, tt := range tests {
		policy, err := ParseBinaryPolicy(tt.input)
		if tt.wantErr {
			if !errors.IsKind(err, errors.KindArgument) {
				t.Errorf("ParseBinaryPolicy(%q) error = %v, want KindArgument", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBinaryPolicy(%q) returned error: %v", tt.input, err)
			continue
		}
		if policy != tt.policy {
			t.Errorf("ParseBinaryPolicy(%q) = %v, want %v", tt.input, policy, tt.policy)
		}
	}
}
