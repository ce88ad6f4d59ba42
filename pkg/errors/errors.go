package errors

import (
	"fmt"
	"os"

	"cliptools/pkg/logger"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type ExitCode int

const (
	ExitCodeSuccess ExitCode = 0
	ExitCodeFailure ExitCode = 1
	ExitCodeUsage   ExitCode = 2
)

// Kind classifies an error for exit-code mapping.
type Kind int

const (
	// KindDataNotFound: the requested type or text is absent from the
	// clipboard, or the clipboard could not be enumerated. Exit 1.
	KindDataNotFound Kind = iota
	// KindInternal: stdin read failure or clipboard write rejection. Exit 1.
	KindInternal
	// KindArgument: unrecognized type name or bad command usage. Exit 2.
	KindArgument
	// KindJSON: malformed JSON input, non-object top level, or a non-string
	// value. Exit 2.
	KindJSON
	// KindUTF8: binary data where text output was required and binary
	// output was not explicitly allowed. Exit 2.
	KindUTF8
)

func (k Kind) ExitCode() ExitCode {
	switch k {
	case KindArgument, KindJSON, KindUTF8:
		return ExitCodeUsage
	default:
		return ExitCodeFailure
	}
}

type Error struct {
	Kind       Kind
	Message    string
	Underlying error
	Suggestion string
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

func NewWithError(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:       kind,
		Message:    message,
		Underlying: err,
	}
}

func DataNotFound(message string, err error) *Error {
	return NewWithError(KindDataNotFound, message, err)
}

func Internal(message string, err error) *Error {
	return NewWithError(KindInternal, message, err)
}

func Argument(message string) *Error {
	return New(KindArgument, message)
}

func ArgumentWithSuggestion(message, suggestion string) *Error {
	return &Error{
		Kind:       KindArgument,
		Message:    message,
		Suggestion: suggestion,
	}
}

func JSON(message string, err error) *Error {
	return NewWithError(KindJSON, message, err)
}

func UTF8(message string) *Error {
	return &Error{
		Kind:       KindUTF8,
		Message:    message,
		Suggestion: "Pass --binary always to emit raw bytes, or redirect stdout away from the terminal.",
	}
}

// Wrap attaches a message to err, preserving its kind when it is already an
// *Error. Returns nil for a nil err.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	if wrapped, ok := err.(*Error); ok {
		return &Error{
			Kind:       wrapped.Kind,
			Message:    message + ": " + wrapped.Message,
			Underlying: wrapped.Underlying,
			Suggestion: wrapped.Suggestion,
		}
	}

	return &Error{
		Kind:       KindInternal,
		Message:    message,
		Underlying: err,
	}
}

func IsKind(err error, kind Kind) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == kind
	}
	return false
}

// CodeFor maps any error to the exit code the process should terminate
// with. Errors that did not come from this package are treated as usage
// errors; by the time they reach the top level they can only be flag or
// subcommand parse failures.
func CodeFor(err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}
	if e, ok := err.(*Error); ok {
		return e.Kind.ExitCode()
	}
	return ExitCodeUsage
}

// ColorMode controls stderr colorization: auto, always, or never.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode resolves a --color flag value.
func ParseColorMode(s string) (ColorMode, *Error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, Argument("invalid color mode: " + s)
	}
}

var colorMode = ColorAuto

// SetColorMode sets the stderr colorization policy for HandleReturn.
func SetColorMode(mode ColorMode) {
	colorMode = mode
}

func colorEnabled() bool {
	switch colorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// HandleReturn renders err as a single line on stderr (plus an optional
// suggestion line) and returns the exit code the caller should exit with.
// It never calls os.Exit itself.
func HandleReturn(err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}

	message := err.Error()
	suggestion := ""
	if e, ok := err.(*Error); ok {
		suggestion = e.Suggestion
		if e.Underlying != nil {
			logger.Debug().Err(e.Underlying).Msg(e.Message)
		}
	}

	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	if !colorEnabled() {
		red.DisableColor()
		yellow.DisableColor()
	}

	red.Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, message)

	if suggestion != "" {
		yellow.Fprint(os.Stderr, "Suggestion: ")
		fmt.Fprintln(os.Stderr, suggestion)
	}

	return CodeFor(err)
}
