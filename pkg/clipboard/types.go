package clipboard

import (
	"strings"

	"cliptools/pkg/errors"
)

// Kind discriminates the well-known clipboard content types from
// platform-native ones.
type Kind int

const (
	KindText Kind = iota
	KindURL
	KindHTML
	KindPDF
	KindPNG
	KindRTF
	KindCustom
)

// ContentType identifies a clipboard data flavor. The zero value is plain
// text. Name is set only for KindCustom and holds the platform-native
// identifier verbatim. ContentType is comparable and safe as a map key.
type ContentType struct {
	Kind Kind
	Name string
}

var (
	Text = ContentType{Kind: KindText}
	URL  = ContentType{Kind: KindURL}
	HTML = ContentType{Kind: KindHTML}
	PDF  = ContentType{Kind: KindPDF}
	PNG  = ContentType{Kind: KindPNG}
	RTF  = ContentType{Kind: KindRTF}
)

// Custom wraps a platform-native type identifier.
func Custom(name string) ContentType {
	return ContentType{Kind: KindCustom, Name: name}
}

var wellKnown = map[string]ContentType{
	"url":  URL,
	"html": HTML,
	"pdf":  PDF,
	"png":  PNG,
	"rtf":  RTF,
	"text": Text,
}

// ParseType resolves a user-facing type name to a ContentType. Well-known
// names (url, html, pdf, png, rtf, text) match case-insensitively. A name
// prefixed with @ becomes a custom type with the remainder kept verbatim,
// case preserved. Anything else is an argument error.
func ParseType(name string) (ContentType, error) {
	if ct, ok := wellKnown[strings.ToLower(name)]; ok {
		return ct, nil
	}
	if rest, ok := strings.CutPrefix(name, "@"); ok {
		return Custom(rest), nil
	}
	return ContentType{}, errors.ArgumentWithSuggestion(
		"unknown type: "+name,
		"Valid types are url, html, pdf, png, rtf, and text. For platform-native types, use --system-type or prefix the name with @.",
	)
}

// String renders the inverse of ParseType: well-known types as their
// lowercase name, custom types as @name.
func (ct ContentType) String() string {
	switch ct.Kind {
	case KindText:
		return "text"
	case KindURL:
		return "url"
	case KindHTML:
		return "html"
	case KindPDF:
		return "pdf"
	case KindPNG:
		return "png"
	case KindRTF:
		return "rtf"
	default:
		return "@" + ct.Name
	}
}

// Compare orders content types by kind, then by name for custom types.
func (ct ContentType) Compare(other ContentType) int {
	if ct.Kind != other.Kind {
		if ct.Kind < other.Kind {
			return -1
		}
		return 1
	}
	return strings.Compare(ct.Name, other.Name)
}
