package annotation

import (
	"github.com/pkg/errors"
)

// Kind identifies the geometry of an annotation.
type Kind int

const (
	KindTrendline Kind = iota
	KindRay
	KindExtendedLine
	KindInfoLine
	KindFibRetracement
	KindFibExtension
	KindRectangle
	KindCircle
	KindTriangle
	KindText
	KindCallout
	KindLongPosition
	KindShortPosition
	KindPriceRange

	numKinds
)

var kindNames = [numKinds]string{
	KindTrendline:      "trendline",
	KindRay:            "ray",
	KindExtendedLine:   "extendedLine",
	KindInfoLine:       "infoLine",
	KindFibRetracement: "fibRetracement",
	KindFibExtension:   "fibExtension",
	KindRectangle:      "rectangle",
	KindCircle:         "circle",
	KindTriangle:       "triangle",
	KindText:           "text",
	KindCallout:        "callout",
	KindLongPosition:   "longPosition",
	KindShortPosition:  "shortPosition",
	KindPriceRange:     "priceRange",
}

// legacyKindNames maps the tool identifiers used by older toolbars.
var legacyKindNames = map[string]Kind{
	"extended":        KindExtendedLine,
	"info_line":       KindInfoLine,
	"fib_retracement": KindFibRetracement,
	"fib_extension":   KindFibExtension,
	"rect":            KindRectangle,
	"long_pos":        KindLongPosition,
	"short_pos":       KindShortPosition,
	"price_range":     KindPriceRange,
}

// Kinds returns every annotation kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// HasLabel reports whether the kind renders a user-supplied text label.
func (k Kind) HasLabel() bool {
	return k == KindText || k == KindCallout
}

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind resolves a kind by its name or legacy tool identifier.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	if k, ok := legacyKindNames[s]; ok {
		return k, nil
	}
	return 0, errors.Errorf("unknown annotation kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.Errorf("invalid annotation kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Tool is the active toolbar selection: the cursor or a drawing kind.
// The zero value is the cursor.
type Tool int

// ToolCursor selects and edits existing annotations instead of drawing.
const ToolCursor Tool = 0

// ToolFor returns the drawing tool that creates annotations of kind k.
func ToolFor(k Kind) Tool {
	return Tool(k) + 1
}

// Kind returns the kind drawn by t; ok is false for the cursor.
func (t Tool) Kind() (k Kind, ok bool) {
	if t == ToolCursor {
		return 0, false
	}
	k = Kind(t - 1)
	return k, k.Valid()
}

// IsCursor reports whether t is the cursor tool.
func (t Tool) IsCursor() bool {
	_, ok := t.Kind()
	return !ok
}

func (t Tool) String() string {
	if k, ok := t.Kind(); ok {
		return k.String()
	}
	return "cursor"
}

// ParseTool resolves "cursor" or any kind name.
func ParseTool(s string) (Tool, error) {
	if s == "cursor" || s == "" {
		return ToolCursor, nil
	}
	k, err := ParseKind(s)
	if err != nil {
		return ToolCursor, errors.Wrap(err, "unknown tool")
	}
	return ToolFor(k), nil
}
