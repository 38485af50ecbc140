package document

import (
	"github.com/mcncl/jsonreform/internal/errors"
	"github.com/mcncl/jsonreform/internal/formatter"
	"github.com/mcncl/jsonreform/jsonvalue"
)

// FormatMode names an output representation.
type FormatMode string

const (
	// Compact has no insignificant whitespace and escapes "/" and non-ASCII
	// characters.
	Compact FormatMode = "json"
	// Pretty indents four spaces per level and escapes like Compact.
	Pretty FormatMode = "pretty"
	// Minified has no insignificant whitespace and writes "/" and Unicode
	// text literally.
	Minified FormatMode = "minified"
)

var compactFormatter = formatter.NewFormatter(formatter.CompactOptions())

var formatters = map[FormatMode]*formatter.Formatter{
	Compact:  compactFormatter,
	Pretty:   formatter.NewFormatter(formatter.PrettyOptions()),
	Minified: formatter.NewFormatter(formatter.MinifiedOptions()),
}

// FormatModes returns the recognized modes.
func FormatModes() []FormatMode {
	return []FormatMode{Compact, Pretty, Minified}
}

// ParseFormatMode maps a mode name to a FormatMode. Names are matched
// exactly.
func ParseFormatMode(name string) (FormatMode, error) {
	mode := FormatMode(name)
	if _, ok := formatters[mode]; !ok {
		return "", invalidFormat(mode)
	}
	return mode, nil
}

// Valid reports whether m is a recognized mode.
func (m FormatMode) Valid() bool {
	_, ok := formatters[m]
	return ok
}

func (m FormatMode) String() string {
	return string(m)
}

// FormatValue renders a single value, such as one returned by GetValue, in
// the given mode.
func FormatValue(v jsonvalue.Value, mode FormatMode) (string, error) {
	f, ok := formatters[mode]
	if !ok {
		return "", invalidFormat(mode)
	}
	return f.Format(v), nil
}

func invalidFormat(mode FormatMode) error {
	return errors.NewFormatError("unsupported output mode", &errors.InvalidFormatError{Mode: string(mode)})
}
