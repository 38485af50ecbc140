package formatter

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mcncl/jsonreform/jsonvalue"
)

const hexDigits = "0123456789abcdef"

// Options controls how values are rendered.
type Options struct {
	// Indent is written once per nesting level. Empty means compact output
	// with no insignificant whitespace.
	Indent string
	// EscapeSlash writes '/' as "\/".
	EscapeSlash bool
	// EscapeUnicode writes every non-ASCII code point as \uXXXX, using
	// surrogate pairs above U+FFFF.
	EscapeUnicode bool
}

// CompactOptions escapes slashes and non-ASCII text and adds no whitespace.
func CompactOptions() Options {
	return Options{EscapeSlash: true, EscapeUnicode: true}
}

// PrettyOptions is CompactOptions with four-space indentation.
func PrettyOptions() Options {
	return Options{Indent: "    ", EscapeSlash: true, EscapeUnicode: true}
}

// MinifiedOptions adds no whitespace and leaves slashes and Unicode text
// unescaped.
func MinifiedOptions() Options {
	return Options{}
}

// Formatter renders JSON values as text.
type Formatter struct {
	opts Options
}

// NewFormatter creates a new Formatter instance
func NewFormatter(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

// Format renders v as JSON text. Object members are written in their stored
// order and numbers as their original literal.
func (f *Formatter) Format(v jsonvalue.Value) string {
	return string(f.Append(nil, v))
}

// Append renders v and appends the text to dst.
func (f *Formatter) Append(dst []byte, v jsonvalue.Value) []byte {
	return f.appendValue(dst, v, 0)
}

func (f *Formatter) appendValue(dst []byte, v jsonvalue.Value, depth int) []byte {
	switch v.Kind() {
	case jsonvalue.BoolKind:
		b, _ := v.AsBool()
		if b {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case jsonvalue.NumberKind:
		n, _ := v.AsNumber()
		return append(dst, n.String()...)
	case jsonvalue.StringKind:
		s, _ := v.AsString()
		return f.appendString(dst, s)
	case jsonvalue.ArrayKind:
		elems, _ := v.AsArray()
		if len(elems) == 0 {
			return append(dst, "[]"...)
		}
		dst = append(dst, '[')
		for i, elem := range elems {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = f.appendNewline(dst, depth+1)
			dst = f.appendValue(dst, elem, depth+1)
		}
		dst = f.appendNewline(dst, depth)
		return append(dst, ']')
	case jsonvalue.ObjectKind:
		obj, _ := v.AsObject()
		if obj.Len() == 0 {
			return append(dst, "{}"...)
		}
		dst = append(dst, '{')
		first := true
		obj.Range(func(key string, value jsonvalue.Value) bool {
			if !first {
				dst = append(dst, ',')
			}
			first = false
			dst = f.appendNewline(dst, depth+1)
			dst = f.appendString(dst, key)
			dst = append(dst, ':')
			if f.opts.Indent != "" {
				dst = append(dst, ' ')
			}
			dst = f.appendValue(dst, value, depth+1)
			return true
		})
		dst = f.appendNewline(dst, depth)
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

func (f *Formatter) appendNewline(dst []byte, depth int) []byte {
	if f.opts.Indent == "" {
		return dst
	}
	dst = append(dst, '\n')
	return append(dst, strings.Repeat(f.opts.Indent, depth)...)
}

func (f *Formatter) appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' && (c != '/' || !f.opts.EscapeSlash) {
				i++
				continue
			}
			dst = append(dst, s[start:i]...)
			switch c {
			case '"', '\\', '/':
				dst = append(dst, '\\', c)
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			default:
				dst = appendUnicodeEscape(dst, rune(c))
			}
			i++
			start = i
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		// U+2028 and U+2029 are line terminators in JavaScript and stay
		// escaped even in unescaped output.
		if !f.opts.EscapeUnicode && r != '\u2028' && r != '\u2029' && (r != utf8.RuneError || size > 1) {
			i += size
			continue
		}
		dst = append(dst, s[start:i]...)
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			dst = appendUnicodeEscape(dst, r1)
			dst = appendUnicodeEscape(dst, r2)
		} else {
			dst = appendUnicodeEscape(dst, r)
		}
		i += size
		start = i
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}

func appendUnicodeEscape(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigits[r>>12&0xf], hexDigits[r>>8&0xf], hexDigits[r>>4&0xf], hexDigits[r&0xf])
}
