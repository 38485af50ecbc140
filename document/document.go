// Package document reads JSON text into an immutable Document, looks up
// nested values with dot-separated paths and renders the document back to
// text in one of three modes.
//
//	doc, err := document.FromText(`{"server": {"host": "example.com"}}`)
//	if err != nil {
//		return err
//	}
//	host := doc.GetValue("server.host", jsonvalue.String("localhost"))
//	text, err := doc.Format(document.Pretty)
//
// Lookups never fail: a path that does not resolve yields the caller's
// default. A key that holds JSON null counts as missing.
package document

import (
	"bytes"
	"io"
	"strings"

	"github.com/mcncl/jsonreform/internal/errors"
	"github.com/mcncl/jsonreform/internal/parser"
	"github.com/mcncl/jsonreform/jsonvalue"
)

// PathSeparator splits a lookup path into object keys.
const PathSeparator = "."

// DefaultMaxDepth is the nesting limit applied by FromText.
const DefaultMaxDepth = parser.DefaultMaxDepth

type (
	// ParseError reports malformed input. Offset is the byte offset of the
	// problem.
	ParseError = errors.ParseError
	// InvalidFormatError reports an unrecognized format mode.
	InvalidFormatError = errors.InvalidFormatError
)

var (
	ErrEmptyInput    = errors.ErrEmptyInput
	ErrInvalidJSON   = errors.ErrInvalidJSON
	ErrMultipleJSON  = errors.ErrMultipleJSON
	ErrDepthLimit    = errors.ErrDepthLimit
	ErrInvalidFormat = errors.ErrInvalidFormat
	ErrFileNotFound  = errors.ErrFileNotFound
	ErrFileEmpty     = errors.ErrFileEmpty
)

// Options controls document construction.
type Options struct {
	// MaxDepth limits nesting of arrays and objects. Zero means
	// DefaultMaxDepth.
	MaxDepth int
}

// Document is an immutable, parsed JSON document. It is safe for concurrent
// use.
type Document struct {
	root jsonvalue.Value
}

// FromText parses text into a Document. Any JSON value is accepted at the
// root, including scalars and null. On failure the error wraps a
// *ParseError and no Document is returned.
func FromText(text string) (*Document, error) {
	return FromTextWithOptions(text, Options{})
}

// FromTextWithOptions is FromText with explicit limits.
func FromTextWithOptions(text string, opts Options) (*Document, error) {
	return FromReaderWithOptions(strings.NewReader(text), opts)
}

// FromBytes parses data into a Document.
func FromBytes(data []byte) (*Document, error) {
	return FromReaderWithOptions(bytes.NewReader(data), Options{})
}

// FromReader parses the whole of r into a Document. The reader must hold
// exactly one JSON value.
func FromReader(r io.Reader) (*Document, error) {
	return FromReaderWithOptions(r, Options{})
}

// FromReaderWithOptions is FromReader with explicit limits.
func FromReaderWithOptions(r io.Reader, opts Options) (*Document, error) {
	root, err := parser.NewParser(parser.Options{MaxDepth: opts.MaxDepth}).Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// FromFile parses the named file into a Document. Missing and empty files
// are reported as input errors wrapping ErrFileNotFound and ErrFileEmpty.
func FromFile(path string, opts Options) (*Document, error) {
	root, err := parser.ParseFile(path, parser.Options{MaxDepth: opts.MaxDepth})
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Root returns the root value.
func (d *Document) Root() jsonvalue.Value {
	return d.root
}

// Lookup walks path from the root and reports whether it resolved to a
// non-null value.
//
// The path is split on every "."; empty segments are kept and match only an
// explicit empty key. Each segment must name a key of the current object
// whose value is not null. Arrays are never indexed.
func (d *Document) Lookup(path string) (jsonvalue.Value, bool) {
	current := d.root
	for _, key := range strings.Split(path, PathSeparator) {
		obj, ok := current.AsObject()
		if !ok {
			return jsonvalue.Value{}, false
		}
		next, ok := obj.Get(key)
		if !ok || next.IsNull() {
			return jsonvalue.Value{}, false
		}
		current = next
	}
	return current, true
}

// GetValue returns the value at path, or def when the path does not resolve.
// A stored null is treated as missing, so GetValue never returns null unless
// def is null.
func (d *Document) GetValue(path string, def jsonvalue.Value) jsonvalue.Value {
	if v, ok := d.Lookup(path); ok {
		return v
	}
	return def
}

// Format renders the document in the given mode. An unrecognized mode
// returns an error wrapping *InvalidFormatError; the document is unaffected.
func (d *Document) Format(mode FormatMode) (string, error) {
	return FormatValue(d.root, mode)
}

// String returns the compact rendering of the document.
func (d *Document) String() string {
	return compactFormatter.Format(d.root)
}
