package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/jsonreform/internal/errors" // Custom errors package
	"github.com/mcncl/jsonreform/jsonvalue"
)

// DefaultMaxDepth is the deepest nesting of arrays and objects accepted when
// no limit is configured.
const DefaultMaxDepth = 512

// Options controls decoding limits.
type Options struct {
	// MaxDepth is the maximum nesting of arrays and objects. Zero or a
	// negative value means DefaultMaxDepth.
	MaxDepth int
}

// Parser decodes JSON text into a jsonvalue.Value, keeping object member
// order and number literals.
type Parser struct {
	opts Options
}

// NewParser creates a Parser with the given options.
func NewParser(opts Options) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Parser{opts: opts}
}

// Parse decodes a single JSON value from reader using the default options.
func Parse(reader io.Reader) (jsonvalue.Value, error) {
	return NewParser(Options{}).Parse(reader)
}

// ParseString decodes a single JSON value from a string.
func ParseString(jsonString string) (jsonvalue.Value, error) {
	return NewParser(Options{}).ParseString(jsonString)
}

// ParseBytes decodes a single JSON value from a byte slice.
func ParseBytes(data []byte) (jsonvalue.Value, error) {
	return NewParser(Options{}).ParseBytes(data)
}

// ParseString decodes a single JSON value from a string.
func (p *Parser) ParseString(jsonString string) (jsonvalue.Value, error) {
	return p.ParseBytes([]byte(jsonString))
}

// Parse decodes exactly one JSON value from reader. Whitespace may surround
// the value; anything else after it is an error.
func (p *Parser) Parse(reader io.Reader) (jsonvalue.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return jsonvalue.Value{}, errors.NewInputError("failed to read JSON input", err)
	}
	return p.ParseBytes(data)
}

// ParseBytes decodes exactly one JSON value from data.
func (p *Parser) ParseBytes(data []byte) (jsonvalue.Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Keep number literals as json.Number

	root, err := p.decodeValue(decoder, data, 0)
	if err != nil {
		return jsonvalue.Value{}, err
	}

	// Anything but EOF after the root value is trailing data.
	end := decoder.InputOffset()
	if _, err := decoder.Token(); err == nil {
		return jsonvalue.Value{}, parseError(skipWhitespace(data, end),
			"multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return jsonvalue.Value{}, tokenError(data, err, false)
	}

	if err := checkText(data); err != nil {
		return jsonvalue.Value{}, err
	}
	return root, nil
}

func (p *Parser) decodeValue(decoder *json.Decoder, data []byte, depth int) (jsonvalue.Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		return jsonvalue.Value{}, tokenError(data, err, depth == 0)
	}

	switch t := tok.(type) {
	case json.Delim:
		if depth+1 > p.opts.MaxDepth {
			return jsonvalue.Value{}, parseError(decoder.InputOffset()-1,
				fmt.Sprintf("nesting depth exceeds %d", p.opts.MaxDepth), errors.ErrDepthLimit)
		}
		switch t {
		case '{':
			return p.decodeObject(decoder, data, depth+1)
		case '[':
			return p.decodeArray(decoder, data, depth+1)
		default:
			// The decoder rejects unbalanced delimiters itself; this is
			// unreachable for well-behaved input.
			return jsonvalue.Value{}, parseError(decoder.InputOffset()-1,
				fmt.Sprintf("unexpected %q", rune(t)), errors.ErrInvalidJSON)
		}
	case string:
		return jsonvalue.String(t), nil
	case json.Number:
		return jsonvalue.Number(t), nil
	case bool:
		return jsonvalue.Bool(t), nil
	case nil:
		return jsonvalue.Null(), nil
	default:
		return jsonvalue.Value{}, parseError(decoder.InputOffset(),
			fmt.Sprintf("unexpected token of type %T", tok), errors.ErrInvalidJSON)
	}
}

func (p *Parser) decodeObject(decoder *json.Decoder, data []byte, depth int) (jsonvalue.Value, error) {
	obj := jsonvalue.NewObject()
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return jsonvalue.Value{}, tokenError(data, err, false)
		}
		key, ok := tok.(string)
		if !ok {
			return jsonvalue.Value{}, parseError(decoder.InputOffset(),
				"object key is not a string", errors.ErrInvalidJSON)
		}
		value, err := p.decodeValue(decoder, data, depth)
		if err != nil {
			return jsonvalue.Value{}, err
		}
		// Duplicate keys: last value wins, first position kept.
		obj.Set(key, value)
	}
	if err := expectClose(decoder, data, '}'); err != nil {
		return jsonvalue.Value{}, err
	}
	return jsonvalue.ObjectValue(obj), nil
}

func (p *Parser) decodeArray(decoder *json.Decoder, data []byte, depth int) (jsonvalue.Value, error) {
	elems := make([]jsonvalue.Value, 0)
	for decoder.More() {
		value, err := p.decodeValue(decoder, data, depth)
		if err != nil {
			return jsonvalue.Value{}, err
		}
		elems = append(elems, value)
	}
	if err := expectClose(decoder, data, ']'); err != nil {
		return jsonvalue.Value{}, err
	}
	return jsonvalue.Array(elems...), nil
}

func expectClose(decoder *json.Decoder, data []byte, want json.Delim) error {
	tok, err := decoder.Token()
	if err != nil {
		return tokenError(data, err, false)
	}
	if tok != want {
		return parseError(decoder.InputOffset(),
			fmt.Sprintf("expected %q", rune(want)), errors.ErrInvalidJSON)
	}
	return nil
}

// tokenError converts a decoder error into a parsing error. A clean EOF
// where the root value should start means the input was empty.
func tokenError(data []byte, err error, atRoot bool) error {
	if atRoot && err == io.EOF {
		return parseError(0, "input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	// The decoder reports offsets relative to the value it was reading, so
	// the input is scanned again to find the absolute position.
	if offset, message, ok := locateSyntaxError(data); ok {
		return parseError(offset, message, errors.ErrInvalidJSON)
	}
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return parseError(syntaxError.Offset, syntaxError.Error(), errors.ErrInvalidJSON)
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return parseError(int64(len(data)), "unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("failed to decode JSON", err)
}

func parseError(offset int64, message string, sentinel error) error {
	return errors.NewParsingError("failed to parse JSON", &errors.ParseError{
		Offset:  offset,
		Message: message,
		Err:     sentinel,
	})
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string, opts Options) (jsonvalue.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return jsonvalue.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		// Check if the file doesn't exist
		if os.IsNotExist(err) {
			return jsonvalue.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return jsonvalue.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		_ = file.Close()
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return jsonvalue.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return jsonvalue.Value{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return NewParser(opts).Parse(file)
}
