package parser

import (
	"encoding/json"
	stderrors "errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mcncl/jsonreform/internal/errors"
)

// locateSyntaxError scans data from the start and returns the position of
// the first syntax error: the index of the offending byte, or len(data) when
// the input ends too early.
func locateSyntaxError(data []byte) (int64, string, bool) {
	var raw json.RawMessage
	err := json.Unmarshal(data, &raw)

	var syntaxError *json.SyntaxError
	if !stderrors.As(err, &syntaxError) {
		return 0, "", false
	}

	message := syntaxError.Error()
	offset := syntaxError.Offset
	if offset == int64(len(data)) && endedEarly(data, message) {
		return offset, "unexpected end of JSON input", true
	}
	// Offset counts the offending byte itself.
	if offset > 0 {
		offset--
	}
	return offset, message, true
}

// endedEarly reports whether a syntax error at the end of data comes from the
// scanner's end of input check rather than from the last byte. At end of
// input the scanner steps over a synthetic space.
func endedEarly(data []byte, message string) bool {
	if strings.HasPrefix(message, "unexpected end of JSON input") {
		return true
	}
	return len(data) > 0 && data[len(data)-1] != ' ' &&
		strings.HasPrefix(message, "invalid character ' '")
}

func skipWhitespace(data []byte, offset int64) int64 {
	for offset < int64(len(data)) {
		switch data[offset] {
		case ' ', '\t', '\n', '\r':
			offset++
		default:
			return offset
		}
	}
	return offset
}

// checkText rejects text that the decoder would accept by substituting
// U+FFFD: invalid UTF-8 and unpaired UTF-16 surrogate escapes. data must be
// syntactically valid JSON.
func checkText(data []byte) error {
	if !utf8.Valid(data) {
		return parseError(invalidUTF8Offset(data), "invalid UTF-8 in input", errors.ErrInvalidJSON)
	}

	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case !inString:
			inString = c == '"'
		case c == '"':
			inString = false
		case c == '\\' && data[i+1] != 'u':
			i++
		case c == '\\':
			r := hexRune(data[i+2 : i+6])
			if !utf16.IsSurrogate(r) {
				i += 5
				continue
			}
			if i+12 <= len(data) && data[i+6] == '\\' && data[i+7] == 'u' &&
				utf16.DecodeRune(r, hexRune(data[i+8:i+12])) != unicode.ReplacementChar {
				i += 11
				continue
			}
			return parseError(int64(i), "unpaired UTF-16 surrogate escape "+string(data[i:i+6]), errors.ErrInvalidJSON)
		}
	}
	return nil
}

func hexRune(b []byte) rune {
	n, err := strconv.ParseUint(string(b), 16, 32)
	if err != nil {
		return unicode.ReplacementChar
	}
	return rune(n)
}

func invalidUTF8Offset(data []byte) int64 {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return int64(i)
		}
		i += size
	}
	return int64(len(data))
}
