package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{"server": {"host": "example.com", "port": 8080, "proxy": null}, "tags": ["a/b", "café"]}`

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI runs the command line with an empty environment.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()

	originalLookup := lookupEnv
	lookupEnv = func(string) (string, bool) { return "", false }
	defer func() { lookupEnv = originalLookup }()

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"string", []string{"get", "server.host"}, `"example.com"` + "\n"},
		{"number", []string{"get", "server.port"}, "8080\n"},
		{"object", []string{"get", "server"}, `{"host":"example.com","port":8080,"proxy":null}` + "\n"},
		{"array is escaped", []string{"get", "tags"}, `["a\/b","caf\u00e9"]` + "\n"},
		{"minified", []string{"get", "tags", "--mode", "minified"}, `["a/b","café"]` + "\n"},
		{"pretty", []string{"get", "server", "-m", "pretty"}, "{\n    \"host\": \"example.com\",\n    \"port\": 8080,\n    \"proxy\": null\n}\n"},
		{"missing uses null", []string{"get", "server.user"}, "null\n"},
		{"null is missing", []string{"get", "server.proxy", "--default", `"none"`}, `"none"` + "\n"},
		{"array not indexed", []string{"get", "tags.0", "--default", "0"}, "0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, sampleJSON, tt.args...)
			require.Equal(t, 0, res.code, res.stderr)
			assert.Equal(t, tt.expected, res.stdout)
		})
	}
}

func TestGet_InvalidDefault(t *testing.T) {
	res := runCLI(t, sampleJSON, "get", "missing", "--default", "{nope")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Malformed input")
}

func TestGet_FromFile(t *testing.T) {
	path := writeTempFile(t, "input.json", sampleJSON)

	res := runCLI(t, "", "get", "server.port", "-i", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "8080\n", res.stdout)
}

func TestFormat_Modes(t *testing.T) {
	input := `{"b": [1, {}], "a": "x/y"}`

	res := runCLI(t, input, "format")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, `{"b":[1,{}],"a":"x\/y"}`+"\n", res.stdout)

	res = runCLI(t, input, "format", "--mode", "minified")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, `{"b":[1,{}],"a":"x/y"}`+"\n", res.stdout)

	res = runCLI(t, input, "format", "-m", "pretty")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "{\n    \"b\": [\n        1,\n        {}\n    ],\n    \"a\": \"x\\/y\"\n}\n", res.stdout)
}

func TestFormat_InvalidMode(t *testing.T) {
	res := runCLI(t, `{"a": 1}`, "format", "--mode", "xml")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, `Unsupported output mode: "xml"`)
}

func TestFormat_WithOutputFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.json")

	res := runCLI(t, `{"id": 1, "email": "test@example.com"}`, "format", "-o", output, "-m", "pretty")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Formatted JSON written to")

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"id\": 1,\n    \"email\": \"test@example.com\"\n}\n", string(content))
}

func TestFormat_InputErrors(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		contains string
	}{
		{"malformed", "{not json", []string{"format"}, "Malformed input"},
		{"trailing data", "{} []", []string{"format"}, "Malformed input"},
		{"empty stdin", "", []string{"format"}, "Input error"},
		{"whitespace only", "  \n", []string{"format"}, "Malformed input"},
		{"missing file", "", []string{"format", "-i", "/non/existent/file.json"}, "Input error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.stdin, tt.args...)
			assert.Equal(t, 1, res.code)
			assert.Empty(t, res.stdout)
			assert.Contains(t, res.stderr, tt.contains)
		})
	}
}

func TestFormat_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.json", "")

	res := runCLI(t, "", "format", "-i", path)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "empty")
}

func TestFormat_MaxDepth(t *testing.T) {
	res := runCLI(t, `[[[1]]]`, "--max-depth", "2", "format")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Malformed input")

	res = runCLI(t, `[[[1]]]`, "--max-depth", "3", "format")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "[[[1]]]\n", res.stdout)
}

func TestFormat_Color(t *testing.T) {
	res := runCLI(t, `{"a": true}`, "--color", "format")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "\x1b[")
	assert.Contains(t, res.stdout, "true")
}

func TestPaths(t *testing.T) {
	input := `{"server": {"host": "h", "tls": {"on": false}, "off": null}, "a.b": 1, "list": [{"x": 1}]}`

	res := runCLI(t, input, "paths")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "server\tobject\nserver.host\tstring\nserver.tls\tobject\nserver.tls.on\tboolean\nlist\tarray\n", res.stdout)
}

func TestPaths_NumberTypesAndDepth(t *testing.T) {
	input := `{"a": {"n": 1, "f": 1.5, "b": {"c": 2}}, "top": -3}`

	res := runCLI(t, input, "paths")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "a\tobject\na.n\tinteger\na.f\tfloat\na.b\tobject\na.b.c\tinteger\ntop\tinteger\n", res.stdout)

	res = runCLI(t, input, "paths", "--depth", "1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "a\tobject\ntop\tinteger\n", res.stdout)

	res = runCLI(t, input, "paths", "--depth", "2")
	require.Equal(t, 0, res.code, res.stderr)
	assert.NotContains(t, res.stdout, "a.b.c")
	assert.Contains(t, res.stdout, "a.b\tobject\n")
}

func TestPaths_DebugLogsSkippedMembers(t *testing.T) {
	res := runCLI(t, `{"a.b": 1}`, "--debug", "paths")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "unreachable member")
	assert.Contains(t, res.stderr, "key=a.b")
}

func TestDump(t *testing.T) {
	res := runCLI(t, `{"n": 1, "s": "text"}`, "dump")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "(map[string]interface {}) (len=2)")
	assert.Contains(t, res.stdout, `"s": (string) (len=4) "text"`)
}

func TestDiff(t *testing.T) {
	left := writeTempFile(t, "left.json", `{"name": "a", "port": 1}`)
	same := writeTempFile(t, "same.json", `{ "name" : "a",  "port" : 1 }`)
	right := writeTempFile(t, "right.json", `{"name": "a", "port": 2}`)

	res := runCLI(t, "", "diff", left, same)
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)

	res = runCLI(t, "", "diff", left, right)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "--- "+left)
	assert.Contains(t, res.stdout, "+++ "+right)
	assert.Contains(t, res.stdout, `-    "port": 1`)
	assert.Contains(t, res.stdout, `+    "port": 2`)
	assert.Contains(t, res.stderr, "The documents differ.")
}

func TestDiff_MissingFile(t *testing.T) {
	left := writeTempFile(t, "left.json", `{}`)

	res := runCLI(t, "", "diff", left, filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "not found")
}

func TestConfigFile(t *testing.T) {
	cfgPath := writeTempFile(t, "jsonreform.yml", "format: pretty\ndefault: '\"fallback\"'\n")

	res := runCLI(t, `{"a": {"b": 1}}`, "-c", cfgPath, "get", "a")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "{\n    \"b\": 1\n}\n", res.stdout)

	res = runCLI(t, `{"a": {"b": 1}}`, "-c", cfgPath, "get", "missing")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, `"fallback"`+"\n", res.stdout)

	// Flags override the file
	res = runCLI(t, `{"a": {"b": 1}}`, "-c", cfgPath, "get", "a", "-m", "json")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, `{"b":1}`+"\n", res.stdout)
}

func TestConfigFile_Invalid(t *testing.T) {
	cfgPath := writeTempFile(t, "jsonreform.yml", "format: yaml\n")

	res := runCLI(t, `{}`, "-c", cfgPath, "format")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Configuration error")
}

func TestEnvironmentOverrides(t *testing.T) {
	originalLookup := lookupEnv
	defer func() { lookupEnv = originalLookup }()
	lookupEnv = func(key string) (string, bool) {
		if key == "JSONREFORM_FORMAT" {
			return "minified", true
		}
		return "", false
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"format"}, strings.NewReader(`{"p": "a/b"}`), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, `{"p":"a/b"}`+"\n", stdout.String())
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "", "--version")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "jsonreform version "+Version)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"unknown-command"}},
		{"missing path argument", []string{"get"}},
		{"unknown flag", []string{"format", "--nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, `{}`, tt.args...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, "jsonreform: error:")
			assert.Contains(t, res.stdout+res.stderr, "Usage:")
		})
	}
}

func TestHelp(t *testing.T) {
	res := runCLI(t, "", "--help")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "jsonreform")
	assert.Contains(t, res.stdout, "get")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("{}")))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
		_ = w.Close()
	}()
	assert.False(t, isTerminal(r))
}
