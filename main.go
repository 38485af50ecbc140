package main

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/tidwall/pretty"

	"github.com/mcncl/jsonreform/document"
	"github.com/mcncl/jsonreform/internal/analyzer"
	"github.com/mcncl/jsonreform/internal/config"
	"github.com/mcncl/jsonreform/internal/dump"
	"github.com/mcncl/jsonreform/internal/errors"
	"github.com/mcncl/jsonreform/internal/logger"
	"github.com/mcncl/jsonreform/internal/parser"
)

// Version information
const (
	Version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Config   string           `help:"Path to a YAML config file. Defaults to the nearest .jsonreform.yml." short:"c" type:"path"`
	Debug    bool             `help:"Enable debug logging." short:"d"`
	Version  kong.VersionFlag `help:"Show version information." short:"v"`
	Color    bool             `help:"Colorize JSON written to stdout."`
	MaxDepth int              `help:"Maximum nesting depth accepted by the parser (default 512)."`

	Get    GetCmd    `cmd:"" help:"Print the value at a dot-separated path."`
	Format FormatCmd `cmd:"" help:"Re-format a JSON document."`
	Paths  PathsCmd  `cmd:"" help:"List every path that get can resolve, with the type found there."`
	Dump   DumpCmd   `cmd:"" help:"Print a debug dump of the decoded document."`
	Diff   DiffCmd   `cmd:"" help:"Show a unified diff of two JSON files rendered in the same mode."`
}

// InputFlags selects where a command reads its document from.
type InputFlags struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// GetCmd prints the value found at a path, or the default.
type GetCmd struct {
	InputFlags `embed:""`

	Path    string `arg:"" help:"Dot-separated object path, e.g. server.host."`
	Default string `help:"JSON value printed when the path does not resolve (default from config, else null)." placeholder:"JSON"`
	Mode    string `help:"Output mode: json, pretty or minified." short:"m"`
}

// FormatCmd re-renders a whole document.
type FormatCmd struct {
	InputFlags `embed:""`

	Mode   string `help:"Output mode: json, pretty or minified." short:"m"`
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
}

// PathsCmd lists resolvable paths.
type PathsCmd struct {
	InputFlags `embed:""`

	Depth int `help:"Only list paths at most this many keys deep (0 lists all)."`
}

// DumpCmd prints the go-spew view of a document.
type DumpCmd struct {
	InputFlags `embed:""`
}

// DiffCmd compares two documents.
type DiffCmd struct {
	Left    string `arg:"" help:"First JSON file." type:"path"`
	Right   string `arg:"" help:"Second JSON file." type:"path"`
	Mode    string `help:"Mode both documents are rendered in before comparing." short:"m" default:"pretty"`
	Context int    `help:"Lines of context around each change." default:"3"`
}

// lookupEnv is replaced in tests.
var lookupEnv config.EnvLookup = os.LookupEnv

type exitCode int

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run parses args, executes the selected command and returns the process
// exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	var cli CLI
	app, err := kong.New(&cli,
		kong.Name("jsonreform"),
		kong.Description("Parse JSON, look up values by dot-separated path and re-format documents"),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": fmt.Sprintf("jsonreform version %s", Version)},
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	// kong exits after --help and --version
	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	kctx, err := app.Parse(args)
	if err != nil {
		var parseErr *kong.ParseError
		if stderrors.As(err, &parseErr) && parseErr.Context != nil {
			_ = parseErr.Context.PrintUsage(true)
		}
		app.Errorf("%s", err)
		return 1
	}

	appCtx, err := newContext(&cli, stdin, stdout, stderr)
	if err == nil {
		err = kctx.Run(appCtx)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	return 0
}

// newContext resolves configuration with CLI > environment > file >
// defaults precedence and sets up logging.
func newContext(cli *CLI, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	configPath := cli.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, lookupEnv, config.CLIOverrides{
		MaxDepth: cli.MaxDepth,
		Color:    cli.Color,
		Debug:    cli.Debug,
	})
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	log := logger.New(stderr, cfg.Dev.Debug, cfg.Color)
	if configPath != "" {
		log.Debug("loaded configuration", "path", configPath)
	}
	log.Debug("effective configuration", "format", cfg.Format, "max_depth", cfg.MaxDepth, "color", cfg.Color)

	return &Context{
		Config: cfg,
		Logger: log,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}, nil
}

// Run prints the value at c.Path.
func (c *GetCmd) Run(ctx *Context) error {
	doc, err := ctx.readDocument(c.InputFlags)
	if err != nil {
		return err
	}

	defaultText := ctx.Config.Default
	if c.Default != "" {
		defaultText = c.Default
	}
	def, err := parser.ParseString(defaultText)
	if err != nil {
		return errors.NewInputError("invalid --default value", err)
	}

	value, found := doc.Lookup(c.Path)
	ctx.Logger.Debug("lookup", "path", c.Path, "found", found)
	if !found {
		value = def
	}

	text, err := document.FormatValue(value, ctx.mode(c.Mode))
	if err != nil {
		return err
	}
	return ctx.writeOutput(text, "")
}

// Run renders the whole document.
func (c *FormatCmd) Run(ctx *Context) error {
	doc, err := ctx.readDocument(c.InputFlags)
	if err != nil {
		return err
	}

	text, err := doc.Format(ctx.mode(c.Mode))
	if err != nil {
		return err
	}
	return ctx.writeOutput(text, c.Output)
}

// Run prints one "path<TAB>type" line per resolvable path. Numbers are typed
// integer or float.
func (c *PathsCmd) Run(ctx *Context) error {
	doc, err := ctx.readDocument(c.InputFlags)
	if err != nil {
		return err
	}

	result := analyzer.NewAnalyzer().Analyze(doc.Root())
	for _, skipped := range result.Skipped {
		ctx.Logger.Debug("unreachable member", "parent", skipped.Parent, "key", skipped.Key, "reason", skipped.Reason)
	}

	var sb strings.Builder
	for _, p := range result.Paths {
		if c.Depth > 0 && p.Depth > c.Depth {
			continue
		}
		_, _ = fmt.Fprintf(&sb, "%s\t%s\n", p.Path, p.Type)
	}
	if _, err := io.WriteString(ctx.Stdout, sb.String()); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// Run prints the debug dump.
func (c *DumpCmd) Run(ctx *Context) error {
	doc, err := ctx.readDocument(c.InputFlags)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(ctx.Stdout, dump.Dump(doc.Root())); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// Run prints a unified diff and returns ErrDocumentsDiffer when the
// renderings differ.
func (c *DiffCmd) Run(ctx *Context) error {
	mode, err := document.ParseFormatMode(c.Mode)
	if err != nil {
		return err
	}

	left, err := ctx.renderFile(c.Left, mode)
	if err != nil {
		return err
	}
	right, err := ctx.renderFile(c.Right, mode)
	if err != nil {
		return err
	}
	if left == right {
		ctx.Logger.Debug("documents are identical", "left", c.Left, "right", c.Right)
		return nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(left + "\n"),
		B:        difflib.SplitLines(right + "\n"),
		FromFile: c.Left,
		ToFile:   c.Right,
		Context:  c.Context,
	})
	if err != nil {
		return errors.NewOutputError("failed to compute diff", err)
	}
	if _, err := io.WriteString(ctx.Stdout, diff); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return errors.ErrDocumentsDiffer
}

func (ctx *Context) renderFile(path string, mode document.FormatMode) (string, error) {
	doc, err := document.FromFile(path, ctx.options())
	if err != nil {
		return "", err
	}
	return doc.Format(mode)
}

func (ctx *Context) options() document.Options {
	return document.Options{MaxDepth: ctx.Config.MaxDepth}
}

// mode returns the flag value, or the configured format when the flag is
// empty. Validation happens when the mode is used.
func (ctx *Context) mode(flag string) document.FormatMode {
	if flag != "" {
		return document.FormatMode(flag)
	}
	return ctx.Config.FormatMode()
}

// readDocument reads JSON from file or stdin
func (ctx *Context) readDocument(in InputFlags) (*document.Document, error) {
	if in.Input != "" {
		ctx.Logger.Debug("reading input", "file", in.Input)
		return document.FromFile(in.Input, ctx.options())
	}

	// Interactive mode or piped input
	if isTerminal(ctx.Stdin) {
		if in.Interactive {
			return ctx.readInteractiveInput()
		}
		// No data provided on stdin and not in interactive mode
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	ctx.Logger.Debug("reading input", "source", "stdin", "bytes", len(jsonData))
	return document.FromTextWithOptions(string(jsonData), ctx.options())
}

// readInteractiveInput lets users paste JSON and signal completion with
// Ctrl+D (EOF)
func (ctx *Context) readInteractiveInput() (*document.Document, error) {
	_, _ = fmt.Fprintln(ctx.Stderr, "JSONReform Interactive Mode")
	_, _ = fmt.Fprintln(ctx.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(ctx.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	_, _ = fmt.Fprintln(ctx.Stderr, "\nProcessing JSON...")
	return document.FromTextWithOptions(jsonData, ctx.options())
}

// writeOutput writes text to a file or stdout
func (ctx *Context) writeOutput(text, path string) error {
	if path != "" {
		err := os.WriteFile(path, []byte(text+"\n"), 0o644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		_, _ = fmt.Fprintf(ctx.Stderr, "Formatted JSON written to %s\n", path)
		return nil
	}

	out := []byte(text)
	if ctx.Config.Color {
		out = pretty.Color(out, nil)
	}
	out = append(out, '\n')
	if _, err := ctx.Stdout.Write(out); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
