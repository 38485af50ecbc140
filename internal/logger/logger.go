// Package logger provides a slog handler that writes one line per record:
//
//	2025/01/02 15:04:05 INFO parsed input bytes=42 source=stdin
//
// with optional ANSI colour per level.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"
)

// Escape codes for colorizing output.
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	White  = "\033[97m"
)

const timeFormat = "2006/01/02 15:04:05"

// Options configures a PrettyHandler.
type Options struct {
	Level    slog.Leveler
	Colorize bool
	// OmitTime drops the timestamp prefix.
	OmitTime bool
}

// PrettyHandler is an slog.Handler that writes human-readable lines.
type PrettyHandler struct {
	opts Options
	goas []groupOrAttrs
	mu   *sync.Mutex
	out  io.Writer
}

// groupOrAttrs holds either a group name or a list of slog.Attrs.
type groupOrAttrs struct {
	group string
	attrs []slog.Attr
}

// NewPrettyHandler returns a handler writing to w. A nil Level means Info.
func NewPrettyHandler(w io.Writer, opts Options) *PrettyHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	return &PrettyHandler{opts: opts, mu: &sync.Mutex{}, out: w}
}

// New returns a logger writing to w at Info, or Debug when debug is set.
func New(w io.Writer, debug, colorize bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(NewPrettyHandler(w, Options{Level: level, Colorize: colorize}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(NewPrettyHandler(io.Discard, Options{Level: slog.Level(127)}))
}

// Enabled reports whether records at level are written.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle writes the record to the output.
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)

	if h.opts.Colorize {
		buf = append(buf, levelColor(r.Level)...)
	}
	if !h.opts.OmitTime && !r.Time.IsZero() {
		buf = r.Time.AppendFormat(buf, timeFormat)
		buf = append(buf, ' ')
	}
	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	var groups []string
	goas := h.goas
	if r.NumAttrs() == 0 {
		// Trailing groups with no attrs are empty.
		for len(goas) > 0 && goas[len(goas)-1].group != "" {
			goas = goas[:len(goas)-1]
		}
	}
	for _, goa := range goas {
		if goa.group != "" {
			groups = append(groups, goa.group)
			continue
		}
		for _, a := range goa.attrs {
			buf = appendAttr(buf, a, groups)
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, a, groups)
		return true
	})

	if h.opts.Colorize {
		buf = append(buf, Reset...)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

// WithGroup returns a new PrettyHandler with the group name added.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(groupOrAttrs{group: name})
}

// WithAttrs returns a new PrettyHandler with the attributes added.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(groupOrAttrs{attrs: attrs})
}

func (h *PrettyHandler) with(goa groupOrAttrs) *PrettyHandler {
	h2 := *h
	h2.goas = append(slices.Clip(h.goas), goa)
	return &h2
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return Red
	case level >= slog.LevelWarn:
		return Yellow
	case level < slog.LevelInfo:
		return Cyan
	default:
		return White
	}
}

func appendAttr(buf []byte, a slog.Attr, groups []string) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return buf
		}
		if a.Key != "" {
			groups = append(slices.Clip(groups), a.Key)
		}
		for _, ga := range attrs {
			buf = appendAttr(buf, ga, groups)
		}
		return buf
	case slog.KindTime:
		buf = append(buf, ' ')
		buf = appendQuoted(buf, qualify(groups, a.Key))
		buf = append(buf, '=')
		return a.Value.Time().AppendFormat(buf, time.RFC3339Nano)
	default:
		buf = append(buf, ' ')
		buf = appendQuoted(buf, qualify(groups, a.Key))
		buf = append(buf, '=')
		return appendQuoted(buf, a.Value.String())
	}
}

func qualify(groups []string, key string) string {
	if len(groups) == 0 {
		return key
	}
	return strings.Join(groups, ".") + "." + key
}

func appendQuoted(buf []byte, s string) []byte {
	if needsQuoting(s) {
		return fmt.Appendf(buf, "%q", s)
	}
	return append(buf, s...)
}

// needsQuoting reports whether the string s needs quoting.
func needsQuoting(s string) bool {
	if len(s) == 0 {
		return true
	}
	for _, r := range s {
		if unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r) {
			return true
		}
	}
	return false
}
