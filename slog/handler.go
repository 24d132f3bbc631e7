package slog

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"log/slog"
)

// Colors
const (
	Reset      = "\033[0m"
	Red        = "\033[31m"
	Yellow     = "\033[33m"
	CyanBold   = "\033[36;1m"
	Gray       = "\033[90m"
	WhiteBold  = "\033[37;1m"
	RedBold    = "\033[31;1m"
	YellowBold = "\033[33;1m"
)

// Indent used for nested attribute groups in the dev mode output.
var Indent = "  "

// HandlerOptions options for the `DevModeHandler`.
type HandlerOptions struct {
	Level slog.Leveler
}

// DevModeHandler a human-readable, colored slog handler used when "app.debug" is enabled.
//
// Each record starts with a header line (level, time and source) followed by the message.
// Attributes come next, one per line. Groups opened with `WithGroup` prefix the keys
// ("validation.field"). A group value carrying both a "field" and a "position" key, such
// as a resolved `*validation.FieldError`, is collapsed on a single line:
//
//	error: email[2] min_length: The email must be at least 5 characters.
type DevModeHandler struct {
	opts   *HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

// NewHandler returns a `DevModeHandler` at debug level if `devMode` is true, or
// a JSON handler at info level otherwise.
func NewHandler(devMode bool, w io.Writer) slog.Handler {
	if devMode {
		return NewDevModeHandler(w, &HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true})
}

// NewDevModeHandler creates a new `DevModeHandler` writing to the given writer.
func NewDevModeHandler(w io.Writer, opts *HandlerOptions) *DevModeHandler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	return &DevModeHandler{w: w, opts: opts, mu: &sync.Mutex{}}
}

func (h *DevModeHandler) Handle(_ context.Context, r slog.Record) error {
	buf := bytes.NewBuffer(make([]byte, 0, 512))
	writeHeader(buf, r)

	// Handler attributes were added before any later group was opened, but
	// the record's own attributes always belong to the innermost group.
	for _, attr := range h.attrs {
		printAttr(buf, attr, "", 0)
	}
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	r.Attrs(func(a slog.Attr) bool {
		printAttr(buf, a, prefix, 0)
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func writeHeader(buf *bytes.Buffer, r slog.Record) {
	buf.WriteString("\n[")
	buf.WriteString(levelColor(r.Level))
	buf.WriteString(r.Level.String())
	buf.WriteString(Reset)
	buf.WriteString("] ")
	buf.WriteString(r.Time.Format("2006/01/02 15:04:05.999999"))
	if r.PC != 0 {
		f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		buf.WriteString(Gray)
		buf.WriteString(" (")
		buf.WriteString(f.File)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(f.Line))
		buf.WriteByte(')')
		buf.WriteString(Reset)
	}
	buf.WriteByte('\n')
	buf.WriteString(messageColor(r.Level))
	buf.WriteString(r.Message)
	buf.WriteString(Reset)
	buf.WriteByte('\n')
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return RedBold
	case level >= slog.LevelWarn:
		return YellowBold
	case level >= slog.LevelInfo:
		return WhiteBold
	}
	return CyanBold
}

func messageColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return Red
	case level >= slog.LevelWarn:
		return Yellow
	}
	return ""
}

func (h *DevModeHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *DevModeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	for _, a := range attrs {
		a.Key = prefix + a.Key
		newAttrs = append(newAttrs, a)
	}
	return &DevModeHandler{
		opts:   h.opts,
		mu:     h.mu,
		w:      h.w,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *DevModeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &DevModeHandler{
		opts:   h.opts,
		mu:     h.mu,
		w:      h.w,
		attrs:  h.attrs,
		groups: append(h.groups[:len(h.groups):len(h.groups)], name),
	}
}

func printAttr(buf *bytes.Buffer, attr slog.Attr, prefix string, indent int) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	indentString := strings.Repeat(Indent, indent)
	buf.WriteString(indentString)
	buf.WriteString(WhiteBold)
	buf.WriteString(prefix)
	buf.WriteString(attr.Key)
	buf.WriteString(": ")
	buf.WriteString(Reset)

	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		if line, ok := fieldLine(group); ok {
			buf.WriteString(line)
			buf.WriteByte('\n')
			return
		}
		buf.WriteByte('\n')
		for _, a := range group {
			printAttr(buf, a, "", indent+1)
		}
		return
	}

	val := attr.Value.String()
	if strings.Contains(val, "\n") {
		// Multi-line values such as stack traces start on their own line.
		buf.WriteByte('\n')
		buf.WriteString(indentString)
	}
	buf.WriteString(val)
	buf.WriteByte('\n')
}

// fieldLine formats a group describing a field at a dynamic position as
// "field[position] kind: message". The "kind" and "message" keys are optional.
// Returns false if the group doesn't have both a "field" and a "position".
func fieldLine(group []slog.Attr) (string, bool) {
	var field, position, kind, message string
	for _, a := range group {
		switch a.Key {
		case "field":
			field = a.Value.String()
		case "position":
			position = a.Value.String()
		case "kind":
			kind = a.Value.String()
		case "message":
			message = a.Value.String()
		default:
			return "", false
		}
	}
	if field == "" || position == "" {
		return "", false
	}
	line := field + "[" + position + "]"
	if kind != "" {
		line += " " + kind
	}
	if message != "" {
		line += ": " + message
	}
	return line, true
}
