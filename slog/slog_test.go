package slog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goyave.dev/formrules/util/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	lines := []map[string]any{}
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		lines = append(lines, m)
	}
	return lines
}

func TestLogger(t *testing.T) {

	t.Run("With", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(NewHandler(false, buf)).With(slog.String("form", "signup"))
		l.Info("message")

		lines := decodeLines(t, buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "signup", lines[0]["form"])
		assert.Equal(t, "message", lines[0]["msg"])
	})

	t.Run("Error_plain", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(NewHandler(false, buf))
		l.Error(fmt.Errorf("plain error"), slog.String("field", "email"))

		lines := decodeLines(t, buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "plain error", lines[0]["msg"])
		assert.Equal(t, "email", lines[0]["field"])
		assert.Equal(t, "ERROR", lines[0]["level"])
	})

	t.Run("Error_with_trace", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(NewHandler(false, buf))
		l.Error(errors.New([]error{fmt.Errorf("a"), fmt.Errorf("b")}))

		lines := decodeLines(t, buf)
		require.Len(t, lines, 2)
		assert.Equal(t, "a", lines[0]["msg"])
		assert.Equal(t, "b", lines[1]["msg"])
		assert.Contains(t, lines[0]["trace"], "TestLogger")
	})

	t.Run("Error_reason", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(NewHandler(false, buf))
		l.Error(errors.New(map[string]any{"key": "value"}))

		lines := decodeLines(t, buf)
		require.Len(t, lines, 1)
		assert.Equal(t, map[string]any{"key": "value"}, lines[0]["reason"])
	})

	t.Run("Discard", func(t *testing.T) {
		l := Discard()
		assert.False(t, l.Enabled(context.Background(), slog.LevelError))
		assert.NotPanics(t, func() {
			l.Error(fmt.Errorf("dropped"))
		})
	})
}

type testFieldError struct {
	field    string
	position int
}

func (e testFieldError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("field", e.field),
		slog.Int("position", e.position),
		slog.String("kind", "min_length"),
		slog.String("message", "The "+e.field+" is too short."),
	)
}

func TestDevModeHandler(t *testing.T) {

	t.Run("header", func(t *testing.T) {
		buf := &bytes.Buffer{}
		New(NewHandler(true, buf)).Warn("slow query")

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "\n["+YellowBold+"WARN"+Reset+"] "))
		assert.Contains(t, out, "slog_test.go:")
		assert.Contains(t, out, "\n"+Yellow+"slow query"+Reset+"\n")
	})

	t.Run("group_prefix", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(NewHandler(true, buf)).With("form", "signup").WithGroup("validation")
		l.Debug("field invalid", slog.String("field", "email"), slog.Int("position", 2))

		out := buf.String()
		assert.Contains(t, out, WhiteBold+"form: "+Reset+"signup\n")
		assert.Contains(t, out, WhiteBold+"validation.field: "+Reset+"email\n")
		assert.Contains(t, out, WhiteBold+"validation.position: "+Reset+"2\n")
	})

	t.Run("with_attrs_after_group", func(t *testing.T) {
		buf := &bytes.Buffer{}
		New(NewHandler(true, buf)).WithGroup("database").With("dialect", "sqlite3").Info("connected")
		assert.Contains(t, buf.String(), WhiteBold+"database.dialect: "+Reset+"sqlite3\n")
	})

	t.Run("field_error", func(t *testing.T) {
		buf := &bytes.Buffer{}
		New(NewHandler(true, buf)).Debug("invalid field", "error", testFieldError{field: "email", position: 1})
		assert.Contains(t, buf.String(), WhiteBold+"error: "+Reset+"email[1] min_length: The email is too short.\n")
	})

	t.Run("plain_group", func(t *testing.T) {
		buf := &bytes.Buffer{}
		New(NewHandler(true, buf)).Info("counters", slog.Group("tags", slog.Int("count", 3), slog.Int("position", 0)))

		out := buf.String()
		assert.Contains(t, out, WhiteBold+"tags: "+Reset+"\n")
		assert.Contains(t, out, Indent+WhiteBold+"count: "+Reset+"3\n")
		assert.Contains(t, out, Indent+WhiteBold+"position: "+Reset+"0\n")
	})

	t.Run("multiline_value", func(t *testing.T) {
		buf := &bytes.Buffer{}
		New(NewHandler(true, buf)).Info("trace", "stack", "line 1\nline 2")
		assert.Contains(t, buf.String(), WhiteBold+"stack: "+Reset+"\nline 1\nline 2\n")
	})

	t.Run("Enabled", func(t *testing.T) {
		buf := &bytes.Buffer{}
		h := NewDevModeHandler(buf, &HandlerOptions{Level: slog.LevelWarn})
		assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, h.Enabled(context.Background(), slog.LevelError))
		assert.True(t, NewDevModeHandler(buf, nil).Enabled(context.Background(), slog.LevelInfo))
	})
}
