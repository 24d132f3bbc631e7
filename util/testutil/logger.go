package testutil

import (
	"bytes"
	stdslog "log/slog"
	"testing"

	"goyave.dev/formrules/slog"
)

// LogWriter implementation of `io.Writer` redirecting the logs to `testing.T.Log()`
type LogWriter struct {
	t interface {
		Log(args ...any)
	}
}

func (w LogWriter) Write(b []byte) (int, error) {
	w.t.Log(string(b))
	return len(b), nil
}

// NewTestLogger create a new logger at debug level, in dev mode, redirecting
// its output to `t.Log()`.
func NewTestLogger(t *testing.T) *slog.Logger {
	return slog.New(slog.NewHandler(true, &LogWriter{t: t}))
}

// NewBufferLogger create a new JSON logger at debug level writing into the returned buffer.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(stdslog.NewJSONHandler(buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug})), buf
}
