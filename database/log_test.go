package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"goyave.dev/formrules/util/testutil"
)

func TestLogger(t *testing.T) {
	sql := func() (string, int64) {
		return "SELECT * FROM users", 2
	}

	t.Run("LogMode", func(t *testing.T) {
		l := NewLogger(nil)
		cpy := l.LogMode(logger.Info)
		assert.NotSame(t, l, cpy)
		assert.Equal(t, l, cpy)
	})

	t.Run("Info_Warn_Error", func(t *testing.T) {
		slogger, buf := testutil.NewBufferLogger()
		l := NewLogger(slogger)

		l.Info(context.Background(), "info %d", 1)
		assert.Contains(t, buf.String(), `"level":"INFO","msg":"info 1"`)
		buf.Reset()

		l.Warn(context.Background(), "warn %d", 2)
		assert.Contains(t, buf.String(), `"level":"WARN","msg":"warn 2"`)
		buf.Reset()

		l.Error(context.Background(), "error %d", 3)
		assert.Contains(t, buf.String(), `"level":"ERROR","msg":"error 3"`)
	})

	t.Run("Trace", func(t *testing.T) {
		cases := []struct {
			err      error
			desc     string
			expected []string
			begin    time.Duration
		}{
			{desc: "debug", expected: []string{`"level":"DEBUG"`, `"msg":"SQL"`, `"rows":"2"`, `"sql":"SELECT * FROM users"`}},
			{desc: "slow", begin: time.Second, expected: []string{`"level":"WARN"`, `"msg":"SLOW SQL >= 200ms"`}},
			{desc: "error", err: fmt.Errorf("test error"), expected: []string{`"level":"ERROR"`, `"msg":"test error"`, `"sql":"SELECT * FROM users"`}},
			{desc: "record_not_found", err: gorm.ErrRecordNotFound, expected: []string{`"level":"DEBUG"`}},
		}

		for _, c := range cases {
			t.Run(c.desc, func(t *testing.T) {
				slogger, buf := testutil.NewBufferLogger()
				l := NewLogger(slogger)
				l.Trace(context.Background(), time.Now().Add(-c.begin), sql, c.err)
				for _, e := range c.expected {
					assert.Contains(t, buf.String(), e)
				}
			})
		}
	})

	t.Run("nil_logger", func(t *testing.T) {
		l := NewLogger(nil)
		assert.NotPanics(t, func() {
			l.Info(context.Background(), "info")
			l.Warn(context.Background(), "warn")
			l.Error(context.Background(), "error")
			l.Trace(context.Background(), time.Now(), sql, nil)
		})
	})
}
