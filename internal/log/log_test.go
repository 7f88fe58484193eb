package log_test

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/CZERTAINLY/log-lens/internal/log"
	"github.com/CZERTAINLY/log-lens/internal/model"
	"github.com/stretchr/testify/require"
)

func TestContextAttrs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		scenario string // description of this test case
		// Named input parameters for target function.
		given []slog.Attr
		then  string
	}{
		{
			scenario: "nil; attrs",
			given:    nil,
			then:     `{"level":"INFO","msg":"testing message","foo":"bar"}`,
		},
		{
			scenario: "empty attrs",
			given:    []slog.Attr{},
			then:     `{"level":"INFO","msg":"testing message","foo":"bar"}`,
		},
		{
			scenario: "ham/spam attrs",
			given: []slog.Attr{
				slog.String("ham", "spam"),
			},
			then: `{"level":"INFO","msg":"testing message","foo":"bar", "ham":"spam"}`,
		},
		{
			scenario: "slog.Group",
			given: []slog.Attr{
				slog.Group("group", slog.String("ham", "spam")),
			},
			then: `{"level":"INFO","msg":"testing message","foo":"bar", "group": {"ham":"spam"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			base := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
				AddSource: false,
				Level:     slog.LevelDebug,
				ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			})
			ctxHandler := log.NewContextHandler(base)
			logger := slog.New(ctxHandler)

			ctx := log.ContextAttrs(t.Context(), tt.given...)
			logger.InfoContext(ctx, "testing message", slog.String("foo", "bar"))

			t.Logf("log output: %s", buf.String())
			require.JSONEq(t, tt.then, buf.String())
		})
	}
}

func TestNewWriter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := log.NewWriter(&buf, false)
	logger.Debug("hidden")
	require.Zero(t, buf.Len())

	ctx := log.ContextAttrs(t.Context(), slog.String("path", "app.log"))
	logger.InfoContext(ctx, "visible")
	require.Contains(t, buf.String(), `"path":"app.log"`)
	require.Contains(t, buf.String(), `"msg":"visible"`)

	buf.Reset()
	log.NewWriter(&buf, true).Debug("shown")
	require.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestContextAttrs_Stack(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(log.NewContextHandler(slog.NewJSONHandler(&buf, nil))).With("static", 1)

	parent := log.ContextAttrs(t.Context(), slog.String("run", "r1"))
	child := log.ContextAttrs(parent, slog.String("path", "a.log"))
	require.Equal(t, parent, log.ContextAttrs(parent))

	logger.InfoContext(child, "aggregated")
	require.Contains(t, buf.String(), `"run":"r1"`)
	require.Contains(t, buf.String(), `"path":"a.log"`)
	require.Contains(t, buf.String(), `"static":1`)

	// the parent context is not affected by the child attributes
	buf.Reset()
	logger.InfoContext(parent, "validated")
	require.NotContains(t, buf.String(), "a.log")
}

func TestOpen(t *testing.T) {
	t.Parallel()
	var testCases = []struct {
		scenario string
		given    string
		then     io.Writer
	}{
		{"empty", "", os.Stderr},
		{"stderr", model.LogStderr, os.Stderr},
		{"stdout", model.LogStdout, os.Stdout},
		{"discard", model.LogDiscard, io.Discard},
	}
	for _, tt := range testCases {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()
			w, closeFn, err := log.Open(tt.given)
			require.NoError(t, err)
			require.Equal(t, tt.then, w)
			require.NoError(t, closeFn())
		})
	}

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "log-lens.log")
		w, closeFn, err := log.Open(path)
		require.NoError(t, err)
		_, err = io.WriteString(w, "line\n")
		require.NoError(t, err)
		require.NoError(t, closeFn())

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, "line\n", string(b))
	})

	t.Run("bad path", func(t *testing.T) {
		t.Parallel()
		_, _, err := log.Open(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
		require.Error(t, err)
	})
}
