package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CZERTAINLY/log-lens/internal/model"

	"github.com/stretchr/testify/require"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	var testCases = []struct {
		scenario string
		given    error
		then     []string
	}{
		{
			scenario: "one missing",
			given:    &model.MissingFilesError{Paths: []string{"a.log"}},
			then:     []string{"error: file not found:", "  a.log"},
		},
		{
			scenario: "missing files",
			given:    fmt.Errorf("analyze: %w", &model.MissingFilesError{Paths: []string{"a.log", "b.log"}}),
			then:     []string{"error: 2 files not found:", "  a.log", "  b.log"},
		},
		{
			scenario: "file access",
			given:    &model.FileAccessError{Path: "app.log", Err: fs.ErrPermission},
			then:     []string{"error: can't read log file app.log", "  permission denied"},
		},
		{
			scenario: "invalid report type",
			given:    &model.InvalidReportTypeError{Type: "csv"},
			then:     []string{`error: unknown report type "csv"`, "  supported: handlers, summary, json, yaml"},
		},
		{
			scenario: "other",
			given:    errors.New("boom"),
			then:     []string{"error: boom"},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			printError(&buf, tt.given)
			require.Equal(t, strings.Join(tt.then, "\n")+"\n", buf.String())
		})
	}
}

func TestFormatError_Config(t *testing.T) {
	t.Parallel()

	_, err := model.LoadConfig(strings.NewReader("version: 0\nworkers: 0\n"))
	require.Error(t, err)

	var buf bytes.Buffer
	printError(&buf, err)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, "error: invalid configuration", lines[0])
	require.Greater(t, len(lines), 1)
	var found bool
	for _, line := range lines[1:] {
		found = found || strings.HasPrefix(line, "  workers: ")
	}
	require.True(t, found, buf.String())
}

func TestNewLens(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("INFO path=/x/\nERROR path=/x/\n"), 0o644))

	config := model.DefaultConfig()
	config.Report = "handlers"
	config.Parser.HandlerPattern = `path=(?P<handler>\S+)`
	lens, err := NewLens(t.Context(), config)
	require.NoError(t, err)

	out, err := lens.Report(t.Context(), []string{path})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Total requests: 2\n"), out)
	require.Contains(t, out, "/x/")

	var buf bytes.Buffer
	lens.PrintStats(&buf)
	require.Contains(t, buf.String(), "log_lens_files_total: ")

	config.Parser.HandlerPattern = `(`
	_, err = NewLens(t.Context(), config)
	require.Error(t, err)

	config = model.DefaultConfig()
	config.Version = 1
	_, err = NewLens(t.Context(), config)
	require.Error(t, err)
}

func TestPaths(t *testing.T) {
	t.Parallel()

	config := model.DefaultConfig()
	config.Paths = []string{"from-config.log"}
	require.Equal(t, []string{"from-config.log"}, paths(config, nil))
	require.Equal(t, []string{"arg.log"}, paths(config, []string{"arg.log"}))
}

func TestLens_Glob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.log"), []byte("INFO [/a/]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.log"), []byte("INFO [/b/]\nERROR [/b/]\n"), 0o644))

	lens, err := NewLens(t.Context(), model.DefaultConfig())
	require.NoError(t, err)

	out, err := lens.Analyze(t.Context(), []string{filepath.Join(dir, "*.log")}, "summary")
	require.NoError(t, err)
	require.Equal(t, "Total requests: 3\n", out)

	pattern := filepath.Join(dir, "*.gz")
	_, err = lens.Analyze(t.Context(), []string{pattern}, "summary")
	var missing *model.MissingFilesError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{pattern}, missing.Paths)
}

func TestCheckLogDest(t *testing.T) {
	t.Parallel()

	var testCases = []struct {
		scenario string
		cmd      string
		log      string
		fails    bool
	}{
		{scenario: "analyze stderr", cmd: "analyze", log: model.LogStderr},
		{scenario: "analyze file", cmd: "analyze", log: "/tmp/log-lens.log"},
		{scenario: "analyze stdout", cmd: "analyze", log: model.LogStdout, fails: true},
		{scenario: "config stdout", cmd: "config", log: model.LogStdout, fails: true},
		{scenario: "serve stdout", cmd: "serve", log: model.LogStdout},
	}

	for _, tt := range testCases {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()
			config := model.DefaultConfig()
			config.Service.Log = tt.log
			err := checkLogDest(tt.cmd, config)
			if !tt.fails {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), "service.log")
			require.Contains(t, err.Error(), tt.cmd)
		})
	}
}
