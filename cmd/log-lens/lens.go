package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/CZERTAINLY/log-lens/internal/model"
	"github.com/CZERTAINLY/log-lens/internal/parser"
	"github.com/CZERTAINLY/log-lens/internal/service"
	"github.com/CZERTAINLY/log-lens/internal/walk"
)

// Lens is a component, which wires the configuration to the analyzer.
type Lens struct {
	analyzer *service.Analyzer
	report   string
}

func NewLens(ctx context.Context, config model.Config) (Lens, error) {
	if config.Version != 0 {
		return Lens{}, fmt.Errorf("config version %d is not supported, expected 0", config.Version)
	}

	p := parser.Default()
	if config.Parser.HandlerPattern != "" {
		var err error
		p, err = parser.New(config.Parser.HandlerPattern)
		if err != nil {
			return Lens{}, fmt.Errorf("parser.handler_pattern: %w", err)
		}
	}
	slog.DebugContext(ctx, "parser initialized", "handler_pattern", p.Pattern())

	return Lens{
		analyzer: service.NewAnalyzer(walk.OS, p, service.WithWorkers(config.Workers)),
		report:   config.Report,
	}, nil
}

// Report returns the report of the configured type.
func (l Lens) Report(ctx context.Context, paths []string) (string, error) {
	return l.Analyze(ctx, paths, l.report)
}

// Analyze expands the glob patterns in paths on every call, so a server
// picks up files created after it started.
func (l Lens) Analyze(ctx context.Context, paths []string, typ string) (string, error) {
	expanded, err := walk.Glob(paths)
	if err != nil {
		return "", err
	}
	slog.DebugContext(ctx, "analyze", "paths", expanded, "report", typ)
	return l.analyzer.Analyze(ctx, expanded, typ)
}

func (l Lens) Stats() model.Stats {
	return l.analyzer.Stats()
}

// PrintStats writes the counters, one per line.
func (l Lens) PrintStats(w io.Writer) {
	for key, value := range l.analyzer.Stats().Stats() {
		_, _ = fmt.Fprintf(w, "%s: %s\n", key, value)
	}
}
