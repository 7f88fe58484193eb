package service

import (
	"context"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/CZERTAINLY/log-lens/internal/log"
	"github.com/CZERTAINLY/log-lens/internal/model"
	"github.com/CZERTAINLY/log-lens/internal/report"
	"github.com/CZERTAINLY/log-lens/internal/stats"
	"github.com/CZERTAINLY/log-lens/internal/walk"

	"github.com/google/uuid"
)

// StatsPrefix is the expvar name of the counters used when no WithStats
// option is given.
const StatsPrefix = "log_lens"

var defaultStats = sync.OnceValue(func() *stats.Stats {
	return stats.New(StatsPrefix)
})

// Analyzer validates the log files, aggregates them concurrently and
// renders the merged statistics.
type Analyzer struct {
	fsys    fs.FS
	parser  LineParser
	workers int
	counter model.Stats
}

type Option func(*Analyzer)

// WithWorkers limits the number of files aggregated at once.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

func WithStats(counter model.Stats) Option {
	return func(a *Analyzer) {
		if counter != nil {
			a.counter = counter
		}
	}
}

func NewAnalyzer(fsys fs.FS, parser LineParser, opts ...Option) *Analyzer {
	a := &Analyzer{
		fsys:    fsys,
		parser:  parser,
		workers: model.DefaultWorkers,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.counter == nil {
		a.counter = defaultStats()
	}
	return a
}

// Analyze returns the report of type typ for the log files. No file is
// touched if the report type is not known.
//
// Errors are *model.InvalidReportTypeError, *model.MissingFilesError with
// every unusable path, *model.FileAccessError of the first file which
// failed or ctx.Err(). No partial report is returned.
func (a *Analyzer) Analyze(ctx context.Context, paths []string, typ string) (string, error) {
	t, err := report.ParseType(typ)
	if err != nil {
		return "", err
	}
	aggregated, err := a.Aggregate(ctx, paths)
	if err != nil {
		return "", err
	}
	return report.Render(aggregated, t)
}

// Aggregate validates the paths and returns the merged statistics of all
// files.
func (a *Analyzer) Aggregate(ctx context.Context, paths []string) (model.FileStats, error) {
	ctx = log.ContextAttrs(ctx, slog.String("run", uuid.NewString()))
	slog.DebugContext(ctx, "validating", "paths", len(paths))
	if missing := walk.Missing(a.fsys, paths); len(missing) > 0 {
		return model.FileStats{}, &model.MissingFilesError{Paths: missing}
	}

	agg := New(a.workers, a.counter, a.parser)
	all := make([]model.FileStats, 0, len(paths))
	for fileStats, err := range agg.Do(ctx, walk.Files(ctx, a.counter, a.fsys, paths)) {
		if err != nil {
			slog.ErrorContext(ctx, "aggregation failed", "error", err)
			return model.FileStats{}, err
		}
		all = append(all, fileStats)
	}
	if err := ctx.Err(); err != nil {
		return model.FileStats{}, err
	}

	merged := report.Merge(all...)
	slog.DebugContext(ctx, "merged", "files", len(all), "handlers", len(merged.Handlers))
	return merged, nil
}

// Stats returns the counters of the analyzer.
func (a *Analyzer) Stats() model.Stats {
	return a.counter
}
