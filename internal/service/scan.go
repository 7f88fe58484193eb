package service

import (
	"bufio"
	"bytes"
	"context"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/CZERTAINLY/log-lens/internal/log"
	"github.com/CZERTAINLY/log-lens/internal/model"
	"github.com/CZERTAINLY/log-lens/internal/parallel"
)

// MaxLineSize is the longest line the Aggregator parses. Longer lines are
// skipped.
const MaxLineSize = 1024 * 1024

// LineParser extracts the severity level and the handler of a log line. It
// returns false for a line without a level. Implementations must be safe for
// concurrent use.
type LineParser interface {
	Parse(line string) (model.Line, bool)
}

// Aggregator builds model.FileStats of log files.
type Aggregator struct {
	limit          int
	maxLine        int
	parser         LineParser
	counter        model.Stats
	pool           sync.Pool
	poolNewCounter atomic.Int32
	poolPutCounter atomic.Int32
}

type Stats struct {
	PoolNewCounter int
	PoolPutCounter int
}

func New(limit int, counter model.Stats, parser LineParser) *Aggregator {
	a := &Aggregator{
		limit:   limit,
		maxLine: MaxLineSize,
		parser:  parser,
		counter: counter,
	}
	a.pool = sync.Pool{
		New: func() any {
			a.poolNewCounter.Add(1)
			b := make([]byte, a.maxLine)
			return &b
		},
	}
	return a
}

// Do aggregates the entries of seq, at most limit files at once. Errors of
// seq are passed through. The results are in completion order.
func (a *Aggregator) Do(ctx context.Context, seq iter.Seq2[model.Entry, error]) iter.Seq2[model.FileStats, error] {
	return parallel.NewMap(ctx, a.limit, a.Aggregate).Iter(seq)
}

// Aggregate reads the entry line by line and counts the lines per handler
// and level. Open, Stat and read failures are returned as
// *model.FileAccessError.
func (a *Aggregator) Aggregate(ctx context.Context, entry model.Entry) (model.FileStats, error) {
	ctx = log.ContextAttrs(ctx, slog.String("path", entry.Path()))
	slog.DebugContext(ctx, "aggregating")
	if ctx.Err() != nil {
		return model.FileStats{}, ctx.Err()
	}

	fail := func(err error) (model.FileStats, error) {
		a.counter.IncErrFiles()
		slog.DebugContext(ctx, "aggregation failed", "error", err)
		return model.FileStats{}, &model.FileAccessError{Path: entry.Path(), Err: err}
	}

	if _, err := entry.Stat(); err != nil {
		return fail(err)
	}
	f, err := entry.Open()
	if err != nil {
		return fail(err)
	}
	defer func() {
		_ = f.Close() // read only
	}()

	bp := a.pool.Get().(*[]byte)
	defer func() {
		a.poolPutCounter.Add(1)
		a.pool.Put(bp)
	}()

	split := &lineSplitter{max: a.maxLine}
	scanner := bufio.NewScanner(f)
	scanner.Buffer((*bp)[:0], a.maxLine)
	scanner.Split(split.split)

	ret := model.NewFileStats(entry.Path())
	var total, matched, unattributed int
	for scanner.Scan() {
		if ctx.Err() != nil {
			return model.FileStats{}, ctx.Err()
		}
		total++
		line, ok := a.parser.Parse(scanner.Text())
		if !ok {
			continue
		}
		matched++
		if line.Handler == "" {
			unattributed++
		}
		ret.Record(line)
	}
	if err := scanner.Err(); err != nil {
		return fail(err)
	}

	total += split.skipped
	a.counter.AddLines(total, matched, unattributed, split.skipped)
	slog.DebugContext(ctx, "aggregated",
		"lines", total,
		"matched", matched,
		"unattributed", unattributed,
		"skipped", split.skipped,
	)
	return ret, nil
}

func (a *Aggregator) Stats() Stats {
	return Stats{
		PoolNewCounter: int(a.poolNewCounter.Load()),
		PoolPutCounter: int(a.poolPutCounter.Load()),
	}
}

// lineSplitter is bufio.ScanLines which drops the lines not fitting into the
// buffer instead of failing with bufio.ErrTooLong.
type lineSplitter struct {
	max      int
	skipping bool
	skipped  int
}

func (s *lineSplitter) split(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		if s.skipping {
			s.skipping = false
			return i + 1, nil, nil
		}
		return i + 1, dropCR(data[:i]), nil
	}
	if len(data) >= s.max {
		if !s.skipping {
			s.skipping = true
			s.skipped++
		}
		return len(data), nil, nil
	}
	if atEOF {
		if s.skipping {
			s.skipping = false
			return len(data), nil, nil
		}
		return len(data), dropCR(data), nil
	}
	return 0, nil, nil
}

func dropCR(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] == '\r' {
		return data[:len(data)-1]
	}
	return data
}
