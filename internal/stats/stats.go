package stats

import (
	"expvar"
	"iter"
	"maps"
	"slices"
)

// Stats holds expvar-backed counters of the analysis and publishes them
// under a common key prefix. All counters are expvar.Map and are safe for
// concurrent updates. When the standard expvar HTTP handler is registered,
// these values are available at /debug/vars.
//
// - log_lens_files_total - log files opened for aggregation
// - log_lens_files_errors - log files which could not be read to the end
// - log_lens_lines_total - lines read across all files
// - log_lens_lines_matched - lines with a severity level
// - log_lens_lines_unattributed - lines with a severity level, but no handler
// - log_lens_lines_skipped - lines exceeding the maximum line length
type Stats struct {
	prefix string
	root   *expvar.Map
	files  *expvar.Map
	lines  *expvar.Map
}

// New publishes new set of metrics. Registering the same metrics twice causes panic, so for tests, the prefix should be unique.
func New(prefix string) *Stats {
	root := expvar.NewMap(prefix)
	files := new(expvar.Map).Init()
	lines := new(expvar.Map).Init()

	files.Add("total", 0)
	files.Add("errors", 0)

	lines.Add("total", 0)
	lines.Add("matched", 0)
	lines.Add("unattributed", 0)
	lines.Add("skipped", 0)

	root.Set("files", files)
	root.Set("lines", lines)

	return &Stats{
		prefix: prefix,
		root:   root,
		files:  files,
		lines:  lines,
	}
}

func (s *Stats) IncFiles() {
	s.files.Add("total", 1)
}
func (s *Stats) IncErrFiles() {
	s.files.Add("errors", 1)
}

// AddLines is called once per file with the line counters of the file.
func (s *Stats) AddLines(total, matched, unattributed, skipped int) {
	s.lines.Add("total", int64(total))
	s.lines.Add("matched", int64(matched))
	s.lines.Add("unattributed", int64(unattributed))
	s.lines.Add("skipped", int64(skipped))
}

// Stats returns a name, value iterator across registered metrics. This uses expvar.Do under the hood, so is safe to be called concurrently.
// Stats are returned in an alphabetic order.
func (s Stats) Stats() iter.Seq2[string, string] {
	stats := make(map[string]string, 6)
	s.files.Do(func(kv expvar.KeyValue) {
		stats["files_"+kv.Key] = kv.Value.String()
	})
	s.lines.Do(func(kv expvar.KeyValue) {
		stats["lines_"+kv.Key] = kv.Value.String()
	})

	keys := slices.Sorted(maps.Keys(stats))
	return func(yield func(string, string) bool) {
		for _, key := range keys {
			if !yield(s.prefix+"_"+key, stats[key]) {
				return
			}
		}
	}
}
