package model

import (
	"maps"
	"slices"
)

// Counts holds one non-negative counter per severity, indexed by Level.
type Counts [NumLevels]int

// Add increments the counter of level l. Levels outside the closed set are
// ignored.
func (c *Counts) Add(l Level) {
	if !l.Valid() {
		return
	}
	c[l]++
}

// Get returns the counter of level l, zero for unknown levels.
func (c Counts) Get(l Level) int {
	if !l.Valid() {
		return 0
	}
	return c[l]
}

// Total sums the counters of all levels.
func (c Counts) Total() int {
	var total int
	for _, n := range c {
		total += n
	}
	return total
}

// Sum returns c + o cell by cell.
func (c Counts) Sum(o Counts) Counts {
	for i := range c {
		c[i] += o[i]
	}
	return c
}

// IsZero reports whether no level was counted.
func (c Counts) IsZero() bool {
	return c == Counts{}
}

// Fields returns the counts as a struct, so encoders emit levels in display
// order.
func (c Counts) Fields() LevelCounts {
	return LevelCounts{
		Debug:    c[Debug],
		Info:     c[Info],
		Warning:  c[Warning],
		Error:    c[Error],
		Critical: c[Critical],
	}
}

type LevelCounts struct {
	Debug    int `json:"DEBUG" yaml:"DEBUG"`
	Info     int `json:"INFO" yaml:"INFO"`
	Warning  int `json:"WARNING" yaml:"WARNING"`
	Error    int `json:"ERROR" yaml:"ERROR"`
	Critical int `json:"CRITICAL" yaml:"CRITICAL"`
}

// Table maps a request handler to its per-level counters.
type Table map[string]Counts

// Add increments the (handler, level) cell, creating the handler row on
// first use.
func (t Table) Add(handler string, l Level) {
	c := t[handler]
	c.Add(l)
	t[handler] = c
}

// Handlers returns the handler keys in ascending lexical order.
func (t Table) Handlers() []string {
	return slices.Sorted(maps.Keys(t))
}

// Total sums every cell of the table.
func (t Table) Total() int {
	var total int
	for _, c := range t {
		total += c.Total()
	}
	return total
}

// LevelTotals sums the table column by column.
func (t Table) LevelTotals() Counts {
	var ret Counts
	for _, c := range t {
		ret = ret.Sum(c)
	}
	return ret
}

// FileStats is the result of aggregating one file, or the merge of several.
// Unattributed counts lines with a recognized level and no handler; those
// never appear in Handlers.
type FileStats struct {
	Path         string
	Handlers     Table
	Unattributed Counts
}

// NewFileStats returns empty statistics for path.
func NewFileStats(path string) FileStats {
	return FileStats{
		Path:     path,
		Handlers: make(Table),
	}
}

// Record accounts a single parsed line.
func (s *FileStats) Record(line Line) {
	if line.Handler == "" {
		s.Unattributed.Add(line.Level)
		return
	}
	if s.Handlers == nil {
		s.Handlers = make(Table)
	}
	s.Handlers.Add(line.Handler, line.Level)
}

// TotalRequests is the number of handler-attributed lines.
func (s FileStats) TotalRequests() int {
	return s.Handlers.Total()
}
