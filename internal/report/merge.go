// Package report merges per file statistics and renders them.
package report

import "github.com/CZERTAINLY/log-lens/internal/model"

// Merge sums the counts of all inputs per handler and level. The handlers of
// the result are the union of the input handlers. Inputs are not modified.
func Merge(stats ...model.FileStats) model.FileStats {
	ret := model.FileStats{
		Handlers: make(model.Table),
	}
	for _, s := range stats {
		for handler, counts := range s.Handlers {
			ret.Handlers[handler] = ret.Handlers[handler].Sum(counts)
		}
		ret.Unattributed = ret.Unattributed.Sum(s.Unattributed)
	}
	return ret
}
