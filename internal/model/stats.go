package model

import "iter"

const (
	StatsFilesTotal        = "_files_total"
	StatsFilesErr          = "_files_errors"
	StatsLinesTotal        = "_lines_total"
	StatsLinesMatched      = "_lines_matched"
	StatsLinesUnattributed = "_lines_unattributed"
	StatsLinesSkipped      = "_lines_skipped"
)

type Stats interface {
	IncFiles()
	IncErrFiles()
	AddLines(total, matched, unattributed, skipped int)
	Stats() iter.Seq2[string, string]
}
