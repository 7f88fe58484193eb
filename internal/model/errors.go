package model

import (
	"fmt"
	"strings"
)

// MissingFilesError lists every input path that does not exist or can't be
// read. It is returned before any file is processed.
type MissingFilesError struct {
	Paths []string
}

func (e *MissingFilesError) Error() string {
	if len(e.Paths) == 1 {
		return fmt.Sprintf("file not found: %s", e.Paths[0])
	}
	return fmt.Sprintf("%d files not found: %s", len(e.Paths), strings.Join(e.Paths, ", "))
}

// FileAccessError is returned when a file can't be opened or read during
// the aggregation.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// InvalidReportTypeError is returned for an unsupported report type.
type InvalidReportTypeError struct {
	Type string
}

func (e *InvalidReportTypeError) Error() string {
	return fmt.Sprintf("unknown report type: %q", e.Type)
}
