package model

import (
	"io"
	"io/fs"
)

// Entry abstracts a log file to be analyzed. It allows to get the path, Open
// the file and do stat
type Entry interface {
	Path() string
	Open() (io.ReadCloser, error)
	Stat() (fs.FileInfo, error)
}
