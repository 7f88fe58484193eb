// Package walk turns the log file paths into a lazy sequence of model.Entry.
package walk

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"

	"github.com/CZERTAINLY/log-lens/internal/model"
)

var ErrNotRegular = errors.New("not a regular file")

// OS is the host filesystem. Unlike os.DirFS it takes the paths as given on
// a command line, so both absolute and relative paths work.
var OS fs.FS = osFS{}

type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Missing returns the paths, in input order, which do not exist, are not a
// regular file or can't be opened. It returns nil if all paths are usable.
func Missing(fsys fs.FS, paths []string) []string {
	var missing []string
	for _, path := range paths {
		if err := check(fsys, path); err != nil {
			slog.Debug("file is not usable", "path", path, "error", err)
			missing = append(missing, path)
		}
	}
	return missing
}

func check(fsys fs.FS, path string) error {
	info, err := fs.Stat(fsys, path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return ErrNotRegular
	}
	f, err := fsys.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

// Files returns a handle for every path. A path which can't be stat-ed or is
// not a regular file is returned together with a *model.FileAccessError.
// Counter may be nil.
func Files(ctx context.Context, counter model.Stats, fsys fs.FS, paths []string) iter.Seq2[model.Entry, error] {
	return func(yield func(model.Entry, error) bool) {
		for _, path := range paths {
			if ctx.Err() != nil {
				return
			}
			if counter != nil {
				counter.IncFiles()
			}
			entry := fsEntry{
				fsys: fsys,
				path: path,
			}
			var yieldErr error
			info, err := fs.Stat(fsys, path)
			switch {
			case err != nil:
				entry.infoErr = err
			case !info.Mode().IsRegular():
				entry.infoErr = ErrNotRegular
			default:
				entry.info = info
			}
			if entry.infoErr != nil {
				if counter != nil {
					counter.IncErrFiles()
				}
				yieldErr = &model.FileAccessError{Path: path, Err: entry.infoErr}
			}
			if !yield(entry, yieldErr) {
				return
			}
		}
	}
}

// fsEntry implements model.Entry for a fs.FS
type fsEntry struct {
	fsys    fs.FS
	path    string
	info    fs.FileInfo
	infoErr error
}

func (e fsEntry) Path() string {
	return e.path
}

func (e fsEntry) Open() (io.ReadCloser, error) {
	if e.infoErr != nil {
		return nil, e.infoErr
	}
	return e.fsys.Open(e.path)
}

func (e fsEntry) Stat() (fs.FileInfo, error) {
	return e.info, e.infoErr
}
