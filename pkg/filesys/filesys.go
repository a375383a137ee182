// Package filesys provides the few filesystem helpers IgniteDB needs:
// preparing the data directory at open, checking whether a data file is
// being created fresh or reopened, and copying a log file aside before a
// destructive recovery truncates it.
package filesys

import (
	"errors"
	"io"
	"os"
)

var (
	ErrIsNotDir = errors.New("path isn't a directory")
)

// CreateDir ensures the data directory at path exists, creating it and
// any missing parents with 0755 permissions. An existing regular file at
// path is an error: the engine must never mistake a stray file for its
// data directory and start scattering log files next to it.
func CreateDir(path string) error {
	stat, err := os.Stat(path)
	if err == nil && !stat.IsDir() {
		return ErrIsNotDir
	}
	return os.MkdirAll(path, 0755)
}

// Exists reports whether a file or directory is present at path. The
// engine uses this at open time to log whether a data file is being
// created fresh or an existing log is being reopened. Absence is a
// normal answer, not an error; only a failed check itself errors.
func Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CopyFile copies sourcePath to destPath, streaming the contents rather
// than buffering them: the file being preserved is a data log and can be
// far larger than memory. The copy is synced before the function
// returns, so a recovery that truncates the original immediately
// afterward can never outrun its backup.
func CopyFile(sourcePath, destPath string) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
