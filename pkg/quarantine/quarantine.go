// Package quarantine names and preserves a log file that is about to be
// truncated during truncated-tail recovery, so operators can inspect what
// was discarded instead of losing it silently.
//
// Filename format: <original>.quarantine.<timestamp>
//
// Where:
//   - original: the base name of the file being quarantined (e.g. "data").
//   - timestamp: a nanosecond-precision Unix timestamp for uniqueness and
//     traceability across repeated recovery attempts against the same path.
//
// Example filenames:
//
//	data.quarantine.1678881234567890123
//	index.quarantine.1678881298765432109
package quarantine

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/iamNilotpal/ignitedb/pkg/filesys"
)

// GenerateName creates a quarantine filename for the given original path,
// placed alongside it in the same directory.
func GenerateName(originalPath string) string {
	dir := filepath.Dir(originalPath)
	base := filepath.Base(originalPath)
	return filepath.Join(dir, fmt.Sprintf("%s.quarantine.%d", base, time.Now().UnixNano()))
}

// Preserve copies originalPath to a freshly generated quarantine name and
// returns the path of the copy. Callers truncate or otherwise mutate
// originalPath only after Preserve succeeds, so a failed truncation never
// loses the pre-recovery bytes.
func Preserve(originalPath string) (string, error) {
	dest := GenerateName(originalPath)
	if err := filesys.CopyFile(originalPath, dest); err != nil {
		return "", err
	}
	return dest, nil
}
