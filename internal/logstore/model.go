package logstore

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
)

// Store owns one append-only log file. It exposes append, positional read,
// and sequential scan, and is the sole component that touches the file
// handle — callers never seek or read it directly.
type Store struct {
	file          *os.File
	path          string
	size          int64 // Tracked independently of the OS so append doesn't need a pre-write stat.
	maxRecordSize uint64
	log           *zap.SugaredLogger
	closed        atomic.Bool
}

// Config encapsulates the parameters required to open a Store.
type Config struct {
	// Path is the file to open (created if missing).
	Path string
	// MaxRecordSize caps a single record's combined key+value length; any
	// record read back that declares a larger length fails with
	// OversizedRecord.
	MaxRecordSize uint64
	Logger        *zap.SugaredLogger
}
