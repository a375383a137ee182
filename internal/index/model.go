package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Index is the in-memory hash table mapping keys to the byte offset of
// their most recent record in the log. The mapping is exactly
// `key -> offset`: there is no segment or timestamp metadata to track
// when the log is a single growing file, so each entry costs only the
// key bytes plus one uint64.
type Index struct {
	offsets map[string]uint64
	log     *zap.SugaredLogger
	mu      sync.RWMutex
	closed  atomic.Bool
}

// Config encapsulates the configuration parameters required to initialize
// an Index.
type Config struct {
	Logger *zap.SugaredLogger
}
