package engine

import (
	"os"
	"sync/atomic"

	"github.com/iamNilotpal/ignitedb/internal/compaction"
	"github.com/iamNilotpal/ignitedb/internal/index"
	"github.com/iamNilotpal/ignitedb/internal/logstore"
	"github.com/iamNilotpal/ignitedb/pkg/options"
	"go.uber.org/zap"
)

// reservedIndexKey is the sentinel key under which the serialized index is
// stored in the embedded layout. It must never be visible to callers of
// insert/update/delete/get/find.
const reservedIndexKey = "+index"

// state enumerates the engine lifecycle: New moves
// Closed -> Open-Unloaded; Load moves Open-Unloaded -> Open-Loaded;
// mutations and reads are only legal in Open-Loaded.
type state int32

const (
	stateClosed state = iota
	stateOpenUnloaded
	stateOpenLoaded
)

// Engine composes the index, the log store, and (sidecar layout) the
// sidecar index file into the public open/load/insert/get/get_at/find/
// update/delete contract.
type Engine struct {
	options *options.Options
	log     *zap.SugaredLogger

	state         atomic.Int32
	untrustworthy atomic.Bool

	// lastTruncationPoint records the offset Load would need to truncate
	// the log to in order to discard a torn tail record. Set whenever
	// Load observes TruncatedRecord, even if RecoverTruncatedTail is
	// disabled, so a later explicit Repair() can still use it. Holds -1
	// while no torn tail has been observed.
	lastTruncationPoint atomic.Int64

	index      *index.Index
	compaction *compaction.Manager
	dataStore  *logstore.Store

	// sidecarIndexPath and sidecarIndexFile are only populated when
	// options.Layout == options.LayoutSidecar.
	sidecarIndexPath string
	sidecarIndexFile *os.File
}

// Config holds the parameters needed to open a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}
