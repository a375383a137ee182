// Package ignitedb provides a single-writer, append-only key/value data
// store designed for durability-first read and write operations,
// modeled on Bitcask. It combines an in-memory hash index (key to byte
// offset) with an append-only log on disk: every write is a sequential
// append, every read is at most one seek, and recovery after a crash
// replays the log or reloads a persisted index rather than trusting any
// in-place update to have completed cleanly.
//
// Instance is the primary entry point for interacting with the store. It
// is not safe for concurrent use: the underlying engine is
// single-threaded by design, matching the store's single-writer model.
package ignitedb

import (
	"context"

	"github.com/iamNilotpal/ignitedb/internal/engine"
	"github.com/iamNilotpal/ignitedb/pkg/logger"
	"github.com/iamNilotpal/ignitedb/pkg/options"
)

// Instance represents an open IgniteDB store. It encapsulates the core
// engine responsible for data handling and the configuration options
// applied to this instance.
type Instance struct {
	engine  *engine.Engine
	options *options.Options
}

// Open creates and initializes a new IgniteDB instance, creating its
// data directory and files if they do not already exist. The returned
// instance's index is empty; callers must call Load before any read or
// mutation is legal.
func Open(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	eng, err := engine.New(ctx, &engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// Load populates the in-memory index from durable state. In the embedded
// layout it scans the whole log once, taking each `+index` record it
// meets as a snapshot and replaying the records that follow it; in the
// sidecar layout it reads the sidecar index file only. It is idempotent.
func (i *Instance) Load(ctx context.Context) error {
	return i.engine.Load()
}

// Insert stores a new key-value pair. If the key already exists, its
// value is superseded by this write.
func (i *Instance) Insert(ctx context.Context, key string, value []byte) error {
	return i.engine.Insert([]byte(key), value)
}

// Update stores a new value for an existing key. Update behaves
// identically to Insert: both append a new record and update the index.
func (i *Instance) Update(ctx context.Context, key string, value []byte) error {
	return i.engine.Update([]byte(key), value)
}

// Get retrieves the current value associated with key via the in-memory
// index, reading exactly the one log record the index points at. The
// second return value reports whether the key was found.
func (i *Instance) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return i.engine.Get([]byte(key))
}

// GetAt retrieves the record stored at a specific log offset, bypassing
// the index. The returned key lets callers confirm what they landed on.
func (i *Instance) GetAt(ctx context.Context, offset int64) (key string, value []byte, ok bool, err error) {
	k, v, found, err := i.engine.GetAt(offset)
	return string(k), v, found, err
}

// Find retrieves the offset and value of the most recent record for key
// via a full linear scan of the log, ignoring the index entirely. Unlike
// Get, Find returns tombstone records instead of treating them as
// absent, so callers can observe deletion history. On every live key,
// Find and Get must agree.
func (i *Instance) Find(ctx context.Context, key string) (offset int64, value []byte, ok bool, err error) {
	return i.engine.Find([]byte(key))
}

// Delete marks key as deleted by appending a tombstone record. Deleting
// a key that does not exist is not an error.
func (i *Instance) Delete(ctx context.Context, key string) error {
	return i.engine.Delete([]byte(key))
}

// Flush persists the in-memory index immediately, regardless of the
// configured IndexPersistPolicy. It is the explicit flush point for
// instances opened with PersistManual.
func (i *Instance) Flush(ctx context.Context) error {
	return i.engine.Flush()
}

// Repair truncates the log to the last offset known to have decoded
// cleanly, discarding (and quarantining) any torn tail, clears the
// untrustworthy state, and reloads the index.
func (i *Instance) Repair(ctx context.Context) error {
	return i.engine.Repair()
}

// Acknowledge clears the untrustworthy state without truncating the
// log, for operators who have independently verified the condition that
// raised it no longer applies.
func (i *Instance) Acknowledge() {
	i.engine.Acknowledge()
}

// Close gracefully shuts down the instance, releasing all associated
// file handles.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
