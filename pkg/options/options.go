// Package options provides data structures and functions for configuring
// IgniteDB. It defines the parameters that control the store's on-disk
// layout and index-persistence behavior, using the functional-options
// pattern so callers only specify what differs from the defaults.
package options

import (
	"strings"
)

// Options defines the configuration parameters for an IgniteDB engine.
type Options struct {
	// Specifies the directory where files will be stored, in both layouts.
	// In the embedded layout it holds the single log file `DataFileName`;
	// in the sidecar layout it holds `DataFileName` and `IndexFileName`.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// Selects whether the index lives inside the log (LayoutEmbedded) or
	// in a dedicated sidecar file (LayoutSidecar).
	//
	// Default: LayoutEmbedded
	Layout StorageLayout `json:"layout"`

	// Names the log file. In the sidecar layout this file holds only user
	// records; in the embedded layout it also holds `+index` records.
	//
	// Default: "data"
	DataFileName string `json:"dataFileName"`

	// Names the sidecar index file. Unused in the embedded layout.
	//
	// Default: "index"
	IndexFileName string `json:"indexFileName"`

	// Caps the combined key+value length of a single record. Records
	// declaring a larger combined length are refused with OversizedRecord
	// before their payload is read.
	//
	// Default: 64MB
	MaxRecordSize uint64 `json:"maxRecordSize"`

	// Controls when the index is persisted to durable storage.
	//
	// Default: PersistAlways
	IndexPersistPolicy IndexPersistPolicy `json:"indexPersistPolicy"`

	// When true, Engine.Load quarantines and truncates a log whose tail
	// record is incomplete instead of failing with TruncatedRecord.
	//
	// Default: false
	RecoverTruncatedTail bool `json:"recoverTruncatedTail"`
}

// OptionFunc is a function type that modifies IgniteDB's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to the package defaults.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDataDir sets the data directory (in both layouts).
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithLayout selects the storage layout.
func WithLayout(layout StorageLayout) OptionFunc {
	return func(o *Options) {
		o.Layout = layout
	}
}

// WithDataFileName overrides the log file's name (both layouts).
func WithDataFileName(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.DataFileName = name
		}
	}
}

// WithIndexFileName overrides the sidecar index file's name.
func WithIndexFileName(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.IndexFileName = name
		}
	}
}

// WithMaxRecordSize overrides the oversized-record cap.
func WithMaxRecordSize(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinRecordSizeLimit && size <= MaxRecordSizeLimit {
			o.MaxRecordSize = size
		}
	}
}

// WithIndexPersistPolicy overrides when the index is flushed to disk.
func WithIndexPersistPolicy(policy IndexPersistPolicy) OptionFunc {
	return func(o *Options) {
		o.IndexPersistPolicy = policy
	}
}

// WithRecoverTruncatedTail enables quarantine-and-truncate recovery for a
// torn write at the tail of the log, instead of failing Load outright.
func WithRecoverTruncatedTail(enabled bool) OptionFunc {
	return func(o *Options) {
		o.RecoverTruncatedTail = enabled
	}
}
