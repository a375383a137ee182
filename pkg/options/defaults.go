package options

const (
	// Specifies the default base directory where IgniteDB will store its data files.
	// If no other directory is specified during initialization, this path will be used.
	DefaultDataDir = "/var/lib/ignitedb"

	// Specifies the default name of the log file in the embedded storage layout,
	// and of the data file in the sidecar storage layout.
	DefaultDataFileName = "data"

	// Specifies the default name of the sidecar index file in the sidecar
	// storage layout. Unused in the embedded layout.
	DefaultIndexFileName = "index"

	// Represents the default cap on a single record's combined key and value
	// length, in bytes (64MB). Records declaring a larger combined length are
	// rejected with OversizedRecord before their payload is read off disk.
	DefaultMaxRecordSize uint64 = 64 * 1024 * 1024

	// Represents the largest cap an operator may configure for a single
	// record's combined key and value length (1GB).
	MaxRecordSizeLimit uint64 = 1 * 1024 * 1024 * 1024

	// Represents the smallest cap an operator may configure for a single
	// record's combined key and value length (1KB).
	MinRecordSizeLimit uint64 = 1024
)

// StorageLayout selects how the index is persisted relative to the log.
type StorageLayout int

const (
	// LayoutEmbedded keeps the serialized index in the log itself, under
	// the reserved key `+index`. The store is the single file
	// DataDir/DataFileName.
	LayoutEmbedded StorageLayout = iota

	// LayoutSidecar keeps the serialized index in a dedicated file next to
	// the log. DataDir holds two files, DataFileName and IndexFileName.
	LayoutSidecar
)

// String renders the layout the way log lines and CLI flags expect it.
func (l StorageLayout) String() string {
	switch l {
	case LayoutEmbedded:
		return "embedded"
	case LayoutSidecar:
		return "sidecar"
	default:
		return "unknown"
	}
}

// IndexPersistPolicy selects when the index is flushed to durable storage.
type IndexPersistPolicy int

const (
	// PersistAlways persists the index after every mutation. This is the
	// simplest model and the one that makes every clean close durable by
	// construction.
	PersistAlways IndexPersistPolicy = iota

	// PersistManual only persists the index when the caller invokes
	// Engine.Flush. This trades a window of potential index loss (bounded
	// by the embedded variant's ability to rebuild from the log, or the
	// sidecar variant's last flush) for fewer index writes under heavy
	// mutation traffic.
	PersistManual
)

// Holds the default configuration settings for an IgniteDB instance.
var defaultOptions = Options{
	DataDir:              DefaultDataDir,
	DataFileName:         DefaultDataFileName,
	IndexFileName:        DefaultIndexFileName,
	Layout:               LayoutEmbedded,
	MaxRecordSize:        DefaultMaxRecordSize,
	IndexPersistPolicy:   PersistAlways,
	RecoverTruncatedTail: false,
}

// NewDefaultOptions returns a copy of the package's default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
