// Package index provides the in-memory hash table implementation for the
// IgniteDB key-value store. This package embodies the core Bitcask
// architectural principle: keep every live key in memory, mapped to the
// byte offset of its most recent record, so a read never needs more than
// one seek.
//
// The serialized form (Serialize/Deserialize) is a small self-describing
// binary encoding: a four-byte entry count, then for each entry a
// four-byte key length, the key bytes, and an eight-byte little-endian
// offset. Both storage layouts persist this same encoding as the value of
// a `+index` record — the embedded layout appends that record to the log,
// the sidecar layout keeps it as the single record of a dedicated file.
package index

import (
	"bytes"
	"encoding/binary"
	stdErrors "errors"
	"io"

	"github.com/iamNilotpal/ignitedb/pkg/errors"
)

var (
	ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")
)

// New creates and initializes an empty Index.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:     config.Logger,
		offsets: make(map[string]uint64, 1024),
	}, nil
}

// Get returns the offset recorded for key and whether an entry exists.
func (idx *Index) Get(key string) (uint64, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	offset, ok := idx.offsets[key]
	return offset, ok
}

// Put records offset as the most recent location of key, replacing any
// prior entry.
func (idx *Index) Put(key string, offset uint64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.offsets[key] = offset
}

// Remove deletes key's entry, if any.
func (idx *Index) Remove(key string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.offsets, key)
}

// Len returns the number of live keys currently tracked.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.offsets)
}

// Range calls fn for every (key, offset) pair. fn must not mutate the
// Index; Range holds a read lock for its entire duration. Iteration order
// is unspecified.
func (idx *Index) Range(fn func(key string, offset uint64)) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for k, v := range idx.offsets {
		fn(k, v)
	}
}

// Reset discards every entry, leaving the Index empty. Used before every
// reload of the index so stale entries from a prior load never linger.
func (idx *Index) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	clear(idx.offsets)
}

// Serialize encodes the current key->offset map into its self-describing
// binary form.
func (idx *Index) Serialize() []byte {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var buf bytes.Buffer
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(idx.offsets)))
	buf.Write(countBuf[:])

	for key, offset := range idx.offsets {
		var keyLenBuf [4]byte
		binary.LittleEndian.PutUint32(keyLenBuf[:], uint32(len(key)))
		buf.Write(keyLenBuf[:])
		buf.WriteString(key)

		var offsetBuf [8]byte
		binary.LittleEndian.PutUint64(offsetBuf[:], offset)
		buf.Write(offsetBuf[:])
	}

	return buf.Bytes()
}

// Deserialize decodes a byte slice produced by Serialize into a fresh
// Index, replacing any entries the Index already held.
func (idx *Index) Deserialize(data []byte) error {
	r := bytes.NewReader(data)

	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return errors.NewIndexCorruptionError("Deserialize", 0, err)
	}
	count := binary.LittleEndian.Uint32(countBuf[:])

	decoded := make(map[string]uint64, count)
	for i := uint32(0); i < count; i++ {
		var keyLenBuf [4]byte
		if _, err := io.ReadFull(r, keyLenBuf[:]); err != nil {
			return errors.NewIndexCorruptionError("Deserialize", int(i), err)
		}
		keyLen := binary.LittleEndian.Uint32(keyLenBuf[:])

		keyBuf := make([]byte, keyLen)
		if _, err := io.ReadFull(r, keyBuf); err != nil {
			return errors.NewIndexCorruptionError("Deserialize", int(i), err)
		}

		var offsetBuf [8]byte
		if _, err := io.ReadFull(r, offsetBuf[:]); err != nil {
			return errors.NewIndexCorruptionError("Deserialize", int(i), err)
		}

		decoded[string(keyBuf)] = binary.LittleEndian.Uint64(offsetBuf[:])
	}

	idx.mu.Lock()
	idx.offsets = decoded
	idx.mu.Unlock()
	return nil
}

// Close releases the Index's resources. The Index cannot be used after
// closure.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.log.Infow("closing index")

	idx.mu.Lock()
	defer idx.mu.Unlock()
	clear(idx.offsets)
	idx.offsets = nil

	idx.log.Infow("index closed successfully")
	return nil
}
