package engine

import (
	"bytes"
	"io"

	"github.com/iamNilotpal/ignitedb/internal/codec"
	"github.com/iamNilotpal/ignitedb/pkg/errors"
	"github.com/iamNilotpal/ignitedb/pkg/options"
)

// Insert appends a new record for key and updates the index to point at
// it. Insert and Update are identical operations on this store: both
// simply append and reindex, since the log is append-only and the index
// always tracks the most recent offset for a key.
func (e *Engine) Insert(key, value []byte) error {
	return e.write(key, value)
}

// Update appends a new record for key, superseding any earlier value.
// See Insert.
func (e *Engine) Update(key, value []byte) error {
	return e.write(key, value)
}

func (e *Engine) write(key, value []byte) error {
	if err := e.ensureWritable(); err != nil {
		return err
	}
	if len(key) == 0 {
		return errors.NewRequiredFieldError("key")
	}
	if bytes.Equal(key, reservedIndexKeyBytes) {
		return errors.NewReservedKeyError(key)
	}

	record := codec.Encode(key, value)
	offset, err := e.dataStore.Append(record)
	if err != nil {
		return err
	}

	e.index.Put(string(key), uint64(offset))

	if e.options.IndexPersistPolicy == options.PersistAlways {
		if err := e.persistIndex(); err != nil {
			return err
		}
	}
	return nil
}

// Delete appends a tombstone record for key and removes it from the
// index. Deleting a key that does not exist is not an error.
func (e *Engine) Delete(key []byte) error {
	if err := e.ensureWritable(); err != nil {
		return err
	}
	if len(key) == 0 {
		return errors.NewRequiredFieldError("key")
	}
	if bytes.Equal(key, reservedIndexKeyBytes) {
		return errors.NewReservedKeyError(key)
	}

	record := codec.Encode(key, nil)
	if _, err := e.dataStore.Append(record); err != nil {
		return err
	}

	e.index.Remove(string(key))

	if e.options.IndexPersistPolicy == options.PersistAlways {
		if err := e.persistIndex(); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the current value for key, consulting the index for its
// offset and reading only that one record from the log. The reserved
// index key is never visible through Get: requesting it behaves as if
// it is absent, never as an error.
func (e *Engine) Get(key []byte) ([]byte, bool, error) {
	if err := e.ensureReadable(); err != nil {
		return nil, false, err
	}
	if bytes.Equal(key, reservedIndexKeyBytes) {
		return nil, false, nil
	}

	offset, ok := e.index.Get(string(key))
	if !ok {
		return nil, false, nil
	}

	kv, err := e.dataStore.ReadAt(int64(offset))
	if err != nil {
		e.noteReadFailure(err)
		return nil, false, err
	}

	if !bytes.Equal(kv.Key, key) {
		e.markUntrustworthy()
		return nil, false, errors.NewIndexDesyncError(string(key), int64(offset))
	}

	if kv.IsTombstone() {
		return nil, false, nil
	}
	return kv.Value, true, nil
}

// GetAt reads the record at a specific log offset directly, bypassing
// the index entirely. It exists for administrative and diagnostic
// callers that retained an offset from a prior read or from an external
// record of where a write landed.
func (e *Engine) GetAt(offset int64) ([]byte, []byte, bool, error) {
	if err := e.ensureReadable(); err != nil {
		return nil, nil, false, err
	}

	kv, err := e.dataStore.ReadAt(offset)
	if err != nil {
		e.noteReadFailure(err)
		return nil, nil, false, err
	}

	if bytes.Equal(kv.Key, reservedIndexKeyBytes) {
		return nil, nil, false, nil
	}
	if kv.IsTombstone() {
		return kv.Key, nil, false, nil
	}
	return kv.Key, kv.Value, true, nil
}

// Find performs a full linear scan of the log from the beginning,
// returning the offset and value of the most recent record for key
// without consulting the index. Unlike Get, Find returns tombstone
// records rather than treating them as absent, so callers can observe
// deletion history: after insert(k,v); delete(k), find(k) reports the
// tombstone's offset with an empty value, not "not found". On every
// live key, Find and Get must agree on both offset and value, which
// makes Find the independent cross-check for a distrusted index.
// Requesting the reserved index key behaves as if it is absent,
// matching Get.
func (e *Engine) Find(key []byte) (int64, []byte, bool, error) {
	if err := e.ensureReadable(); err != nil {
		return 0, nil, false, err
	}

	var (
		found      bool
		lastOffset int64
		lastValue  []byte
	)

	scanner := e.dataStore.Scan(0)
	for {
		offset, kv, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			e.noteReadFailure(err)
			return 0, nil, false, err
		}

		if bytes.Equal(kv.Key, reservedIndexKeyBytes) {
			continue
		}
		if bytes.Equal(kv.Key, key) {
			found = true
			lastOffset = offset
			lastValue = kv.Value
		}
	}

	if !found {
		return 0, nil, false, nil
	}
	return lastOffset, lastValue, true, nil
}
