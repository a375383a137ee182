// Package engine provides the core database engine for IgniteDB, a
// single-writer, append-only key-value store modeled on the Bitcask
// log-structured design.
//
// The engine composes three subsystems — the in-memory Index, the
// append-only log store, and (in the sidecar storage layout) a dedicated
// sidecar index file — into the public open/load/insert/get/get_at/find/
// update/delete contract. It coordinates index updates on writes, index
// rebuild or reload on open, and index persistence according to the
// configured policy.
//
// The engine is single-threaded and single-writer: it performs no
// internal locking. Callers that need concurrent access must serialize
// externally, for example with a mutex around the engine.
package engine

import (
	"bytes"
	"context"
	stdErrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/ignitedb/internal/codec"
	"github.com/iamNilotpal/ignitedb/internal/compaction"
	"github.com/iamNilotpal/ignitedb/internal/index"
	"github.com/iamNilotpal/ignitedb/internal/logstore"
	"github.com/iamNilotpal/ignitedb/pkg/errors"
	"github.com/iamNilotpal/ignitedb/pkg/filesys"
	"github.com/iamNilotpal/ignitedb/pkg/options"
	atomicfile "github.com/natefinch/atomic"
	"go.uber.org/multierr"
)

var reservedIndexKeyBytes = []byte(reservedIndexKey)

// New creates and initializes a new Engine instance, opening (and
// creating, if missing) its on-disk files. The returned Engine's index is
// empty; callers must call Load before any read or mutation.
func New(ctx context.Context, config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	opts := config.Options
	log := config.Logger

	if opts.MaxRecordSize < options.MinRecordSizeLimit || opts.MaxRecordSize > options.MaxRecordSizeLimit {
		return nil, errors.NewFieldRangeError(
			"maxRecordSize", opts.MaxRecordSize,
			options.MinRecordSizeLimit, options.MaxRecordSizeLimit,
		)
	}

	log.Infow(
		"opening engine",
		"dataDir", opts.DataDir,
		"layout", opts.Layout.String(),
		"maxRecordSize", opts.MaxRecordSize,
	)

	if err := filesys.CreateDir(opts.DataDir); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, opts.DataDir)
	}

	dataPath := filepath.Join(opts.DataDir, opts.DataFileName)
	existed, err := filesys.Exists(dataPath)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to check for existing data file").
			WithPath(dataPath)
	}

	dataStore, err := logstore.Open(&logstore.Config{
		Path:          dataPath,
		MaxRecordSize: opts.MaxRecordSize,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}
	log.Infow("data file resolved", "path", dataPath, "preexisting", existed)

	idx, err := index.New(&index.Config{Logger: log})
	if err != nil {
		dataStore.Close()
		return nil, err
	}

	eng := &Engine{
		options:    opts,
		log:        log,
		index:      idx,
		compaction: compaction.New(),
		dataStore:  dataStore,
	}

	if opts.Layout == options.LayoutSidecar {
		sidecarPath := filepath.Join(opts.DataDir, opts.IndexFileName)
		sidecarFile, err := os.OpenFile(sidecarPath, os.O_CREATE|os.O_RDONLY, 0644)
		if err != nil {
			dataStore.Close()
			return nil, errors.ClassifyFileOpenError(err, sidecarPath, opts.IndexFileName)
		}
		eng.sidecarIndexPath = sidecarPath
		eng.sidecarIndexFile = sidecarFile
	}

	eng.compaction.Start()
	eng.lastTruncationPoint.Store(-1)
	eng.state.Store(int32(stateOpenUnloaded))
	log.Infow("engine opened", "dataDir", opts.DataDir, "layout", opts.Layout.String())
	return eng, nil
}

// Close gracefully shuts down the engine, releasing every open file
// handle. Close is idempotent with respect to double-close detection: a
// second call returns ErrEngineClosed.
func (e *Engine) Close() error {
	if state(e.state.Swap(int32(stateClosed))) == stateClosed {
		return errors.ErrEngineClosed
	}

	e.log.Infow("closing engine")
	e.compaction.Stop()

	var closeErr error
	closeErr = multierr.Append(closeErr, e.dataStore.Close())
	if e.sidecarIndexFile != nil {
		closeErr = multierr.Append(closeErr, e.sidecarIndexFile.Close())
	}
	closeErr = multierr.Append(closeErr, e.index.Close())

	if closeErr != nil {
		e.log.Errorw("engine closed with errors", "error", closeErr)
	} else {
		e.log.Infow("engine closed successfully")
	}
	return closeErr
}

// ensureWritable verifies the engine is open, loaded, and trustworthy
// before a mutation proceeds.
func (e *Engine) ensureWritable() error {
	switch state(e.state.Load()) {
	case stateClosed:
		return errors.ErrEngineClosed
	case stateOpenUnloaded:
		return errors.NewNotLoadedError()
	}
	if e.untrustworthy.Load() {
		return errors.ErrEngineUntrustworthy
	}
	return nil
}

// ensureReadable verifies the engine is open and loaded. Unlike
// ensureWritable, it does not check the untrustworthy latch: only writes
// are refused after corruption, a truncated record, or an index desync —
// reads stay available so operators can inspect what survived.
func (e *Engine) ensureReadable() error {
	switch state(e.state.Load()) {
	case stateClosed:
		return errors.ErrEngineClosed
	case stateOpenUnloaded:
		return errors.NewNotLoadedError()
	}
	return nil
}

// markUntrustworthy latches the engine so further mutations are refused
// until Repair or Acknowledge is called.
func (e *Engine) markUntrustworthy() {
	e.untrustworthy.Store(true)
}

// noteReadFailure latches the engine untrustworthy when a read surfaces a
// condition that means the log itself can no longer be trusted — a checksum
// mismatch or a torn record. Plain I/O failures don't latch: they say
// nothing about the integrity of the bytes already on disk.
func (e *Engine) noteReadFailure(err error) {
	if ce, ok := errors.AsCodecError(err); ok {
		switch ce.Code() {
		case errors.ErrorCodeCorrupted, errors.ErrorCodeTruncatedRecord:
			e.markUntrustworthy()
		}
	}
}

// Acknowledge clears the untrustworthy latch without touching the log,
// for operators who have independently verified the condition that
// triggered it is no longer a concern.
func (e *Engine) Acknowledge() {
	e.untrustworthy.Store(false)
}

// Flush persists the index immediately, regardless of the configured
// IndexPersistPolicy. Intended for PersistManual policy's "application
// chosen flush point."
func (e *Engine) Flush() error {
	if err := e.ensureReadable(); err != nil {
		return err
	}
	return e.persistIndex()
}

// persistIndex writes the current index to durable storage using
// whichever strategy matches the configured storage layout. Both
// strategies store the same thing — a codec record keyed `+index` whose
// value is the serialized map — so the snapshot is CRC-protected exactly
// like any user record.
func (e *Engine) persistIndex() error {
	record := codec.Encode(reservedIndexKeyBytes, e.index.Serialize())

	if e.options.Layout == options.LayoutSidecar {
		return e.persistSidecarIndex(record)
	}

	if _, err := e.dataStore.Append(record); err != nil {
		return err
	}
	return nil
}

// persistSidecarIndex overwrites the sidecar index file from offset 0
// with a single encoded record, so only the latest serialization is ever
// kept. atomic.WriteFile gives that overwrite crash safety (temp file +
// fsync + rename) instead of an in-place truncate that could tear under a
// crash mid-write.
func (e *Engine) persistSidecarIndex(record []byte) error {
	if err := atomicfile.WriteFile(e.sidecarIndexPath, bytes.NewReader(record)); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to persist sidecar index").
			WithPath(e.sidecarIndexPath)
	}

	// atomic.WriteFile renames a new inode into place; the previously
	// opened read handle now refers to the unlinked old file, so it must
	// be reopened to observe the fresh contents on the next Load.
	newFile, err := os.OpenFile(e.sidecarIndexPath, os.O_RDONLY, 0644)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to reopen sidecar index after persist").
			WithPath(e.sidecarIndexPath)
	}
	e.sidecarIndexFile.Close()
	e.sidecarIndexFile = newFile
	return nil
}

// Load populates the in-memory index from durable state. It is idempotent:
// calling Load when the engine is already Open-Loaded is a no-op.
func (e *Engine) Load() error {
	switch state(e.state.Load()) {
	case stateClosed:
		return errors.ErrEngineClosed
	case stateOpenLoaded:
		return nil
	}

	e.index.Reset()

	var err error
	if e.options.Layout == options.LayoutSidecar {
		err = e.loadSidecar()
	} else {
		err = e.loadEmbedded()
	}
	if err != nil {
		e.log.Errorw(
			"load failed",
			"error", err,
			"code", errors.GetErrorCode(err),
			"details", errors.GetErrorDetails(err),
		)
		return err
	}

	e.state.Store(int32(stateOpenLoaded))
	e.log.Infow("engine loaded", "keys", e.index.Len())
	return nil
}

// loadEmbedded rebuilds the index from a single scan of the log. A
// `+index` record, located by the scan itself rather than a known fixed
// position, is applied as a seed at the point it is encountered in the
// scan, not as a final override: every user record that follows it —
// written after the snapshot under PersistManual, where a flush does not
// imply the log stops changing — is replayed forward on top of that seed,
// so the result always reflects the live state of the log regardless of
// how many `+index` records it contains or where the most recent one
// falls.
func (e *Engine) loadEmbedded() error {
	scanner := e.dataStore.Scan(0)
	for {
		offset, kv, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return e.handleLoadError(err, offset)
		}

		if bytes.Equal(kv.Key, reservedIndexKeyBytes) {
			if err := e.index.Deserialize(kv.Value); err != nil {
				e.markUntrustworthy()
				return err
			}
			continue
		}

		key := string(kv.Key)
		if kv.IsTombstone() {
			e.index.Remove(key)
		} else {
			e.index.Put(key, uint64(offset))
		}
	}

	return nil
}

// loadSidecar decodes every record in the sidecar index file in sequence;
// the last successfully decoded record wins. The data file is not
// scanned.
func (e *Engine) loadSidecar() error {
	if _, err := e.sidecarIndexFile.Seek(0, io.SeekStart); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek sidecar index file").
			WithPath(e.sidecarIndexPath)
	}

	info, err := e.sidecarIndexFile.Stat()
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat sidecar index file").
			WithPath(e.sidecarIndexPath)
	}
	if info.Size() == 0 {
		return nil
	}

	var lastValue []byte
	var offset int64
	for {
		kv, recordLen, derr := codec.Decode(e.sidecarIndexFile, offset, e.options.MaxRecordSize)
		if derr != nil {
			if stdErrors.Is(derr, errors.ErrEndOfStream) {
				break
			}
			e.markUntrustworthy()
			return derr
		}
		lastValue = kv.Value
		offset += int64(recordLen)
	}

	if lastValue != nil {
		if err := e.index.Deserialize(lastValue); err != nil {
			e.markUntrustworthy()
			return err
		}
	}
	return nil
}

// handleLoadError interprets a scan failure during Load. TruncatedRecord
// is recoverable when options.RecoverTruncatedTail is set: the offending
// tail is quarantined and truncated, then Load retries once against the
// now-clean log. Other record-level failures (corruption, oversize)
// latch the engine untrustworthy. A failure that is not a record-level
// one — a genuine I/O fault from the device — surfaces unchanged and
// does not latch: it says nothing about the integrity of the bytes on
// disk, and must never be answered with a truncation.
func (e *Engine) handleLoadError(err error, offset int64) error {
	codecErr, ok := errors.AsCodecError(err)
	if !ok {
		return err
	}

	if codecErr.Code() == errors.ErrorCodeTruncatedRecord {
		e.lastTruncationPoint.Store(offset)

		if !e.options.RecoverTruncatedTail {
			e.markUntrustworthy()
			return err
		}

		quarantinePath, terr := e.dataStore.TruncateToLastGood(offset)
		if terr != nil {
			e.markUntrustworthy()
			return terr
		}
		e.log.Infow("recovered from truncated tail", "offset", offset, "quarantine", quarantinePath)
		e.lastTruncationPoint.Store(-1)
		e.index.Reset()
		return e.loadEmbedded()
	}

	e.markUntrustworthy()
	return err
}

// Repair truncates the log to the last known-good record offset observed
// during a previous failed Load (quarantining the discarded tail first),
// clears the untrustworthy latch, and reloads the index. It is the
// explicit counterpart to RecoverTruncatedTail for engines opened without
// that option.
func (e *Engine) Repair() error {
	if state(e.state.Load()) == stateClosed {
		return errors.ErrEngineClosed
	}

	lastGood := e.lastTruncationPoint.Load()
	if lastGood < 0 {
		return errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "no torn tail recorded, nothing to repair",
		).WithField("lastTruncationPoint").WithRule("recorded")
	}

	quarantinePath, err := e.dataStore.TruncateToLastGood(lastGood)
	if err != nil {
		return err
	}

	e.log.Infow("repaired engine", "truncatedTo", lastGood, "quarantine", quarantinePath)
	e.untrustworthy.Store(false)
	e.lastTruncationPoint.Store(-1)
	e.index.Reset()
	e.state.Store(int32(stateOpenUnloaded))
	return e.Load()
}
