// Package logstore owns the append-only data file that backs an IgniteDB
// engine. It is deliberately ignorant of keys, values, and the index: it
// knows only how to append bytes, read bytes back from a given offset, and
// scan the file sequentially, leaving record interpretation to
// internal/codec.
//
// The file is opened with create + read/write + append. Writes always go
// to the end of the file regardless of any prior seek — the OS enforces
// this under O_APPEND — so the store tracks its own size instead of
// deriving the next append offset from a pre-write seek position, which
// under append mode is advisory only.
package logstore

import (
	stdErrors "errors"
	"io"
	"os"

	"github.com/iamNilotpal/ignitedb/internal/codec"
	"github.com/iamNilotpal/ignitedb/pkg/errors"
	"github.com/iamNilotpal/ignitedb/pkg/quarantine"
)

// Open creates the log file if it doesn't exist and positions the Store at
// its current end-of-file offset.
func Open(config *Config) (*Store, error) {
	if config == nil || config.Path == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "logstore configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	config.Logger.Infow("opening log file", "path", config.Path)

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, config.Path, config.Path)
	}

	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek to end of log file").
			WithPath(config.Path)
	}

	config.Logger.Infow("log file opened", "path", config.Path, "size", size)

	return &Store{
		file:          file,
		path:          config.Path,
		size:          size,
		maxRecordSize: config.MaxRecordSize,
		log:           config.Logger,
	}, nil
}

// Size returns the current length of the log in bytes — the offset the
// next Append will begin at.
func (s *Store) Size() int64 {
	return s.size
}

// Path returns the filesystem path of the underlying log file.
func (s *Store) Path() string {
	return s.path
}

// Append writes record bytes to the end of the log and returns the offset
// at which the write began. This is the offset the index must remember,
// not the position after the write.
func (s *Store) Append(record []byte) (int64, error) {
	offset := s.size

	n, err := s.file.Write(record)
	if err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to append record").
			WithPath(s.path).
			WithOffset(int(offset))
	}

	s.size += int64(n)
	return offset, nil
}

// Sync flushes the log file's in-kernel buffers to durable storage.
func (s *Store) Sync() error {
	if err := s.file.Sync(); err != nil {
		return errors.ClassifySyncError(err, s.path, s.path, int(s.size))
	}
	return nil
}

// ReadAt decodes one record starting at the given offset.
func (s *Store) ReadAt(offset int64) (codec.KeyValuePair, error) {
	section := io.NewSectionReader(s.file, offset, s.size-offset)
	kv, _, err := codec.Decode(section, offset, s.maxRecordSize)
	return kv, err
}

// Scanner sequentially decodes records starting from a given offset. It is
// finite and not restartable: once Next reports io.EOF or another error,
// the Scanner is exhausted.
type Scanner struct {
	section       *io.SectionReader
	offset        int64
	maxRecordSize uint64
}

// Scan returns a Scanner beginning at fromOffset. The scan runs to the
// store's size as observed at the time Scan is called; records appended
// afterward are not visited by this Scanner.
func (s *Store) Scan(fromOffset int64) *Scanner {
	return &Scanner{
		section:       io.NewSectionReader(s.file, fromOffset, s.size-fromOffset),
		offset:        fromOffset,
		maxRecordSize: s.maxRecordSize,
	}
}

// Next decodes the next record. It returns io.EOF once the scan reaches a
// clean record boundary at the end of the scanned range — the idiomatic Go
// signal for exhausted iteration, translated from the codec's internal
// EndOfStream error. Any other error aborts the scan; the caller must not
// call Next again afterward.
func (sc *Scanner) Next() (int64, codec.KeyValuePair, error) {
	offset := sc.offset

	kv, recordLen, err := codec.Decode(sc.section, offset, sc.maxRecordSize)
	if err != nil {
		if stdErrors.Is(err, errors.ErrEndOfStream) {
			return offset, codec.KeyValuePair{}, io.EOF
		}
		return offset, codec.KeyValuePair{}, err
	}

	sc.offset += int64(recordLen)
	return offset, kv, nil
}

// TruncateToLastGood quarantines the current log file (copying it aside
// for operator inspection) and then truncates it to lastGoodOffset,
// discarding the torn tail record. The Store then seeks to the new end of
// the file and resets its tracked size, so subsequent appends continue
// correctly from the truncated size.
func (s *Store) TruncateToLastGood(lastGoodOffset int64) (quarantinePath string, err error) {
	quarantinePath, err = quarantine.Preserve(s.path)
	if err != nil {
		return "", errors.NewStorageError(err, errors.ErrorCodeRecoveryFailed, "failed to quarantine log before truncation").
			WithPath(s.path)
	}

	if err := s.file.Truncate(lastGoodOffset); err != nil {
		return quarantinePath, errors.NewStorageError(err, errors.ErrorCodeRecoveryFailed, "failed to truncate log to last good record").
			WithPath(s.path).
			WithOffset(int(lastGoodOffset))
	}

	if _, err := s.file.Seek(0, io.SeekEnd); err != nil {
		return quarantinePath, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek after truncation").
			WithPath(s.path)
	}

	s.size = lastGoodOffset
	s.log.Infow("log truncated after recovery", "path", s.path, "newSize", s.size, "quarantine", quarantinePath)
	return quarantinePath, nil
}

// ErrStoreClosed is returned by Close when called on a Store that has
// already been closed.
var ErrStoreClosed = stdErrors.New("logstore: already closed")

// Close flushes and releases the underlying file handle. A second call
// returns ErrStoreClosed rather than closing an already-released handle
// again.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrStoreClosed
	}

	if err := s.file.Sync(); err != nil {
		s.log.Errorw("failed to sync log file on close", "path", s.path, "error", err)
	}
	return s.file.Close()
}
