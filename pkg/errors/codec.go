package errors

// CodecError is a specialized error type for record encode/decode failures.
// It embeds baseError to inherit the standard error functionality, then adds
// the context needed to pinpoint exactly which record on disk failed to
// decode and why.
type CodecError struct {
	*baseError
	offset           int64  // Byte offset in the log where the record begins.
	expectedChecksum uint32 // Checksum stored in the record header.
	actualChecksum   uint32 // Checksum recomputed from the key/value bytes actually read.
}

// NewCodecError creates a new codec-specific error.
func NewCodecError(err error, code ErrorCode, msg string) *CodecError {
	return &CodecError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *CodecError instead of *baseError.

// WithMessage updates the error message while maintaining the CodecError type.
func (ce *CodecError) WithMessage(msg string) *CodecError {
	ce.baseError.WithMessage(msg)
	return ce
}

// WithCode sets the error code while preserving the CodecError type.
func (ce *CodecError) WithCode(code ErrorCode) *CodecError {
	ce.baseError.WithCode(code)
	return ce
}

// WithDetail adds contextual information while maintaining the CodecError type.
func (ce *CodecError) WithDetail(key string, value any) *CodecError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithOffset records where in the log the failing record begins.
func (ce *CodecError) WithOffset(offset int64) *CodecError {
	ce.offset = offset
	return ce
}

// WithChecksums records the checksum mismatch that triggered a corruption error.
func (ce *CodecError) WithChecksums(expected, actual uint32) *CodecError {
	ce.expectedChecksum = expected
	ce.actualChecksum = actual
	return ce
}

// Offset returns the byte offset of the record that failed to decode.
func (ce *CodecError) Offset() int64 {
	return ce.offset
}

// ExpectedChecksum returns the checksum read from the record header.
func (ce *CodecError) ExpectedChecksum() uint32 {
	return ce.expectedChecksum
}

// ActualChecksum returns the checksum recomputed from the record payload.
func (ce *CodecError) ActualChecksum() uint32 {
	return ce.actualChecksum
}

// NewEndOfStreamError signals a clean end of the log between records.
// Scanners treat it as normal termination and do not pass it on; a
// positional read through Engine.GetAt at an offset at or past the end of
// the log does return it.
func NewEndOfStreamError(offset int64) *CodecError {
	return NewCodecError(ErrEndOfStream, ErrorCodeEndOfStream, "end of stream").
		WithOffset(offset)
}

// NewTruncatedRecordError reports end-of-file encountered partway through a
// record header or payload, meaning the previous write was never completed.
func NewTruncatedRecordError(offset int64, cause error) *CodecError {
	return NewCodecError(cause, ErrorCodeTruncatedRecord, "truncated record").
		WithOffset(offset).
		WithDetail("recovery_required", true)
}

// NewCorruptionError reports a checksum mismatch between a record's header
// and the key/value bytes that follow it.
func NewCorruptionError(offset int64, expected, actual uint32) *CodecError {
	return NewCodecError(nil, ErrorCodeCorrupted, "record checksum mismatch").
		WithOffset(offset).
		WithChecksums(expected, actual)
}

// NewOversizedRecordError reports a declared combined key and value length
// that exceeds the configured maximum record size, refused before reading
// the payload off disk.
func NewOversizedRecordError(offset int64, declared, max uint64) *CodecError {
	return NewCodecError(nil, ErrorCodeOversizedRecord, "record exceeds maximum size").
		WithOffset(offset).
		WithDetail("declared_size", declared).
		WithDetail("max_size", max)
}
