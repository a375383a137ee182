package errors

import stdErrors "errors"

// Sentinel errors for conditions that callers check with errors.Is rather
// than by extracting structured context. Each one is also wrapped as the
// cause of a richer error type above where additional context is available.
var (
	// ErrEndOfStream marks the clean end of the log during a sequential
	// scan. Load, Find and the mutations never return it; Engine.GetAt
	// returns it for an offset at or past the end of the log.
	ErrEndOfStream = stdErrors.New("ignitedb: end of stream")

	// ErrNotLoaded is returned when an operation that requires the index
	// to be loaded is attempted before Load has completed.
	ErrNotLoaded = stdErrors.New("ignitedb: index not loaded")

	// ErrReservedKey is returned when a caller attempts to write the
	// reserved index sentinel key through the public API. Reads of that
	// key report it as absent instead.
	ErrReservedKey = stdErrors.New("ignitedb: key is reserved for internal use")

	// ErrEngineClosed is returned when an operation is attempted on an
	// engine that has already been closed.
	ErrEngineClosed = stdErrors.New("ignitedb: engine is closed")

	// ErrEngineUntrustworthy is returned when a mutation is attempted on
	// an engine that observed corruption, a truncated record, or an index
	// desync and has not yet been repaired or had the condition
	// acknowledged.
	ErrEngineUntrustworthy = stdErrors.New("ignitedb: engine state is untrustworthy, call Repair or Acknowledge")
)

// NewReservedKeyError reports an attempt to mutate the reserved `+index`
// sentinel key through the public insert/update/delete path.
func NewReservedKeyError(key []byte) *ValidationError {
	return NewValidationError(ErrReservedKey, ErrorCodeReservedKey, "key is reserved for internal use").
		WithField("key").
		WithRule("reserved").
		WithProvided(string(key))
}

// NewNotLoadedError reports a read or mutation attempted while the engine is
// still Open-Unloaded. It wraps ErrNotLoaded so errors.Is keeps working for
// callers that only care about the condition, not the context.
func NewNotLoadedError() *ValidationError {
	return NewValidationError(ErrNotLoaded, ErrorCodeNotLoaded, "engine is not loaded").
		WithField("state").
		WithRule("loaded")
}
