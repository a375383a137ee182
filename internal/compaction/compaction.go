// Package compaction reserves the engine's slot for a background
// compaction coordinator. Compaction (rewriting the log to discard dead
// records) is deliberately unimplemented in this store: the log grows
// monotonically and is never rewritten, so superseded records are
// reclaimed only by offline tooling. Manager is therefore inert: it
// accepts a Start call and does nothing with it.
package compaction

// Manager is a placeholder compaction coordinator. No method on Manager
// schedules or performs any rewriting of the log.
type Manager struct {
	started bool
}

// New returns an inert Manager.
func New() *Manager {
	return &Manager{}
}

// Start records that compaction was requested to start. It never runs
// any compaction work; the recorded flag is reported by Running.
func (m *Manager) Start() {
	m.started = true
}

// Stop clears the flag set by Start. Like Start, it performs no
// compaction work.
func (m *Manager) Stop() {
	m.started = false
}

// Running reports whether Start has been called without a matching Stop.
func (m *Manager) Running() bool {
	return m.started
}
