package track

// shared is the process-wide Tracker every instrumented package's
// generated prelude variable points at (internal/loader materializes one
// `var __racemop_tracker__ = racemoptrack.Shared()` per instrumented
// package directory). A single shared Tracker, rather than one per
// package, is what lets a binding span packages — e.g. a handle opened in
// one package and closed via a method on it called from another — since
// Dispatcher routes by (type, method) regardless of which package's
// instrumented code fired the event.
var shared = NewTracker()

// Shared returns the process-wide Tracker. cmd/racemop's injected
// main-function prelude wires internal/lifecycle.NewCoordinator to this
// same Tracker's Dispatcher so every specification sees every package's
// events.
func Shared() *Tracker {
	return shared
}
