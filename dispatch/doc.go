// Package dispatch routes calls to named graph algorithms to one of
// several interchangeable implementations while keeping the algorithm's
// own logic backend-agnostic.
//
// A native algorithm is registered once under a canonical name together
// with a spec describing which of its parameters are graphs and which
// node/edge attributes a backend conversion should carry over. The
// resulting Dispatchable decides per call whether to run the native
// function or forward to a backend, selected by the tag of the graph
// arguments, by an explicit "backend" keyword argument, or by the
// process-wide settings.
//
// When the settings force a backend, every call instead goes through the
// conversion harness: inputs are converted into the backend's
// representation, the backend implementation runs, and the result is
// converted back. That mode exists so the native test suite can be
// replayed unmodified against a backend to validate its completeness.
//
// The algorithm registry is append-only, process-wide state without
// internal locking. Register algorithms during initialization; calls may
// then run from multiple goroutines as long as nothing mutates settings
// concurrently.
package dispatch
