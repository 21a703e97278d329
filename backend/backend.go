// Package backend defines the contract a graph backend must satisfy and
// the process-wide registry through which backends are discovered.
//
// A backend is an alternate implementation of one or more algorithms
// operating on its own graph representation. Backends register themselves
// by name during initialization, typically from an init function, and are
// loaded lazily the first time a dispatched call needs them.
//
// The registry and the Settings store are process-wide state without
// internal locking: register backends and adjust settings during
// initialization, before concurrent calls begin.
package backend

// AlgorithmFunc is the calling convention shared by native algorithms and
// backend implementations: positional arguments plus keyword arguments,
// one result, one error.
type AlgorithmFunc func(args []any, kwargs map[string]any) (any, error)

// ConvertOptions carries the attribute-conversion parameters computed by
// the dispatch layer for one ConvertFromNative call.
type ConvertOptions struct {
	// EdgeAttrs maps edge attribute names to the default used when an
	// edge lacks the attribute. Nil means no edge attributes are
	// converted. Ignored when PreserveEdgeAttrs is set.
	EdgeAttrs map[string]any
	// NodeAttrs is EdgeAttrs for node attributes.
	NodeAttrs map[string]any
	// PreserveEdgeAttrs asks for all edge attributes to be carried over.
	PreserveEdgeAttrs bool
	// PreserveNodeAttrs asks for all node attributes to be carried over.
	PreserveNodeAttrs bool
	// Algorithm is the canonical name of the algorithm the conversion is
	// for, for backend-side logging or specialization.
	Algorithm string
}

// Backend is the contract a plugin must implement.
type Backend interface {
	// Algorithm returns the backend's implementation of the named
	// algorithm, or false if the backend does not provide one.
	Algorithm(name string) (AlgorithmFunc, bool)
	// ConvertFromNative converts a native graph into the backend's own
	// representation, honoring opts.
	ConvertFromNative(g any, opts ConvertOptions) (any, error)
	// ConvertToNative converts an algorithm result back to native form.
	ConvertToNative(result any, algorithm string) (any, error)
}

// Tagged is the capability marking a graph object as owned by a backend's
// representation. Objects without it are native graphs.
type Tagged interface {
	// GraphBackend returns the name of the owning backend.
	GraphBackend() string
}

// Cacher is the capability letting a graph object cache its backend
// conversions, keyed by backend name. Implementations must drop the cache
// when the graph is mutated.
type Cacher interface {
	CachedConversion(backend string) (any, bool)
	CacheConversion(backend string, converted any)
}

// TagOf returns the backend tag of g, or "" for native graphs.
func TagOf(g any) string {
	if t, ok := g.(Tagged); ok {
		return t.GraphBackend()
	}
	return ""
}

// TestCase is one item of a native test suite about to be replayed against
// a backend in conversion-forcing mode.
type TestCase struct {
	// Name identifies the test case.
	Name string
	// ExpectFail holds the backend's reason for expecting the case to
	// fail. Empty means the case must pass.
	ExpectFail string
}

// TestMarker is the optional capability backing a backend's test hook. A
// replay driver hands the backend the full set of discovered test cases
// before running them, and the backend marks the ones it knows it cannot
// satisfy.
type TestMarker interface {
	OnStartTests(items []*TestCase)
}

// MarkTests invokes a backend's test hook with the discovered cases.
// Backends without the capability leave every case unmarked. It reports
// whether the backend had the hook.
func MarkTests(b Backend, items []*TestCase) bool {
	m, ok := b.(TestMarker)
	if ok {
		m.OnStartTests(items)
	}
	return ok
}
