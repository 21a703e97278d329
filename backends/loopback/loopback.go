// Package loopback is the canonical reference backend. It "implements"
// every registered algorithm by converting the native graph into its own
// tagged wrapper, delegating to the native function, and converting the
// result back. Running the native test suite with this backend forced
// validates the dispatch and conversion machinery end to end.
//
// Importing the package registers the backend; nothing is loaded until a
// dispatched call first needs it.
package loopback

import (
	"fmt"

	"github.com/vk/polygraph/backend"
	"github.com/vk/polygraph/dispatch"
	"github.com/vk/polygraph/graph"
)

// Name is the backend's registered name. dispatch.ReferenceBackend must
// match it.
const Name = dispatch.ReferenceBackend

func init() {
	backend.Register(Name, func() (backend.Backend, error) {
		return backendImpl{}, nil
	})
}

// Graph is the backend's graph representation: a native graph carrying
// the loopback tag and only the attributes the conversion asked for.
type Graph struct {
	*graph.Graph
}

// GraphBackend marks the wrapper as owned by the loopback backend.
func (g *Graph) GraphBackend() string { return Name }

type backendImpl struct{}

// Algorithm delegates every registered algorithm to its native
// implementation, unwrapping loopback graphs first. The arguments arrive
// fully bound by keyword from the conversion harness.
func (backendImpl) Algorithm(name string) (backend.AlgorithmFunc, bool) {
	d, ok := dispatch.Lookup(name)
	if !ok {
		return nil, false
	}
	native := d.Native()
	fn := func(args []any, kwargs map[string]any) (any, error) {
		unwrappedArgs := make([]any, len(args))
		for i, v := range args {
			unwrappedArgs[i] = unwrap(v)
		}
		unwrappedKwargs := make(map[string]any, len(kwargs))
		for k, v := range kwargs {
			unwrappedKwargs[k] = unwrap(v)
		}
		return native(unwrappedArgs, unwrappedKwargs)
	}
	return fn, true
}

func unwrap(v any) any {
	if lg, ok := v.(*Graph); ok {
		return lg.Graph
	}
	return v
}

// ConvertFromNative copies the native graph into a tagged wrapper,
// carrying over the requested node and edge attributes with their
// defaults.
func (backendImpl) ConvertFromNative(g any, opts backend.ConvertOptions) (any, error) {
	ng, ok := g.(*graph.Graph)
	if !ok {
		return nil, fmt.Errorf("loopback: cannot convert %T; expected a *graph.Graph", g)
	}

	out := graph.New()
	for _, id := range ng.Nodes() {
		out.AddNode(id, convertAttrs(opts.PreserveNodeAttrs, opts.NodeAttrs, func(attr string) (any, bool) {
			return ng.NodeAttr(id, attr)
		}, func() graph.Attrs {
			return ng.NodeAttrs(id)
		}))
	}
	for _, e := range ng.Edges() {
		out.AddEdge(e.U, e.V, convertAttrs(opts.PreserveEdgeAttrs, opts.EdgeAttrs, func(attr string) (any, bool) {
			return ng.EdgeAttr(e.U, e.V, attr)
		}, func() graph.Attrs {
			return e.Attrs
		}))
	}
	return &Graph{Graph: out}, nil
}

// convertAttrs selects the attributes to carry over for one node or edge:
// everything when preserving, otherwise only the requested names with
// their declared defaults filling gaps.
func convertAttrs(preserveAll bool, requested map[string]any, lookup func(string) (any, bool), all func() graph.Attrs) graph.Attrs {
	if preserveAll {
		copied := make(graph.Attrs)
		for k, v := range all() {
			copied[k] = v
		}
		return copied
	}
	if len(requested) == 0 {
		return nil
	}
	attrs := make(graph.Attrs, len(requested))
	for name, def := range requested {
		if v, ok := lookup(name); ok {
			attrs[name] = v
		} else if def != nil {
			attrs[name] = def
		}
	}
	return attrs
}

// ConvertToNative unwraps loopback graphs; any other result is already
// native.
func (backendImpl) ConvertToNative(result any, algorithm string) (any, error) {
	if lg, ok := result.(*Graph); ok {
		return lg.Graph, nil
	}
	return result, nil
}
