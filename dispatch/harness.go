package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/vk/polygraph/backend"
)

// bind matches the call arguments against the full declared parameter
// list, applying defaults, and returns a complete name-to-value map.
func (d *Dispatchable) bind(args []any, kwargs map[string]any) (map[string]any, error) {
	if len(args) > len(d.params) {
		return nil, &ArgumentError{Algorithm: d.name,
			Reason: fmt.Sprintf("takes at most %d positional arguments, got %d", len(d.params), len(args))}
	}
	bound := make(map[string]any, len(d.params))
	for i, v := range args {
		bound[d.params[i].Name] = v
	}
	for k, v := range kwargs {
		idx, ok := d.paramIndex[k]
		if !ok {
			return nil, &ArgumentError{Algorithm: d.name, Arg: k, Reason: "got an unexpected keyword argument"}
		}
		if idx < len(args) {
			return nil, &ArgumentError{Algorithm: d.name, Arg: k, Reason: "got multiple values for argument"}
		}
		bound[k] = v
	}
	for _, p := range d.params {
		if _, ok := bound[p.Name]; ok {
			continue
		}
		if p.Required {
			return nil, &ArgumentError{Algorithm: d.name, Arg: p.Name, Reason: "missing required argument"}
		}
		bound[p.Name] = p.Default
	}
	return bound, nil
}

// callConverted runs the call through a backend's conversion contract:
// bind everything, convert each graph argument into the backend's
// representation, run the backend implementation with the bound
// arguments, and convert the result back to native form.
//
// forced marks the process-wide conversion-forcing mode, where a missing
// algorithm is only a hard failure for the reference backend; any other
// backend yields the soft, expected-gap flavor of NotImplementedError so
// a replayed native test suite records a known gap instead of a failure.
func (d *Dispatchable) callConverted(name string, args []any, kwargs map[string]any, forced bool) (any, error) {
	b, err := backend.Load(name)
	if err != nil {
		return nil, err
	}
	fn, ok := b.Algorithm(d.name)
	if !ok {
		nie := &NotImplementedError{Algorithm: d.name, Backend: name}
		if forced && name != ReferenceBackend {
			nie.Expected = true
		}
		return nil, nie
	}

	bound, err := d.bind(args, kwargs)
	if err != nil {
		return nil, err
	}

	edgeAttrs, preserveEdge, err := d.edgePlan.resolve(d.name, bound)
	if err != nil {
		return nil, err
	}
	nodeAttrs, preserveNode, err := d.nodePlan.resolve(d.name, bound)
	if err != nil {
		return nil, err
	}
	opts := backend.ConvertOptions{
		EdgeAttrs:         edgeAttrs,
		NodeAttrs:         nodeAttrs,
		PreserveEdgeAttrs: preserveEdge,
		PreserveNodeAttrs: preserveNode,
		Algorithm:         d.name,
	}

	for _, ga := range d.graphs {
		g := bound[ga.name]
		if g == nil {
			continue
		}
		converted, err := d.convertGraph(b, name, g, opts)
		if err != nil {
			return nil, err
		}
		bound[ga.name] = converted
	}

	result, err := fn(nil, bound)
	if err != nil {
		return nil, err
	}
	return b.ConvertToNative(result, d.name)
}

// convertGraph converts one graph argument, consulting the input object's
// conversion cache when caching is enabled.
func (d *Dispatchable) convertGraph(b backend.Backend, name string, g any, opts backend.ConvertOptions) (any, error) {
	cacher, cacheable := g.(backend.Cacher)
	if !cacheable || !backend.CacheConvertedGraphs() {
		return b.ConvertFromNative(g, opts)
	}
	if cached, hit := cacher.CachedConversion(name); hit {
		if backend.WarningEnabled("cache") {
			slog.Warn("Using cached backend graph conversion; mutating the original graph will not refresh it.",
				"algorithm", d.name, "backend", name)
		}
		return cached, nil
	}
	converted, err := b.ConvertFromNative(g, opts)
	if err != nil {
		return nil, err
	}
	cacher.CacheConversion(name, converted)
	return converted, nil
}
