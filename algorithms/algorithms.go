// Package algorithms provides the native graph algorithms shipped with
// the library, registered with the dispatch layer under their canonical
// names. Importing the package is what makes them dispatchable.
//
// Each exported function is a typed front over the registered wrapper, so
// ordinary callers never build argument lists by hand while still going
// through backend dispatch.
package algorithms

import (
	"errors"
	"fmt"

	"github.com/vk/polygraph/dispatch"
	"github.com/vk/polygraph/graph"
)

// ErrNodeNotFound reports a source or target that is not in the graph.
var ErrNodeNotFound = errors.New("node not found in graph")

// ErrNoPath reports that no path exists between source and target.
var ErrNoPath = errors.New("no path between source and target")

var (
	shortestPathAlgo = dispatch.MustRegister(dispatch.Def{
		Name: "shortest_path",
		Func: shortestPathFn,
		Params: []dispatch.Param{
			{Name: "G", Required: true},
			{Name: "source", Required: true},
			{Name: "target", Required: true},
		},
	})

	dijkstraPathLengthAlgo = dispatch.MustRegister(dispatch.Def{
		Name: "dijkstra_path_length",
		Func: dijkstraPathLengthFn,
		Params: []dispatch.Param{
			{Name: "G", Required: true},
			{Name: "source", Required: true},
			{Name: "target", Required: true},
			{Name: "weight", Default: "weight"},
		},
		// The weight argument holds the edge attribute name to convert.
		EdgeAttrs: "weight",
	})

	degreeCentralityAlgo = dispatch.MustRegister(dispatch.Def{
		Name: "degree_centrality",
		Func: degreeCentralityFn,
		Params: []dispatch.Param{
			{Name: "G", Required: true},
		},
	})
)

// ShortestPath returns a minimum-hop path from source to target.
func ShortestPath(g any, source, target string) ([]string, error) {
	res, err := shortestPathAlgo.Call([]any{g, source, target}, nil)
	if err != nil {
		return nil, err
	}
	path, ok := res.([]string)
	if !ok {
		return nil, fmt.Errorf("shortest_path: backend returned %T, expected []string", res)
	}
	return path, nil
}

// DijkstraPathLength returns the weighted shortest-path distance from
// source to target, reading edge weights from weightAttr (missing weights
// count as 1).
func DijkstraPathLength(g any, source, target, weightAttr string) (float64, error) {
	res, err := dijkstraPathLengthAlgo.Call([]any{g, source, target, weightAttr}, nil)
	if err != nil {
		return 0, err
	}
	length, ok := res.(float64)
	if !ok {
		return 0, fmt.Errorf("dijkstra_path_length: backend returned %T, expected float64", res)
	}
	return length, nil
}

// DegreeCentrality returns the fraction of nodes each node is connected
// to.
func DegreeCentrality(g any) (map[string]float64, error) {
	res, err := degreeCentralityAlgo.Call([]any{g}, nil)
	if err != nil {
		return nil, err
	}
	centrality, ok := res.(map[string]float64)
	if !ok {
		return nil, fmt.Errorf("degree_centrality: backend returned %T, expected map[string]float64", res)
	}
	return centrality, nil
}

// argAt reads one argument of a native call by position or keyword.
func argAt(args []any, kwargs map[string]any, pos int, name string, def any) any {
	if pos < len(args) {
		return args[pos]
	}
	if v, ok := kwargs[name]; ok && v != nil {
		return v
	}
	return def
}

// nativeGraph extracts the graph argument of a native call.
func nativeGraph(algorithm string, args []any, kwargs map[string]any) (*graph.Graph, error) {
	v := argAt(args, kwargs, 0, "G", nil)
	g, ok := v.(*graph.Graph)
	if !ok {
		return nil, fmt.Errorf("%s: native implementation needs a *graph.Graph, got %T", algorithm, v)
	}
	return g, nil
}

func stringArg(algorithm string, args []any, kwargs map[string]any, pos int, name string, def string) (string, error) {
	v := argAt(args, kwargs, pos, name, nil)
	if v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: argument %q must be a string, got %T", algorithm, name, v)
	}
	return s, nil
}
