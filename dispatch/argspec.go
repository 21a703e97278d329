package dispatch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// graphArg is one compiled entry of an algorithm's graph-argument spec.
type graphArg struct {
	name     string
	pos      int
	optional bool
}

// parseGraphs normalizes the Graphs field of a Def: either a single
// required parameter name, or a name-to-position map where a trailing "?"
// marks the parameter optional. Entries are ordered by position so later
// resolution and tag collection are deterministic.
func parseGraphs(spec any) ([]graphArg, error) {
	switch v := spec.(type) {
	case nil:
		return []graphArg{{name: "G", pos: 0}}, nil
	case string:
		if v == "" {
			return nil, errors.New("graph parameter name is empty")
		}
		return []graphArg{{name: strings.TrimSuffix(v, "?"), pos: 0, optional: strings.HasSuffix(v, "?")}}, nil
	case map[string]int:
		if len(v) == 0 {
			return nil, errors.New("graphs spec must contain at least one parameter name")
		}
		out := make([]graphArg, 0, len(v))
		for name, pos := range v {
			optional := strings.HasSuffix(name, "?")
			name = strings.TrimSuffix(name, "?")
			if name == "" {
				return nil, errors.New("graph parameter name is empty")
			}
			if pos < 0 {
				return nil, fmt.Errorf("graph parameter %q has negative position %d", name, pos)
			}
			out = append(out, graphArg{name: name, pos: pos, optional: optional})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].pos < out[j].pos })
		for i := 1; i < len(out); i++ {
			if out[i].pos == out[i-1].pos {
				return nil, fmt.Errorf("graph parameters %q and %q share position %d",
					out[i-1].name, out[i].name, out[i].pos)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("graphs spec must be a string or map[string]int, got %T", spec)
	}
}

// resolvedGraph is one graph argument bound to its per-call value.
type resolvedGraph struct {
	name  string
	value any
}

// resolveGraphs binds the graph-argument spec against the actual call
// arguments. A parameter supplied both positionally and by keyword, a
// missing required parameter, and a nil required parameter each fail; a
// nil or absent optional parameter is skipped.
func (d *Dispatchable) resolveGraphs(args []any, kwargs map[string]any) ([]resolvedGraph, error) {
	resolved := make([]resolvedGraph, 0, len(d.graphs))
	for _, ga := range d.graphs {
		var value any
		if ga.pos < len(args) {
			if _, both := kwargs[ga.name]; both {
				return nil, &ArgumentError{Algorithm: d.name, Arg: ga.name, Reason: "got multiple values for argument"}
			}
			value = args[ga.pos]
		} else if v, ok := kwargs[ga.name]; ok {
			value = v
		} else if !ga.optional {
			return nil, &ArgumentError{Algorithm: d.name, Arg: ga.name, Reason: "missing required graph argument"}
		} else {
			continue
		}
		if value == nil {
			if !ga.optional {
				return nil, &ArgumentError{Algorithm: d.name, Arg: ga.name, Reason: "required graph argument is nil; must be a graph"}
			}
			continue
		}
		resolved = append(resolved, resolvedGraph{name: ga.name, value: value})
	}
	return resolved, nil
}
