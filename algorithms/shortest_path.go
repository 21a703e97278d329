package algorithms

import (
	"fmt"
)

// shortestPathFn is the native breadth-first shortest path.
func shortestPathFn(args []any, kwargs map[string]any) (any, error) {
	g, err := nativeGraph("shortest_path", args, kwargs)
	if err != nil {
		return nil, err
	}
	source, err := stringArg("shortest_path", args, kwargs, 1, "source", "")
	if err != nil {
		return nil, err
	}
	target, err := stringArg("shortest_path", args, kwargs, 2, "target", "")
	if err != nil {
		return nil, err
	}
	if !g.HasNode(source) {
		return nil, fmt.Errorf("shortest_path: source %q: %w", source, ErrNodeNotFound)
	}
	if !g.HasNode(target) {
		return nil, fmt.Errorf("shortest_path: target %q: %w", target, ErrNodeNotFound)
	}

	if source == target {
		return []string{source}, nil
	}

	parent := map[string]string{source: source}
	queue := []string{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.Neighbors(u) {
			if _, seen := parent[v]; seen {
				continue
			}
			parent[v] = u
			if v == target {
				return rebuildPath(parent, source, target), nil
			}
			queue = append(queue, v)
		}
	}
	return nil, fmt.Errorf("shortest_path: %q -> %q: %w", source, target, ErrNoPath)
}

func rebuildPath(parent map[string]string, source, target string) []string {
	var rev []string
	for at := target; ; at = parent[at] {
		rev = append(rev, at)
		if at == source {
			break
		}
	}
	path := make([]string, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}
