package algorithms

import (
	"container/heap"
	"fmt"
	"math"
)

// dijkstraPathLengthFn is the native weighted shortest-path distance.
// Edge weights are read from the attribute named by the weight argument;
// edges lacking the attribute count as 1.
func dijkstraPathLengthFn(args []any, kwargs map[string]any) (any, error) {
	g, err := nativeGraph("dijkstra_path_length", args, kwargs)
	if err != nil {
		return nil, err
	}
	source, err := stringArg("dijkstra_path_length", args, kwargs, 1, "source", "")
	if err != nil {
		return nil, err
	}
	target, err := stringArg("dijkstra_path_length", args, kwargs, 2, "target", "")
	if err != nil {
		return nil, err
	}
	weightAttr, err := stringArg("dijkstra_path_length", args, kwargs, 3, "weight", "weight")
	if err != nil {
		return nil, err
	}
	if !g.HasNode(source) {
		return nil, fmt.Errorf("dijkstra_path_length: source %q: %w", source, ErrNodeNotFound)
	}
	if !g.HasNode(target) {
		return nil, fmt.Errorf("dijkstra_path_length: target %q: %w", target, ErrNodeNotFound)
	}

	dist := map[string]float64{source: 0}
	done := make(map[string]bool)
	pq := &distQueue{{node: source, dist: 0}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(distItem)
		if done[item.node] {
			continue
		}
		if item.node == target {
			return item.dist, nil
		}
		done[item.node] = true
		for _, v := range g.Neighbors(item.node) {
			if done[v] {
				continue
			}
			w := 1.0
			if raw, ok := g.EdgeAttr(item.node, v, weightAttr); ok {
				w, err = toFloat(raw)
				if err != nil {
					return nil, fmt.Errorf("dijkstra_path_length: edge %q-%q attribute %q: %w", item.node, v, weightAttr, err)
				}
			}
			if next := item.dist + w; next < distOr(dist, v) {
				dist[v] = next
				heap.Push(pq, distItem{node: v, dist: next})
			}
		}
	}
	return nil, fmt.Errorf("dijkstra_path_length: %q -> %q: %w", source, target, ErrNoPath)
}

func distOr(dist map[string]float64, node string) float64 {
	if d, ok := dist[node]; ok {
		return d
	}
	return math.Inf(1)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}

type distItem struct {
	node string
	dist float64
}

type distQueue []distItem

func (q distQueue) Len() int            { return len(q) }
func (q distQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q distQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x any)         { *q = append(*q, x.(distItem)) }
func (q *distQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
