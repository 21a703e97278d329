package algorithms

// degreeCentralityFn is the native degree centrality: each node's degree
// normalized by the number of other nodes.
func degreeCentralityFn(args []any, kwargs map[string]any) (any, error) {
	g, err := nativeGraph("degree_centrality", args, kwargs)
	if err != nil {
		return nil, err
	}
	centrality := make(map[string]float64, g.NumNodes())
	if g.NumNodes() <= 1 {
		for _, id := range g.Nodes() {
			centrality[id] = 0
		}
		return centrality, nil
	}
	scale := 1 / float64(g.NumNodes()-1)
	for _, id := range g.Nodes() {
		centrality[id] = float64(len(g.Neighbors(id))) * scale
	}
	return centrality, nil
}
