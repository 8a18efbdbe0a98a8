package cfg

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Reachable returns the indices of blocks reachable from the start, in
// ascending order. The start itself is included.
func (g *Graph) Reachable() []int {
	start := g.Start()
	if start == nil {
		return nil
	}
	dg := simple.NewDirectedGraph()
	for _, b := range g.blocks {
		dg.AddNode(simple.Node(b.Index))
	}
	for _, b := range g.blocks {
		for _, succ := range b.Succs {
			if succ == b.Index {
				continue // Self edges do not change reachability.
			}
			dg.SetEdge(dg.NewEdge(simple.Node(b.Index), simple.Node(succ)))
		}
	}
	var reached []int
	bf := traverse.BreadthFirst{
		Visit: func(n graph.Node) {
			reached = append(reached, int(n.ID()))
		},
	}
	bf.Walk(dg, simple.Node(start.Index), nil)
	sort.Ints(reached)
	return reached
}
