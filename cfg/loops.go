package cfg

import (
	"sort"

	"github.com/yourbasic/graph"
)

// Order implements the graph.Iterator interface for the Graph.
func (g *Graph) Order() int {
	return len(g.blocks)
}

// Visit implements the graph.Iterator interface for the Graph.
func (g *Graph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if !g.valid(v) {
		return false
	}
	for _, w := range g.blocks[v].Succs {
		if do(w, 1) {
			return true
		}
	}
	return false
}

// Loops returns the strongly connected components of the Graph that contain
// a cycle. Each component is sorted, and components are ordered by their
// smallest block index.
func (g *Graph) Loops() [][]int {
	var loops [][]int
	for _, comp := range graph.StrongComponents(g) {
		if len(comp) == 1 && !g.selfEdge(comp[0]) {
			continue
		}
		sort.Ints(comp)
		loops = append(loops, comp)
	}
	sort.Slice(loops, func(i, j int) bool { return loops[i][0] < loops[j][0] })
	return loops
}

func (g *Graph) selfEdge(v int) bool {
	for _, w := range g.blocks[v].Succs {
		if w == v {
			return true
		}
	}
	return false
}
