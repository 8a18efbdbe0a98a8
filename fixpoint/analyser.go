// Package fixpoint implements a forward dataflow fixed-point engine over a
// cfg.Graph.
//
// A client analysis supplies an Analyser: a transfer function for blocks and
// two merge operations over its fact type. The engine computes, for every
// block reachable from the start, the facts that hold at block exit.
//
// Facts are kept per variable in a Map. A variable absent from a Map means
// "no information". Termination requires Merge and MergeBlank to be monotone
// over an order of finite height; the engine does not detect violations and
// will not return for analysers that break this.
package fixpoint

import "github.com/nickng/dataflow/cfg"

// Map holds the facts of one program point, keyed by variable.
type Map[K comparable, T any] map[K]T

// Clone returns an independent copy of m. The result is never nil.
func (m Map[K, T]) Clone() Map[K, T] {
	c := make(Map[K, T], len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Analyser is the capability a concrete analysis provides to the engine.
type Analyser[K comparable, T comparable] interface {
	// Merge combines the fact from arriving along an edge with the fact into
	// already known for the same variable at the successor's entry.
	//
	// Merge is applied edge by edge, in the order predecessors are
	// processed, so non-commutative merges see that order.
	Merge(from, into T) T

	// MergeBlank combines the fact into with "no information", for a variable
	// known on one path but absent on another.
	MergeBlank(into T) T

	// ProcessBlock is the transfer function of block b. It is given a copy
	// of the entry facts, which may be empty, and updates it in place to the
	// exit facts.
	ProcessBlock(m Map[K, T], b *cfg.Block)
}
