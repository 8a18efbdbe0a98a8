package fixpoint

import (
	"container/heap"

	"github.com/nickng/dataflow/cfg"
)

// blockHeap is a min-heap of blocks ordered by index.
type blockHeap []*cfg.Block

func (h blockHeap) Len() int           { return len(h) }
func (h blockHeap) Less(i, j int) bool { return h[i].Index < h[j].Index }
func (h blockHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *blockHeap) Push(x any) {
	*h = append(*h, x.(*cfg.Block))
}

func (h *blockHeap) Pop() any {
	old := *h
	n := len(old)
	b := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return b
}

// worklist is the set of blocks pending evaluation.
//
// Blocks come out lowest index first, which for a forward analysis is close
// to topological order. A block is held at most once.
type worklist struct {
	queue   blockHeap
	pending map[int]bool
}

func newWorklist() *worklist {
	return &worklist{pending: make(map[int]bool)}
}

// push adds b unless it is already pending, and reports whether it was added.
func (w *worklist) push(b *cfg.Block) bool {
	if w.pending[b.Index] {
		return false
	}
	w.pending[b.Index] = true
	heap.Push(&w.queue, b)
	return true
}

// pop removes the pending block with the smallest index.
func (w *worklist) pop() (*cfg.Block, bool) {
	if len(w.queue) == 0 {
		return nil, false
	}
	b := heap.Pop(&w.queue).(*cfg.Block)
	delete(w.pending, b.Index)
	return b, true
}

func (w *worklist) size() int {
	return len(w.queue)
}
