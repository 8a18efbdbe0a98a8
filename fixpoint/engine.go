package fixpoint

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/nickng/dataflow/cfg"
)

// ErrReverseUnsupported is the panic value when a reverse analysis is
// requested. Backward analyses must be run over an inverted graph instead.
var ErrReverseUnsupported = errors.New("fixpoint: reverse analysis is not supported")

// Direction is the direction facts flow along the graph edges.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	}
	return "unknown"
}

// Result holds the exit facts of every block reached by the engine.
type Result[K comparable, T comparable] struct {
	Exit        map[int]Map[K, T] // Exit facts by block index.
	Evaluations int               // Number of transfer function calls.
	Blocks      int               // Number of blocks in the graph.
}

// At returns the exit facts of block b. ok is false if b was never reached.
func (r *Result[K, T]) At(b int) (m Map[K, T], ok bool) {
	m, ok = r.Exit[b]
	return m, ok
}

// Reached returns the indices of the reached blocks in ascending order.
func (r *Result[K, T]) Reached() []int {
	reached := make([]int, 0, len(r.Exit))
	for b := range r.Exit {
		reached = append(reached, b)
	}
	sort.Ints(reached)
	return reached
}

// PerBlock returns the average number of evaluations per block of the graph.
func (r *Result[K, T]) PerBlock() float64 {
	if r.Blocks == 0 {
		return 0
	}
	return float64(r.Evaluations) / float64(r.Blocks)
}

// Engine runs an Analyser to a fixed point.
type Engine[K comparable, T comparable] struct {
	analyser Analyser[K, T]
	tracer   Tracer
}

// New returns an Engine for a, with tracing disabled.
func New[K comparable, T comparable](a Analyser[K, T]) *Engine[K, T] {
	return &Engine[K, T]{analyser: a, tracer: nopTracer{}}
}

// SetTracer sets the Tracer notified of the engine's progress. A nil t
// disables tracing.
func (e *Engine[K, T]) SetTracer(t Tracer) {
	if t == nil {
		t = nopTracer{}
	}
	e.tracer = t
}

// Run computes the exit facts of every block of g reachable from its start.
//
// Run panics with ErrReverseUnsupported unless dir is Forward. A graph with
// no start reaches no block.
func (e *Engine[K, T]) Run(g *cfg.Graph, dir Direction) *Result[K, T] {
	if dir != Forward {
		panic(errors.Wrapf(ErrReverseUnsupported, "direction %s", dir))
	}
	s := newSolver(g, e.analyser, e.tracer)
	s.solve()
	return s.result()
}

// Compute is a shorthand for New(a).Run(g, dir).
func Compute[K comparable, T comparable](g *cfg.Graph, a Analyser[K, T], dir Direction) *Result[K, T] {
	return New(a).Run(g, dir)
}

// solver holds the state of one engine run.
type solver[K comparable, T comparable] struct {
	graph    *cfg.Graph
	analyser Analyser[K, T]
	tracer   Tracer

	starting map[int]Map[K, T] // Facts at block entry, once reached.
	ending   map[int]Map[K, T] // Facts at block exit, once evaluated.
	work     *worklist

	evaluations int
}

func newSolver[K comparable, T comparable](g *cfg.Graph, a Analyser[K, T], t Tracer) *solver[K, T] {
	return &solver[K, T]{
		graph:    g,
		analyser: a,
		tracer:   t,
		starting: make(map[int]Map[K, T]),
		ending:   make(map[int]Map[K, T]),
		work:     newWorklist(),
	}
}

func (s *solver[K, T]) solve() {
	root := s.graph.Start()
	if root == nil {
		s.tracer.Summary(s.graph.Len(), 0)
		return
	}
	s.starting[root.Index] = make(Map[K, T])
	s.work.push(root)
	for {
		b, ok := s.work.pop()
		if !ok {
			break
		}
		s.evaluate(b)
	}
	s.tracer.Summary(s.graph.Len(), s.evaluations)
}

// evaluate runs the transfer function of b on its entry facts and merges
// the exit facts into each successor, queueing the successors that changed.
func (s *solver[K, T]) evaluate(b *cfg.Block) {
	s.evaluations++
	initial := s.starting[b.Index]
	s.tracer.EnterBlock(b, len(initial))

	ending := initial.Clone()
	s.analyser.ProcessBlock(ending, b)

	for _, succ := range b.Succs {
		if s.propagate(ending, succ) {
			s.work.push(s.graph.Block(succ))
		}
	}
	s.ending[b.Index] = ending
}

// propagate merges the exit facts of a predecessor into the entry facts of
// block succ, and reports whether they changed.
func (s *solver[K, T]) propagate(ending Map[K, T], succ int) bool {
	next, reached := s.starting[succ]
	if !reached {
		s.starting[succ] = ending.Clone()
		return true
	}

	changed := false
	for k, v := range ending {
		cur, ok := next[k]
		if !ok {
			// Unknown along every edge seen so far.
			next[k] = s.analyser.MergeBlank(v)
			changed = true
			continue
		}
		if merged := s.analyser.Merge(v, cur); merged != cur {
			next[k] = merged
			changed = true
		}
	}
	for k, cur := range next {
		if _, ok := ending[k]; ok {
			continue
		}
		if merged := s.analyser.MergeBlank(cur); merged != cur {
			next[k] = merged
			changed = true
		}
	}
	return changed
}

func (s *solver[K, T]) result() *Result[K, T] {
	return &Result[K, T]{
		Exit:        s.ending,
		Evaluations: s.evaluations,
		Blocks:      s.graph.Len(),
	}
}
