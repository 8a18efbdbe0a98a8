// Package definedness implements a forward definite-assignment analysis of
// the named local variables of a function.
//
// A variable is Defined at a point if it is declared on every path reaching
// it, and PotentiallyDefined if only on some. Variables declared on no path
// have no fact.
package definedness

import (
	"golang.org/x/tools/go/ssa"

	"github.com/nickng/dataflow/analysis"
	"github.com/nickng/dataflow/cfg"
	"github.com/nickng/dataflow/fixpoint"
	"github.com/nickng/dataflow/ident"
)

// State is the definedness of a variable.
type State int

const (
	PotentiallyDefined State = iota + 1
	Defined
)

func (s State) String() string {
	switch s {
	case Defined:
		return "defined"
	case PotentiallyDefined:
		return "potentially-defined"
	}
	return "unknown"
}

// Analyser is the definedness fixpoint.Analyser of one function.
type Analyser struct {
	locals map[*ssa.Alloc]ident.Name
}

// New returns an Analyser for the locals of fn.
func New(fn *ssa.Function, names *ident.Interner) *Analyser {
	return &Analyser{locals: analysis.Locals(fn, names)}
}

func (a *Analyser) Merge(from, into State) State {
	if from == into {
		return into
	}
	return PotentiallyDefined
}

func (a *Analyser) MergeBlank(into State) State {
	return PotentiallyDefined
}

func (a *Analyser) ProcessBlock(m fixpoint.Map[ident.Name, State], b *cfg.Block) {
	if b.SSA == nil {
		return
	}
	for _, instr := range b.SSA.Instrs {
		switch instr := instr.(type) {
		case *ssa.Alloc: // Declaration, zero value.
			if name, ok := a.locals[instr]; ok {
				m[name] = Defined
			}
		case *ssa.Store:
			if alloc, ok := instr.Addr.(*ssa.Alloc); ok {
				if name, ok := a.locals[alloc]; ok {
					m[name] = Defined
				}
			}
		}
	}
}

// Result is the definedness of the locals of a function at each block exit.
type Result struct {
	*fixpoint.Result[ident.Name, State]
	Graph *cfg.Graph

	names *ident.Interner
}

// Run runs the analysis on fn, which should be built in naive form.
func Run(fn *ssa.Function, names *ident.Interner, tracer fixpoint.Tracer) (*Result, error) {
	g, res, err := analysis.Run[State](fn, New(fn, names), tracer)
	if err != nil {
		return nil, err
	}
	return &Result{Result: res, Graph: g, names: names}, nil
}

// State returns the definedness of variable name at the exit of block b.
// name is a plain variable name, or a key (see analysis.Key) for shadowed
// variables.
// ok is false if the block is unreached or the variable is undeclared there.
func (r *Result) State(b int, name string) (State, bool) {
	m, ok := r.At(b)
	if !ok {
		return 0, false
	}
	return analysis.Find(m, r.names, name)
}

// Facts returns the facts at the exit of block b as sorted "name=state".
func (r *Result) Facts(b int) []string {
	m, _ := r.At(b)
	return analysis.Format(m, r.names)
}
