// Package constprop implements a forward analysis tracking which named local
// variables of a function hold a known constant.
package constprop

import (
	"go/types"

	"golang.org/x/tools/go/ssa"

	"github.com/nickng/dataflow/analysis"
	"github.com/nickng/dataflow/cfg"
	"github.com/nickng/dataflow/fixpoint"
	"github.com/nickng/dataflow/ident"
)

// Kind is the kind of a Value.
type Kind int

const (
	Const Kind = iota + 1
	Varying
)

// Value is the fact about a variable: either a constant, with its exact
// literal, or Varying.
type Value struct {
	Kind Kind
	Lit  string // Literal, only for Const.
}

// Constant returns the Value of constant literal lit.
func Constant(lit string) Value { return Value{Kind: Const, Lit: lit} }

var varying = Value{Kind: Varying}

func (v Value) String() string {
	if v.Kind == Const {
		return v.Lit
	}
	return "varying"
}

// Analyser is the constant tracking fixpoint.Analyser of one function.
//
// Locals whose address escapes (see analysis.Escapes) may change behind any
// instruction, so they are always Varying.
type Analyser struct {
	locals   map[*ssa.Alloc]ident.Name
	escaping map[*ssa.Alloc]bool
}

// New returns an Analyser for the locals of fn.
func New(fn *ssa.Function, names *ident.Interner) *Analyser {
	a := &Analyser{
		locals:   analysis.Locals(fn, names),
		escaping: make(map[*ssa.Alloc]bool),
	}
	for alloc := range a.locals {
		if analysis.Escapes(alloc) {
			a.escaping[alloc] = true
		}
	}
	return a
}

func (a *Analyser) Merge(from, into Value) Value {
	if from == into {
		return into
	}
	return varying
}

func (a *Analyser) MergeBlank(into Value) Value {
	return varying
}

func (a *Analyser) ProcessBlock(m fixpoint.Map[ident.Name, Value], b *cfg.Block) {
	if b.SSA == nil {
		return
	}
	for _, instr := range b.SSA.Instrs {
		switch instr := instr.(type) {
		case *ssa.Alloc:
			name, ok := a.locals[instr]
			if !ok {
				continue
			}
			if a.escaping[instr] {
				m[name] = varying
				continue
			}
			m[name] = zero(instr.Type().(*types.Pointer).Elem())
		case *ssa.Store:
			alloc, ok := instr.Addr.(*ssa.Alloc)
			if !ok {
				continue
			}
			name, ok := a.locals[alloc]
			if !ok {
				continue
			}
			if c, ok := instr.Val.(*ssa.Const); ok && c.Value != nil && !a.escaping[alloc] {
				m[name] = Constant(c.Value.ExactString())
			} else {
				m[name] = varying
			}
		}
	}
}

// zero returns the Value of a freshly declared variable of type t.
func zero(t types.Type) Value {
	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return varying
	}
	switch info := basic.Info(); {
	case info&types.IsBoolean != 0:
		return Constant("false")
	case info&types.IsString != 0:
		return Constant(`""`)
	case info&types.IsNumeric != 0:
		return Constant("0")
	}
	return varying
}

// Result is the constants held by locals of a function at each block exit.
type Result struct {
	*fixpoint.Result[ident.Name, Value]
	Graph *cfg.Graph

	names *ident.Interner
}

// Run runs the analysis on fn, which should be built in naive form.
func Run(fn *ssa.Function, names *ident.Interner, tracer fixpoint.Tracer) (*Result, error) {
	g, res, err := analysis.Run[Value](fn, New(fn, names), tracer)
	if err != nil {
		return nil, err
	}
	return &Result{Result: res, Graph: g, names: names}, nil
}

// Value returns the fact of variable name at the exit of block b. name is
// a plain variable name, or a key (see analysis.Key) for shadowed variables.
// ok is false if the block is unreached or the variable is undeclared there.
func (r *Result) Value(b int, name string) (Value, bool) {
	m, ok := r.At(b)
	if !ok {
		return Value{}, false
	}
	return analysis.Find(m, r.names, name)
}

// Facts returns the facts at the exit of block b as sorted "name=value".
func (r *Result) Facts(b int) []string {
	m, _ := r.At(b)
	return analysis.Format(m, r.names)
}
