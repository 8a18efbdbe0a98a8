// Package analysis holds what the concrete dataflow analyses over SSA
// functions share: locating named local variables and running the engine.
//
// The analyses key their facts by the interned declaration key of a local
// variable (see Key), and need functions built in naive form (see
// build.Configurer.Naive) so that locals stay Allocs.
package analysis

import (
	"fmt"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"

	"github.com/nickng/dataflow/cfg"
	"github.com/nickng/dataflow/fixpoint"
	"github.com/nickng/dataflow/ident"
)

// Locals returns the Allocs of fn that hold named local variables (including
// spilled parameters), interned by declaration key (see Key).
//
// An Alloc holds a named variable if it sits at the declaration of a
// variable of the same name; compiler temporaries (composite literals,
// varargs, ...) do not.
func Locals(fn *ssa.Function, names *ident.Interner) map[*ssa.Alloc]ident.Name {
	vars := declaredVars(fn)
	locals := make(map[*ssa.Alloc]ident.Name)
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			alloc, ok := instr.(*ssa.Alloc)
			if !ok {
				continue
			}
			if name, ok := vars[alloc.Pos()]; ok && name == alloc.Comment {
				locals[alloc] = names.Intern(Key(name, fn.Prog.Fset.Position(alloc.Pos())))
			}
		}
	}
	return locals
}

// Key returns the key of the variable name declared at pos, "name@line:col".
// Variables of one function shadowing each other have distinct keys.
func Key(name string, pos token.Position) string {
	return fmt.Sprintf("%s@%d:%d", name, pos.Line, pos.Column)
}

// varName returns the variable name of key.
func varName(key string) string {
	if i := strings.LastIndexByte(key, '@'); i >= 0 {
		return key[:i]
	}
	return key
}

// Escapes reports whether the variable of alloc may be accessed other than
// by loading it or storing to it directly, for example through a pointer
// or by a closure.
func Escapes(alloc *ssa.Alloc) bool {
	refs := alloc.Referrers()
	if refs == nil {
		return false
	}
	for _, ref := range *refs {
		switch ref := ref.(type) {
		case *ssa.UnOp:
			if ref.Op == token.MUL {
				continue
			}
		case *ssa.Store:
			if ref.Addr == alloc && ref.Val != ssa.Value(alloc) {
				continue
			}
		case *ssa.DebugRef:
			continue
		}
		return true
	}
	return false
}

// Find returns the fact of variable name in m. name is either a key or a
// plain variable name; a plain name shadowed in m matches nothing.
func Find[T any](m fixpoint.Map[ident.Name, T], names *ident.Interner, name string) (fact T, ok bool) {
	if id, found := names.Find(name); found {
		if fact, ok = m[id]; ok {
			return fact, true
		}
	}
	matches := 0
	for k, v := range m {
		key, err := names.Lookup(k)
		if err != nil || varName(key) != name {
			continue
		}
		fact = v
		matches++
	}
	if matches != 1 {
		var zero T
		return zero, false
	}
	return fact, true
}

// declaredVars returns the variables declared in the source function
// enclosing fn, by declaration position.
func declaredVars(fn *ssa.Function) map[token.Pos]string {
	for fn.Parent() != nil {
		fn = fn.Parent()
	}
	obj, ok := fn.Object().(*types.Func)
	if !ok || obj.Scope() == nil {
		return nil
	}
	vars := make(map[token.Pos]string)
	var walk func(s *types.Scope)
	walk = func(s *types.Scope) {
		for _, name := range s.Names() {
			if v, ok := s.Lookup(name).(*types.Var); ok && v.Pos().IsValid() {
				vars[v.Pos()] = name
			}
		}
		for i := 0; i < s.NumChildren(); i++ {
			walk(s.Child(i))
		}
	}
	walk(obj.Scope())
	return vars
}

// Run builds the control-flow graph of fn and runs a to a fixed point.
func Run[T comparable](fn *ssa.Function, a fixpoint.Analyser[ident.Name, T], tracer fixpoint.Tracer) (*cfg.Graph, *fixpoint.Result[ident.Name, T], error) {
	g, err := cfg.FromFunction(fn)
	if err != nil {
		return nil, nil, errors.Wrap(err, "analysis: cannot build control-flow graph")
	}
	e := fixpoint.New[ident.Name, T](a)
	e.SetTracer(tracer)
	return g, e.Run(g, fixpoint.Forward), nil
}

// Format renders facts as "name=fact" strings sorted by name. Variables
// shadowed in m are shown by key.
func Format[T fmt.Stringer](m fixpoint.Map[ident.Name, T], names *ident.Interner) []string {
	keys := make(map[ident.Name]string, len(m))
	count := make(map[string]int)
	for k := range m {
		key, err := names.Lookup(k)
		if err != nil {
			key = k.String()
		}
		keys[k] = key
		count[varName(key)]++
	}
	facts := make([]string, 0, len(m))
	for k, v := range m {
		name := varName(keys[k])
		if count[name] > 1 {
			name = keys[k]
		}
		facts = append(facts, fmt.Sprintf("%s=%s", name, v))
	}
	sort.Strings(facts)
	return facts
}
