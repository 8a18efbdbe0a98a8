package ssa

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// ErrFuncNotFound is returned when no built Function matches a path.
var ErrFuncNotFound = errors.New("function not found")

// funcs is slice of ssa.Function. Used only for sorting by Pos.
type funcs []*ssa.Function

func (f funcs) Len() int { return len(f) }
func (f funcs) Less(i, j int) bool {
	if f[i].Pos() != f[j].Pos() {
		return f[i].Pos() < f[j].Pos()
	}
	return f[i].String() < f[j].String()
}
func (f funcs) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

// Funcs returns the Functions with a body declared in the built packages,
// including anonymous functions, in source order.
func (info *Info) Funcs() []*ssa.Function {
	var fns funcs
	for fn := range ssautil.AllFunctions(info.Prog) {
		if fn.Pkg == nil || !info.built(fn.Pkg) {
			continue
		}
		if fn.Synthetic != "" || len(fn.Blocks) == 0 {
			continue
		}
		fns = append(fns, fn)
	}
	sort.Sort(fns)
	return fns
}

// FindFunc parses path (e.g. "github.com/nickng/dataflow/ssa".FindFunc, or
// just main) and returns the Function body in SSA IR.
//
// A path without package matches any built package. Anonymous functions are
// found by their SSA name, e.g. main$1.
func (info *Info) FindFunc(path string) (*ssa.Function, error) {
	pkgPath, fnName := parseFuncPath(path)
	for _, fn := range info.Funcs() {
		if pkgPath != "" && fn.Pkg.Pkg.Path() != pkgPath && fn.Pkg.Pkg.Name() != pkgPath {
			continue
		}
		if fn.Name() == fnName {
			return fn, nil
		}
	}
	return nil, errors.Wrapf(ErrFuncNotFound, "%s", path)
}

// parseFuncPath splits path to package and function segments.
// Does not handle complex functions with receivers.
func parseFuncPath(path string) (pkgPath, fnName string) {
	if len(path) < 1 {
		return "", ""
	}
	switch path[0] {
	case '(':
		regex := regexp.MustCompile(`\((?P<pkg>[^)]+)\).(?P<fn>.+)`)
		submatches := regex.FindStringSubmatch(path)
		if len(submatches) >= 3 {
			return submatches[1], submatches[2]
		}
	case '"':
		regex := regexp.MustCompile(`"(?P<pkg>[^"]+)".(?P<fn>.+)`)
		submatches := regex.FindStringSubmatch(path)
		if len(submatches) >= 3 {
			return submatches[1], submatches[2]
		}
	default:
		if i := strings.LastIndex(path, "."); i > 0 {
			return path[:i], path[i+1:]
		}
	}
	return "", path
}
